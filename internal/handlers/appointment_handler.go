package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/authz"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	ucAppointment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
)

type ShopLookup interface {
	GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	shops ShopLookup
	authz *authz.Authorizer

	create     *ucAppointment.CreateAppointment
	reschedule *ucAppointment.RescheduleAppointment
	transition *ucAppointment.TransitionAppointment
	get        *ucAppointment.GetAppointment
	list       *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	shops ShopLookup,
	az *authz.Authorizer,
	create *ucAppointment.CreateAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	transition *ucAppointment.TransitionAppointment,
	get *ucAppointment.GetAppointment,
	list *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		shops:      shops,
		authz:      az,
		create:     create,
		reschedule: reschedule,
		transition: transition,
		get:        get,
		list:       list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	// BarberID defaults to the caller for staff.
	BarberID  uint `json:"barber_id"`
	ClientID  uint `json:"client_id" binding:"required"`
	ServiceID uint `json:"service_id" binding:"required"`

	Start string `json:"start"`
	Date  string `json:"date"`
	Time  string `json:"time"`

	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	Start string `json:"start"`
	Date  string `json:"date"`
	Time  string `json:"time"`

	DurationMinutes int `json:"duration_minutes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	p, ok := principalOf(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	barberID := req.BarberID
	if barberID == 0 {
		if p.IsClient() {
			httperr.BadRequest(c, "barber_required", "Informe o barbeiro.")
			return
		}
		barberID = p.UserID
	}

	ctx := c.Request.Context()

	if err := h.authz.CanBook(ctx, p, p.BarbershopID, barberID, req.ClientID); err != nil {
		httperr.Respond(c, err)
		return
	}

	shop, err := h.shops.GetBarbershopByID(ctx, p.BarbershopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	start, err := parseStartInShop(shop, req.Start, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	ap, err := h.create.Execute(ctx, ucAppointment.CreateAppointmentInput{
		BarbershopID:    p.BarbershopID,
		BarberID:        barberID,
		ClientID:        req.ClientID,
		ServiceID:       req.ServiceID,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		ActorID:         &p.UserID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// GET
// ======================================================

// visible loads the appointment and checks the caller may see it.
func (h *AppointmentHandler) visible(c *gin.Context, p authz.Principal) (*models.Appointment, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}

	if err := h.authz.CanViewAppointment(c.Request.Context(), p, ap); err != nil {
		// other shops' ids are indistinguishable from missing ones
		httperr.Respond(c, domain.NotFound("appointment", id))
		return nil, false
	}
	return ap, true
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	p, ok := principalOf(c)
	if !ok {
		return
	}

	ap, ok := h.visible(c, p)
	if !ok {
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	p, ok := principalOf(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, ok := h.visible(c, p)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	shop, err := h.shops.GetBarbershopByID(ctx, ap.BarbershopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	start, err := parseStartInShop(shop, req.Start, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	updated, err := h.reschedule.Execute(ctx, ucAppointment.RescheduleAppointmentInput{
		AppointmentID:   ap.ID,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		ActorID:         &p.UserID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, updated)
}

// ======================================================
// STATUS CHANGES
// ======================================================

// Transition returns the handler for one state machine action.
func (h *AppointmentHandler) Transition(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principalOf(c)
		if !ok {
			return
		}

		ap, ok := h.visible(c, p)
		if !ok {
			return
		}

		ctx := c.Request.Context()

		if err := h.authz.CanTransition(ctx, p, ap, action); err != nil {
			httperr.Respond(c, err)
			return
		}

		updated, err := h.transition.Execute(ctx, ap.ID, action, &p.UserID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		httpresp.OK(c, updated)
	}
}

// UpdateStatus takes the action from the request body.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	h.Transition(action)(c)
}

// ======================================================
// LISTS
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	p, ok := principalOf(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data.")
		return
	}

	barberID, ok := barberOrSelf(c, p)
	if !ok {
		return
	}

	if err := h.authz.CanViewAgenda(p, p.BarbershopID, barberID); err != nil {
		httperr.Respond(c, err)
		return
	}

	items, err := h.list.ByDate(c.Request.Context(), p.BarbershopID, barberID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	p, ok := principalOf(c)
	if !ok {
		return
	}

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_date", "Ano ou mês inválido.")
		return
	}

	barberID, ok := barberOrSelf(c, p)
	if !ok {
		return
	}

	if err := h.authz.CanViewAgenda(p, p.BarbershopID, barberID); err != nil {
		httperr.Respond(c, err)
		return
	}

	items, err := h.list.ByMonth(c.Request.Context(), p.BarbershopID, barberID, year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, items)
}
