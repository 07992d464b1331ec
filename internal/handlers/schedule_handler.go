package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/authz"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type ScheduleStore interface {
	GetBarber(ctx context.Context, barberID uint) (*models.User, error)

	ListWorkingWindows(ctx context.Context, barberID uint) ([]models.WorkingWindow, error)
	ReplaceWorkingWindows(ctx context.Context, barberID uint, rows []models.WorkingWindow) error

	ListOperatingHours(ctx context.Context, barbershopID uint) ([]models.OperatingHours, error)
	ReplaceOperatingHours(ctx context.Context, barbershopID uint, rows []models.OperatingHours) error
}

// ScheduleInvalidator drops cached windows after a write.
type ScheduleInvalidator interface {
	InvalidateBarber(barberID uint)
	InvalidateShop(barbershopID uint)
}

type ScheduleHandler struct {
	store ScheduleStore
	authz *authz.Authorizer
	cache ScheduleInvalidator
}

func NewScheduleHandler(store ScheduleStore, az *authz.Authorizer, cache ScheduleInvalidator) *ScheduleHandler {
	return &ScheduleHandler{store: store, authz: az, cache: cache}
}

type WorkingWindowInput struct {
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

type WorkingWindowsUpdateRequest struct {
	Windows []WorkingWindowInput `json:"windows" binding:"required"`
}

type OperatingDayInput struct {
	DayOfWeek   int    `json:"day_of_week"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	IsClosed    bool   `json:"is_closed"`
}

type OperatingHoursUpdateRequest struct {
	Days []OperatingDayInput `json:"days" binding:"required"`
}

// managedBarber resolves ?barber_id (default: caller) and checks the caller
// may manage that barber's schedule.
func (h *ScheduleHandler) managedBarber(c *gin.Context) (*models.User, bool) {
	p, ok := principalOf(c)
	if !ok {
		return nil, false
	}

	barberID, ok := barberOrSelf(c, p)
	if !ok {
		return nil, false
	}

	barber, err := h.store.GetBarber(c.Request.Context(), barberID)
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}

	if err := h.authz.CanManageWindows(p, barber); err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return barber, true
}

// -------- Working windows --------

func (h *ScheduleHandler) GetWorkingWindows(c *gin.Context) {
	barber, ok := h.managedBarber(c)
	if !ok {
		return
	}

	rows, err := h.store.ListWorkingWindows(c.Request.Context(), barber.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ScheduleHandler) UpdateWorkingWindows(c *gin.Context) {
	var req WorkingWindowsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	barber, ok := h.managedBarber(c)
	if !ok {
		return
	}

	rows := make([]models.WorkingWindow, 0, len(req.Windows))
	for _, w := range req.Windows {
		rows = append(rows, models.WorkingWindow{
			BarberID:    barber.ID,
			DayOfWeek:   w.DayOfWeek,
			StartTime:   w.StartTime,
			EndTime:     w.EndTime,
			IsAvailable: w.IsAvailable,
		})
	}

	if err := availability.ValidateWorkingWindows(rows); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.store.ReplaceWorkingWindows(c.Request.Context(), barber.ID, rows); err != nil {
		httperr.Respond(c, err)
		return
	}
	if h.cache != nil {
		h.cache.InvalidateBarber(barber.ID)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// -------- Operating hours --------

func (h *ScheduleHandler) GetOperatingHours(c *gin.Context) {
	p, ok := principalOf(c)
	if !ok {
		return
	}

	rows, err := h.store.ListOperatingHours(c.Request.Context(), p.BarbershopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *ScheduleHandler) UpdateOperatingHours(c *gin.Context) {
	p, ok := principalOf(c)
	if !ok {
		return
	}

	if err := h.authz.CanManageShop(p, p.BarbershopID); err != nil {
		httperr.Respond(c, err)
		return
	}

	var req OperatingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	rows := make([]models.OperatingHours, 0, len(req.Days))
	for _, d := range req.Days {
		rows = append(rows, models.OperatingHours{
			BarbershopID: p.BarbershopID,
			DayOfWeek:    d.DayOfWeek,
			OpeningTime:  d.OpeningTime,
			ClosingTime:  d.ClosingTime,
			IsClosed:     d.IsClosed,
		})
	}

	if err := availability.ValidateOperatingHours(rows); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.store.ReplaceOperatingHours(c.Request.Context(), p.BarbershopID, rows); err != nil {
		httperr.Respond(c, err)
		return
	}
	if h.cache != nil {
		h.cache.InvalidateShop(p.BarbershopID)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
