package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	ucAvailability "github.com/BruksfildServices01/barbershop-booking/internal/usecase/availability"
)

// AvailabilityHandler serves the public, read-only calendar views.
type AvailabilityHandler struct {
	free  *ucAvailability.BarberFreeWindow
	days  *ucAvailability.ShopDayAvailability
	slots *ucAvailability.DaySlots
	clock timezone.Clock
}

func NewAvailabilityHandler(
	free *ucAvailability.BarberFreeWindow,
	days *ucAvailability.ShopDayAvailability,
	slots *ucAvailability.DaySlots,
	clock timezone.Clock,
) *AvailabilityHandler {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &AvailabilityHandler{free: free, days: days, slots: slots, clock: clock}
}

// BarberFreeWindow answers whether the barber is free at ?at (RFC3339,
// default now) and for how long.
func (h *AvailabilityHandler) BarberFreeWindow(c *gin.Context) {
	barberID, ok := paramID(c, "id")
	if !ok {
		return
	}

	instant := h.clock()
	if raw := c.Query("at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
			return
		}
		instant = t
	}

	fw, err := h.free.Execute(c.Request.Context(), barberID, instant)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"barber_id":    barberID,
		"at":           instant,
		"available":    fw.Available,
		"free_minutes": fw.FreeMinutes,
		"free_until":   fw.FreeUntil,
	})
}

// ShopDays classifies every date in ?from..?to.
func (h *AvailabilityHandler) ShopDays(c *gin.Context) {
	shopID, ok := paramID(c, "id")
	if !ok {
		return
	}

	days, err := h.days.Execute(c.Request.Context(), shopID, c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, days)
}

// DaySlots lists the 30 minute grid of ?date, optionally for one barber.
func (h *AvailabilityHandler) DaySlots(c *gin.Context) {
	shopID, ok := paramID(c, "id")
	if !ok {
		return
	}

	barberID, ok := queryID(c, "barber_id")
	if !ok {
		return
	}

	date := c.Query("date")
	slots, err := h.slots.Execute(c.Request.Context(), shopID, barberID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  date,
		"slots": slots,
	})
}
