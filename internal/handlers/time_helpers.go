package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/authz"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/middleware"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

var errMissingStart = errors.New("missing start")

// parseStartInShop accepts an RFC3339 instant or a "2006-01-02" date plus a
// "15:04" time read in the shop's timezone.
func parseStartInShop(shop *models.Barbershop, start, date, clock string) (time.Time, error) {
	if start != "" {
		return time.Parse(time.RFC3339, start)
	}
	if date == "" || clock == "" {
		return time.Time{}, errMissingStart
	}
	return timezone.ParseDateTime(date, clock, timezone.Location(shop.Timezone))
}

func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(v), true
}

// queryID returns nil when the parameter is absent.
func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido.")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func principalOf(c *gin.Context) (authz.Principal, bool) {
	p, ok := middleware.Principal(c)
	if !ok {
		httperr.Unauthorized(c, "unauthenticated", "Não autenticado.")
	}
	return p, ok
}

// barberOrSelf picks the barber_id query parameter, defaulting to the caller.
func barberOrSelf(c *gin.Context, p authz.Principal) (uint, bool) {
	id, ok := queryID(c, "barber_id")
	if !ok {
		return 0, false
	}
	if id == nil {
		return p.UserID, true
	}
	return *id, true
}
