package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/authz"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

// retryAfterSeconds is advertised on transient failures.
const retryAfterSeconds = "5"

var messages = map[string]string{
	domain.CodeTimeConflict:          "Conflito de horário.",
	domain.CodeOutsideWorkingHours:   "Fora do horário de atendimento do barbeiro.",
	domain.CodeOutsideOperatingHours: "Fora do horário de funcionamento da barbearia.",
	domain.CodeShopClosed:            "A barbearia não abre neste dia.",
	domain.CodeBarberUnavailable:     "Barbeiro sem disponibilidade neste dia.",

	"invalid_start":       "Horário inválido.",
	"invalid_duration":    "Duração inválida.",
	"start_in_past":       "Horário já passou.",
	"too_soon":            "Horário muito próximo. Respeite a antecedência mínima.",
	"spans_multiple_days": "O atendimento deve começar e terminar no mesmo dia.",
	"invalid_date":        "Data inválida.",
	"invalid_date_range":  "Período inválido.",
	"date_range_too_long": "Período muito longo.",
	"invalid_action":      "Ação inválida.",
	"not_reschedulable":   "Agendamento não pode ser remarcado.",
	"overlapping_windows": "Janelas de atendimento sobrepostas.",
	"invalid_window":      "Janela de atendimento inválida.",
	"invalid_hours":       "Horário de funcionamento inválido.",
}

func message(code, fallback string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return fallback
}

// Respond maps a use case error onto the HTTP error contract. Booking
// rejections always name their reason.
func Respond(c *gin.Context, err error) {
	var (
		ve  domain.ValidationError
		ce  domain.ConflictError
		oe  domain.OutOfWindowError
		te  domain.InvalidTransitionError
		nfe domain.NotFoundError
	)

	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Code, message(ve.Code, "Dados inválidos."))

	case errors.As(err, &ce):
		var details any
		if !ce.Conflicting.Empty() {
			details = gin.H{
				"appointment_id": ce.AppointmentID,
				"conflicting":    ce.Conflicting,
			}
		}
		WriteDetails(c, http.StatusConflict, ce.Code, message(ce.Code, "Conflito de horário."), details)

	case errors.As(err, &oe):
		Write(c, http.StatusConflict, oe.Code, message(oe.Code, "Horário indisponível."))

	case errors.As(err, &te):
		WriteDetails(c, http.StatusUnprocessableEntity, "invalid_transition",
			"Mudança de status não permitida.",
			gin.H{"from": te.From, "to": te.To},
		)

	case errors.As(err, &nfe):
		NotFound(c, nfe.Entity+"_not_found", "Registro não encontrado.")

	case errors.Is(err, authz.ErrForbidden):
		Forbidden(c, "forbidden", "Acesso negado.")

	case errors.Is(err, domain.ErrTransient):
		c.Header("Retry-After", retryAfterSeconds)
		Write(c, http.StatusServiceUnavailable, "temporarily_unavailable", "Serviço temporariamente indisponível. Tente novamente.")

	default:
		Internal(c, "internal_error", "Erro interno.")
	}
}
