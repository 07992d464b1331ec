package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
)

type RescheduleAppointmentInput struct {
	AppointmentID uint
	Start         time.Time
	// DurationMinutes of 0 keeps the current duration.
	DurationMinutes int

	ActorID *uint
}

type RescheduleAppointment struct {
	deps Deps
}

func NewRescheduleAppointment(deps Deps) *RescheduleAppointment {
	return &RescheduleAppointment{deps: deps}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	if in.DurationMinutes < 0 {
		return nil, domain.Invalid("invalid_duration")
	}

	ap, err := uc.deps.Repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !domain.Status(ap.Status).Reschedulable() {
		return nil, domain.Invalid("not_reschedulable")
	}

	shop, err := uc.deps.Repo.GetBarbershopByID(ctx, ap.BarbershopID)
	if err != nil {
		return nil, err
	}

	minutes := in.DurationMinutes
	if minutes == 0 {
		minutes = int(domain.IntervalOf(*ap).Duration() / time.Minute)
	}

	candidate, err := uc.deps.validateStart(shop, in.Start, minutes)
	if err != nil {
		return nil, err
	}

	if _, err := uc.deps.loadBarber(ctx, shop.ID, ap.BarberID); err != nil {
		return nil, err
	}

	if err := uc.deps.checkCandidate(ctx, shop.ID, ap.BarberID, candidate, ap.ID); err != nil {
		uc.deps.Metrics.Booking(outcome(err))
		return nil, err
	}

	previous := domain.IntervalOf(*ap)
	ap.StartTime = candidate.Start
	ap.EndTime = candidate.End

	if err := uc.deps.Repo.SaveAppointment(ctx, ap); err != nil {
		uc.deps.Metrics.Booking(outcome(err))
		return nil, err
	}
	uc.deps.Metrics.Booking("rescheduled")

	uc.deps.Audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       in.ActorID,
		Action:       "appointment_rescheduled",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata: map[string]any{
			"from": previous,
			"to":   candidate,
		},
	})

	uc.deps.Notify.Notify(notify.Event{
		Kind:          notify.KindRescheduled,
		AppointmentID: ap.ID,
		BarbershopID:  ap.BarbershopID,
		ClientID:      ap.ClientID,
		Start:         ap.StartTime,
	})

	return ap, nil
}
