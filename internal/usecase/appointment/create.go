package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarbershopID uint
	BarberID     uint
	ClientID     uint
	ServiceID    uint

	Start time.Time
	// DurationMinutes of 0 takes the service's duration.
	DurationMinutes int
	Notes           string

	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	deps Deps
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	return &CreateAppointment{deps: deps}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.create(ctx, in)
	uc.deps.Metrics.Booking(outcome(err))

	if err != nil && (domain.IsConflict(err) || domain.IsOutOfWindow(err)) {
		uc.deps.Audit.Dispatch(audit.Event{
			BarbershopID: in.BarbershopID,
			UserID:       in.ActorID,
			Action:       "appointment_rejected",
			Entity:       "appointment",
			Metadata: map[string]any{
				"barber_id": in.BarberID,
				"start":     in.Start,
				"reason":    err.Error(),
			},
		})
	}
	return ap, err
}

func (uc *CreateAppointment) create(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.DurationMinutes < 0 {
		return nil, domain.Invalid("invalid_duration")
	}

	// shop and service
	shop, err := uc.deps.Repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	service, err := uc.deps.Repo.GetService(ctx, in.BarbershopID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	minutes := in.DurationMinutes
	if minutes == 0 {
		minutes = service.DurationMin
	}

	// validate the candidate before any conflict lookup
	candidate, err := uc.deps.validateStart(shop, in.Start, minutes)
	if err != nil {
		return nil, err
	}

	// barber and client
	if _, err := uc.deps.loadBarber(ctx, shop.ID, in.BarberID); err != nil {
		return nil, err
	}

	client, err := uc.deps.Repo.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client.BarbershopID != shop.ID {
		return nil, domain.NotFound("client", in.ClientID)
	}

	// working window and conflict
	if err := uc.deps.checkCandidate(ctx, shop.ID, in.BarberID, candidate, 0); err != nil {
		return nil, err
	}

	// save, serialized per barber
	ap := &models.Appointment{
		BarbershopID:   shop.ID,
		BarberID:       in.BarberID,
		ClientID:       client.ID,
		ServiceID:      service.ID,
		StartTime:      candidate.Start,
		EndTime:        candidate.End,
		Status:         string(domain.InitialStatus()),
		PriceAtBooking: service.Price,
		Notes:          in.Notes,
	}

	if err := uc.deps.Repo.SaveAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// audit and notify
	uc.deps.Audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       in.ActorID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	uc.deps.Notify.Notify(notify.Event{
		Kind:          notify.KindCreated,
		AppointmentID: ap.ID,
		BarbershopID:  shop.ID,
		ClientID:      ap.ClientID,
		Start:         ap.StartTime,
	})

	uc.deps.Log.Info().
		Uint("appointment_id", ap.ID).
		Uint("barber_id", ap.BarberID).
		Time("start", ap.StartTime).
		Msg("appointment created")

	return ap, nil
}
