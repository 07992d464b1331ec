package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

var notifyOn = map[domain.Status]notify.Kind{
	domain.StatusConfirmed: notify.KindConfirmed,
	domain.StatusCancelled: notify.KindCancelled,
	domain.StatusNoShow:    notify.KindNoShow,
}

type TransitionAppointment struct {
	deps Deps
}

func NewTransitionAppointment(deps Deps) *TransitionAppointment {
	return &TransitionAppointment{deps: deps}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	action domain.Action,
	actorID *uint,
) (*models.Appointment, error) {

	ap, err := uc.deps.Repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	shop, err := uc.deps.Repo.GetBarbershopByID(ctx, ap.BarbershopID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.deps.now, shop.Timezone)
	if err := uc.deps.apply(ctx, ap, action, now, actorID); err != nil {
		return nil, err
	}
	return ap, nil
}

// apply runs one state machine step and persists it only if the stored
// status is still the one the step started from.
func (d Deps) apply(
	ctx context.Context,
	ap *models.Appointment,
	action domain.Action,
	now time.Time,
	actorID *uint,
) error {

	from := domain.Status(ap.Status)
	if err := domain.Transition(ap, action, now); err != nil {
		return err
	}

	if err := d.Repo.UpdateAppointmentStatus(ctx, ap, from); err != nil {
		ap.Status = string(from)
		return err
	}

	to := domain.Status(ap.Status)
	d.Metrics.Transition(string(to))

	d.Audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       actorID,
		Action:       "appointment_" + string(to),
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata: map[string]any{
			"from": from,
			"to":   to,
		},
	})

	if kind, ok := notifyOn[to]; ok {
		d.Notify.Notify(notify.Event{
			Kind:          kind,
			AppointmentID: ap.ID,
			BarbershopID:  ap.BarbershopID,
			ClientID:      ap.ClientID,
			Start:         ap.StartTime,
		})
	}
	return nil
}
