package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

type Action string

const (
	ActionConfirm    Action = "confirm"
	ActionStart      Action = "start"
	ActionComplete   Action = "complete"
	ActionCancel     Action = "cancel"
	ActionMarkNoShow Action = "mark_no_show"
)

var actionTargets = map[Action]Status{
	ActionConfirm:    StatusConfirmed,
	ActionStart:      StatusInProgress,
	ActionComplete:   StatusCompleted,
	ActionCancel:     StatusCancelled,
	ActionMarkNoShow: StatusNoShow,
}

func (a Action) Target() (Status, bool) {
	s, ok := actionTargets[a]
	return s, ok
}

// ParseAction accepts the actions callers may request explicitly. Marking a
// no-show is reserved for the sweeper.
func ParseAction(raw string) (Action, error) {
	a := Action(raw)
	switch a {
	case ActionConfirm, ActionStart, ActionComplete, ActionCancel:
		return a, nil
	}
	return "", Invalid("invalid_action")
}

// Transition moves ap to the status targeted by action and stamps the
// matching timestamp. The appointment is left untouched on error.
func Transition(ap *models.Appointment, action Action, now time.Time) error {
	from := Status(ap.Status)

	to, ok := action.Target()
	if !ok {
		return Invalid("invalid_action")
	}
	if !CanTransition(from, to) {
		return InvalidTransitionError{From: from, To: to}
	}

	ap.Status = string(to)
	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusInProgress:
		ap.StartedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusNoShow:
		ap.NoShowAt = &now
	}
	return nil
}

func IntervalOf(ap models.Appointment) Interval {
	return Interval{Start: ap.StartTime, End: ap.EndTime}
}

func IsActive(ap models.Appointment) bool {
	return Status(ap.Status).IsActive()
}
