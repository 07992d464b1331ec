package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// validateStart applies the input rules shared by create and reschedule.
// Runs before any window or conflict check.
func (d Deps) validateStart(
	shop *models.Barbershop,
	start time.Time,
	minutes int,
) (domain.Interval, error) {

	if start.IsZero() {
		return domain.Interval{}, domain.Invalid("invalid_start")
	}
	if minutes <= 0 {
		return domain.Interval{}, domain.Invalid("invalid_duration")
	}

	loc := timezone.Location(shop.Timezone)
	candidate := domain.NewInterval(start.In(loc), minutes)

	now := timezone.NowIn(d.now, shop.Timezone)
	if candidate.Start.Before(now) {
		return domain.Interval{}, domain.Invalid("start_in_past")
	}

	minAdvance := shop.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = d.MinAdvanceMinutes
	}
	if candidate.Start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return domain.Interval{}, domain.Invalid("too_soon")
	}

	if !domain.Contains(availability.DayBounds(candidate.Start), candidate) {
		return domain.Interval{}, domain.Invalid("spans_multiple_days")
	}

	return candidate, nil
}

// loadBarber resolves a bookable barber of shop.
func (d Deps) loadBarber(ctx context.Context, shopID, barberID uint) (*models.User, error) {
	barber, err := d.loadBarberOf(ctx, shopID, barberID)
	if err != nil {
		return nil, err
	}
	if !barber.TakesAppointments() {
		return nil, domain.OutOfWindowError{Code: domain.CodeBarberUnavailable}
	}
	return barber, nil
}

// checkCandidate runs the window check and the conflict check against the
// barber's current active appointments, ignoring excludeID.
func (d Deps) checkCandidate(
	ctx context.Context,
	shopID uint,
	barberID uint,
	candidate domain.Interval,
	excludeID uint,
) error {

	active, err := d.Repo.FindActiveAppointments(ctx, barberID)
	if err != nil {
		return err
	}

	shopDay, err := d.Schedule.ShopDay(ctx, shopID, candidate.Start)
	if err != nil {
		return err
	}
	barberDay, err := d.Schedule.BarberDayWith(ctx, barberID, candidate.Start, active, excludeID)
	if err != nil {
		return err
	}

	if err := availability.CheckBookable(barberDay, shopDay, candidate); err != nil {
		return err
	}
	return domain.AssertNoConflict(barberID, candidate, active, excludeID)
}

// outcome labels a booking attempt for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case domain.IsConflict(err):
		return "conflict"
	case domain.IsOutOfWindow(err):
		return "out_of_window"
	case domain.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}

func invalidDate() error {
	return domain.Invalid("invalid_date")
}
