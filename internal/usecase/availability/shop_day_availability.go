package availability

import (
	"context"

	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type ShopDayAvailability struct {
	deps Deps
}

func NewShopDayAvailability(deps Deps) *ShopDayAvailability {
	return &ShopDayAvailability{deps: deps}
}

// Execute classifies every calendar date in [from, to], both "2006-01-02" in
// the shop's timezone. Closed days are reported too.
func (uc *ShopDayAvailability) Execute(
	ctx context.Context,
	barbershopID uint,
	from string,
	to string,
) ([]domain.DayAvailability, error) {

	shop, err := uc.deps.Repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(shop.Timezone)

	start, err := timezone.ParseDate(from, loc)
	if err != nil {
		return nil, appt.Invalid("invalid_date")
	}
	end, err := timezone.ParseDate(to, loc)
	if err != nil {
		return nil, appt.Invalid("invalid_date")
	}
	if end.Before(start) {
		return nil, appt.Invalid("invalid_date_range")
	}
	if end.Sub(start).Hours()/24 >= MaxRangeDays {
		return nil, appt.Invalid("date_range_too_long")
	}

	barbers, err := uc.deps.Repo.ListBarbers(ctx, barbershopID)
	if err != nil {
		return nil, err
	}
	active, err := uc.deps.activeByBarber(ctx, barbers)
	if err != nil {
		return nil, err
	}

	var out []domain.DayAvailability
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		entry := domain.DayAvailability{Date: day.Format("2006-01-02")}

		shopDay, err := uc.deps.Schedule.ShopDay(ctx, barbershopID, day)
		if err != nil {
			return nil, err
		}

		if !shopDay.Open {
			entry.Status = domain.DayNoAvailability
			out = append(out, entry)
			continue
		}

		days := make([]domain.BarberDay, 0, len(barbers))
		for _, b := range barbers {
			bd, err := uc.deps.Schedule.BarberDayWith(ctx, b.ID, day, active[b.ID], 0)
			if err != nil {
				return nil, err
			}
			days = append(days, bd)
		}

		entry.Status = domain.ClassifyDay(shopDay, days)
		out = append(out, entry)
	}

	return out, nil
}
