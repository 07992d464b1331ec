package availability

import (
	"context"

	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type DaySlots struct {
	deps Deps
}

func NewDaySlots(deps Deps) *DaySlots {
	return &DaySlots{deps: deps}
}

// Execute builds the 30-minute grid of date. With barberID set only that
// barber's time counts; otherwise any barber of the shop frees a block.
func (uc *DaySlots) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID *uint,
	date string,
) ([]domain.Slot, error) {

	shop, err := uc.deps.Repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(date, timezone.Location(shop.Timezone))
	if err != nil {
		return nil, appt.Invalid("invalid_date")
	}

	var barbers []models.User
	if barberID != nil {
		b, err := uc.deps.Repo.GetBarber(ctx, *barberID)
		if err != nil {
			return nil, err
		}
		if b.BarbershopID != barbershopID {
			return nil, appt.NotFound("barber", *barberID)
		}
		if b.TakesAppointments() {
			barbers = append(barbers, *b)
		}
	} else {
		barbers, err = uc.deps.Repo.ListBarbers(ctx, barbershopID)
		if err != nil {
			return nil, err
		}
	}

	shopDay, err := uc.deps.Schedule.ShopDay(ctx, barbershopID, day)
	if err != nil {
		return nil, err
	}
	if !shopDay.Open {
		return []domain.Slot{}, nil
	}

	active, err := uc.deps.activeByBarber(ctx, barbers)
	if err != nil {
		return nil, err
	}

	days := make([]domain.BarberDay, 0, len(barbers))
	for _, b := range barbers {
		bd, err := uc.deps.Schedule.BarberDayWith(ctx, b.ID, day, active[b.ID], 0)
		if err != nil {
			return nil, err
		}
		days = append(days, bd)
	}

	slots := domain.SlotGrid(shopDay, days)
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}
