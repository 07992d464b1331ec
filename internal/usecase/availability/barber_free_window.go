package availability

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type BarberFreeWindow struct {
	deps Deps
}

func NewBarberFreeWindow(deps Deps) *BarberFreeWindow {
	return &BarberFreeWindow{deps: deps}
}

// Execute answers whether the barber is free at instant and for how long.
func (uc *BarberFreeWindow) Execute(
	ctx context.Context,
	barberID uint,
	instant time.Time,
) (domain.FreeWindow, error) {

	barber, shop, err := uc.deps.barberOf(ctx, barberID)
	if err != nil {
		return domain.FreeWindow{}, err
	}
	if !barber.TakesAppointments() {
		return domain.FreeWindow{}, nil
	}

	at := instant.In(timezone.Location(shop.Timezone))

	shopDay, err := uc.deps.Schedule.ShopDay(ctx, shop.ID, at)
	if err != nil {
		return domain.FreeWindow{}, err
	}
	barberDay, err := uc.deps.Schedule.BarberDay(ctx, barber.ID, at)
	if err != nil {
		return domain.FreeWindow{}, err
	}

	return domain.FreeAt(barberDay, shopDay, at), nil
}
