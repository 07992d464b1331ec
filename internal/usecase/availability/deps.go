package availability

import (
	"context"

	appt "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// MaxRangeDays bounds computeShopDayAvailability requests.
const MaxRangeDays = 62

type Deps struct {
	Repo     appt.Repository
	Schedule *domain.Loader
}

// barberOf resolves a barber and the shop they belong to.
func (d Deps) barberOf(ctx context.Context, barberID uint) (*models.User, *models.Barbershop, error) {
	barber, err := d.Repo.GetBarber(ctx, barberID)
	if err != nil {
		return nil, nil, err
	}
	shop, err := d.Repo.GetBarbershopByID(ctx, barber.BarbershopID)
	if err != nil {
		return nil, nil, err
	}
	return barber, shop, nil
}

// activeByBarber fetches each barber's active appointments once per request
// so every date of a range sees the same snapshot.
func (d Deps) activeByBarber(ctx context.Context, barbers []models.User) (map[uint][]models.Appointment, error) {
	out := make(map[uint][]models.Appointment, len(barbers))
	for _, b := range barbers {
		aps, err := d.Repo.FindActiveAppointments(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		out[b.ID] = aps
	}
	return out, nil
}
