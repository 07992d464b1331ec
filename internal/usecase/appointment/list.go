package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type AppointmentListItem struct {
	ID        uint      `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`

	ClientID    uint    `json:"client_id"`
	ClientName  string  `json:"client_name"`
	ServiceID   uint    `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Price       float64 `json:"price_at_booking"`
}

type ListAppointments struct {
	deps Deps
}

func NewListAppointments(deps Deps) *ListAppointments {
	return &ListAppointments{deps: deps}
}

// ByDate lists the barber's appointments starting on date (shop timezone).
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	date string,
) ([]AppointmentListItem, error) {

	shop, err := uc.deps.Repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(date, timezone.Location(shop.Timezone))
	if err != nil {
		return nil, invalidDate()
	}

	return uc.period(ctx, barbershopID, barberID, day, day.AddDate(0, 0, 1))
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	year int,
	month int,
) ([]AppointmentListItem, error) {

	if month < 1 || month > 12 || year < 1 {
		return nil, invalidDate()
	}

	shop, err := uc.deps.Repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Location(shop.Timezone))
	return uc.period(ctx, barbershopID, barberID, start, start.AddDate(0, 1, 0))
}

func (uc *ListAppointments) period(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]AppointmentListItem, error) {

	if _, err := uc.deps.loadBarberOf(ctx, barbershopID, barberID); err != nil {
		return nil, err
	}

	appointments, err := uc.deps.Repo.ListAppointmentsForPeriod(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}

	clients := map[uint]string{}
	services := map[uint]string{}

	out := make([]AppointmentListItem, 0, len(appointments))
	for _, ap := range appointments {
		item := AppointmentListItem{
			ID:        ap.ID,
			StartTime: ap.StartTime,
			EndTime:   ap.EndTime,
			Status:    ap.Status,
			ClientID:  ap.ClientID,
			ServiceID: ap.ServiceID,
			Price:     ap.PriceAtBooking,
		}

		name, ok := clients[ap.ClientID]
		if !ok {
			if c, err := uc.deps.Repo.GetClient(ctx, ap.ClientID); err == nil {
				name = c.Name
			}
			clients[ap.ClientID] = name
		}
		item.ClientName = name

		svc, ok := services[ap.ServiceID]
		if !ok {
			if s, err := uc.deps.Repo.GetService(ctx, barbershopID, ap.ServiceID); err == nil {
				svc = s.Name
			}
			services[ap.ServiceID] = svc
		}
		item.ServiceName = svc

		out = append(out, item)
	}

	return out, nil
}

// loadBarberOf resolves a barber of the shop regardless of whether they
// still take appointments.
func (d Deps) loadBarberOf(ctx context.Context, shopID, barberID uint) (*models.User, error) {
	barber, err := d.Repo.GetBarber(ctx, barberID)
	if err != nil {
		return nil, err
	}
	if barber.BarbershopID != shopID {
		return nil, domain.NotFound("barber", barberID)
	}
	return barber, nil
}
