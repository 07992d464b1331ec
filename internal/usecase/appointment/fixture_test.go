package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// Sunday noon; the next day is the Monday most tests book on.
var sundayNoon = time.Date(2030, 3, 3, 12, 0, 0, 0, time.UTC)

func monday(hour, min int) time.Time {
	return time.Date(2030, 3, 4, hour, min, 0, 0, time.UTC)
}

type fixture struct {
	repo    *repository.MemoryRepository
	deps    Deps
	shop    models.Barbershop
	barber  models.User
	client  models.Client
	service models.Service
	now     time.Time
}

// newFixture seeds a shop open Monday 08:00-18:00 with one barber working
// Monday 09:00-12:00 and a 30 minute service.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	f := &fixture{repo: repo, now: sundayNoon}

	f.shop = repo.AddBarbershop(models.Barbershop{
		Name:              "Central",
		Timezone:          "UTC",
		MinAdvanceMinutes: 60,
	})
	f.barber = repo.AddUser(models.User{
		BarbershopID: f.shop.ID,
		Name:         "João",
		Role:         models.RoleBarber,
		Active:       true,
	})
	f.client = repo.AddClient(models.Client{
		BarbershopID: f.shop.ID,
		Name:         "Carlos",
		Email:        "carlos@example.com",
	})
	f.service = repo.AddService(models.Service{
		BarbershopID: f.shop.ID,
		Name:         "Corte",
		DurationMin:  30,
		Price:        50,
		Active:       true,
	})

	require.NoError(t, repo.ReplaceOperatingHours(ctx, f.shop.ID, []models.OperatingHours{
		{DayOfWeek: int(domain.Monday), OpeningTime: "08:00", ClosingTime: "18:00"},
	}))
	require.NoError(t, repo.ReplaceWorkingWindows(ctx, f.barber.ID, []models.WorkingWindow{
		{DayOfWeek: int(domain.Monday), StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
	}))

	provider := availability.NewRepositoryProvider(repo)
	f.deps = Deps{
		Repo:     repo,
		Schedule: availability.NewLoader(provider, repo),
		Clock:    func() time.Time { return f.now },
		Log:      zerolog.Nop(),
	}
	return f
}

func (f *fixture) input(start time.Time, minutes int) CreateAppointmentInput {
	return CreateAppointmentInput{
		BarbershopID:    f.shop.ID,
		BarberID:        f.barber.ID,
		ClientID:        f.client.ID,
		ServiceID:       f.service.ID,
		Start:           start,
		DurationMinutes: minutes,
	}
}

func (f *fixture) seed(start time.Time, minutes int, status domain.Status) models.Appointment {
	return f.repo.AddAppointment(models.Appointment{
		BarbershopID: f.shop.ID,
		BarberID:     f.barber.ID,
		ClientID:     f.client.ID,
		ServiceID:    f.service.ID,
		StartTime:    start,
		EndTime:      start.Add(time.Duration(minutes) * time.Minute),
		Status:       string(status),
	})
}

// assertNoDoubleBooking checks the pairwise non-overlap of active bookings.
func (f *fixture) assertNoDoubleBooking(t *testing.T) {
	t.Helper()

	active, err := f.repo.FindActiveAppointments(context.Background(), f.barber.ID)
	require.NoError(t, err)
	for i := range active {
		for j := i + 1; j < len(active); j++ {
			require.False(t,
				domain.Overlaps(domain.IntervalOf(active[i]), domain.IntervalOf(active[j])),
				"appointments %d and %d overlap", active[i].ID, active[j].ID,
			)
		}
	}
}
