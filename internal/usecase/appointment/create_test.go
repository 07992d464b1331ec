package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func TestCreateMondayScenario(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateAppointment(f.deps)
	ctx := context.Background()

	existing := f.seed(monday(10, 0), 45, domain.StatusScheduled)

	_, err := uc.Execute(ctx, f.input(monday(10, 30), 30))
	var conflict domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, existing.ID, conflict.AppointmentID)
	assert.Equal(t, monday(10, 0), conflict.Conflicting.Start)

	ap, err := uc.Execute(ctx, f.input(monday(11, 0), 30))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, monday(11, 30), ap.EndTime)

	_, err = uc.Execute(ctx, f.input(monday(12, 0), 30))
	var oow domain.OutOfWindowError
	require.ErrorAs(t, err, &oow)
	assert.Equal(t, domain.CodeOutsideWorkingHours, oow.Code)

	f.assertNoDoubleBooking(t)
}

func TestCreateBackToBackSucceeds(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateAppointment(f.deps)
	ctx := context.Background()

	_, err := uc.Execute(ctx, f.input(monday(10, 0), 30))
	require.NoError(t, err)
	_, err = uc.Execute(ctx, f.input(monday(10, 30), 30))
	require.NoError(t, err)
	_, err = uc.Execute(ctx, f.input(monday(9, 30), 30))
	require.NoError(t, err)

	f.assertNoDoubleBooking(t)
}

func TestCreateIgnoresCancelledBookings(t *testing.T) {
	f := newFixture(t)
	f.seed(monday(10, 0), 30, domain.StatusCancelled)
	f.seed(monday(10, 30), 30, domain.StatusNoShow)

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), f.input(monday(10, 0), 60))
	assert.NoError(t, err)
}

func TestCreateUsesServiceDurationAndPrice(t *testing.T) {
	f := newFixture(t)

	ap, err := NewCreateAppointment(f.deps).Execute(context.Background(), f.input(monday(9, 0), 0))
	require.NoError(t, err)

	assert.Equal(t, monday(9, 30), ap.EndTime)
	assert.Equal(t, 50.0, ap.PriceAtBooking)
	assert.Equal(t, f.service.ID, ap.ServiceID)
	assert.NotZero(t, ap.ID)
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name    string
		start   time.Time
		minutes int
		code    string
	}{
		{"negative duration", monday(9, 0), -30, "invalid_duration"},
		{"zero start", time.Time{}, 30, "invalid_start"},
		{"in the past", sundayNoon.Add(-time.Hour), 30, "start_in_past"},
		{"inside advance window", sundayNoon.Add(30 * time.Minute), 30, "too_soon"},
		{"crosses midnight", monday(23, 45), 30, "spans_multiple_days"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := NewCreateAppointment(f.deps).Execute(context.Background(), f.input(tc.start, tc.minutes))

			var ve domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.code, ve.Code)
		})
	}
}

func TestCreateZeroLengthServiceIsRejected(t *testing.T) {
	f := newFixture(t)
	free := f.repo.AddService(models.Service{BarbershopID: f.shop.ID, Name: "Avaliação"})

	in := f.input(monday(9, 0), 0)
	in.ServiceID = free.ID
	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), in)

	assert.True(t, domain.IsValidation(err))
}

func TestCreateOnClosedDay(t *testing.T) {
	f := newFixture(t)
	sunday := time.Date(2030, 3, 10, 10, 0, 0, 0, time.UTC)

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), f.input(sunday, 30))

	var oow domain.OutOfWindowError
	require.ErrorAs(t, err, &oow)
	assert.Equal(t, domain.CodeShopClosed, oow.Code)
}

func TestCreateUnknownReferences(t *testing.T) {
	f := newFixture(t)
	other := f.repo.AddBarbershop(models.Barbershop{Name: "Other", Timezone: "UTC"})
	foreign := f.repo.AddUser(models.User{BarbershopID: other.ID, Role: models.RoleBarber, Active: true})

	in := f.input(monday(9, 0), 30)
	in.BarberID = foreign.ID
	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = f.input(monday(9, 0), 30)
	in.ServiceID = 999
	_, err = NewCreateAppointment(f.deps).Execute(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateInactiveBarberIsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.barber.Active = false
	f.repo.AddUser(f.barber)

	_, err := NewCreateAppointment(f.deps).Execute(context.Background(), f.input(monday(9, 0), 30))

	var oow domain.OutOfWindowError
	require.ErrorAs(t, err, &oow)
	assert.Equal(t, domain.CodeBarberUnavailable, oow.Code)
}

func TestCreateConcurrentRequestsBookOnce(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateAppointment(f.deps)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), f.input(monday(10, 0), 30))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case domain.IsConflict(err):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
	f.assertNoDoubleBooking(t)
}
