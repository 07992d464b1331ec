package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func booked(id, barber uint, i Interval, s Status) models.Appointment {
	return models.Appointment{ID: id, BarberID: barber, StartTime: i.Start, EndTime: i.End, Status: string(s)}
}

func TestHasConflict(t *testing.T) {
	existing := []models.Appointment{
		booked(1, 7, iv(10, 0, 10, 45), StatusScheduled),
		booked(2, 7, iv(11, 0, 11, 30), StatusCancelled),
		booked(3, 8, iv(9, 0, 12, 0), StatusConfirmed),
		booked(4, 7, iv(14, 0, 15, 0), StatusInProgress),
	}

	cases := []struct {
		name      string
		candidate Interval
		exclude   uint
		want      bool
	}{
		{"overlaps scheduled", iv(10, 30, 11, 0), 0, true},
		{"back to back", iv(10, 45, 11, 0), 0, false},
		{"over cancelled", iv(11, 0, 11, 30), 0, false},
		{"other barber only", iv(9, 0, 9, 30), 0, false},
		{"overlaps in progress", iv(14, 30, 15, 30), 0, true},
		{"excluding itself", iv(10, 15, 10, 45), 1, false},
		{"zero length", iv(10, 15, 10, 15), 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasConflict(7, tc.candidate, existing, tc.exclude))
		})
	}
}

func TestHasConflictIsSymmetric(t *testing.T) {
	a := iv(10, 0, 10, 30)
	b := iv(10, 30, 11, 0)

	assert.Equal(t,
		HasConflict(1, a, []models.Appointment{booked(9, 1, b, StatusScheduled)}, 0),
		HasConflict(1, b, []models.Appointment{booked(9, 1, a, StatusScheduled)}, 0),
	)
}

func TestAssertNoConflictNamesTheInterval(t *testing.T) {
	existing := []models.Appointment{booked(5, 7, iv(10, 0, 10, 45), StatusConfirmed)}

	err := AssertNoConflict(7, iv(10, 30, 11, 0), existing, 0)

	var ce ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CodeTimeConflict, ce.Code)
	assert.Equal(t, uint(5), ce.AppointmentID)
	assert.Equal(t, iv(10, 0, 10, 45), ce.Conflicting)
	assert.Contains(t, ce.Error(), "time_conflict")

	assert.NoError(t, AssertNoConflict(7, iv(10, 45, 11, 0), existing, 0))
}

func TestBusyIntervalsAndIndex(t *testing.T) {
	aps := []models.Appointment{
		booked(1, 7, iv(14, 0, 15, 0), StatusScheduled),
		booked(2, 7, iv(9, 0, 10, 0), StatusConfirmed),
		booked(3, 7, iv(11, 0, 12, 0), StatusCompleted),
		booked(4, 8, iv(8, 0, 9, 0), StatusScheduled),
	}

	assert.Equal(t,
		[]Interval{iv(8, 0, 9, 0), iv(9, 0, 10, 0), iv(14, 0, 15, 0)},
		BusyIntervals(aps),
	)

	idx := IndexByBarber(aps)
	require.Len(t, idx[7], 3)
	assert.Equal(t, uint(2), idx[7][0].ID)
	assert.Len(t, idx[8], 1)
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, NotFound("barber", 3), ErrNotFound)
	assert.ErrorIs(t, Transient("op", assert.AnError), ErrTransient)
	assert.ErrorIs(t, Transient("op", assert.AnError), assert.AnError)
	assert.True(t, IsOutOfWindow(OutOfWindowError{Code: CodeShopClosed}))
	assert.True(t, IsInvalidTransition(InvalidTransitionError{From: StatusCompleted, To: StatusCancelled}))
	assert.False(t, IsConflict(Invalid("x")))
}
