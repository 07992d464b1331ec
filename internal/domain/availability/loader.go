package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type AppointmentSource interface {
	FindActiveAppointments(ctx context.Context, barberID uint) ([]models.Appointment, error)
}

// Loader assembles the per-date snapshots the pure functions work on.
type Loader struct {
	windows      WindowProvider
	appointments AppointmentSource
}

func NewLoader(windows WindowProvider, appointments AppointmentSource) *Loader {
	return &Loader{windows: windows, appointments: appointments}
}

// ShopDay resolves the operating window for the date of day (in day's location).
func (l *Loader) ShopDay(ctx context.Context, barbershopID uint, day time.Time) (ShopDay, error) {
	r, open, err := l.windows.ShopWindowFor(ctx, barbershopID, appointment.DayOf(day))
	if err != nil {
		return ShopDay{}, err
	}
	if !open {
		return ShopDay{}, nil
	}
	return ShopDay{Open: true, Window: r.On(day)}, nil
}

// BarberDay fetches the barber's active appointments and projects them with
// the working windows onto day.
func (l *Loader) BarberDay(ctx context.Context, barberID uint, day time.Time) (BarberDay, error) {
	active, err := l.appointments.FindActiveAppointments(ctx, barberID)
	if err != nil {
		return BarberDay{}, err
	}
	return l.BarberDayWith(ctx, barberID, day, active, 0)
}

// BarberDayWith builds the snapshot from an already fetched appointment set,
// ignoring excludeID.
func (l *Loader) BarberDayWith(
	ctx context.Context,
	barberID uint,
	day time.Time,
	active []models.Appointment,
	excludeID uint,
) (BarberDay, error) {

	ranges, err := l.windows.WindowsFor(ctx, barberID, appointment.DayOf(day))
	if err != nil {
		return BarberDay{}, err
	}
	return Project(barberID, day, ranges, active, excludeID), nil
}

// Project is the pure part of BarberDayWith.
func Project(
	barberID uint,
	day time.Time,
	ranges []ClockRange,
	active []models.Appointment,
	excludeID uint,
) BarberDay {

	bd := BarberDay{BarberID: barberID}
	for _, r := range ranges {
		bd.Windows = append(bd.Windows, r.On(day))
	}

	bounds := DayBounds(day)
	var sameDay []models.Appointment
	for _, ap := range active {
		if ap.BarberID != barberID || (excludeID != 0 && ap.ID == excludeID) {
			continue
		}
		if appointment.Overlaps(bounds, appointment.IntervalOf(ap)) {
			sameDay = append(sameDay, ap)
		}
	}
	bd.Busy = appointment.BusyIntervals(sameDay)
	return bd
}
