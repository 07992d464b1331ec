package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// Repository is the persistence collaborator of the scheduling core.
// Implementations return NotFoundError for unknown ids and TransientError for
// timeouts or outages.
type Repository interface {
	// -------- Barbershop / barbers --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetBarber(
		ctx context.Context,
		barberID uint,
	) (*models.User, error)

	ListBarbers(
		ctx context.Context,
		barbershopID uint,
	) ([]models.User, error)

	// -------- Service / client --------
	GetService(
		ctx context.Context,
		barbershopID uint,
		serviceID uint,
	) (*models.Service, error)

	GetClient(
		ctx context.Context,
		clientID uint,
	) (*models.Client, error)

	// -------- Schedule inputs --------
	FindWorkingWindows(
		ctx context.Context,
		barberID uint,
		day DayOfWeek,
	) ([]models.WorkingWindow, error)

	// FindOperatingHours returns nil, nil when the shop has no row for day.
	FindOperatingHours(
		ctx context.Context,
		barbershopID uint,
		day DayOfWeek,
	) (*models.OperatingHours, error)

	// -------- Appointments --------

	// FindActiveAppointments returns the barber's scheduled, confirmed and
	// in-progress appointments in any order.
	FindActiveAppointments(
		ctx context.Context,
		barberID uint,
	) ([]models.Appointment, error)

	// SaveAppointment creates ap, or updates its time range when ap.ID is set.
	// It must fail with ConflictError when the write would overlap another
	// active appointment of the same barber, serialized per barber.
	SaveAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	// UpdateAppointmentStatus persists ap only if its stored status is still
	// from; otherwise it returns InvalidTransitionError.
	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// FindOverdueAppointments lists sweepable appointments whose end is
	// strictly before now, ordered by (end_time, id). A non-nil after
	// resumes strictly past that position.
	FindOverdueAppointments(
		ctx context.Context,
		now time.Time,
		after *OverdueCursor,
		limit int,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}

// OverdueCursor is the (end_time, id) position of the last appointment a
// sweep page returned.
type OverdueCursor struct {
	EndTime time.Time
	ID      uint
}

// CursorAfter positions the next page past ap.
func CursorAfter(ap models.Appointment) *OverdueCursor {
	return &OverdueCursor{EndTime: ap.EndTime, ID: ap.ID}
}

// Passed reports whether ap sorts strictly after the cursor.
func (c *OverdueCursor) Passed(ap models.Appointment) bool {
	if c == nil {
		return true
	}
	if ap.EndTime.Equal(c.EndTime) {
		return ap.ID > c.ID
	}
	return ap.EndTime.After(c.EndTime)
}
