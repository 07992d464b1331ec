package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type AppointmentGormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewAppointmentGormRepository bounds every call by timeout (0 disables).
func NewAppointmentGormRepository(db *gorm.DB, timeout time.Duration) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db, timeout: timeout}
}

func (r *AppointmentGormRepository) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if r.timeout <= 0 {
		return r.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(ctx), cancel
}

func barberRoles() []string {
	return []string{models.RoleOwner, models.RoleBarber}
}

func statusStrings(ss []domain.Status) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// --------------------------------------------------
// Barbershop / barbers
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var shop models.Barbershop
	if err := db.First(&shop, id).Error; err != nil {
		return nil, translate("get barbershop", "barbershop", id, err)
	}
	return &shop, nil
}

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	barberID uint,
) (*models.User, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var u models.User
	if err := db.
		Where("id = ? AND role IN ?", barberID, barberRoles()).
		First(&u).Error; err != nil {
		return nil, translate("get barber", "barber", barberID, err)
	}
	return &u, nil
}

func (r *AppointmentGormRepository) ListBarbers(
	ctx context.Context,
	barbershopID uint,
) ([]models.User, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var users []models.User
	if err := db.
		Where("barbershop_id = ? AND role IN ? AND active = ?", barbershopID, barberRoles(), true).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, translate("list barbers", "barbershop", barbershopID, err)
	}
	return users, nil
}

func (r *AppointmentGormRepository) FindUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var u models.User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate("find user", "user", 0, err)
	}
	return &u, nil
}

// --------------------------------------------------
// Service / client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var svc models.Service
	if err := db.
		Where("id = ? AND barbershop_id = ?", serviceID, barbershopID).
		First(&svc).Error; err != nil {
		return nil, translate("get service", "service", serviceID, err)
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	clientID uint,
) (*models.Client, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var c models.Client
	if err := db.First(&c, clientID).Error; err != nil {
		return nil, translate("get client", "client", clientID, err)
	}
	return &c, nil
}

// --------------------------------------------------
// Schedule inputs
// --------------------------------------------------

func (r *AppointmentGormRepository) FindWorkingWindows(
	ctx context.Context,
	barberID uint,
	day domain.DayOfWeek,
) ([]models.WorkingWindow, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []models.WorkingWindow
	if err := db.
		Where("barber_id = ? AND day_of_week = ?", barberID, int(day)).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, translate("find working windows", "barber", barberID, err)
	}
	return rows, nil
}

func (r *AppointmentGormRepository) FindOperatingHours(
	ctx context.Context,
	barbershopID uint,
	day domain.DayOfWeek,
) (*models.OperatingHours, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []models.OperatingHours
	if err := db.
		Where("barbershop_id = ? AND day_of_week = ?", barbershopID, int(day)).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, translate("find operating hours", "barbershop", barbershopID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *AppointmentGormRepository) FindActiveAppointments(
	ctx context.Context,
	barberID uint,
) ([]models.Appointment, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var aps []models.Appointment
	if err := db.
		Where("barber_id = ? AND status IN ?", barberID, statusStrings(domain.ActiveStatuses())).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, translate("find active appointments", "barber", barberID, err)
	}
	return aps, nil
}

// SaveAppointment serializes writers per barber with a transaction-scoped
// advisory lock, re-checks overlap under that lock and relies on the
// appointments_no_overlap exclusion constraint as the final guard.
func (r *AppointmentGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	db, cancel := r.conn(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(ap.BarberID)).Error; err != nil {
			return err
		}

		var conflicts []models.Appointment
		q := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"barber_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				ap.BarberID,
				statusStrings(domain.ActiveStatuses()),
				ap.EndTime,
				ap.StartTime,
			)
		if ap.ID != 0 {
			q = q.Where("id <> ?", ap.ID)
		}
		if err := q.Order("start_time ASC").Limit(1).Find(&conflicts).Error; err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.ConflictError{
				Code:          domain.CodeTimeConflict,
				Conflicting:   domain.IntervalOf(conflicts[0]),
				AppointmentID: conflicts[0].ID,
			}
		}

		if ap.ID == 0 {
			return tx.Create(ap).Error
		}

		res := tx.Model(ap).
			Select("start_time", "end_time", "notes", "updated_at").
			Updates(ap)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})

	if domain.IsConflict(err) {
		return err
	}
	return translate("save appointment", "appointment", ap.ID, err)
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var ap models.Appointment
	if err := db.First(&ap, appointmentID).Error; err != nil {
		return nil, translate("get appointment", "appointment", appointmentID, err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Model(ap).
		Where("status = ?", string(from)).
		Select("status", "confirmed_at", "started_at", "completed_at", "cancelled_at", "no_show_at", "updated_at").
		Updates(ap)
	if res.Error != nil {
		return translate("update appointment status", "appointment", ap.ID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// lost a race: report what the row holds now
	var current models.Appointment
	if err := db.Select("id", "status").First(&current, ap.ID).Error; err != nil {
		return translate("update appointment status", "appointment", ap.ID, err)
	}
	return domain.InvalidTransitionError{
		From: domain.Status(current.Status),
		To:   domain.Status(ap.Status),
	}
}

func (r *AppointmentGormRepository) FindOverdueAppointments(
	ctx context.Context,
	now time.Time,
	after *domain.OverdueCursor,
	limit int,
) ([]models.Appointment, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	q := db.
		Where("status IN ? AND end_time < ?", statusStrings(domain.SweepableStatuses()), now).
		Order("end_time ASC, id ASC")
	if after != nil {
		q = q.Where("(end_time, id) > (?, ?)", after.EndTime, after.ID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var aps []models.Appointment
	if err := q.Find(&aps).Error; err != nil {
		return nil, translate("find overdue appointments", "appointment", 0, err)
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var apps []models.Appointment
	if err := db.
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, translate("list appointments", "barber", barberID, err)
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
