package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// MemoryRepository keeps everything in process. Writes for one barber are
// serialized by a per-barber mutex, so overlap checks and inserts are atomic
// exactly like the advisory lock of the postgres store.
type MemoryRepository struct {
	mu sync.RWMutex

	shops    map[uint]models.Barbershop
	users    map[uint]models.User
	services map[uint]models.Service
	clients  map[uint]models.Client
	windows  map[uint][]models.WorkingWindow
	hours    map[uint][]models.OperatingHours
	apps     map[uint]models.Appointment

	nextID uint

	locksMu sync.Mutex
	locks   map[uint]*sync.Mutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		shops:    make(map[uint]models.Barbershop),
		users:    make(map[uint]models.User),
		services: make(map[uint]models.Service),
		clients:  make(map[uint]models.Client),
		windows:  make(map[uint][]models.WorkingWindow),
		hours:    make(map[uint][]models.OperatingHours),
		apps:     make(map[uint]models.Appointment),
		locks:    make(map[uint]*sync.Mutex),
	}
}

func (r *MemoryRepository) id() uint {
	r.nextID++
	return r.nextID
}

func (r *MemoryRepository) barberLock(barberID uint) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	m, ok := r.locks[barberID]
	if !ok {
		m = &sync.Mutex{}
		r.locks[barberID] = m
	}
	return m
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *MemoryRepository) AddBarbershop(shop models.Barbershop) models.Barbershop {
	r.mu.Lock()
	defer r.mu.Unlock()

	if shop.ID == 0 {
		shop.ID = r.id()
	}
	r.shops[shop.ID] = shop
	return shop
}

func (r *MemoryRepository) AddUser(u models.User) models.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == 0 {
		u.ID = r.id()
	}
	r.users[u.ID] = u
	return u
}

func (r *MemoryRepository) AddService(s models.Service) models.Service {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == 0 {
		s.ID = r.id()
	}
	r.services[s.ID] = s
	return s
}

func (r *MemoryRepository) AddClient(c models.Client) models.Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == 0 {
		c.ID = r.id()
	}
	r.clients[c.ID] = c
	return c
}

// AddAppointment stores ap as is, without conflict checks.
func (r *MemoryRepository) AddAppointment(ap models.Appointment) models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ap.ID == 0 {
		ap.ID = r.id()
	}
	if ap.Status == "" {
		ap.Status = string(domain.InitialStatus())
	}
	r.apps[ap.ID] = ap
	return ap
}

// --------------------------------------------------
// Barbershop / barbers
// --------------------------------------------------

func (r *MemoryRepository) GetBarbershopByID(_ context.Context, id uint) (*models.Barbershop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shop, ok := r.shops[id]
	if !ok {
		return nil, domain.NotFound("barbershop", id)
	}
	return &shop, nil
}

func (r *MemoryRepository) GetBarber(_ context.Context, barberID uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[barberID]
	if !ok || (u.Role != models.RoleOwner && u.Role != models.RoleBarber) {
		return nil, domain.NotFound("barber", barberID)
	}
	return &u, nil
}

func (r *MemoryRepository) ListBarbers(_ context.Context, barbershopID uint) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.User
	for _, u := range r.users {
		if u.BarbershopID == barbershopID && u.TakesAppointments() {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.NotFound("user", 0)
}

// --------------------------------------------------
// Service / client
// --------------------------------------------------

func (r *MemoryRepository) GetService(_ context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.services[serviceID]
	if !ok || s.BarbershopID != barbershopID {
		return nil, domain.NotFound("service", serviceID)
	}
	return &s, nil
}

func (r *MemoryRepository) GetClient(_ context.Context, clientID uint) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[clientID]
	if !ok {
		return nil, domain.NotFound("client", clientID)
	}
	return &c, nil
}

// --------------------------------------------------
// Schedule inputs
// --------------------------------------------------

func (r *MemoryRepository) FindWorkingWindows(
	_ context.Context,
	barberID uint,
	day domain.DayOfWeek,
) ([]models.WorkingWindow, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.WorkingWindow
	for _, w := range r.windows[barberID] {
		if w.DayOfWeek == int(day) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *MemoryRepository) FindOperatingHours(
	_ context.Context,
	barbershopID uint,
	day domain.DayOfWeek,
) (*models.OperatingHours, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.hours[barbershopID] {
		if h.DayOfWeek == int(day) {
			return &h, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) ListWorkingWindows(_ context.Context, barberID uint) ([]models.WorkingWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]models.WorkingWindow(nil), r.windows[barberID]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *MemoryRepository) ReplaceWorkingWindows(_ context.Context, barberID uint, rows []models.WorkingWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.WorkingWindow, len(rows))
	for i, w := range rows {
		w.ID = r.id()
		w.BarberID = barberID
		next[i] = w
	}
	r.windows[barberID] = next
	return nil
}

func (r *MemoryRepository) ListOperatingHours(_ context.Context, barbershopID uint) ([]models.OperatingHours, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]models.OperatingHours(nil), r.hours[barbershopID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func (r *MemoryRepository) ReplaceOperatingHours(_ context.Context, barbershopID uint, rows []models.OperatingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.OperatingHours, len(rows))
	for i, h := range rows {
		h.ID = r.id()
		h.BarbershopID = barbershopID
		next[i] = h
	}
	r.hours[barbershopID] = next
	return nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *MemoryRepository) FindActiveAppointments(_ context.Context, barberID uint) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activeFor(barberID), nil
}

func (r *MemoryRepository) activeFor(barberID uint) []models.Appointment {
	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.BarberID == barberID && domain.IsActive(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (r *MemoryRepository) SaveAppointment(_ context.Context, ap *models.Appointment) error {
	lock := r.barberLock(ap.BarberID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := domain.AssertNoConflict(
		ap.BarberID,
		domain.IntervalOf(*ap),
		r.activeFor(ap.BarberID),
		ap.ID,
	); err != nil {
		return err
	}

	now := time.Now()
	if ap.ID == 0 {
		ap.ID = r.id()
		if ap.Status == "" {
			ap.Status = string(domain.InitialStatus())
		}
		ap.CreatedAt = now
		ap.UpdatedAt = now
		r.apps[ap.ID] = *ap
		return nil
	}

	stored, ok := r.apps[ap.ID]
	if !ok {
		return domain.NotFound("appointment", ap.ID)
	}
	stored.StartTime = ap.StartTime
	stored.EndTime = ap.EndTime
	stored.Notes = ap.Notes
	stored.UpdatedAt = now
	r.apps[ap.ID] = stored
	*ap = stored
	return nil
}

func (r *MemoryRepository) GetAppointment(_ context.Context, appointmentID uint) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.apps[appointmentID]
	if !ok {
		return nil, domain.NotFound("appointment", appointmentID)
	}
	return &ap, nil
}

func (r *MemoryRepository) UpdateAppointmentStatus(
	_ context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.apps[ap.ID]
	if !ok {
		return domain.NotFound("appointment", ap.ID)
	}
	if domain.Status(stored.Status) != from {
		return domain.InvalidTransitionError{
			From: domain.Status(stored.Status),
			To:   domain.Status(ap.Status),
		}
	}

	stored.Status = ap.Status
	stored.ConfirmedAt = ap.ConfirmedAt
	stored.StartedAt = ap.StartedAt
	stored.CompletedAt = ap.CompletedAt
	stored.CancelledAt = ap.CancelledAt
	stored.NoShowAt = ap.NoShowAt
	stored.UpdatedAt = time.Now()
	r.apps[ap.ID] = stored
	return nil
}

func (r *MemoryRepository) FindOverdueAppointments(
	_ context.Context,
	now time.Time,
	after *domain.OverdueCursor,
	limit int,
) ([]models.Appointment, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range r.apps {
		s := domain.Status(ap.Status)
		if (s == domain.StatusScheduled || s == domain.StatusConfirmed) &&
			ap.EndTime.Before(now) && after.Passed(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EndTime.Equal(out[j].EndTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].EndTime.Before(out[j].EndTime)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) ListAppointmentsForPeriod(
	_ context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range r.apps {
		if ap.BarberID != barberID {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

var _ domain.Repository = (*MemoryRepository)(nil)
