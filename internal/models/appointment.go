package models

import "time"

// Appointment references other entities by id only; the scheduling core
// never walks associations.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint `gorm:"index" json:"barbershop_id"`
	BarberID     uint `gorm:"index:idx_appointments_barber_start,priority:1" json:"barber_id"`
	ClientID     uint `gorm:"index" json:"client_id"`
	ServiceID    uint `json:"service_id"`

	StartTime time.Time `gorm:"not null;index:idx_appointments_barber_start,priority:2" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled';index" json:"status"`

	PriceAtBooking float64 `gorm:"type:numeric(10,2)" json:"price_at_booking"`
	Notes          string  `gorm:"size:255" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	NoShowAt    *time.Time `json:"no_show_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
