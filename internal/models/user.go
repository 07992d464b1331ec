package models

import "time"

const (
	RoleOwner  = "owner"
	RoleBarber = "barber"
	RoleClient = "client"
)

type User struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index" json:"barbershop_id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'owner'" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TakesAppointments reports whether the user is a bookable barber.
func (u User) TakesAppointments() bool {
	return u.Active && (u.Role == RoleOwner || u.Role == RoleBarber)
}
