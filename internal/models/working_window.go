package models

import "time"

// WorkingWindow is a recurring weekly range in which a barber accepts
// appointments. Times are "15:04" in the shop's timezone.
type WorkingWindow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"index:idx_working_windows_barber_day,priority:1" json:"barber_id"`

	DayOfWeek int `gorm:"index:idx_working_windows_barber_day,priority:2" json:"day_of_week"`

	StartTime   string `gorm:"size:5;not null" json:"start_time"`
	EndTime     string `gorm:"size:5;not null" json:"end_time"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
