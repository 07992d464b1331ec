package models

import "time"

type OperatingHours struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"uniqueIndex:idx_operating_hours_shop_day,priority:1" json:"barbershop_id"`

	DayOfWeek int `gorm:"uniqueIndex:idx_operating_hours_shop_day,priority:2" json:"day_of_week"`

	OpeningTime string `gorm:"size:5" json:"opening_time"`
	ClosingTime string `gorm:"size:5" json:"closing_time"`
	IsClosed    bool   `json:"is_closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
