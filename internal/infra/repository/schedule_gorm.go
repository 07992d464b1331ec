package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func (r *AppointmentGormRepository) ListWorkingWindows(
	ctx context.Context,
	barberID uint,
) ([]models.WorkingWindow, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []models.WorkingWindow
	if err := db.
		Where("barber_id = ?", barberID).
		Order("day_of_week ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, translate("list working windows", "barber", barberID, err)
	}
	return rows, nil
}

// ReplaceWorkingWindows swaps the barber's whole weekly set atomically.
func (r *AppointmentGormRepository) ReplaceWorkingWindows(
	ctx context.Context,
	barberID uint,
	rows []models.WorkingWindow,
) error {

	db, cancel := r.conn(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("barber_id = ?", barberID).
			Delete(&models.WorkingWindow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].BarberID = barberID
		}
		return tx.Create(&rows).Error
	})
	return translate("replace working windows", "barber", barberID, err)
}

func (r *AppointmentGormRepository) ListOperatingHours(
	ctx context.Context,
	barbershopID uint,
) ([]models.OperatingHours, error) {

	db, cancel := r.conn(ctx)
	defer cancel()

	var rows []models.OperatingHours
	if err := db.
		Where("barbershop_id = ?", barbershopID).
		Order("day_of_week ASC").
		Find(&rows).Error; err != nil {
		return nil, translate("list operating hours", "barbershop", barbershopID, err)
	}
	return rows, nil
}

func (r *AppointmentGormRepository) ReplaceOperatingHours(
	ctx context.Context,
	barbershopID uint,
	rows []models.OperatingHours,
) error {

	db, cancel := r.conn(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("barbershop_id = ?", barbershopID).
			Delete(&models.OperatingHours{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].BarbershopID = barbershopID
		}
		return tx.Create(&rows).Error
	})
	return translate("replace operating hours", "barbershop", barbershopID, err)
}
