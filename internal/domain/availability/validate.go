package availability

import (
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// ValidateWorkingWindows checks a barber's full weekly set before it is
// stored. Every row needs a valid ISO weekday and start < end; enabled rows of
// the same day must not overlap. Disabled rows only need to parse.
func ValidateWorkingWindows(rows []models.WorkingWindow) error {
	byDay := make(map[appointment.DayOfWeek][]ClockRange)

	for _, row := range rows {
		day := appointment.DayOfWeek(row.DayOfWeek)
		if !day.Valid() {
			return appointment.Invalid("invalid_window")
		}

		r, err := ParseRange(row.StartTime, row.EndTime)
		if err != nil {
			return appointment.Invalid("invalid_window")
		}
		if !row.IsAvailable {
			continue
		}

		for _, other := range byDay[day] {
			if r.Overlaps(other) {
				return appointment.Invalid("overlapping_windows")
			}
		}
		byDay[day] = append(byDay[day], r)
	}
	return nil
}

// ValidateOperatingHours allows one row per weekday; open days close after
// they open.
func ValidateOperatingHours(rows []models.OperatingHours) error {
	seen := make(map[appointment.DayOfWeek]bool, len(rows))

	for _, row := range rows {
		day := appointment.DayOfWeek(row.DayOfWeek)
		if !day.Valid() || seen[day] {
			return appointment.Invalid("invalid_hours")
		}
		seen[day] = true

		if row.IsClosed {
			continue
		}
		if _, err := ParseRange(row.OpeningTime, row.ClosingTime); err != nil {
			return appointment.Invalid("invalid_hours")
		}
	}
	return nil
}
