package appointment

import (
	"sort"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// FindConflict returns the first active appointment of barberID overlapping
// candidate, skipping excludeID (0 excludes nothing). Linear scan: a single
// barber's active bookings are few.
func FindConflict(
	barberID uint,
	candidate Interval,
	existing []models.Appointment,
	excludeID uint,
) *models.Appointment {

	for i := range existing {
		ap := &existing[i]
		if ap.BarberID != barberID {
			continue
		}
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		if !IsActive(*ap) {
			continue
		}
		if Overlaps(candidate, IntervalOf(*ap)) {
			return ap
		}
	}
	return nil
}

func HasConflict(
	barberID uint,
	candidate Interval,
	existing []models.Appointment,
	excludeID uint,
) bool {
	return FindConflict(barberID, candidate, existing, excludeID) != nil
}

// AssertNoConflict turns a detected overlap into a ConflictError naming the
// interval it collided with.
func AssertNoConflict(
	barberID uint,
	candidate Interval,
	existing []models.Appointment,
	excludeID uint,
) error {
	if hit := FindConflict(barberID, candidate, existing, excludeID); hit != nil {
		return ConflictError{
			Code:          CodeTimeConflict,
			Conflicting:   IntervalOf(*hit),
			AppointmentID: hit.ID,
		}
	}
	return nil
}

// IndexByBarber groups appointments per barber, each group ordered by start.
func IndexByBarber(aps []models.Appointment) map[uint][]models.Appointment {
	out := make(map[uint][]models.Appointment)
	for _, ap := range aps {
		out[ap.BarberID] = append(out[ap.BarberID], ap)
	}
	for id := range out {
		group := out[id]
		sort.Slice(group, func(i, j int) bool {
			return group[i].StartTime.Before(group[j].StartTime)
		})
	}
	return out
}

// BusyIntervals returns the intervals of active appointments, ordered by start.
func BusyIntervals(aps []models.Appointment) []Interval {
	out := make([]Interval, 0, len(aps))
	for _, ap := range aps {
		if IsActive(ap) {
			out = append(out, IntervalOf(ap))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
