package availability

import (
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

// SlotLength is the fixed block size of the calendar grid.
const SlotLength = 30 * time.Minute

type DayStatus string

const (
	DayNoAvailability DayStatus = "SIN_DISPONIBILIDAD"
	DayFree           DayStatus = "LIBRE"
	DayPartial        DayStatus = "PARCIALMENTE_DISPONIBLE"
)

// BarberDay is one barber's snapshot for a single calendar date: enabled
// working windows projected onto the date and the intervals held by active
// appointments.
type BarberDay struct {
	BarberID uint
	Windows  []appointment.Interval
	Busy     []appointment.Interval
}

// ShopDay is the shop's operating window for a date; Open is false on
// closed days.
type ShopDay struct {
	Open   bool
	Window appointment.Interval
}

type FreeWindow struct {
	Available   bool      `json:"available"`
	FreeMinutes int       `json:"free_minutes"`
	FreeUntil   time.Time `json:"free_until,omitempty"`
}

type DayAvailability struct {
	Date   string    `json:"date"`
	Status DayStatus `json:"status"`
}

type Slot struct {
	Time      string    `json:"time"`
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
}

// FreeIntervals returns the barber's working windows clipped to the shop's
// operating window, minus booked time. Ordered, non-empty pieces; touching
// windows come back as one piece.
func FreeIntervals(bd BarberDay, shop ShopDay) []appointment.Interval {
	if !shop.Open {
		return nil
	}

	var out []appointment.Interval
	for _, w := range appointment.Merge(bd.Windows) {
		clipped, ok := appointment.Intersect(w, shop.Window)
		if !ok {
			continue
		}
		out = append(out, appointment.Subtract(clipped, bd.Busy)...)
	}
	return out
}

// FreeAt reports whether the barber can take a client at t and for how many
// whole minutes, bounded by the end of the current window, the next booking
// or closing time, whichever comes first.
func FreeAt(bd BarberDay, shop ShopDay, t time.Time) FreeWindow {
	if !shop.Open || !shop.Window.Covers(t) {
		return FreeWindow{}
	}

	windows := appointment.Merge(bd.Windows)
	var current *appointment.Interval
	for i := range windows {
		if windows[i].Covers(t) {
			current = &windows[i]
			break
		}
	}
	if current == nil {
		return FreeWindow{}
	}

	until := current.End
	if shop.Window.End.Before(until) {
		until = shop.Window.End
	}

	for _, b := range bd.Busy {
		if b.Covers(t) {
			return FreeWindow{}
		}
		if b.Start.After(t) && b.Start.Before(until) {
			until = b.Start
		}
	}

	return FreeWindow{
		Available:   true,
		FreeMinutes: int(until.Sub(t) / time.Minute),
		FreeUntil:   until,
	}
}

// ClassifyDay colors one calendar date:
//   - no availability when the shop is closed or no barber has free time;
//   - free when no barber has any booking that day;
//   - partially available otherwise.
func ClassifyDay(shop ShopDay, barbers []BarberDay) DayStatus {
	if !shop.Open {
		return DayNoAvailability
	}

	anyFree := false
	anyBooked := false
	for _, bd := range barbers {
		if len(FreeIntervals(bd, shop)) > 0 {
			anyFree = true
		}
		if len(bd.Busy) > 0 {
			anyBooked = true
		}
	}

	switch {
	case !anyFree:
		return DayNoAvailability
	case !anyBooked:
		return DayFree
	default:
		return DayPartial
	}
}

// SlotGrid splits the operating window into 30-minute blocks aligned to :00
// and :30. A block is available when at least one barber is free for the
// whole block.
func SlotGrid(shop ShopDay, barbers []BarberDay) []Slot {
	if !shop.Open {
		return nil
	}

	free := make([][]appointment.Interval, len(barbers))
	for i, bd := range barbers {
		free[i] = FreeIntervals(bd, shop)
	}

	var slots []Slot
	for cur := alignUp(shop.Window.Start); !cur.Add(SlotLength).After(shop.Window.End); cur = cur.Add(SlotLength) {
		block := appointment.Interval{Start: cur, End: cur.Add(SlotLength)}

		available := false
		for _, pieces := range free {
			if coveredBy(block, pieces) {
				available = true
				break
			}
		}

		slots = append(slots, Slot{
			Time:      cur.Format("15:04"),
			Start:     cur,
			Available: available,
		})
	}
	return slots
}

// CheckBookable explains why candidate cannot be booked on the barber's
// schedule, or returns nil when it fits in the opening hours and in one
// stretch of working time. Touching windows count as one stretch.
func CheckBookable(bd BarberDay, shop ShopDay, candidate appointment.Interval) error {
	if !shop.Open {
		return appointment.OutOfWindowError{Code: appointment.CodeShopClosed}
	}
	if !appointment.Contains(shop.Window, candidate) {
		return appointment.OutOfWindowError{Code: appointment.CodeOutsideOperatingHours}
	}
	if len(bd.Windows) == 0 {
		return appointment.OutOfWindowError{Code: appointment.CodeBarberUnavailable}
	}
	for _, w := range appointment.Merge(bd.Windows) {
		if appointment.Contains(w, candidate) {
			return nil
		}
	}
	return appointment.OutOfWindowError{Code: appointment.CodeOutsideWorkingHours}
}

func coveredBy(block appointment.Interval, pieces []appointment.Interval) bool {
	for _, p := range pieces {
		if appointment.Contains(p, block) {
			return true
		}
	}
	return false
}

func alignUp(t time.Time) time.Time {
	y, mo, d := t.Date()
	aligned := time.Date(y, mo, d, t.Hour(), (t.Minute()/30)*30, 0, 0, t.Location())
	if aligned.Before(t) {
		aligned = aligned.Add(SlotLength)
	}
	return aligned
}
