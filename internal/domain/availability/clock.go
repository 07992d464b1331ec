package availability

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

// ClockRange is a time-of-day range expressed in minutes after midnight.
// It never crosses midnight.
type ClockRange struct {
	Start int
	End   int
}

// ParseClock reads "15:04".
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", hm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func ParseRange(start, end string) (ClockRange, error) {
	s, err := ParseClock(start)
	if err != nil {
		return ClockRange{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return ClockRange{}, err
	}
	if s >= e {
		return ClockRange{}, fmt.Errorf("range %s-%s must start before it ends", start, end)
	}
	return ClockRange{Start: s, End: e}, nil
}

func (r ClockRange) Overlaps(o ClockRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// On projects the range onto the calendar date of day, in day's location.
func (r ClockRange) On(day time.Time) appointment.Interval {
	y, m, d := day.Date()
	loc := day.Location()
	return appointment.Interval{
		Start: time.Date(y, m, d, r.Start/60, r.Start%60, 0, 0, loc),
		End:   time.Date(y, m, d, r.End/60, r.End%60, 0, 0, loc),
	}
}

func (r ClockRange) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", r.Start/60, r.Start%60, r.End/60, r.End%60)
}

// DayBounds returns midnight-to-midnight for the calendar date of t.
func DayBounds(t time.Time) appointment.Interval {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return appointment.Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
