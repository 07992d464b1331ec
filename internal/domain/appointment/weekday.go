package appointment

import (
	"fmt"
	"time"
)

// DayOfWeek uses ISO numbering: 1 = Monday ... 7 = Sunday.
// Working windows and operating hours share this type.
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func DayOf(t time.Time) DayOfWeek {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return DayOfWeek(wd)
}

func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) Weekday() time.Weekday {
	if d == Sunday {
		return time.Sunday
	}
	return time.Weekday(d)
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return d.Weekday().String()
}
