package appointment

import (
	"fmt"
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewInterval(start time.Time, minutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

// Empty reports whether the interval covers no time at all.
func (i Interval) Empty() bool {
	return !i.Start.Before(i.End)
}

func (i Interval) Duration() time.Duration {
	if i.Empty() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Covers reports whether the instant t lies inside the interval.
func (i Interval) Covers(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// Overlaps uses half-open semantics: intervals sharing only a boundary
// instant do not overlap, and an empty interval overlaps nothing.
func Overlaps(a, b Interval) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func Contains(outer, inner Interval) bool {
	if outer.Empty() || inner.Empty() {
		return false
	}
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}

// Intersect returns the common part of a and b; ok is false when they do not overlap.
func Intersect(a, b Interval) (Interval, bool) {
	if !Overlaps(a, b) {
		return Interval{}, false
	}
	out := a
	if b.Start.After(out.Start) {
		out.Start = b.Start
	}
	if b.End.Before(out.End) {
		out.End = b.End
	}
	return out, true
}

// Subtract removes every busy interval from base. The result is ordered and
// never contains empty intervals.
func Subtract(base Interval, busy []Interval) []Interval {
	if base.Empty() {
		return nil
	}
	out := []Interval{base}
	for _, b := range busy {
		if b.Empty() {
			continue
		}
		next := out[:0:0]
		for _, cur := range out {
			if !Overlaps(cur, b) {
				next = append(next, cur)
				continue
			}
			if cur.Start.Before(b.Start) {
				next = append(next, Interval{Start: cur.Start, End: b.Start})
			}
			if b.End.Before(cur.End) {
				next = append(next, Interval{Start: b.End, End: cur.End})
			}
		}
		out = next
	}
	return out
}

// Merge joins overlapping or touching intervals. The result is ordered by
// start and skips empty intervals; the input is left untouched.
func Merge(in []Interval) []Interval {
	var sorted []Interval
	for _, i := range in {
		if !i.Empty() {
			sorted = append(sorted, i)
		}
	}
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Start.Before(sorted[b].Start) })

	var out []Interval
	for _, cur := range sorted {
		if n := len(out); n > 0 && !cur.Start.After(out[n-1].End) {
			if cur.End.After(out[n-1].End) {
				out[n-1].End = cur.End
			}
			continue
		}
		out = append(out, cur)
	}
	return out
}
