package domain

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two intervals intersect.
// Intervals that only touch at an endpoint do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.End.After(other.Start) && other.End.After(i.Start)
}

// IntervalOf returns the interval occupied by e. ok is false for epics and
// for items missing either a start time or a duration; such items never
// take part in overlap checks.
func IntervalOf(e Entity) (iv Interval, ok bool) {
	var t *Task
	switch v := e.(type) {
	case *Task:
		t = v
	case *SubTask:
		t = &v.Task
	case *EpicView:
		return Interval{}, false
	default:
		return Interval{}, false
	}

	end, ok := t.End()
	if !ok {
		return Interval{}, false
	}
	return Interval{Start: *t.Start, End: end}, true
}

// Overlaps reports whether two entities occupy intersecting intervals.
func Overlaps(a, b Entity) bool {
	ia, ok := IntervalOf(a)
	if !ok {
		return false
	}
	ib, ok := IntervalOf(b)
	if !ok {
		return false
	}
	return ia.Overlaps(ib)
}
