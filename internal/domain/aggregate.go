package domain

import "time"

// AggregateStatus derives an epic's status from the statuses of its subtasks.
// With no subtasks the current status is kept. All NEW gives NEW, all DONE
// gives DONE, any other mix gives IN_PROGRESS.
func AggregateStatus(current Status, subtasks []Status) Status {
	if len(subtasks) == 0 {
		return current.OrNew()
	}

	allNew, allDone := true, true
	for _, s := range subtasks {
		if s != StatusNew {
			allNew = false
		}
		if s != StatusDone {
			allDone = false
		}
	}

	switch {
	case allNew:
		return StatusNew
	case allDone:
		return StatusDone
	default:
		return StatusInProgress
	}
}

// AggregateTimeline derives an epic's timeline from its subtasks in one pass.
// Duration sums every known duration. Start is the earliest start and End the
// latest start+duration among subtasks that have them.
func AggregateTimeline(subtasks []*SubTask) Timeline {
	var (
		tl    Timeline
		start time.Time
		end   time.Time
	)
	hasStart, hasEnd := false, false

	for _, st := range subtasks {
		if st.Duration != nil {
			tl.Duration += *st.Duration
		}
		if st.Start == nil {
			continue
		}
		if !hasStart || st.Start.Before(start) {
			start = *st.Start
			hasStart = true
		}
		if e, ok := st.End(); ok && (!hasEnd || e.After(end)) {
			end = e
			hasEnd = true
		}
	}

	if hasStart {
		tl.Start = &start
	}
	if hasEnd {
		tl.End = &end
	}
	return tl
}

// Aggregate computes the complete derived state of an epic.
func Aggregate(current Status, subtasks []*SubTask) EpicState {
	statuses := make([]Status, len(subtasks))
	for i, st := range subtasks {
		statuses[i] = st.Status
	}
	return EpicState{
		Status:   AggregateStatus(current, statuses),
		Timeline: AggregateTimeline(subtasks),
	}
}
