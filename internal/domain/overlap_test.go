package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timed(id int, start time.Time, d time.Duration) *Task {
	return &Task{ID: id, Status: StatusNew, Start: TimePtr(start), Duration: DurationPtr(d)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		a, b   Entity
		name   string
		expect bool
	}{
		{name: "identical starts", a: timed(1, base, time.Hour), b: timed(2, base, time.Minute), expect: true},
		{name: "partial", a: timed(1, base, time.Hour), b: timed(2, base.Add(30*time.Minute), time.Hour), expect: true},
		{name: "contained", a: timed(1, base, 3*time.Hour), b: timed(2, base.Add(time.Hour), time.Minute), expect: true},
		{name: "touching endpoints", a: timed(1, base, time.Hour), b: timed(2, base.Add(time.Hour), time.Hour), expect: false},
		{name: "disjoint", a: timed(1, base, time.Hour), b: timed(2, base.Add(5*time.Hour), time.Hour), expect: false},
		{name: "missing duration", a: &Task{ID: 1, Start: TimePtr(base)}, b: timed(2, base, time.Hour), expect: false},
		{name: "missing start", a: &Task{ID: 1, Duration: DurationPtr(time.Hour)}, b: timed(2, base, time.Hour), expect: false},
		{name: "subtask vs task", a: &SubTask{Task: *timed(1, base, time.Hour), EpicID: 9}, b: timed(2, base, time.Hour), expect: true},
		{name: "epic never overlaps", a: &EpicView{ID: 1, Timeline: Timeline{Start: TimePtr(base), End: TimePtr(base.Add(time.Hour))}}, b: timed(2, base, time.Hour), expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.expect, Overlaps(tt.b, tt.a), "overlap must be symmetric")
		})
	}
}

func TestOverlapError(t *testing.T) {
	err := error(&OverlapError{
		Candidate: timed(3, base, time.Hour),
		Conflict:  &SubTask{Task: *timed(2, base, time.Hour), EpicID: 1},
	})

	assert.True(t, errors.Is(err, ErrTimelineOverlap))
	assert.Equal(t, "timeline overlap: task #3 overlaps subtask #2", err.Error())

	var oe *OverlapError
	assert.True(t, errors.As(err, &oe))
	assert.Equal(t, 2, oe.Conflict.EntityID())
}

func TestErrEpicUnfinished(t *testing.T) {
	assert.True(t, errors.Is(ErrEpicUnfinished, ErrInvalidState))
	assert.True(t, errors.Is(NotFound(KindEpic, 4), ErrNotFound))
	assert.Equal(t, "epic #4: not found", NotFound(KindEpic, 4).Error())
}
