package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestTask_End(t *testing.T) {
	tests := []struct {
		start    *time.Time
		duration *time.Duration
		name     string
		wantEnd  time.Time
		wantOK   bool
	}{
		{name: "timed", start: TimePtr(base), duration: DurationPtr(90 * time.Minute), wantEnd: base.Add(90 * time.Minute), wantOK: true},
		{name: "no duration", start: TimePtr(base)},
		{name: "no start", duration: DurationPtr(time.Hour)},
		{name: "untimed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{ID: 1, Start: tt.start, Duration: tt.duration}
			end, ok := task.End()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTask_Clone(t *testing.T) {
	orig := &Task{ID: 1, Name: "a", Start: TimePtr(base), Duration: DurationPtr(time.Hour)}

	c := orig.Clone()
	*c.Start = base.Add(time.Hour)
	*c.Duration = time.Minute
	c.Name = "b"

	assert.Equal(t, base, *orig.Start)
	assert.Equal(t, time.Hour, *orig.Duration)
	assert.Equal(t, "a", orig.Name)
}

func TestSubTask_Clone(t *testing.T) {
	orig := &SubTask{Task: Task{ID: 2, Start: TimePtr(base)}, EpicID: 1}

	c := orig.Clone()
	*c.Start = base.Add(time.Hour)

	assert.Equal(t, base, *orig.Start)
	assert.Equal(t, 1, c.EpicID)
}

func TestEntityKinds(t *testing.T) {
	var entities = []Entity{
		&Task{ID: 1},
		&SubTask{Task: Task{ID: 2}, EpicID: 3},
		&EpicView{ID: 3},
	}

	kinds := make([]Kind, 0, len(entities))
	for _, e := range entities {
		kinds = append(kinds, e.EntityKind())
	}

	assert.Equal(t, []Kind{KindTask, KindSubTask, KindEpic}, kinds)
}

func TestNewEpicView(t *testing.T) {
	// Setup
	epic := &Epic{ID: 1, Name: "release", Description: "v1", Status: StatusNew}
	state := EpicState{
		Status:   StatusInProgress,
		Timeline: Timeline{Start: TimePtr(base), End: TimePtr(base.Add(time.Hour)), Duration: time.Hour},
	}
	ids := []int{2, 3}

	// Execute
	view := NewEpicView(epic, state, ids)
	ids[0] = 99
	*state.Timeline.Start = base.Add(time.Minute)

	// Assert
	require.NotNil(t, view)
	assert.Equal(t, StatusInProgress, view.Status)
	assert.Equal(t, []int{2, 3}, view.SubTaskIDs)
	assert.Equal(t, base, *view.Timeline.Start)
	assert.Equal(t, "release", view.Name)
}

func TestKind_Label(t *testing.T) {
	assert.Equal(t, "task", KindTask.Label())
	assert.Equal(t, "epic", KindEpic.Label())
	assert.Equal(t, "subtask", KindSubTask.Label())
	assert.False(t, Kind("Story").IsValid())
}
