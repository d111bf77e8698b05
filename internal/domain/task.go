// Package domain contains core business entities and interfaces.
package domain

import (
	"fmt"
	"time"
)

// Kind identifies which entity variant a value is.
type Kind string

// Entity kinds. The values double as the type column of CSV backups.
const (
	KindTask    Kind = "Task"
	KindEpic    Kind = "Epic"
	KindSubTask Kind = "SubTask"
)

// IsValid returns true if the kind is a known value.
func (k Kind) IsValid() bool {
	switch k {
	case KindTask, KindEpic, KindSubTask:
		return true
	default:
		return false
	}
}

// Label returns the lowercase name used in messages and log categories.
func (k Kind) Label() string {
	switch k {
	case KindTask:
		return "task"
	case KindEpic:
		return "epic"
	case KindSubTask:
		return "subtask"
	default:
		return string(k)
	}
}

// Entity is implemented by *Task, *SubTask and *EpicView only.
// Code that must handle every variant switches on the concrete type.
type Entity interface {
	EntityID() int
	EntityKind() Kind
	EntityName() string
	EntityStatus() Status
	entity()
}

// Task represents an atomic unit of work.
// Fields are ordered to minimize memory padding.
type Task struct {
	Start       *time.Time     // Planned start (nil = unscheduled)
	Duration    *time.Duration // Planned duration (nil = unknown)
	Name        string         // Short title
	Description string         // Free-form description
	Status      Status         // Current status
	ID          int            // Unique across all kinds
}

// CheckDuration rejects negative durations and durations that are not
// whole minutes, the unit backups and the HTTP API carry.
func (t *Task) CheckDuration() error {
	if t.Duration == nil {
		return nil
	}
	if d := *t.Duration; d < 0 || d%time.Minute != 0 {
		return fmt.Errorf("%w: %s is not a whole number of minutes", ErrInvalidDuration, d)
	}
	return nil
}

// End returns Start + Duration. ok is false when either is absent.
func (t *Task) End() (end time.Time, ok bool) {
	if t.Start == nil || t.Duration == nil {
		return time.Time{}, false
	}
	return t.Start.Add(*t.Duration), true
}

// IsTimed returns true if the task has a start time.
func (t *Task) IsTimed() bool {
	return t.Start != nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Start = cloneTime(t.Start)
	c.Duration = cloneDuration(t.Duration)
	return &c
}

func (t *Task) EntityID() int        { return t.ID }
func (t *Task) EntityKind() Kind     { return KindTask }
func (t *Task) EntityName() string   { return t.Name }
func (t *Task) EntityStatus() Status { return t.Status }
func (t *Task) entity()              {}

// SubTask is a task owned by exactly one epic.
// EpicID is set when the subtask is added and never changes afterwards.
type SubTask struct {
	Task
	EpicID int
}

// Clone returns a deep copy of the subtask.
func (s *SubTask) Clone() *SubTask {
	return &SubTask{Task: *s.Task.Clone(), EpicID: s.EpicID}
}

func (s *SubTask) EntityKind() Kind { return KindSubTask }

// Epic holds the client-writable fields of an epic.
// Status is only consulted when the epic is added; afterwards the
// effective status is derived from the subtasks.
// Fields are ordered to minimize memory padding.
type Epic struct {
	Name        string
	Description string
	Status      Status
	ID          int
}

// Clone returns a copy of the epic.
func (e *Epic) Clone() *Epic {
	c := *e
	return &c
}

// Timeline is the schedule derived from an epic's subtasks.
// Start and End are nil when no subtask has a start time.
type Timeline struct {
	Start    *time.Time
	End      *time.Time
	Duration time.Duration
}

// EpicState is the derived part of an epic, recomputed on every
// change to its subtask set.
type EpicState struct {
	Timeline Timeline
	Status   Status
}

// EpicView is the read-only merge of an epic's stored fields, its
// derived state and its subtask ids (ascending).
// Fields are ordered to minimize memory padding.
type EpicView struct {
	Timeline    Timeline
	SubTaskIDs  []int
	Name        string
	Description string
	Status      Status
	ID          int
}

// NewEpicView merges the stored epic with its derived state.
func NewEpicView(e *Epic, state EpicState, subtaskIDs []int) *EpicView {
	ids := make([]int, len(subtaskIDs))
	copy(ids, subtaskIDs)
	return &EpicView{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Status:      state.Status,
		Timeline: Timeline{
			Start:    cloneTime(state.Timeline.Start),
			End:      cloneTime(state.Timeline.End),
			Duration: state.Timeline.Duration,
		},
		SubTaskIDs: ids,
	}
}

func (v *EpicView) EntityID() int        { return v.ID }
func (v *EpicView) EntityKind() Kind     { return KindEpic }
func (v *EpicView) EntityName() string   { return v.Name }
func (v *EpicView) EntityStatus() Status { return v.Status }
func (v *EpicView) entity()              {}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneDuration(d *time.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// DurationPtr returns a pointer to d.
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}
