package domain

import (
	"context"
	"time"
)

// TaskManager is the entry point to the tracker core.
// Mutations are serialized; reads never block on a writer.
// Get and list operations return copies, so callers may modify the
// returned values freely.
type TaskManager interface {
	// AddTask stores a NEW task under its id.
	AddTask(t *Task) error
	// AddEpic stores a NEW epic under its id.
	AddEpic(e *Epic) error
	// AddSubTask stores a NEW subtask under epic, registering the epic
	// first if it is not stored yet.
	AddSubTask(st *SubTask, epic *Epic) error

	GetTask(id int) (*Task, error)
	GetEpic(id int) (*EpicView, error)
	GetSubTask(id int) (*SubTask, error)

	UpdateTask(t *Task) error
	// UpdateEpic replaces name and description. Status is derived.
	UpdateEpic(e *Epic) error
	// UpdateSubTask replaces the subtask. Its epic cannot change.
	UpdateSubTask(st *SubTask) error

	RemoveTask(id int) error
	// RemoveEpic removes an epic together with its subtasks, which must all be DONE.
	RemoveEpic(id int) error
	RemoveSubTask(id int) error

	RemoveAllTasks() error
	RemoveAllEpics() error
	RemoveAllSubTasks() error

	// Tasks, Epics and SubTasks list entities ordered by id.
	Tasks() []*Task
	Epics() []*EpicView
	SubTasks() []*SubTask
	// EpicSubTasks lists the subtasks of one epic ordered by id.
	EpicSubTasks(epicID int) ([]*SubTask, error)

	// History lists visited entities, least recently visited first.
	History() []Entity
	// Prioritized lists timed tasks and subtasks by start time, then id.
	Prioritized() []Entity

	// NextID hands out a fresh id.
	NextID() int
}

// History tracks recently visited entities, at most one entry per id.
type History interface {
	// Add records a visit. A nil entity is ignored.
	Add(e Entity)
	// Remove forgets the entity with the given id.
	Remove(id int)
	// Clear forgets everything.
	Clear()
	// List returns entries from least to most recently visited.
	List() []Entity
}

// Backup persists and restores the complete entity set.
type Backup interface {
	// Save replaces the stored backup with records.
	Save(ctx context.Context, records []Record) error
	// Load returns the stored records. A missing backup yields no records.
	Load(ctx context.Context) ([]Record, error)
}

// Snapshotter keeps point-in-time copies of a backup.
type Snapshotter interface {
	// Snapshot copies the current backup and returns the snapshot name.
	Snapshot(ctx context.Context, at time.Time) (string, error)
	// Snapshots lists snapshot names, oldest first.
	Snapshots(ctx context.Context) ([]string, error)
}

// Logger records operational messages tagged with an entity id.
// An id of 0 means the message is not about a single entity.
type Logger interface {
	Info(id int, category, msg string)
	Debug(id int, category, msg string)
	Warn(id int, category, msg string)
	Error(id int, category, msg string)
}

// NopLogger discards all messages.
type NopLogger struct{}

func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
