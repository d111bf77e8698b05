package domain

import (
	"fmt"
	"slices"
	"time"
)

// Record is the flat, backend-neutral form of an entity used by backups.
// Epics carry their derived status; their start and duration are never
// stored because they are recomputed on restore.
// Fields are ordered to minimize memory padding.
type Record struct {
	Start       *time.Time     `yaml:"start,omitempty"`
	Duration    *time.Duration `yaml:"duration,omitempty"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Kind        Kind           `yaml:"kind"`
	Status      Status         `yaml:"status"`
	ID          int            `yaml:"id"`
	EpicID      int            `yaml:"epicId,omitempty"` // 0 = not a subtask
}

// RecordOf flattens an entity into a Record.
func RecordOf(e Entity) Record {
	switch v := e.(type) {
	case *Task:
		return Record{
			ID:          v.ID,
			Kind:        KindTask,
			Name:        v.Name,
			Description: v.Description,
			Status:      v.Status,
			Start:       cloneTime(v.Start),
			Duration:    cloneDuration(v.Duration),
		}
	case *SubTask:
		r := RecordOf(&v.Task)
		r.Kind = KindSubTask
		r.EpicID = v.EpicID
		return r
	case *EpicView:
		return Record{
			ID:          v.ID,
			Kind:        KindEpic,
			Name:        v.Name,
			Description: v.Description,
			Status:      v.Status,
		}
	default:
		panic(fmt.Sprintf("domain: unknown entity %T", e))
	}
}

// Validate checks the fields a backend cannot repair on its own.
func (r Record) Validate() error {
	if !r.Kind.IsValid() {
		return fmt.Errorf("record #%d: unknown kind %q", r.ID, r.Kind)
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("record #%d: %w: %q", r.ID, ErrInvalidStatus, r.Status)
	}
	if r.ID <= 0 {
		return fmt.Errorf("record #%d: id must be positive", r.ID)
	}
	if r.Kind == KindSubTask && r.EpicID <= 0 {
		return fmt.Errorf("record #%d: subtask without epic", r.ID)
	}
	return nil
}

// Task returns the task fields of the record.
func (r Record) Task() *Task {
	return &Task{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Start:       cloneTime(r.Start),
		Duration:    cloneDuration(r.Duration),
	}
}

// SubTask returns the record as a subtask.
func (r Record) SubTask() *SubTask {
	return &SubTask{Task: *r.Task(), EpicID: r.EpicID}
}

// Epic returns the record as an epic.
func (r Record) Epic() *Epic {
	return &Epic{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
	}
}

// SortRecords orders records by id.
func SortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		return a.ID - b.ID
	})
}
