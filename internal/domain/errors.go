package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrTimelineOverlap = errors.New("timeline overlap")
	ErrInvalidState    = errors.New("invalid state")
	ErrEpicUnfinished  = fmt.Errorf("%w: epic has unfinished subtasks", ErrInvalidState)
	ErrAlreadyExists   = errors.New("id already in use")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrBackupSave      = errors.New("backup save failed")
	ErrBackupLoad      = errors.New("backup load failed")
	ErrEmptyPlan       = errors.New("plan contains no epics or tasks")
	ErrConfigExists    = errors.New("config file already exists")
)

// NotFound returns an error wrapping ErrNotFound that names the missing item.
func NotFound(kind Kind, id int) error {
	return fmt.Errorf("%s #%d: %w", kind.Label(), id, ErrNotFound)
}

// OverlapError reports the first stored item whose interval
// intersects the interval of a candidate being added or updated.
type OverlapError struct {
	Candidate Entity
	Conflict  Entity
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: %s #%d overlaps %s #%d",
		ErrTimelineOverlap,
		e.Candidate.EntityKind().Label(), e.Candidate.EntityID(),
		e.Conflict.EntityKind().Label(), e.Conflict.EntityID(),
	)
}

// Unwrap lets errors.Is match ErrTimelineOverlap.
func (e *OverlapError) Unwrap() error {
	return ErrTimelineOverlap
}
