package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/kanban/internal/domain"
)

// EditItemInput contains the parameters for editing a stored item.
// Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type EditItemInput struct {
	Name          *string
	Description   *string
	Status        *domain.Status
	Start         *time.Time
	Duration      *time.Duration
	Kind          domain.Kind
	ID            int
	ClearSchedule bool // Drop start and duration before applying Start/Duration
}

// EditItemOutput contains the item after the edit.
type EditItemOutput struct {
	Item domain.Entity
}

// EditItem is the use case for partially updating a task, epic or subtask.
// It reads the current record, applies the given fields and replaces the
// stored record, so the core's full-record update rules still apply.
type EditItem struct {
	manager domain.TaskManager
	logger  domain.Logger
}

// NewEditItem creates a new EditItem use case.
func NewEditItem(manager domain.TaskManager, logger domain.Logger) *EditItem {
	return &EditItem{manager: manager, logger: orNop(logger)}
}

// Execute applies the edit. Edits are not visits, so history is left alone.
func (uc *EditItem) Execute(_ context.Context, in EditItemInput) (*EditItemOutput, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrEmptyName
		}
		in.Name = &name
	}
	if in.Status != nil && !in.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *in.Status)
	}

	var item domain.Entity
	switch in.Kind {
	case domain.KindTask:
		t, err := findTask(uc.manager, in.ID)
		if err != nil {
			return nil, err
		}
		in.apply(t)
		if err := uc.manager.UpdateTask(t); err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
		item = t
	case domain.KindSubTask:
		st, err := findSubTask(uc.manager, in.ID)
		if err != nil {
			return nil, err
		}
		in.apply(&st.Task)
		if err := uc.manager.UpdateSubTask(st); err != nil {
			return nil, fmt.Errorf("update subtask: %w", err)
		}
		item = st
	case domain.KindEpic:
		if in.Status != nil || in.Start != nil || in.Duration != nil || in.ClearSchedule {
			return nil, fmt.Errorf("epic #%d: %w: status and schedule are derived from subtasks", in.ID, domain.ErrInvalidState)
		}
		view, err := findEpic(uc.manager, in.ID)
		if err != nil {
			return nil, err
		}
		epic := &domain.Epic{ID: view.ID, Name: view.Name, Description: view.Description}
		if in.Name != nil {
			epic.Name = *in.Name
		}
		if in.Description != nil {
			epic.Description = *in.Description
		}
		if err := uc.manager.UpdateEpic(epic); err != nil {
			return nil, fmt.Errorf("update epic: %w", err)
		}
		if view, err = findEpic(uc.manager, in.ID); err != nil {
			return nil, err
		}
		item = view
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidState, in.Kind)
	}

	uc.logger.Info(in.ID, in.Kind.Label(), "edited")
	return &EditItemOutput{Item: item}, nil
}

func (in EditItemInput) apply(t *domain.Task) {
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.ClearSchedule {
		t.Start = nil
		t.Duration = nil
	}
	if in.Start != nil {
		t.Start = domain.TimePtr(*in.Start)
	}
	if in.Duration != nil {
		t.Duration = domain.DurationPtr(*in.Duration)
	}
}
