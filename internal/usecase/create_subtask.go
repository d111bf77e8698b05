package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/kanban/internal/domain"
)

// CreateSubTaskInput contains the parameters for creating a subtask.
// Fields are ordered to minimize memory padding.
type CreateSubTaskInput struct {
	Start       *time.Time     // Planned start (optional)
	Duration    *time.Duration // Planned duration (optional)
	Name        string         // Subtask name (required)
	Description string         // Subtask description (optional)
	Status      domain.Status  // Must be empty or NEW
	EpicID      int            // Owning epic (required, must exist)
	ID          int            // Explicit id (0 or AutoID = next free id)
}

// CreateSubTaskOutput contains the result of creating a subtask.
type CreateSubTaskOutput struct {
	SubTask *domain.SubTask
	Epic    *domain.EpicView // Owning epic after re-aggregation
}

// CreateSubTask is the use case for adding a subtask to an existing epic.
type CreateSubTask struct {
	manager domain.TaskManager
	logger  domain.Logger
}

// NewCreateSubTask creates a new CreateSubTask use case.
func NewCreateSubTask(manager domain.TaskManager, logger domain.Logger) *CreateSubTask {
	return &CreateSubTask{manager: manager, logger: orNop(logger)}
}

// Execute creates a NEW subtask under the epic named by in.EpicID.
func (uc *CreateSubTask) Execute(_ context.Context, in CreateSubTaskInput) (*CreateSubTaskOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	view, err := findEpic(uc.manager, in.EpicID)
	if err != nil {
		return nil, err
	}

	st := &domain.SubTask{
		Task: domain.Task{
			ID:          resolveID(uc.manager, in.ID),
			Name:        name,
			Description: in.Description,
			Status:      in.Status.OrNew(),
			Start:       in.Start,
			Duration:    in.Duration,
		},
	}
	epic := &domain.Epic{ID: view.ID, Name: view.Name, Description: view.Description}
	if err := uc.manager.AddSubTask(st, epic); err != nil {
		return nil, fmt.Errorf("add subtask: %w", err)
	}

	if view, err = findEpic(uc.manager, in.EpicID); err != nil {
		return nil, err
	}
	uc.logger.Info(st.ID, "subtask", fmt.Sprintf("created under epic #%d: %q", in.EpicID, name))
	return &CreateSubTaskOutput{SubTask: st, Epic: view}, nil
}
