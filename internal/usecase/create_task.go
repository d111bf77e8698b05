// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/kanban/internal/domain"
)

// AutoID asks a create use case to draw the id from the manager.
const AutoID = -1

// CreateTaskInput contains the parameters for creating a task.
// Fields are ordered to minimize memory padding.
type CreateTaskInput struct {
	Start       *time.Time     // Planned start (optional)
	Duration    *time.Duration // Planned duration (optional)
	Name        string         // Task name (required)
	Description string         // Task description (optional)
	Status      domain.Status  // Must be empty or NEW
	ID          int            // Explicit id (0 or AutoID = next free id)
}

// CreateTaskOutput contains the result of creating a task.
type CreateTaskOutput struct {
	Task *domain.Task
}

// CreateTask is the use case for creating a standalone task.
type CreateTask struct {
	manager domain.TaskManager
	logger  domain.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(manager domain.TaskManager, logger domain.Logger) *CreateTask {
	return &CreateTask{manager: manager, logger: orNop(logger)}
}

// Execute creates a NEW task.
func (uc *CreateTask) Execute(_ context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	task := &domain.Task{
		ID:          resolveID(uc.manager, in.ID),
		Name:        name,
		Description: in.Description,
		Status:      in.Status.OrNew(),
		Start:       in.Start,
		Duration:    in.Duration,
	}
	if err := uc.manager.AddTask(task); err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}

	uc.logger.Info(task.ID, "task", fmt.Sprintf("created: %q", name))
	return &CreateTaskOutput{Task: task}, nil
}

// resolveID returns id, or a fresh one when id asks for assignment.
func resolveID(manager domain.TaskManager, id int) int {
	if id == 0 || id == AutoID {
		return manager.NextID()
	}
	return id
}

func orNop(logger domain.Logger) domain.Logger {
	if logger == nil {
		return domain.NopLogger{}
	}
	return logger
}
