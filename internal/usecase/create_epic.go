package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/kanban/internal/domain"
)

// CreateEpicInput contains the parameters for creating an epic.
type CreateEpicInput struct {
	Name        string        // Epic name (required)
	Description string        // Epic description (optional)
	Status      domain.Status // Must be empty or NEW
	ID          int           // Explicit id (0 or AutoID = next free id)
}

// CreateEpicOutput contains the result of creating an epic.
type CreateEpicOutput struct {
	Epic *domain.EpicView
}

// CreateEpic is the use case for creating an empty epic.
type CreateEpic struct {
	manager domain.TaskManager
	logger  domain.Logger
}

// NewCreateEpic creates a new CreateEpic use case.
func NewCreateEpic(manager domain.TaskManager, logger domain.Logger) *CreateEpic {
	return &CreateEpic{manager: manager, logger: orNop(logger)}
}

// Execute creates a NEW epic and returns its view.
func (uc *CreateEpic) Execute(_ context.Context, in CreateEpicInput) (*CreateEpicOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	epic := &domain.Epic{
		ID:          resolveID(uc.manager, in.ID),
		Name:        name,
		Description: in.Description,
		Status:      in.Status.OrNew(),
	}
	if err := uc.manager.AddEpic(epic); err != nil {
		return nil, fmt.Errorf("add epic: %w", err)
	}

	view, err := findEpic(uc.manager, epic.ID)
	if err != nil {
		return nil, err
	}
	uc.logger.Info(epic.ID, "epic", fmt.Sprintf("created: %q", name))
	return &CreateEpicOutput{Epic: view}, nil
}
