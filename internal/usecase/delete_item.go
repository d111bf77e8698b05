package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/kanban/internal/domain"
)

// DeleteItemInput contains the parameters for deleting an item.
type DeleteItemInput struct {
	Kind domain.Kind // Item kind (required)
	ID   int         // Item id (required)
}

// DeleteItemOutput contains the result of deleting an item.
type DeleteItemOutput struct {
	// Empty for now
}

// DeleteItem is the use case for removing a task, epic or subtask.
// Removing an epic also removes its subtasks, which must all be DONE.
type DeleteItem struct {
	manager domain.TaskManager
	logger  domain.Logger
}

// NewDeleteItem creates a new DeleteItem use case.
func NewDeleteItem(manager domain.TaskManager, logger domain.Logger) *DeleteItem {
	return &DeleteItem{manager: manager, logger: orNop(logger)}
}

// Execute removes the item with the given id.
func (uc *DeleteItem) Execute(_ context.Context, in DeleteItemInput) (*DeleteItemOutput, error) {
	var err error
	switch in.Kind {
	case domain.KindTask:
		err = uc.manager.RemoveTask(in.ID)
	case domain.KindSubTask:
		err = uc.manager.RemoveSubTask(in.ID)
	case domain.KindEpic:
		err = uc.manager.RemoveEpic(in.ID)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidState, in.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("remove %s: %w", in.Kind.Label(), err)
	}

	uc.logger.Info(in.ID, in.Kind.Label(), "removed")
	return &DeleteItemOutput{}, nil
}
