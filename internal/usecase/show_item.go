package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/kanban/internal/domain"
)

// ShowItemInput contains the parameters for showing an item.
type ShowItemInput struct {
	Kind domain.Kind // Item kind (required)
	ID   int         // Item id (required)
}

// ShowItemOutput contains the result of showing an item.
type ShowItemOutput struct {
	Item     domain.Entity     // The item details
	SubTasks []*domain.SubTask // Subtasks, for epics only
}

// ShowItem is the use case for displaying one item.
// Reading the item records a visit in the history.
type ShowItem struct {
	manager domain.TaskManager
}

// NewShowItem creates a new ShowItem use case.
func NewShowItem(manager domain.TaskManager) *ShowItem {
	return &ShowItem{manager: manager}
}

// Execute retrieves the item.
func (uc *ShowItem) Execute(_ context.Context, in ShowItemInput) (*ShowItemOutput, error) {
	switch in.Kind {
	case domain.KindTask:
		t, err := uc.manager.GetTask(in.ID)
		if err != nil {
			return nil, err
		}
		return &ShowItemOutput{Item: t}, nil
	case domain.KindSubTask:
		st, err := uc.manager.GetSubTask(in.ID)
		if err != nil {
			return nil, err
		}
		return &ShowItemOutput{Item: st}, nil
	case domain.KindEpic:
		epic, err := uc.manager.GetEpic(in.ID)
		if err != nil {
			return nil, err
		}
		subtasks, err := uc.manager.EpicSubTasks(in.ID)
		if err != nil {
			return nil, fmt.Errorf("get subtasks: %w", err)
		}
		return &ShowItemOutput{Item: epic, SubTasks: subtasks}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidState, in.Kind)
	}
}
