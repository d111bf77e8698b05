package usecase

import (
	"context"

	"github.com/runoshun/kanban/internal/domain"
)

// BoardColumn holds the items in one status.
type BoardColumn struct {
	Items  []domain.Entity
	Status domain.Status
}

// LoadBoardOutput contains one column per status, in workflow order.
type LoadBoardOutput struct {
	Columns []BoardColumn
}

// LoadBoard is the use case for grouping all items by status.
// Listing does not count as a visit.
type LoadBoard struct {
	manager domain.TaskManager
}

// NewLoadBoard creates a new LoadBoard use case.
func NewLoadBoard(manager domain.TaskManager) *LoadBoard {
	return &LoadBoard{manager: manager}
}

// Execute lists epics, each followed by its subtasks, then standalone tasks.
func (uc *LoadBoard) Execute(_ context.Context) (*LoadBoardOutput, error) {
	statuses := domain.AllStatuses()
	out := &LoadBoardOutput{Columns: make([]BoardColumn, len(statuses))}
	column := make(map[domain.Status]int, len(statuses))
	for i, s := range statuses {
		out.Columns[i].Status = s
		column[s] = i
	}
	add := func(e domain.Entity) {
		i := column[e.EntityStatus().OrNew()]
		out.Columns[i].Items = append(out.Columns[i].Items, e)
	}

	byEpic := make(map[int][]*domain.SubTask)
	for _, st := range uc.manager.SubTasks() {
		byEpic[st.EpicID] = append(byEpic[st.EpicID], st)
	}
	for _, e := range uc.manager.Epics() {
		add(e)
		for _, st := range byEpic[e.ID] {
			add(st)
		}
	}
	for _, t := range uc.manager.Tasks() {
		add(t)
	}
	return out, nil
}
