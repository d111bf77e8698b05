package usecase

import (
	"github.com/runoshun/kanban/internal/domain"
)

// The find helpers read through the listing calls, which unlike the
// Get* calls do not record a history visit.

func findTask(manager domain.TaskManager, id int) (*domain.Task, error) {
	for _, t := range manager.Tasks() {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.NotFound(domain.KindTask, id)
}

func findSubTask(manager domain.TaskManager, id int) (*domain.SubTask, error) {
	for _, st := range manager.SubTasks() {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, domain.NotFound(domain.KindSubTask, id)
}

func findEpic(manager domain.TaskManager, id int) (*domain.EpicView, error) {
	for _, e := range manager.Epics() {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.NotFound(domain.KindEpic, id)
}
