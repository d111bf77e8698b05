package memstore

import (
	"fmt"

	"github.com/runoshun/kanban/internal/domain"
)

// AddTask stores a NEW task under its id.
func (s *Store) AddTask(t *domain.Task) error {
	if t == nil {
		return fmt.Errorf("add task: %w: nil task", domain.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(domain.KindTask, t.ID, t.Status); err != nil {
		return err
	}
	if err := checkDuration(domain.KindTask, t); err != nil {
		return err
	}
	if err := s.checkOverlap(t, 0); err != nil {
		return err
	}

	stored := t.Clone()
	stored.Status = domain.StatusNew
	s.tasks.Store(stored.ID, stored)
	s.index.Insert(stored)
	s.reserve(stored.ID)

	s.logger.Info(stored.ID, "task", fmt.Sprintf("added: %q", stored.Name))
	return nil
}

// GetTask returns a copy of the task and records the visit.
func (s *Store) GetTask(id int) (*domain.Task, error) {
	t, ok := s.tasks.Load(id)
	if !ok {
		return nil, domain.NotFound(domain.KindTask, id)
	}
	out := t.Clone()
	s.history.Add(out.Clone())
	return out, nil
}

// UpdateTask replaces the stored task with the same id.
func (s *Store) UpdateTask(t *domain.Task) error {
	if t == nil {
		return fmt.Errorf("update task: %w: nil task", domain.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks.Load(t.ID); !ok {
		return domain.NotFound(domain.KindTask, t.ID)
	}
	if err := checkStatus(domain.KindTask, t.ID, t.Status); err != nil {
		return err
	}
	if err := checkDuration(domain.KindTask, t); err != nil {
		return err
	}
	if err := s.checkOverlap(t, t.ID); err != nil {
		return err
	}

	stored := t.Clone()
	s.tasks.Store(stored.ID, stored)
	s.index.Remove(stored.ID)
	s.index.Insert(stored)

	s.logger.Info(stored.ID, "task", fmt.Sprintf("updated: status=%s", stored.Status))
	return nil
}

// RemoveTask deletes the task and forgets its visits.
func (s *Store) RemoveTask(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks.LoadAndDelete(id); !ok {
		return domain.NotFound(domain.KindTask, id)
	}
	s.index.Remove(id)
	s.history.Remove(id)

	s.logger.Info(id, "task", "removed")
	return nil
}

// RemoveAllTasks deletes every task.
func (s *Store) RemoveAllTasks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range sortedValues(s.tasks) {
		s.tasks.Delete(t.ID)
		s.index.Remove(t.ID)
		s.history.Remove(t.ID)
	}

	s.logger.Info(0, "task", "removed all tasks")
	return nil
}

// Tasks lists copies of all tasks ordered by id.
func (s *Store) Tasks() []*domain.Task {
	stored := sortedValues(s.tasks)
	out := make([]*domain.Task, len(stored))
	for i, t := range stored {
		out[i] = t.Clone()
	}
	return out
}
