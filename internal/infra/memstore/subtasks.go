package memstore

import (
	"fmt"

	"github.com/runoshun/kanban/internal/domain"
)

// AddSubTask stores a NEW subtask under epic. An epic that is not stored
// yet is registered first under the AddEpic rules.
func (s *Store) AddSubTask(st *domain.SubTask, epic *domain.Epic) error {
	if st == nil || epic == nil {
		return fmt.Errorf("add subtask: %w: nil subtask or epic", domain.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(domain.KindSubTask, st.ID, st.Status); err != nil {
		return err
	}
	if err := checkDuration(domain.KindSubTask, &st.Task); err != nil {
		return err
	}
	if st.ID == epic.ID {
		return fmt.Errorf("subtask #%d: %w: shares its id with the epic", st.ID, domain.ErrAlreadyExists)
	}
	if err := s.checkOverlap(st, 0); err != nil {
		return err
	}

	if _, ok := s.epics.Load(epic.ID); !ok {
		if err := s.addEpic(epic); err != nil {
			return err
		}
	}

	stored := st.Clone()
	stored.Status = domain.StatusNew
	stored.EpicID = epic.ID
	s.subtasks.Store(stored.ID, stored)
	s.index.Insert(stored)
	s.reserve(stored.ID)
	st.EpicID = epic.ID

	rec, _ := s.epics.Load(epic.ID)
	s.reaggregate(epic.ID, insertSorted(rec.members, stored.ID))

	s.logger.Info(stored.ID, "subtask", fmt.Sprintf("added to epic #%d: %q", epic.ID, stored.Name))
	return nil
}

// GetSubTask returns a copy of the subtask and records the visit.
func (s *Store) GetSubTask(id int) (*domain.SubTask, error) {
	st, ok := s.subtasks.Load(id)
	if !ok {
		return nil, domain.NotFound(domain.KindSubTask, id)
	}
	out := st.Clone()
	s.history.Add(out.Clone())
	return out, nil
}

// UpdateSubTask replaces the stored subtask with the same id.
// The owning epic is kept whatever EpicID the caller supplies.
func (s *Store) UpdateSubTask(st *domain.SubTask) error {
	if st == nil {
		return fmt.Errorf("update subtask: %w: nil subtask", domain.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.subtasks.Load(st.ID)
	if !ok {
		return domain.NotFound(domain.KindSubTask, st.ID)
	}
	if err := checkStatus(domain.KindSubTask, st.ID, st.Status); err != nil {
		return err
	}
	if err := checkDuration(domain.KindSubTask, &st.Task); err != nil {
		return err
	}
	if err := s.checkOverlap(st, st.ID); err != nil {
		return err
	}

	stored := st.Clone()
	stored.EpicID = cur.EpicID
	s.subtasks.Store(stored.ID, stored)
	s.index.Remove(stored.ID)
	s.index.Insert(stored)

	if rec, ok := s.epics.Load(stored.EpicID); ok {
		s.reaggregate(stored.EpicID, rec.members)
	}

	s.logger.Info(stored.ID, "subtask", fmt.Sprintf("updated: status=%s", stored.Status))
	return nil
}

// RemoveSubTask deletes the subtask and re-derives its epic.
func (s *Store) RemoveSubTask(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.subtasks.LoadAndDelete(id)
	if !ok {
		return domain.NotFound(domain.KindSubTask, id)
	}
	s.index.Remove(id)
	s.history.Remove(id)

	if rec, ok := s.epics.Load(st.EpicID); ok {
		s.reaggregate(st.EpicID, without(rec.members, id))
	}

	s.logger.Info(id, "subtask", fmt.Sprintf("removed from epic #%d", st.EpicID))
	return nil
}

// RemoveAllSubTasks deletes every subtask. Epics stay, keeping their
// current status with an empty timeline.
func (s *Store) RemoveAllSubTasks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range sortedValues(s.subtasks) {
		s.subtasks.Delete(st.ID)
		s.index.Remove(st.ID)
		s.history.Remove(st.ID)
	}
	for _, rec := range sortedValues(s.epics) {
		s.reaggregate(rec.epic.ID, nil)
	}

	s.logger.Info(0, "subtask", "removed all subtasks")
	return nil
}

// SubTasks lists copies of all subtasks ordered by id.
func (s *Store) SubTasks() []*domain.SubTask {
	stored := sortedValues(s.subtasks)
	out := make([]*domain.SubTask, len(stored))
	for i, st := range stored {
		out[i] = st.Clone()
	}
	return out
}
