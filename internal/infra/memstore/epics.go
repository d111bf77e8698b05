package memstore

import (
	"errors"
	"fmt"

	"github.com/runoshun/kanban/internal/domain"
)

// AddEpic stores a NEW epic under its id.
func (s *Store) AddEpic(e *domain.Epic) error {
	if e == nil {
		return fmt.Errorf("add epic: %w: nil epic", domain.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addEpic(e)
}

// addEpic registers e. Callers hold s.mu.
func (s *Store) addEpic(e *domain.Epic) error {
	if err := s.admit(domain.KindEpic, e.ID, e.Status); err != nil {
		return err
	}

	rec := &epicRecord{
		epic:  *e.Clone(),
		state: domain.EpicState{Status: domain.StatusNew},
	}
	rec.epic.Status = domain.StatusNew
	s.epics.Store(e.ID, rec)
	s.reserve(e.ID)

	s.logger.Info(e.ID, "epic", fmt.Sprintf("added: %q", e.Name))
	return nil
}

// GetEpic returns the epic with its derived state and records the visit.
func (s *Store) GetEpic(id int) (*domain.EpicView, error) {
	rec, ok := s.epics.Load(id)
	if !ok {
		return nil, domain.NotFound(domain.KindEpic, id)
	}
	s.history.Add(rec.view())
	return rec.view(), nil
}

// UpdateEpic replaces the name and description of the epic.
// Status is derived from the subtasks, so the supplied one is ignored.
func (s *Store) UpdateEpic(e *domain.Epic) error {
	if e == nil {
		return fmt.Errorf("update epic: %w: nil epic", domain.ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.epics.Load(e.ID)
	if !ok {
		return domain.NotFound(domain.KindEpic, e.ID)
	}

	next := &epicRecord{
		epic:    rec.epic,
		state:   rec.state,
		members: rec.members,
	}
	next.epic.Name = e.Name
	next.epic.Description = e.Description
	s.epics.Store(e.ID, next)
	s.reaggregate(e.ID, next.members)

	s.logger.Info(e.ID, "epic", "updated")
	return nil
}

// RemoveEpic deletes the epic together with its subtasks.
// It fails with domain.ErrEpicUnfinished unless every subtask is DONE.
func (s *Store) RemoveEpic(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeEpic(id)
}

// removeEpic deletes one epic. Callers hold s.mu.
func (s *Store) removeEpic(id int) error {
	rec, ok := s.epics.Load(id)
	if !ok {
		return domain.NotFound(domain.KindEpic, id)
	}

	for _, sid := range rec.members {
		st, ok := s.subtasks.Load(sid)
		if ok && !st.Status.IsDone() {
			return fmt.Errorf("epic #%d: %w: subtask #%d is %s", id, domain.ErrEpicUnfinished, sid, st.Status)
		}
	}

	for _, sid := range rec.members {
		s.subtasks.Delete(sid)
		s.index.Remove(sid)
		s.history.Remove(sid)
	}
	s.epics.Delete(id)
	s.history.Remove(id)

	s.logger.Info(id, "epic", fmt.Sprintf("removed with %d subtasks", len(rec.members)))
	return nil
}

// RemoveAllEpics applies RemoveEpic to every epic. Epics with unfinished
// subtasks are kept and reported together in the returned error.
func (s *Store) RemoveAllEpics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, rec := range sortedValues(s.epics) {
		if err := s.removeEpic(rec.epic.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Epics lists all epics ordered by id.
func (s *Store) Epics() []*domain.EpicView {
	recs := sortedValues(s.epics)
	out := make([]*domain.EpicView, len(recs))
	for i, rec := range recs {
		out[i] = rec.view()
	}
	return out
}

// EpicSubTasks lists copies of the epic's subtasks ordered by id.
func (s *Store) EpicSubTasks(epicID int) ([]*domain.SubTask, error) {
	rec, ok := s.epics.Load(epicID)
	if !ok {
		return nil, domain.NotFound(domain.KindEpic, epicID)
	}
	out := make([]*domain.SubTask, 0, len(rec.members))
	for _, id := range rec.members {
		if st, ok := s.subtasks.Load(id); ok {
			out = append(out, st.Clone())
		}
	}
	return out, nil
}
