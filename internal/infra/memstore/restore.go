package memstore

import (
	"fmt"

	"github.com/runoshun/kanban/internal/domain"
)

// Records flattens the stored entities into records ordered by id.
func (s *Store) Records() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]domain.Record, 0, s.tasks.Size()+s.epics.Size()+s.subtasks.Size())
	for _, t := range sortedValues(s.tasks) {
		records = append(records, domain.RecordOf(t))
	}
	for _, rec := range sortedValues(s.epics) {
		records = append(records, domain.RecordOf(rec.view()))
	}
	for _, st := range sortedValues(s.subtasks) {
		records = append(records, domain.RecordOf(st))
	}
	domain.SortRecords(records)
	return records
}

// Restore replaces the store contents with records. Statuses are taken
// as stored, epic links and derived state are rebuilt, and the id
// sequence continues after the highest id. History starts empty.
// On error the store is left empty.
func (s *Store) Restore(records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	if err := s.restore(records); err != nil {
		s.reset()
		return err
	}

	s.logger.Info(0, "backup", fmt.Sprintf("restored %d records", len(records)))
	return nil
}

func (s *Store) restore(records []domain.Record) error {
	members := make(map[int][]int)
	maxID := 0

	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if s.exists(r.ID) {
			return fmt.Errorf("record #%d: %w", r.ID, domain.ErrAlreadyExists)
		}
		maxID = max(maxID, r.ID)

		switch r.Kind {
		case domain.KindTask:
			t := r.Task()
			s.tasks.Store(t.ID, t)
			s.index.Insert(t)
		case domain.KindEpic:
			s.epics.Store(r.ID, &epicRecord{
				epic:  *r.Epic(),
				state: domain.EpicState{Status: r.Status},
			})
		case domain.KindSubTask:
			st := r.SubTask()
			s.subtasks.Store(st.ID, st)
			s.index.Insert(st)
			members[st.EpicID] = insertSorted(members[st.EpicID], st.ID)
		}
	}

	for epicID, ids := range members {
		if _, ok := s.epics.Load(epicID); !ok {
			return fmt.Errorf("subtask #%d: %w", ids[0], domain.NotFound(domain.KindEpic, epicID))
		}
	}
	for _, rec := range sortedValues(s.epics) {
		s.reaggregate(rec.epic.ID, members[rec.epic.ID])
	}

	s.next.Store(int64(maxID) + 1)
	return nil
}

// reset empties the store. Callers hold s.mu.
func (s *Store) reset() {
	s.tasks.Clear()
	s.subtasks.Clear()
	s.epics.Clear()
	s.index.Clear()
	s.history.Clear()
	s.next.Store(1)
}
