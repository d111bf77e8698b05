// Package memstore provides the in-memory implementation of domain.TaskManager.
//
// Entities live in id-keyed maps; epics refer to their subtasks by id
// and subtasks refer back by EpicID. Mutations are serialized by a
// writer mutex. Reads go straight to the concurrent maps and never block.
package memstore

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/infra/history"
	"github.com/runoshun/kanban/internal/infra/priority"
)

// Ensure Store implements domain.TaskManager.
var _ domain.TaskManager = (*Store)(nil)

// epicRecord is an immutable snapshot of one epic. Every change stores
// a new record so readers never observe a half-applied update.
type epicRecord struct {
	state   domain.EpicState
	members []int // subtask ids, ascending
	epic    domain.Epic
}

func (r *epicRecord) view() *domain.EpicView {
	return domain.NewEpicView(&r.epic, r.state, r.members)
}

// Store implements domain.TaskManager in memory.
// Fields are ordered to minimize memory padding.
type Store struct {
	tasks    *xsync.MapOf[int, *domain.Task]
	subtasks *xsync.MapOf[int, *domain.SubTask]
	epics    *xsync.MapOf[int, *epicRecord]
	index    *priority.Index
	history  domain.History
	logger   domain.Logger
	next     atomic.Int64
	mu       sync.Mutex
}

// New creates an empty Store. A nil history defaults to an unbounded
// one and a nil logger discards messages.
func New(h domain.History, logger domain.Logger) *Store {
	if h == nil {
		h = history.NewUnbounded()
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	s := &Store{
		tasks:    xsync.NewMapOf[int, *domain.Task](),
		subtasks: xsync.NewMapOf[int, *domain.SubTask](),
		epics:    xsync.NewMapOf[int, *epicRecord](),
		index:    priority.New(),
		history:  h,
		logger:   logger,
	}
	s.next.Store(1)
	return s
}

// NextID hands out the next id of the store-owned sequence.
func (s *Store) NextID() int {
	return int(s.next.Add(1) - 1)
}

// reserve moves the sequence past id so NextID never returns it.
func (s *Store) reserve(id int) {
	for {
		cur := s.next.Load()
		if int64(id) < cur || s.next.CompareAndSwap(cur, int64(id)+1) {
			return
		}
	}
}

// exists reports whether id is used by any kind. Callers hold s.mu.
func (s *Store) exists(id int) bool {
	if _, ok := s.tasks.Load(id); ok {
		return true
	}
	if _, ok := s.subtasks.Load(id); ok {
		return true
	}
	_, ok := s.epics.Load(id)
	return ok
}

// admit checks the rules shared by every add operation. Callers hold s.mu.
func (s *Store) admit(kind domain.Kind, id int, status domain.Status) error {
	if id <= 0 {
		return fmt.Errorf("%s #%d: %w: id must be positive", kind.Label(), id, domain.ErrInvalidState)
	}
	if status.OrNew() != domain.StatusNew {
		return fmt.Errorf("%s #%d: %w: new items must have status %s, got %s",
			kind.Label(), id, domain.ErrInvalidState, domain.StatusNew, status)
	}
	if s.exists(id) {
		return fmt.Errorf("%s #%d: %w", kind.Label(), id, domain.ErrAlreadyExists)
	}
	return nil
}

// checkStatus rejects unknown statuses on update.
func checkStatus(kind domain.Kind, id int, status domain.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%s #%d: %w: %q", kind.Label(), id, domain.ErrInvalidStatus, status)
	}
	return nil
}

// checkDuration rejects durations backups cannot store exactly.
func checkDuration(kind domain.Kind, t *domain.Task) error {
	if err := t.CheckDuration(); err != nil {
		return fmt.Errorf("%s #%d: %w", kind.Label(), t.ID, err)
	}
	return nil
}

// checkOverlap fails with *domain.OverlapError when candidate intersects
// any stored task or subtask other than the one with id exclude.
// Every item that can overlap has a start time, so the priority index
// holds all of them; scanning it in start order yields the earliest conflict.
// Callers hold s.mu.
func (s *Store) checkOverlap(candidate domain.Entity, exclude int) error {
	if _, ok := domain.IntervalOf(candidate); !ok {
		return nil
	}
	for _, e := range s.index.Snapshot() {
		if e.EntityID() == exclude {
			continue
		}
		if domain.Overlaps(candidate, e) {
			return &domain.OverlapError{Candidate: cloneEntity(candidate), Conflict: cloneEntity(e)}
		}
	}
	return nil
}

// reaggregate recomputes the derived state of an epic from its members.
// Callers hold s.mu.
func (s *Store) reaggregate(epicID int, members []int) {
	rec, ok := s.epics.Load(epicID)
	if !ok {
		return
	}
	subs := make([]*domain.SubTask, 0, len(members))
	for _, id := range members {
		if st, ok := s.subtasks.Load(id); ok {
			subs = append(subs, st)
		}
	}
	next := &epicRecord{
		epic:    rec.epic,
		members: members,
		state:   domain.Aggregate(rec.state.Status, subs),
	}
	s.epics.Store(epicID, next)

	if next.state.Status != rec.state.Status {
		s.logger.Info(epicID, "epic", fmt.Sprintf("status %s -> %s", rec.state.Status, next.state.Status))
	}
}

// History lists visited entities, least recently visited first.
// Entries reflect the current stored values.
func (s *Store) History() []domain.Entity {
	visited := s.history.List()
	out := make([]domain.Entity, 0, len(visited))
	for _, e := range visited {
		if cur := s.lookup(e.EntityKind(), e.EntityID()); cur != nil {
			out = append(out, cur)
		}
	}
	return out
}

// Prioritized lists timed tasks and subtasks by start time, then id.
func (s *Store) Prioritized() []domain.Entity {
	entries := s.index.Snapshot()
	out := make([]domain.Entity, len(entries))
	for i, e := range entries {
		out[i] = cloneEntity(e)
	}
	return out
}

// lookup returns a copy of the stored entity without recording a visit.
func (s *Store) lookup(kind domain.Kind, id int) domain.Entity {
	switch kind {
	case domain.KindTask:
		if t, ok := s.tasks.Load(id); ok {
			return t.Clone()
		}
	case domain.KindSubTask:
		if st, ok := s.subtasks.Load(id); ok {
			return st.Clone()
		}
	case domain.KindEpic:
		if rec, ok := s.epics.Load(id); ok {
			return rec.view()
		}
	}
	return nil
}

func cloneEntity(e domain.Entity) domain.Entity {
	switch v := e.(type) {
	case *domain.Task:
		return v.Clone()
	case *domain.SubTask:
		return v.Clone()
	case *domain.EpicView:
		return domain.NewEpicView(&domain.Epic{ID: v.ID, Name: v.Name, Description: v.Description},
			domain.EpicState{Status: v.Status, Timeline: v.Timeline}, v.SubTaskIDs)
	default:
		panic(fmt.Sprintf("memstore: unknown entity %T", e))
	}
}

// sortedValues collects map values ordered by id.
func sortedValues[V any](m *xsync.MapOf[int, V]) []V {
	ids := make([]int, 0, m.Size())
	m.Range(func(id int, _ V) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)

	out := make([]V, 0, len(ids))
	for _, id := range ids {
		if v, ok := m.Load(id); ok {
			out = append(out, v)
		}
	}
	return out
}

// insertSorted returns a new slice with id added in ascending position.
func insertSorted(ids []int, id int) []int {
	i, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	out := make([]int, 0, len(ids)+1)
	out = append(out, ids[:i]...)
	out = append(out, id)
	return append(out, ids[i:]...)
}

// without returns a new slice lacking id.
func without(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
