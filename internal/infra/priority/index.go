// Package priority keeps timed tasks and subtasks ordered by start time.
package priority

import (
	"sync"
	"time"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/runoshun/kanban/internal/domain"
)

// key orders entries by start time, then id.
type key struct {
	start time.Time
	id    int
}

func compareKeys(a, b interface{}) int {
	ka, kb := a.(key), b.(key)
	switch {
	case ka.start.Before(kb.start):
		return -1
	case ka.start.After(kb.start):
		return 1
	default:
		return utils.IntComparator(ka.id, kb.id)
	}
}

// Index is an ordered set of timed tasks and subtasks.
// Entries are never updated in place: callers remove the old version
// and insert the new one.
// Fields are ordered to minimize memory padding.
type Index struct {
	tree *treemap.Map
	keys map[int]key // id -> key currently in the tree
	mu   sync.RWMutex
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		tree: treemap.NewWith(compareKeys),
		keys: make(map[int]key),
	}
}

// Insert adds e if it has a start time. Epics and untimed items are ignored.
// An existing entry for the same id is replaced.
func (x *Index) Insert(e domain.Entity) {
	start, ok := startOf(e)
	if !ok {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	id := e.EntityID()
	if old, ok := x.keys[id]; ok {
		x.tree.Remove(old)
	}
	k := key{start: start, id: id}
	x.tree.Put(k, e)
	x.keys[id] = k
}

// Remove drops the entry for id, if any.
func (x *Index) Remove(id int) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if k, ok := x.keys[id]; ok {
		x.tree.Remove(k)
		delete(x.keys, id)
	}
}

// Snapshot returns the entries in ascending (start, id) order.
func (x *Index) Snapshot() []domain.Entity {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]domain.Entity, 0, x.tree.Size())
	it := x.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(domain.Entity))
	}
	return out
}

// Len returns the number of entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.tree.Size()
}

// Clear removes all entries.
func (x *Index) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.tree.Clear()
	clear(x.keys)
}

func startOf(e domain.Entity) (time.Time, bool) {
	switch v := e.(type) {
	case *domain.Task:
		if v.Start != nil {
			return *v.Start, true
		}
	case *domain.SubTask:
		if v.Start != nil {
			return *v.Start, true
		}
	case *domain.EpicView:
	}
	return time.Time{}, false
}
