// Package history tracks recently visited entities in visit order.
package history

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/runoshun/kanban/internal/domain"
)

// Ensure trackers implement domain.History.
var (
	_ domain.History = (*Unbounded)(nil)
	_ domain.History = (*Bounded)(nil)
)

// Unbounded keeps every visited entity, at most one entry per id.
// The ordered map gives O(1) unlink by id and O(1) append at the tail.
type Unbounded struct {
	entries *orderedmap.OrderedMap[int, domain.Entity]
	mu      sync.Mutex
}

// NewUnbounded creates an empty history without a size limit.
func NewUnbounded() *Unbounded {
	return &Unbounded{entries: orderedmap.NewOrderedMap[int, domain.Entity]()}
}

// Add moves e to the most recent position.
func (h *Unbounded) Add(e domain.Entity) {
	if e == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.add(e)
}

func (h *Unbounded) add(e domain.Entity) {
	id := e.EntityID()
	h.entries.Delete(id)
	h.entries.Set(id, e)
}

// Remove forgets id. Unknown ids are ignored.
func (h *Unbounded) Remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries.Delete(id)
}

// Clear forgets everything.
func (h *Unbounded) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = orderedmap.NewOrderedMap[int, domain.Entity]()
}

// List returns entries from least to most recently visited.
func (h *Unbounded) List() []domain.Entity {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.Entity, 0, h.entries.Len())
	for el := h.entries.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Len returns the number of entries.
func (h *Unbounded) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries.Len()
}

// Bounded is an Unbounded history that drops the least recently
// visited entry once more than capacity entries are held.
type Bounded struct {
	Unbounded
	capacity int
}

// NewBounded creates an empty history holding at most capacity entries.
func NewBounded(capacity int) *Bounded {
	if capacity < 1 {
		capacity = 1
	}
	return &Bounded{
		Unbounded: Unbounded{entries: orderedmap.NewOrderedMap[int, domain.Entity]()},
		capacity:  capacity,
	}
}

// Add moves e to the most recent position and evicts the oldest entry
// when the capacity is exceeded.
func (h *Bounded) Add(e domain.Entity) {
	if e == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.add(e)
	for h.entries.Len() > h.capacity {
		h.entries.Delete(h.entries.Front().Key)
	}
}

// New returns a Bounded history for capacity > 0, Unbounded otherwise.
func New(capacity int) domain.History {
	if capacity > 0 {
		return NewBounded(capacity)
	}
	return NewUnbounded()
}
