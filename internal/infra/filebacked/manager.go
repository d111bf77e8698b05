// Package filebacked persists a TaskManager through a domain.Backup.
//
// Manager wraps the in-memory core: every successful mutation is
// followed by a full backup, written while the manager's lock is still
// held so backups land in mutation order. A mutation whose backup fails
// is rolled back, so the core never holds state the backup lacks.
package filebacked

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/kanban/internal/domain"
)

// Ensure Manager implements domain.TaskManager.
var _ domain.TaskManager = (*Manager)(nil)

// DefaultTimeout bounds a single backup load or save.
const DefaultTimeout = 30 * time.Second

// Core is a TaskManager that can be flattened to and rebuilt from records.
type Core interface {
	domain.TaskManager
	Records() []domain.Record
	Restore(records []domain.Record) error
}

// Manager is a TaskManager whose state survives restarts.
// Fields are ordered to minimize memory padding.
type Manager struct {
	core    Core
	backup  domain.Backup
	logger  domain.Logger
	timeout time.Duration
	mu      sync.Mutex
}

// New creates a Manager. Call Load before use to restore saved state.
func New(core Core, backup domain.Backup, logger domain.Logger) *Manager {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Manager{
		core:    core,
		backup:  backup,
		logger:  logger,
		timeout: DefaultTimeout,
	}
}

// Load replaces the core's state with the stored backup.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	records, err := m.backup.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackupLoad, err)
	}
	if err := m.core.Restore(records); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackupLoad, err)
	}
	m.logger.Debug(0, "backup", fmt.Sprintf("loaded %d records", len(records)))
	return nil
}

// Save writes the current state. Mutations save on their own; Save is
// for callers that need an explicit flush.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(ctx)
}

// save writes the backup. Callers hold m.mu.
func (m *Manager) save(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	records := m.core.Records()
	if err := m.backup.Save(ctx, records); err != nil {
		m.logger.Error(0, "backup", fmt.Sprintf("save failed: %v", err))
		return fmt.Errorf("%w: %w", domain.ErrBackupSave, err)
	}
	m.logger.Debug(0, "backup", fmt.Sprintf("saved %d records", len(records)))
	return nil
}

// mutate runs fn and saves when it succeeds.
func (m *Manager) mutate(fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, visited := m.core.Records(), m.core.History()
	if err := fn(); err != nil {
		return err
	}
	if err := m.save(context.Background()); err != nil {
		m.rollback(records, visited)
		return err
	}
	return nil
}

// rollback restores the records and visit order captured before a
// mutation. Callers hold m.mu.
func (m *Manager) rollback(records []domain.Record, visited []domain.Entity) {
	if err := m.core.Restore(records); err != nil {
		m.logger.Error(0, "backup", fmt.Sprintf("rollback failed: %v", err))
		return
	}
	for _, e := range visited {
		m.revisit(e)
	}
	m.logger.Warn(0, "backup", fmt.Sprintf("rolled back to %d records after failed save", len(records)))
}

// revisit records a visit of e again through the core's getters.
func (m *Manager) revisit(e domain.Entity) {
	id := e.EntityID()
	switch e.EntityKind() {
	case domain.KindTask:
		_, _ = m.core.GetTask(id)
	case domain.KindSubTask:
		_, _ = m.core.GetSubTask(id)
	case domain.KindEpic:
		_, _ = m.core.GetEpic(id)
	}
}

func (m *Manager) AddTask(t *domain.Task) error {
	return m.mutate(func() error { return m.core.AddTask(t) })
}

func (m *Manager) AddEpic(e *domain.Epic) error {
	return m.mutate(func() error { return m.core.AddEpic(e) })
}

func (m *Manager) AddSubTask(st *domain.SubTask, epic *domain.Epic) error {
	return m.mutate(func() error { return m.core.AddSubTask(st, epic) })
}

func (m *Manager) UpdateTask(t *domain.Task) error {
	return m.mutate(func() error { return m.core.UpdateTask(t) })
}

func (m *Manager) UpdateEpic(e *domain.Epic) error {
	return m.mutate(func() error { return m.core.UpdateEpic(e) })
}

func (m *Manager) UpdateSubTask(st *domain.SubTask) error {
	return m.mutate(func() error { return m.core.UpdateSubTask(st) })
}

func (m *Manager) RemoveTask(id int) error {
	return m.mutate(func() error { return m.core.RemoveTask(id) })
}

func (m *Manager) RemoveEpic(id int) error {
	return m.mutate(func() error { return m.core.RemoveEpic(id) })
}

func (m *Manager) RemoveSubTask(id int) error {
	return m.mutate(func() error { return m.core.RemoveSubTask(id) })
}

func (m *Manager) RemoveAllTasks() error {
	return m.mutate(m.core.RemoveAllTasks)
}

func (m *Manager) RemoveAllSubTasks() error {
	return m.mutate(m.core.RemoveAllSubTasks)
}

// RemoveAllEpics saves even when some epics were refused, since the
// others are gone already.
func (m *Manager) RemoveAllEpics() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, visited := m.core.Records(), m.core.History()
	removeErr := m.core.RemoveAllEpics()
	if err := m.save(context.Background()); err != nil {
		m.rollback(records, visited)
		return err
	}
	return removeErr
}

func (m *Manager) GetTask(id int) (*domain.Task, error) { return m.core.GetTask(id) }
func (m *Manager) GetEpic(id int) (*domain.EpicView, error) { return m.core.GetEpic(id) }
func (m *Manager) GetSubTask(id int) (*domain.SubTask, error) { return m.core.GetSubTask(id) }
func (m *Manager) Tasks() []*domain.Task { return m.core.Tasks() }
func (m *Manager) Epics() []*domain.EpicView { return m.core.Epics() }
func (m *Manager) SubTasks() []*domain.SubTask { return m.core.SubTasks() }
func (m *Manager) EpicSubTasks(id int) ([]*domain.SubTask, error) { return m.core.EpicSubTasks(id) }
func (m *Manager) History() []domain.Entity { return m.core.History() }
func (m *Manager) Prioritized() []domain.Entity { return m.core.Prioritized() }
func (m *Manager) NextID() int { return m.core.NextID() }
