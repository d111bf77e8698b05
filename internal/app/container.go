// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/infra/blob"
	"github.com/runoshun/kanban/internal/infra/config"
	"github.com/runoshun/kanban/internal/infra/csvstore"
	"github.com/runoshun/kanban/internal/infra/filebacked"
	"github.com/runoshun/kanban/internal/infra/gitstore"
	"github.com/runoshun/kanban/internal/infra/history"
	"github.com/runoshun/kanban/internal/infra/lockfile"
	"github.com/runoshun/kanban/internal/infra/logging"
	"github.com/runoshun/kanban/internal/infra/memstore"
	"github.com/runoshun/kanban/internal/usecase"
)

// Options locates the data directory and configuration file.
type Options struct {
	DataDir    string // Directory holding config, logs, lock and local backups
	ConfigPath string // Config file (default: <DataDir>/config.toml)
}

// Manager is a TaskManager that restores its state from a backup.
type Manager interface {
	domain.TaskManager
	Load(ctx context.Context) error
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
// Fields are ordered to minimize memory padding.
type Container struct {
	// Ports (interfaces bound to implementations)
	Manager   Manager
	Snapshots domain.Snapshotter
	Clock     domain.Clock
	Events    domain.Logger // Per-entity log written to <DataDir>/logs

	// Pointer fields
	Logger *slog.Logger
	Config *domain.Config

	closers []func() error
	DataDir string
}

// New creates a Container from the configuration found under opts.
// The backup is not loaded yet; call Open before using the manager.
func New(ctx context.Context, opts Options) (*Container, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = domain.DefaultDataDir
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = domain.ConfigPath(dataDir)
	}

	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return nil, err
	}

	level := logging.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	events := logging.New(dataDir, level)

	core := memstore.New(history.New(cfg.History.Capacity), events)

	backup, err := newBackup(ctx, cfg, dataDir)
	if err != nil {
		_ = events.Close()
		return nil, err
	}

	return &Container{
		Manager:   filebacked.New(core, backup, events),
		Snapshots: backup,
		Clock:     domain.RealClock{},
		Events:    events,
		Logger:    logger,
		Config:    cfg,
		DataDir:   dataDir,
		closers:   []func() error{events.Close},
	}, nil
}

// backupStore is a backend that saves, loads and snapshots.
type backupStore interface {
	domain.Backup
	domain.Snapshotter
}

// newBackup selects the backup backend named by the configuration.
func newBackup(ctx context.Context, cfg *domain.Config, dataDir string) (backupStore, error) {
	switch cfg.Store.Backend {
	case domain.BackendGit:
		repo := cfg.Store.Repo
		if repo == "" {
			repo = filepath.Join(dataDir, "backup.git")
		}
		store, err := gitstore.Open(repo, cfg.Store.Namespace)
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.BackendCSV:
		var storage blob.Storage
		switch cfg.Store.Blob {
		case domain.BlobS3:
			s3, err := blob.NewS3(ctx, cfg.Store.S3.Bucket, cfg.Store.S3.Prefix, cfg.Store.S3.Region)
			if err != nil {
				return nil, err
			}
			storage = s3
		default:
			local, err := blob.NewLocal(dataDir)
			if err != nil {
				return nil, err
			}
			storage = local
		}
		return csvstore.New(storage, cfg.Store.Path), nil
	default:
		return nil, fmt.Errorf("store.backend: unknown backend %q", cfg.Store.Backend)
	}
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg *domain.Config, dataDir string, manager Manager, snapshots domain.Snapshotter, clock domain.Clock, logger *slog.Logger) *Container {
	return &Container{
		Manager:   manager,
		Snapshots: snapshots,
		Clock:     clock,
		Events:    domain.NopLogger{},
		Logger:    logger,
		Config:    cfg,
		DataDir:   dataDir,
	}
}

// Open takes the data directory lock and restores the backup. The
// returned release function drops the lock. Only one process may hold
// the data directory at a time.
func (c *Container) Open(ctx context.Context) (release func(), err error) {
	lock, err := lockfile.TryAcquire(filepath.Join(c.DataDir, lockfile.Name))
	if err != nil {
		return nil, fmt.Errorf("data directory %s is in use by another kanban process: %w", c.DataDir, err)
	}
	if err := c.Manager.Load(ctx); err != nil {
		lock.Release()
		return nil, err
	}
	return lock.Release, nil
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// UseCase factory methods

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Manager, c.Events)
}

// CreateEpicUseCase returns a new CreateEpic use case.
func (c *Container) CreateEpicUseCase() *usecase.CreateEpic {
	return usecase.NewCreateEpic(c.Manager, c.Events)
}

// CreateSubTaskUseCase returns a new CreateSubTask use case.
func (c *Container) CreateSubTaskUseCase() *usecase.CreateSubTask {
	return usecase.NewCreateSubTask(c.Manager, c.Events)
}

// EditItemUseCase returns a new EditItem use case.
func (c *Container) EditItemUseCase() *usecase.EditItem {
	return usecase.NewEditItem(c.Manager, c.Events)
}

// ImportPlanUseCase returns a new ImportPlan use case.
func (c *Container) ImportPlanUseCase() *usecase.ImportPlan {
	return usecase.NewImportPlan(c.Manager, c.Events)
}

// TakeSnapshotUseCase returns a new TakeSnapshot use case.
func (c *Container) TakeSnapshotUseCase() *usecase.TakeSnapshot {
	return usecase.NewTakeSnapshot(c.Snapshots, c.Clock, c.Events)
}

// ListSnapshotsUseCase returns a new ListSnapshots use case.
func (c *Container) ListSnapshotsUseCase() *usecase.ListSnapshots {
	return usecase.NewListSnapshots(c.Snapshots)
}

// LoadBoardUseCase returns a new LoadBoard use case.
func (c *Container) LoadBoardUseCase() *usecase.LoadBoard {
	return usecase.NewLoadBoard(c.Manager)
}

// ShowItemUseCase returns a new ShowItem use case.
func (c *Container) ShowItemUseCase() *usecase.ShowItem {
	return usecase.NewShowItem(c.Manager)
}

// DeleteItemUseCase returns a new DeleteItem use case.
func (c *Container) DeleteItemUseCase() *usecase.DeleteItem {
	return usecase.NewDeleteItem(c.Manager, c.Events)
}
