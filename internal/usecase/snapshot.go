package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/kanban/internal/domain"
)

// TakeSnapshotOutput contains the name of the new snapshot.
type TakeSnapshotOutput struct {
	Name string
}

// TakeSnapshot is the use case for copying the current backup.
type TakeSnapshot struct {
	snapshots domain.Snapshotter
	clock     domain.Clock
	logger    domain.Logger
}

// NewTakeSnapshot creates a new TakeSnapshot use case.
func NewTakeSnapshot(snapshots domain.Snapshotter, clock domain.Clock, logger domain.Logger) *TakeSnapshot {
	return &TakeSnapshot{snapshots: snapshots, clock: clock, logger: orNop(logger)}
}

// Execute writes a snapshot stamped with the current time.
func (uc *TakeSnapshot) Execute(ctx context.Context) (*TakeSnapshotOutput, error) {
	name, err := uc.snapshots.Snapshot(ctx, uc.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot: %w", domain.ErrBackupSave, err)
	}
	uc.logger.Info(0, "backup", fmt.Sprintf("snapshot %s written", name))
	return &TakeSnapshotOutput{Name: name}, nil
}

// ListSnapshotsOutput contains snapshot names, oldest first.
type ListSnapshotsOutput struct {
	Names []string
}

// ListSnapshots is the use case for listing stored snapshots.
type ListSnapshots struct {
	snapshots domain.Snapshotter
}

// NewListSnapshots creates a new ListSnapshots use case.
func NewListSnapshots(snapshots domain.Snapshotter) *ListSnapshots {
	return &ListSnapshots{snapshots: snapshots}
}

// Execute lists the snapshots.
func (uc *ListSnapshots) Execute(ctx context.Context) (*ListSnapshotsOutput, error) {
	names, err := uc.snapshots.Snapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list snapshots: %w", domain.ErrBackupLoad, err)
	}
	return &ListSnapshotsOutput{Names: names}, nil
}
