// Package csvstore keeps the backup as a CSV document in blob storage.
//
// One row per entity:
//
//	id,type,name,status,description,epicId,startDateTime,durationMinutes
//
// Timed columns are empty for epics and for items without a start time
// or duration.
package csvstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/infra/blob"
)

// Ensure Store implements the backup ports.
var (
	_ domain.Backup      = (*Store)(nil)
	_ domain.Snapshotter = (*Store)(nil)
)

// SnapshotDir is the key prefix under which snapshots are written.
const SnapshotDir = "snapshots"

// Store implements domain.Backup on a blob.Storage.
type Store struct {
	storage blob.Storage
	key     string
}

// New creates a Store writing the backup to key.
func New(storage blob.Storage, key string) *Store {
	return &Store{storage: storage, key: key}
}

// Save replaces the backup with records.
func (s *Store) Save(ctx context.Context, records []domain.Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	return s.storage.Write(ctx, s.key, data)
}

// Load returns the stored records. A missing backup yields no records.
func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	data, err := s.storage.Read(ctx, s.key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return Decode(data)
}

// Snapshot copies the current backup to snapshots/<name>-<timestamp>.csv.
func (s *Store) Snapshot(ctx context.Context, at time.Time) (string, error) {
	data, err := s.storage.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, blob.ErrNotFound) {
			return "", err
		}
		if data, err = Encode(nil); err != nil {
			return "", err
		}
	}

	name := snapshotName(s.key, at)
	if err := s.storage.Write(ctx, path.Join(SnapshotDir, name), data); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return name, nil
}

// Snapshots lists snapshot names, oldest first.
func (s *Store) Snapshots(ctx context.Context) ([]string, error) {
	keys, err := s.storage.List(ctx, SnapshotDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = path.Base(k)
	}
	return names, nil
}

func snapshotName(key string, at time.Time) string {
	base := path.Base(key)
	ext := path.Ext(base)
	return fmt.Sprintf("%s-%s%s", base[:len(base)-len(ext)], at.UTC().Format("20060102T150405Z"), ext)
}
