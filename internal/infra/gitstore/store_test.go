package gitstore

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/kanban/internal/domain"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func setupTestRepo(t *testing.T) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(t.TempDir(), true)
	require.NoError(t, err)
	return repo
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		{ID: 3, Kind: domain.KindSubTask, Name: "docs", Status: domain.StatusDone, EpicID: 2,
			Start: domain.TimePtr(base), Duration: domain.DurationPtr(90 * time.Minute)},
		{ID: 1, Kind: domain.KindTask, Name: "plain", Description: "multi\nline", Status: domain.StatusNew},
		{ID: 2, Kind: domain.KindEpic, Name: "release", Status: domain.StatusDone},
	}
}

func TestStore_SaveLoad(t *testing.T) {
	// Setup
	ctx := context.Background()
	repo := setupTestRepo(t)
	store := NewWithRepo(repo, "kanban-test")

	// Missing backup loads empty
	records, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Execute
	require.NoError(t, store.Save(ctx, sampleRecords()))
	records, err = store.Load(ctx)

	// Assert
	require.NoError(t, err)
	expected := sampleRecords()
	domain.SortRecords(expected)
	assert.Equal(t, expected, records)

	ref, err := repo.Reference(plumbing.ReferenceName("refs/kanban-test/backup"), true)
	require.NoError(t, err)
	assert.False(t, ref.Hash().IsZero())
}

func TestStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewWithRepo(setupTestRepo(t), "kanban-test")

	require.NoError(t, store.Save(ctx, sampleRecords()))
	require.NoError(t, store.Save(ctx, sampleRecords()[:1]))

	records, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].ID)
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)
	a := NewWithRepo(repo, "a")
	b := NewWithRepo(repo, "b")

	require.NoError(t, a.Save(ctx, sampleRecords()))

	records, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_Snapshots(t *testing.T) {
	// Setup
	ctx := context.Background()
	store := NewWithRepo(setupTestRepo(t), "kanban-test")
	require.NoError(t, store.Save(ctx, sampleRecords()))

	// Execute
	second, err := store.Snapshot(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	first, err := store.Snapshot(ctx, base)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, nil))

	// Assert
	assert.Equal(t, "20240301T090000Z", first)
	names, err := store.Snapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, names)

	// Snapshot still holds the records saved before it.
	ref, err := store.repo.Reference(store.snapshotRef(first), true)
	require.NoError(t, err)
	data, err := store.readBlob(ref.Hash())
	require.NoError(t, err)
	assert.Contains(t, string(data), "release")
}

func TestStore_SnapshotWithoutBackup(t *testing.T) {
	ctx := context.Background()
	store := NewWithRepo(setupTestRepo(t), "kanban-test")

	name, err := store.Snapshot(ctx, base)

	require.NoError(t, err)
	assert.NotEmpty(t, name)
}

func TestStore_LoadRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	store := NewWithRepo(setupTestRepo(t), "kanban-test")
	hash, err := store.writeBlob([]byte("version: 1\nrecords:\n  - id: 1\n    kind: Story\n    status: NEW\n"))
	require.NoError(t, err)
	require.NoError(t, store.repo.Storer.SetReference(plumbing.NewHashReference(store.backupRef(), hash)))

	_, err = store.Load(ctx)

	assert.Error(t, err)
}

func TestOpen_InitializesBareRepository(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(dir, "kanban")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleRecords()))

	reopened, err := Open(dir, "kanban")
	require.NoError(t, err)
	records, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
