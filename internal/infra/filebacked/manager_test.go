package filebacked

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/infra/blob"
	"github.com/runoshun/kanban/internal/infra/csvstore"
	"github.com/runoshun/kanban/internal/infra/memstore"
	"github.com/runoshun/kanban/internal/testutil"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newManager(backup domain.Backup) *Manager {
	return New(memstore.New(nil, nil), backup, nil)
}

func TestManager_SavesAfterMutation(t *testing.T) {
	// Setup
	backup := &testutil.MockBackup{}
	m := newManager(backup)

	// Execute
	require.NoError(t, m.AddTask(&domain.Task{ID: 1, Name: "a", Status: domain.StatusNew}))
	require.NoError(t, m.AddSubTask(&domain.SubTask{Task: domain.Task{ID: 3, Status: domain.StatusNew}}, &domain.Epic{ID: 2}))

	// Assert
	assert.Equal(t, 2, backup.SaveCount())
	require.Len(t, backup.Records, 3)
	assert.Equal(t, domain.KindSubTask, backup.Records[2].Kind)
}

func TestManager_NoSaveOnRejectedMutation(t *testing.T) {
	backup := &testutil.MockBackup{}
	m := newManager(backup)

	err := m.AddTask(&domain.Task{ID: 1, Status: domain.StatusDone})

	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 0, backup.SaveCount())
}

func TestManager_ReadsDoNotSave(t *testing.T) {
	backup := &testutil.MockBackup{}
	m := newManager(backup)
	require.NoError(t, m.AddTask(&domain.Task{ID: 1, Status: domain.StatusNew}))

	_, _ = m.GetTask(1)
	_ = m.Tasks()
	_ = m.History()
	_ = m.Prioritized()

	assert.Equal(t, 1, backup.SaveCount())
	assert.Len(t, m.History(), 1)
}

func TestManager_SaveError(t *testing.T) {
	backup := &testutil.MockBackup{SaveErr: errors.New("disk full")}
	m := newManager(backup)

	err := m.AddTask(&domain.Task{ID: 1, Status: domain.StatusNew})

	assert.ErrorIs(t, err, domain.ErrBackupSave)
	assert.Contains(t, err.Error(), "disk full")
}

func TestManager_SaveErrorRollsBack(t *testing.T) {
	tests := []struct {
		mutate func(m *Manager) error
		name   string
	}{
		{name: "add", mutate: func(m *Manager) error {
			return m.AddTask(&domain.Task{ID: m.NextID(), Name: "c"})
		}},
		{name: "update", mutate: func(m *Manager) error {
			return m.UpdateTask(&domain.Task{ID: 1, Name: "renamed", Status: domain.StatusDone})
		}},
		{name: "remove", mutate: func(m *Manager) error {
			return m.RemoveTask(1)
		}},
		{name: "add subtask", mutate: func(m *Manager) error {
			return m.AddSubTask(&domain.SubTask{Task: domain.Task{ID: 4, Name: "s"}}, &domain.Epic{ID: 3})
		}},
		{name: "remove all epics", mutate: func(m *Manager) error {
			return m.RemoveAllEpics()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			backup := &testutil.MockBackup{}
			m := newManager(backup)
			require.NoError(t, m.AddTask(&domain.Task{ID: 1, Name: "a"}))
			require.NoError(t, m.AddEpic(&domain.Epic{ID: 3, Name: "e"}))
			_, err := m.GetEpic(3)
			require.NoError(t, err)
			_, err = m.GetTask(1)
			require.NoError(t, err)
			before := backup.Records
			backup.SaveErr = errors.New("disk full")

			// Execute
			err = tt.mutate(m)

			// Assert
			assert.ErrorIs(t, err, domain.ErrBackupSave)
			m.mu.Lock()
			after := m.core.Records()
			m.mu.Unlock()
			assert.Equal(t, before, after)
			visited := m.History()
			require.Len(t, visited, 2)
			assert.Equal(t, 3, visited[0].EntityID())
			assert.Equal(t, 1, visited[1].EntityID())
			assert.Equal(t, 4, m.NextID(), "a retried add gets the same id")
		})
	}
}

func TestManager_Load(t *testing.T) {
	// Setup
	backup := &testutil.MockBackup{Records: []domain.Record{
		{ID: 1, Kind: domain.KindEpic, Name: "e", Status: domain.StatusNew},
		{ID: 2, Kind: domain.KindSubTask, Name: "s", Status: domain.StatusDone, EpicID: 1},
		{ID: 7, Kind: domain.KindTask, Name: "t", Status: domain.StatusInProgress},
	}}
	m := newManager(backup)

	// Execute
	require.NoError(t, m.Load(context.Background()))

	// Assert
	epic, err := m.GetEpic(1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, epic.Status)
	assert.Equal(t, []int{2}, epic.SubTaskIDs)
	assert.Equal(t, 8, m.NextID())
}

func TestManager_LoadErrors(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		m := newManager(&testutil.MockBackup{LoadErr: errors.New("unreachable")})

		assert.ErrorIs(t, m.Load(context.Background()), domain.ErrBackupLoad)
	})

	t.Run("inconsistent records", func(t *testing.T) {
		m := newManager(&testutil.MockBackup{Records: []domain.Record{
			{ID: 2, Kind: domain.KindSubTask, Status: domain.StatusNew, EpicID: 1},
		}})

		err := m.Load(context.Background())

		assert.ErrorIs(t, err, domain.ErrBackupLoad)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestManager_RemoveAllEpicsSavesPartialResult(t *testing.T) {
	backup := &testutil.MockBackup{}
	m := newManager(backup)
	require.NoError(t, m.AddEpic(&domain.Epic{ID: 1}))
	require.NoError(t, m.AddSubTask(&domain.SubTask{Task: domain.Task{ID: 3}}, &domain.Epic{ID: 2}))

	err := m.RemoveAllEpics()

	assert.ErrorIs(t, err, domain.ErrEpicUnfinished)
	assert.Equal(t, 3, backup.SaveCount())
	assert.Len(t, backup.Records, 2)
}

func TestManager_CSVRoundTrip(t *testing.T) {
	// Setup
	ctx := context.Background()
	storage, err := blob.NewLocal(t.TempDir())
	require.NoError(t, err)
	backup := csvstore.New(storage, "backup.csv")
	m := newManager(backup)

	require.NoError(t, m.AddTask(&domain.Task{ID: 1, Name: "t", Start: domain.TimePtr(base), Duration: domain.DurationPtr(time.Hour)}))
	require.NoError(t, m.AddTask(&domain.Task{ID: 2, Name: "untimed"}))
	require.NoError(t, m.AddSubTask(&domain.SubTask{Task: domain.Task{ID: 4, Name: "s",
		Start: domain.TimePtr(base.Add(2 * time.Hour)), Duration: domain.DurationPtr(30 * time.Minute)}}, &domain.Epic{ID: 3, Name: "e"}))
	require.NoError(t, m.UpdateSubTask(&domain.SubTask{Task: domain.Task{ID: 4, Name: "s", Status: domain.StatusInProgress,
		Start: domain.TimePtr(base.Add(2 * time.Hour)), Duration: domain.DurationPtr(30 * time.Minute)}}))

	// Execute
	restored := newManager(backup)
	require.NoError(t, restored.Load(ctx))

	// Assert
	assert.Equal(t, m.Tasks(), restored.Tasks())
	assert.Equal(t, m.SubTasks(), restored.SubTasks())
	assert.Equal(t, m.Epics(), restored.Epics())
	assert.Equal(t, m.NextID(), restored.NextID())
	epic, err := restored.GetEpic(3)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, epic.Status)
	assert.Equal(t, base.Add(2*time.Hour), *epic.Timeline.Start)
	assert.Len(t, restored.Prioritized(), 2)
}
