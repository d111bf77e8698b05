package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/kanban/internal/domain"
)

func TestShowItem_RecordsVisit(t *testing.T) {
	// Setup
	manager := newTestManager()
	require.NoError(t, manager.AddTask(&domain.Task{ID: 1, Name: "t"}))
	require.NoError(t, manager.AddSubTask(&domain.SubTask{Task: domain.Task{ID: 3, Name: "s"}}, &domain.Epic{ID: 2, Name: "e"}))
	uc := NewShowItem(manager)

	// Execute
	_, err := uc.Execute(context.Background(), ShowItemInput{Kind: domain.KindSubTask, ID: 3})
	require.NoError(t, err)
	out, err := uc.Execute(context.Background(), ShowItemInput{Kind: domain.KindEpic, ID: 2})
	require.NoError(t, err)

	// Assert
	epic, ok := out.Item.(*domain.EpicView)
	require.True(t, ok)
	assert.Equal(t, "e", epic.Name)
	require.Len(t, out.SubTasks, 1)
	assert.Equal(t, 3, out.SubTasks[0].ID)

	history := manager.History()
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].EntityID())
	assert.Equal(t, 2, history[1].EntityID())
}

func TestShowItem_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		kind    domain.Kind
	}{
		{name: "missing task", kind: domain.KindTask, wantErr: domain.ErrNotFound},
		{name: "missing epic", kind: domain.KindEpic, wantErr: domain.ErrNotFound},
		{name: "missing subtask", kind: domain.KindSubTask, wantErr: domain.ErrNotFound},
		{name: "unknown kind", kind: domain.Kind("Story"), wantErr: domain.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShowItem(newTestManager()).Execute(context.Background(), ShowItemInput{Kind: tt.kind, ID: 9})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
