package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/testutil"
)

func TestCreateTask_Execute(t *testing.T) {
	// Setup
	manager := newTestManager()
	logger := &testutil.MockLogger{}
	uc := NewCreateTask(manager, logger)

	// Execute
	out, err := uc.Execute(context.Background(), CreateTaskInput{
		Name:     "  Write report ",
		Start:    ptr(base),
		Duration: ptr(time.Hour),
		ID:       AutoID,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.Task.ID)
	assert.Equal(t, "Write report", out.Task.Name)
	assert.Equal(t, domain.StatusNew, out.Task.Status)
	assert.Len(t, manager.Tasks(), 1)
	assert.Len(t, manager.Prioritized(), 1)
	assert.NotEmpty(t, logger.Lines)
}

func TestCreateTask_ExplicitID(t *testing.T) {
	manager := newTestManager()
	uc := NewCreateTask(manager, nil)

	out, err := uc.Execute(context.Background(), CreateTaskInput{Name: "a", ID: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Task.ID)

	next, err := uc.Execute(context.Background(), CreateTaskInput{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, 11, next.Task.ID)
}

func TestCreateTask_Errors(t *testing.T) {
	tests := []struct {
		setup   func(m domain.TaskManager)
		wantErr error
		name    string
		input   CreateTaskInput
	}{
		{
			name:    "empty name",
			input:   CreateTaskInput{Name: "   "},
			wantErr: domain.ErrEmptyName,
		},
		{
			name:    "not new",
			input:   CreateTaskInput{Name: "x", Status: domain.StatusDone},
			wantErr: domain.ErrInvalidState,
		},
		{
			name: "id in use",
			setup: func(m domain.TaskManager) {
				_ = m.AddEpic(&domain.Epic{ID: 4, Name: "e"})
			},
			input:   CreateTaskInput{Name: "x", ID: 4},
			wantErr: domain.ErrAlreadyExists,
		},
		{
			name: "overlap",
			setup: func(m domain.TaskManager) {
				_ = m.AddTask(&domain.Task{ID: 1, Start: ptr(base), Duration: ptr(time.Hour)})
			},
			input:   CreateTaskInput{Name: "x", Start: ptr(base.Add(30 * time.Minute)), Duration: ptr(time.Hour)},
			wantErr: domain.ErrTimelineOverlap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := newTestManager()
			if tt.setup != nil {
				tt.setup(manager)
			}
			before := len(manager.Tasks())

			_, err := NewCreateTask(manager, nil).Execute(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, manager.Tasks(), before)
		})
	}
}
