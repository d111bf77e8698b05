package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/kanban/internal/domain"
)

func TestLoadBoard_Execute(t *testing.T) {
	// Setup
	manager := newTestManager()
	require.NoError(t, manager.AddTask(&domain.Task{ID: 1, Name: "t"}))
	require.NoError(t, manager.AddSubTask(&domain.SubTask{Task: domain.Task{ID: 3, Name: "s1"}}, &domain.Epic{ID: 2, Name: "e"}))
	require.NoError(t, manager.AddSubTask(&domain.SubTask{Task: domain.Task{ID: 4, Name: "s2"}}, &domain.Epic{ID: 2}))
	require.NoError(t, manager.UpdateSubTask(&domain.SubTask{Task: domain.Task{ID: 3, Name: "s1", Status: domain.StatusDone}}))

	// Execute
	out, err := NewLoadBoard(manager).Execute(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Columns, 3)
	ids := func(col BoardColumn) []int {
		var got []int
		for _, e := range col.Items {
			got = append(got, e.EntityID())
		}
		return got
	}
	assert.Equal(t, domain.StatusNew, out.Columns[0].Status)
	assert.Equal(t, []int{4, 1}, ids(out.Columns[0]))
	assert.Equal(t, []int{2}, ids(out.Columns[1]))
	assert.Equal(t, []int{3}, ids(out.Columns[2]))
	assert.Empty(t, manager.History())
}
