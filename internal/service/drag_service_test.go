package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragService_DropOnSameColumnSendsNothing(t *testing.T) {
	task := testutil.NewTestTask("Bracket", testutil.WithStatus(domain.StatusInProgress))
	s := setupServices(t, task)

	require.NoError(t, s.drag.Start(task.ID))
	require.NoError(t, s.drag.Enter(domain.ResolvedInProgress))
	tr, err := s.drag.Drop(context.Background(), domain.ResolvedInProgress)
	require.NoError(t, err)

	assert.False(t, tr.NeedsWrite())
	assert.Equal(t, 0, s.store.Calls(testutil.OpUpdateTask))
	assert.Equal(t, board.DragIdle, s.drag.State())
}

func TestDragService_DropWritesStoredStatus(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	s := setupServices(t, task)
	statsCalls := s.store.Calls(testutil.OpStats)

	require.NoError(t, s.drag.Start(task.ID))
	tr, err := s.drag.Drop(context.Background(), domain.ResolvedCompleted)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusScheduled, tr.From)
	assert.Equal(t, domain.StatusCompleted, tr.To)
	assert.Equal(t, 1, s.store.Calls(testutil.OpUpdateTask))
	assert.Equal(t, domain.StatusCompleted, s.cached(t, task.ID).Status)
	assert.Equal(t, statsCalls+1, s.store.Calls(testutil.OpStats))
	assert.Equal(t, 1, s.view.Stats().Completed)
}

func TestDragService_DropOnDerivedColumnSchedules(t *testing.T) {
	now := time.Now()
	task := testutil.NewTestTask("Bracket",
		testutil.WithStatus(domain.StatusInProgress),
		testutil.WithDueInDays(now, -3))
	s := setupServices(t, task)

	require.NoError(t, s.drag.Start(task.ID))
	tr, err := s.drag.Drop(context.Background(), domain.ResolvedOverdue)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusScheduled, tr.To)
	got := s.cached(t, task.ID)
	assert.Equal(t, domain.StatusScheduled, got.Status)
	assert.Equal(t, domain.ResolvedOverdue, got.Resolved(now), "a past due date still resolves overdue")
}

func TestDragService_FailureLeavesCache(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	s := setupServices(t, task)
	s.store.FailNext(testutil.OpUpdateTask, app.ErrNetwork)

	require.NoError(t, s.drag.Start(task.ID))
	_, err := s.drag.Drop(context.Background(), domain.ResolvedInProgress)
	require.ErrorIs(t, err, app.ErrNetwork)

	assert.Equal(t, domain.StatusScheduled, s.cached(t, task.ID).Status)
	assert.Equal(t, board.DragIdle, s.drag.State())
}

func TestDragService_StatsFailureIsNotFatal(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	s := setupServices(t, task)
	s.store.FailNext(testutil.OpStats, app.ErrNetwork)

	require.NoError(t, s.drag.Start(task.ID))
	_, err := s.drag.Drop(context.Background(), domain.ResolvedCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, s.cached(t, task.ID).Status)
}

func TestDragService_DisabledInSelectionMode(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	s := setupServices(t, task)
	s.selection.Enter()

	require.ErrorIs(t, s.drag.Start(task.ID), ErrSelectionActive)
	assert.Equal(t, board.DragIdle, s.drag.State())
}

func TestDragService_HoverTracking(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	s := setupServices(t, task)
	bounds := board.Rect{Min: board.Point{X: 0, Y: 0}, Max: board.Point{X: 20, Y: 30}}

	require.NoError(t, s.drag.Start(task.ID))
	require.NoError(t, s.drag.Enter(domain.ResolvedUrgent))

	s.drag.Leave(domain.ResolvedUrgent, board.Point{X: 5, Y: 5}, bounds)
	col, ok := s.drag.Hovered()
	require.True(t, ok)
	assert.Equal(t, domain.ResolvedUrgent, col)

	s.drag.Leave(domain.ResolvedUrgent, board.Point{X: 25, Y: 5}, bounds)
	_, ok = s.drag.Hovered()
	assert.False(t, ok)
	assert.Equal(t, board.DragDragging, s.drag.State())

	s.drag.Cancel()
	assert.Equal(t, board.DragIdle, s.drag.State())
	assert.Equal(t, int64(0), s.drag.TaskID())
}

func TestDragService_StartUnknownTask(t *testing.T) {
	s := setupServices(t)
	require.ErrorIs(t, s.drag.Start(99999), ErrTaskNotLoaded)
}
