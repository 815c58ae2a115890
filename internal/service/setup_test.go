package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/optimistic"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	ws        *Workspace
	store     *testutil.FakeStore
	coord     *optimistic.Coordinator
	tasks     TaskService
	view      ViewService
	subtasks  SubtaskService
	drag      DragService
	selection SelectionService
	catalog   CatalogService
}

// setupServices seeds a fake store with tasks and loads them into a fresh
// workspace.
func setupServices(t *testing.T, tasks ...domain.Task) *testServices {
	t.Helper()
	store := testutil.NewFakeStore(tasks...)
	ws := NewWorkspace(nil)
	coord := optimistic.NewCoordinator()
	taskSvc := NewTaskService(ws, store)
	s := &testServices{
		ws:        ws,
		store:     store,
		coord:     coord,
		tasks:     taskSvc,
		view:      NewViewService(ws),
		subtasks:  NewSubtaskService(ws, store, coord),
		drag:      NewDragService(ws, store),
		selection: NewSelectionService(ws, store, taskSvc),
		catalog:   NewCatalogService(store),
	}
	require.NoError(t, taskSvc.Refresh(context.Background()))
	return s
}

func (s *testServices) cached(t *testing.T, id int64) domain.Task {
	t.Helper()
	task, ok := s.ws.Cache.Get(id)
	require.True(t, ok, "task %d not cached", id)
	return task
}
