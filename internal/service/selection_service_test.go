package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionService_EnterStartsEmpty(t *testing.T) {
	tasks := testutil.NewTestTasks("Job", 3)
	s := setupServices(t, tasks...)

	s.selection.Enter()
	assert.True(t, s.selection.Active())
	assert.Equal(t, 0, s.selection.Count())

	assert.True(t, s.selection.Toggle(tasks[0].ID))
	assert.True(t, s.selection.Has(tasks[0].ID))
	assert.False(t, s.selection.Toggle(tasks[0].ID))
	assert.False(t, s.selection.Has(tasks[0].ID))
}

func TestSelectionService_ToggleOutsideModeIgnored(t *testing.T) {
	tasks := testutil.NewTestTasks("Job", 2)
	s := setupServices(t, tasks...)

	assert.False(t, s.selection.Toggle(tasks[0].ID))
	assert.Equal(t, 0, s.selection.Count())
}

func TestSelectionService_ToggleAllUsesVisibleTasks(t *testing.T) {
	a := testutil.NewTestTask("Bracket")
	b := testutil.NewTestTask("Bracket mount")
	c := testutil.NewTestTask("Gasket")
	s := setupServices(t, a, b, c)

	s.view.SetQuery("bracket")
	s.selection.Enter()
	s.selection.ToggleAll()
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, s.selection.IDs())
	assert.False(t, s.selection.Toggle(c.ID), "hidden tasks cannot be selected")

	s.selection.ToggleAll()
	assert.Equal(t, 0, s.selection.Count())
}

func TestSelectionService_QueryChangeClearsSelection(t *testing.T) {
	tasks := testutil.NewTestTasks("Job", 2)
	s := setupServices(t, tasks...)
	s.selection.Enter()
	s.selection.ToggleAll()
	require.Equal(t, 2, s.selection.Count())

	s.view.SetQuery("Job")
	assert.Equal(t, 0, s.selection.Count())
	assert.True(t, s.selection.Active(), "mode survives a query change")
}

func TestSelectionService_BulkDeleteUnconfirmedSendsNothing(t *testing.T) {
	tasks := testutil.NewTestTasks("Job", 3)
	s := setupServices(t, tasks...)
	s.selection.Enter()
	s.selection.Toggle(tasks[1].ID)

	_, err := s.selection.BulkDelete(context.Background(), false)
	require.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, 0, s.store.Calls(testutil.OpBulkDeleteTasks))
	assert.Equal(t, 1, s.selection.Count())
	assert.Equal(t, "Delete 1 selected task? This cannot be undone.", s.selection.BulkDeletePrompt())
}

func TestSelectionService_BulkDeleteRequiresSelection(t *testing.T) {
	s := setupServices(t, testutil.NewTestTasks("Job", 2)...)

	_, err := s.selection.BulkDelete(context.Background(), true)
	require.ErrorIs(t, err, app.ErrValidation)

	s.selection.Enter()
	_, err = s.selection.BulkDelete(context.Background(), true)
	require.ErrorIs(t, err, app.ErrValidation)
	assert.Equal(t, 0, s.store.Calls(testutil.OpBulkDeleteTasks))
}

func TestSelectionService_BulkDeleteSuccess(t *testing.T) {
	tasks := testutil.NewTestTasks("Job", 4)
	s := setupServices(t, tasks...)
	listCalls := s.store.Calls(testutil.OpListTasks)
	s.selection.Enter()
	s.selection.Toggle(tasks[0].ID)
	s.selection.Toggle(tasks[2].ID)

	deleted, err := s.selection.BulkDelete(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	require.Len(t, s.store.BulkDeleteRequests(), 1)
	assert.Equal(t, []int64{tasks[0].ID, tasks[2].ID}, s.store.BulkDeleteRequests()[0])
	assert.False(t, s.selection.Active())
	assert.Equal(t, 0, s.selection.Count())
	assert.Equal(t, listCalls+1, s.store.Calls(testutil.OpListTasks))
	assert.Equal(t, 2, s.ws.Cache.Len())
	assert.Equal(t, 2, s.view.Stats().Total)
}

func TestSelectionService_BulkDeleteFailureKeepsSelection(t *testing.T) {
	tasks := testutil.NewTestTasks("Job", 3)
	s := setupServices(t, tasks...)
	s.selection.Enter()
	s.selection.ToggleAll()
	s.store.FailNext(testutil.OpBulkDeleteTasks, app.ErrNetwork)

	_, err := s.selection.BulkDelete(context.Background(), true)
	require.ErrorIs(t, err, app.ErrNetwork)

	assert.True(t, s.selection.Active())
	assert.Equal(t, 3, s.selection.Count())
	assert.Equal(t, 3, s.ws.Cache.Len())
}

func TestSelectionService_BulkDeleteRefetchFailureKeepsCount(t *testing.T) {
	tasks := testutil.NewTestTasks("Job", 3)
	s := setupServices(t, tasks...)
	s.selection.Enter()
	s.selection.Toggle(tasks[1].ID)
	s.store.FailNext(testutil.OpListTasks, app.ErrNetwork)

	deleted, err := s.selection.BulkDelete(context.Background(), true)
	require.ErrorIs(t, err, ErrStaleList)
	assert.ErrorIs(t, err, app.ErrNetwork)
	assert.Equal(t, 1, deleted)

	assert.False(t, s.selection.Active())
	_, cached := s.ws.Cache.Get(tasks[1].ID)
	assert.False(t, cached)
	assert.Equal(t, 2, s.ws.Cache.Len())
}

func TestSelectionService_DeleteAllRefetchFailureKeepsCount(t *testing.T) {
	tasks := testutil.NewTestTasks("Job", 2)
	s := setupServices(t, tasks...)
	s.store.FailNext(testutil.OpListTasks, app.ErrNetwork)

	deleted, err := s.selection.DeleteAll(context.Background(), true)
	require.ErrorIs(t, err, ErrStaleList)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 0, s.ws.Cache.Len())
}

func TestSelectionService_DeleteAllClearsScanHistory(t *testing.T) {
	s := setupServices(t, testutil.NewTestTasks("Job", 3)...)
	s.store.AddScanLog(domain.ScanLogEntry{Subject: "RFQ 1", Result: "created"})
	assert.Contains(t, s.selection.DeleteAllPrompt(), "Delete ALL 3 tasks?")

	_, err := s.selection.DeleteAll(context.Background(), false)
	require.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, 0, s.store.Calls(testutil.OpDeleteAllTasks))

	deleted, err := s.selection.DeleteAll(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.Equal(t, 0, s.ws.Cache.Len())
	assert.Equal(t, 0, s.store.ProcessedEmails())
	assert.Equal(t, 0, s.view.Stats().Total)
}

func TestSelectionService_DeleteReconcilesSelection(t *testing.T) {
	tasks := testutil.NewTestTasks("Job", 2)
	s := setupServices(t, tasks...)
	s.selection.Enter()
	s.selection.ToggleAll()

	require.NoError(t, s.tasks.Delete(context.Background(), tasks[0].ID, true))
	assert.Equal(t, []int64{tasks[1].ID}, s.selection.IDs())
	assert.False(t, s.selection.Has(tasks[0].ID))
}
