package cli

import (
	"errors"
	"testing"
	"time"

	taskapp "github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedBoard returns one overdue, one in-progress and one completed task,
// which land in board columns 0, 3 and 5.
func seedBoard() (overdue, active, done domain.Task) {
	overdue = testutil.NewTestTask("Overdue PO", testutil.WithDueInDays(testNow, -2))
	active = testutil.NewTestTask("Bracket", testutil.WithStatus(domain.StatusInProgress))
	done = testutil.NewTestTask("Shipped crate", testutil.WithStatus(domain.StatusCompleted))
	return overdue, active, done
}

func storedStatus(t *testing.T, store *testutil.FakeStore, id int64) domain.StoredStatus {
	t.Helper()
	task, ok := store.Task(id)
	require.True(t, ok, "task %d missing from store", id)
	return task.Status
}

func TestTUI_BoardGroupsByResolvedStatus(t *testing.T) {
	app, _ := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	out := d.Plain()
	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Contains(t, out, "Overdue (1)")
	assert.Contains(t, out, "In Progress (1)")
	assert.Contains(t, out, "Completed (1)")
	assert.Contains(t, out, "Overdue PO")
	assert.Contains(t, out, "hidden, c to show")
	assert.NotContains(t, out, "Shipped crate")
}

func TestTUI_ToggleCompletedExpandsLane(t *testing.T) {
	app, _ := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	d.PressKey('c')

	assert.Contains(t, d.Plain(), "Shipped crate")
	assert.True(t, app.View.ShowCompleted())
}

func TestTUI_KeyboardMoveWritesStoredStatus(t *testing.T) {
	overdue, active, done := seedBoard()
	app, store := testApp(t, overdue, active, done)
	d := NewTestDriver(t, app)

	d.PressKey('m')
	assert.Equal(t, board.DragHovering, app.Drag.State())
	for range 3 {
		d.PressKey('l')
	}
	col, ok := app.Drag.Hovered()
	require.True(t, ok)
	assert.Equal(t, domain.ResolvedInProgress, col)

	d.PressEnter()

	assert.Equal(t, board.DragIdle, app.Drag.State())
	assert.Equal(t, domain.StatusInProgress, storedStatus(t, store, overdue.ID))
	assert.Equal(t, 1, store.Calls(testutil.OpUpdateTask))
	flash, isErr := d.Flash()
	assert.False(t, isErr)
	assert.Contains(t, flash, "Moved")
	assert.Contains(t, d.Plain(), "In Progress (2)")
}

// hoverFailingDrag rejects every column hover.
type hoverFailingDrag struct {
	service.DragService
	err error
}

func (d hoverFailingDrag) Enter(domain.ResolvedStatus) error { return d.err }

func TestTUI_DragHoverErrorIsFlashed(t *testing.T) {
	app, store := testApp(t, seedBoard())
	errHover := errors.New("hover rejected")
	app.Drag = hoverFailingDrag{DragService: app.Drag, err: errHover}
	d := NewTestDriver(t, app)

	d.PressKey('m')
	flash, isErr := d.Flash()
	assert.True(t, isErr)
	assert.Contains(t, flash, "hover rejected")

	d.PressKey('l')
	flash, isErr = d.Flash()
	assert.True(t, isErr)
	assert.Contains(t, flash, "hover rejected")
	assert.Equal(t, 0, store.Calls(testutil.OpUpdateTask))
}

func TestTUI_DropOnDerivedColumnStoresScheduled(t *testing.T) {
	overdue, active, done := seedBoard()
	app, store := testApp(t, overdue, active, done)
	d := NewTestDriver(t, app)

	for range 3 {
		d.PressKey('l')
	}
	d.PressKey('m')
	for range 3 {
		d.PressKey('h')
	}
	d.PressEnter()

	assert.Equal(t, domain.StatusScheduled, storedStatus(t, store, active.ID))
	flash, _ := d.Flash()
	assert.Contains(t, flash, "shown as Scheduled")
}

func TestTUI_DropOnSameColumnSendsNothing(t *testing.T) {
	app, store := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	d.PressKey('m')
	d.PressEnter()

	assert.Equal(t, 0, store.Calls(testutil.OpUpdateTask))
	assert.Equal(t, board.DragIdle, app.Drag.State())
}

func TestTUI_EscCancelsDrag(t *testing.T) {
	app, store := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	d.PressKey('m')
	d.PressKey('l')
	d.PressEsc()

	assert.Equal(t, board.DragIdle, app.Drag.State())
	assert.Equal(t, 0, store.Calls(testutil.OpUpdateTask))
	assert.Equal(t, ViewBoard, d.ActiveViewID())
}

func TestTUI_MouseDragDrop(t *testing.T) {
	overdue, active, done := seedBoard()
	app, store := testApp(t, overdue, active, done)
	d := NewTestDriver(t, app)

	d.MouseDown(d.columnX(0), cardTop)
	assert.Equal(t, overdue.ID, app.Drag.TaskID())

	d.MouseMove(d.columnX(5), cardTop)
	col, ok := app.Drag.Hovered()
	require.True(t, ok)
	assert.Equal(t, domain.ResolvedCompleted, col)

	d.MouseUp(d.columnX(5), cardTop)

	assert.Equal(t, domain.StatusCompleted, storedStatus(t, store, overdue.ID))
	assert.Equal(t, board.DragIdle, app.Drag.State())
}

func TestTUI_MouseReleaseOutsideColumnsCancels(t *testing.T) {
	app, store := testApp(t, seedBoard())
	d := NewTestDriver(t, app)
	gapX := d.Board().colWidth(len(domain.ResolvedStatuses))

	d.MouseDown(d.columnX(0), cardTop)
	d.MouseMove(gapX, cardTop)
	assert.Equal(t, board.DragDragging, app.Drag.State())
	d.MouseUp(gapX, cardTop)

	assert.Equal(t, board.DragIdle, app.Drag.State())
	assert.Equal(t, 0, store.Calls(testutil.OpUpdateTask))
}

func TestTUI_DragDisabledWhileSelecting(t *testing.T) {
	app, _ := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	d.PressKey('s')
	d.PressKey('m')

	assert.Equal(t, board.DragIdle, app.Drag.State())
	flash, isErr := d.Flash()
	assert.True(t, isErr)
	assert.Contains(t, flash, "disabled while selecting")
}

func TestTUI_SelectionBulkDelete(t *testing.T) {
	overdue, active, done := seedBoard()
	app, store := testApp(t, overdue, active, done)
	d := NewTestDriver(t, app)

	d.PressKey('s')
	d.PressSpace()
	for range 3 {
		d.PressKey('l')
	}
	d.PressSpace()
	assert.Equal(t, 2, app.Selection.Count())
	assert.Contains(t, d.Plain(), "selecting (2)")

	d.PressKey('D')
	require.Equal(t, ViewForm, d.ActiveViewID())
	d.ConfirmYes()

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	requests := store.BulkDeleteRequests()
	require.Len(t, requests, 1)
	assert.ElementsMatch(t, []int64{overdue.ID, active.ID}, requests[0])
	assert.False(t, app.Selection.Active())
	_, ok := store.Task(done.ID)
	assert.True(t, ok)
	flash, _ := d.Flash()
	assert.Equal(t, "Deleted 2 tasks", flash)
}

func TestTUI_BulkDeleteWithStaleRefetchStillReportsDeleted(t *testing.T) {
	overdue, active, done := seedBoard()
	app, store := testApp(t, overdue, active, done)
	d := NewTestDriver(t, app)

	d.PressKey('s')
	d.PressSpace()
	for range 3 {
		d.PressKey('l')
	}
	d.PressSpace()
	d.PressKey('D')
	require.Equal(t, ViewForm, d.ActiveViewID())
	store.FailNext(testutil.OpListTasks, taskapp.ErrNetwork)
	d.ConfirmYes()

	flash, isErr := d.Flash()
	assert.False(t, isErr)
	assert.Equal(t, "Deleted 2 tasks (task list not refreshed: cannot reach the task server)", flash)
	assert.False(t, app.Selection.Active())
	_, ok := store.Task(overdue.ID)
	assert.False(t, ok)
	assert.NotContains(t, d.Plain(), "Bracket")
}

func TestTUI_BulkDeleteWithEmptySelectionReportsError(t *testing.T) {
	app, store := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	d.PressKey('s')
	d.PressKey('D')

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Empty(t, store.BulkDeleteRequests())
	flash, isErr := d.Flash()
	assert.True(t, isErr)
	assert.Contains(t, flash, "no tasks selected")
}

func TestTUI_DeleteAllCancelledKeepsTasks(t *testing.T) {
	app, store := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	d.PressKey('X')
	require.Equal(t, ViewForm, d.ActiveViewID())
	d.PressEsc()

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Equal(t, 0, store.Calls(testutil.OpDeleteAllTasks))
	flash, _ := d.Flash()
	assert.Equal(t, "Cancelled", flash)
}

func TestTUI_DeleteAllConfirmed(t *testing.T) {
	app, store := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	d.PressKey('X')
	d.ConfirmYes()

	assert.Equal(t, 1, store.Calls(testutil.OpDeleteAllTasks))
	assert.Contains(t, d.Plain(), "Overdue (0)")
	flash, _ := d.Flash()
	assert.Equal(t, "Deleted 3 tasks", flash)
}

func TestTUI_SearchFiltersBoard(t *testing.T) {
	app, _ := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	d.PressKey('/')
	d.Type("brack")
	d.PressEnter()

	assert.Equal(t, "brack", app.View.Query())
	out := d.Plain()
	assert.Contains(t, out, "Bracket")
	assert.Contains(t, out, "Overdue (0)")
	assert.Contains(t, out, "filter: brack")

	d.PressKey('/')
	d.PressEsc()
	assert.Equal(t, "", app.View.Query())
}

func TestTUI_ListModeShowsEveryTask(t *testing.T) {
	app, _ := testApp(t, seedBoard())
	d := NewTestDriver(t, app)

	d.PressKey('v')

	out := d.Plain()
	assert.Contains(t, out, "Overdue PO")
	assert.Contains(t, out, "Bracket")
	assert.Contains(t, out, "Shipped crate")
}

func TestTUI_StatusesFollowTheClock(t *testing.T) {
	task := testutil.NewTestTask("Crate", testutil.WithDueInDays(testNow, 1))
	app, _ := testApp(t, task)
	d := NewTestDriver(t, app)
	assert.Contains(t, d.Plain(), "Upcoming (1)")

	later := testNow.AddDate(0, 0, 3)
	app.Now = func() time.Time { return later }
	d.Send(tickMsg{})

	assert.Contains(t, d.Plain(), "Overdue (1)")
}

func TestTUI_QuitKey(t *testing.T) {
	app, _ := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('q')

	assert.True(t, d.IsQuitting())
}

func TestTUI_NewTaskWizard(t *testing.T) {
	app, store := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('n')
	require.Equal(t, ViewForm, d.ActiveViewID())
	d.Type("Call ACME")
	d.SubmitForm()

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Equal(t, 1, store.Calls(testutil.OpCreateTask))
	assert.Equal(t, 0, store.Calls(testutil.OpApplyTemplate))
	assert.Contains(t, d.Plain(), "Call ACME")
}

// ── detail view ─────────────────────────────────────────────────────────────

func openDetail(t *testing.T, task domain.Task) (*App, *testutil.FakeStore, *TestDriver) {
	t.Helper()
	app, store := testApp(t, task)
	d := NewTestDriver(t, app)
	d.PressKey('v')
	d.PressEnter()
	require.Equal(t, ViewDetail, d.ActiveViewID())
	return app, store, d
}

func subtaskTitles(task domain.Task) []string {
	titles := make([]string, len(task.Subtasks))
	for i, st := range task.Subtasks {
		titles[i] = st.Title
	}
	return titles
}

func TestTUI_DetailShowsTaskAndChecklist(t *testing.T) {
	task := testutil.NewTestTask("Bracket",
		testutil.WithCustomer("Dana", "ACME"),
		testutil.WithSubtasks("Quote", "Order"))
	_, store, d := openDetail(t, task)

	out := d.Plain()
	assert.Contains(t, out, "Bracket")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "[ ] Quote")
	assert.Contains(t, out, "[ ] Order")
	assert.Equal(t, 1, store.Calls(testutil.OpGetTask))
}

func TestTUI_DetailToggleSubtask(t *testing.T) {
	task := testutil.NewTestTask("Bracket", testutil.WithSubtasks("Quote", "Order"))
	_, store, d := openDetail(t, task)

	d.PressSpace()

	stored, _ := store.Task(task.ID)
	assert.Equal(t, domain.SubtaskCompleted, stored.Subtasks[0].Status)
	assert.Contains(t, d.Plain(), "[x] Quote")
}

func TestTUI_DetailToggleRollsBackOnFailure(t *testing.T) {
	task := testutil.NewTestTask("Bracket", testutil.WithSubtasks("Quote"))
	app, store, d := openDetail(t, task)
	store.FailNext(testutil.OpUpdateSubtask, testutil.ErrFakeNetwork)

	d.PressSpace()

	cached, ok := app.View.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, domain.SubtaskPending, cached.Subtasks[0].Status)
	flash, isErr := d.Flash()
	assert.True(t, isErr)
	assert.Equal(t, "cannot reach the task server", flash)
}

func TestTUI_DetailReorderSubtask(t *testing.T) {
	task := testutil.NewTestTask("Bracket", testutil.WithSubtasks("Quote", "Order", "Ship"))
	app, store, d := openDetail(t, task)

	d.PressKey('J')

	cached, _ := app.View.Task(task.ID)
	assert.Equal(t, []string{"Order", "Quote", "Ship"}, subtaskTitles(cached))
	stored, _ := store.Task(task.ID)
	assert.Equal(t, []string{"Order", "Quote", "Ship"}, subtaskTitles(stored))
	assert.Equal(t, 1, d.Detail().cursor)
}

func TestTUI_DetailDeleteSubtask(t *testing.T) {
	task := testutil.NewTestTask("Bracket", testutil.WithSubtasks("Quote", "Order"))
	app, store, d := openDetail(t, task)

	d.PressKey('d')

	stored, _ := store.Task(task.ID)
	assert.Equal(t, []string{"Order"}, subtaskTitles(stored))
	cached, _ := app.View.Task(task.ID)
	assert.Equal(t, []string{"Order"}, subtaskTitles(cached))
	flash, _ := d.Flash()
	assert.Equal(t, "Deleted Quote", flash)
}

func TestTUI_DetailBulkAdd(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	app, store, d := openDetail(t, task)

	d.PressKey('a')
	d.Type("Call")
	d.PressEnter()
	d.Type("Email")
	d.PressCtrl('s')

	stored, _ := store.Task(task.ID)
	assert.Equal(t, []string{"Call", "Email"}, subtaskTitles(stored))
	cached, _ := app.View.Task(task.ID)
	assert.Equal(t, []string{"Call", "Email"}, subtaskTitles(cached))
	flash, _ := d.Flash()
	assert.Equal(t, "Added 2 subtasks", flash)
}

func TestTUI_DetailCyclesStoredStatus(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	_, store, d := openDetail(t, task)

	d.PressKey('s')

	assert.Equal(t, domain.StatusInProgress, storedStatus(t, store, task.ID))
}

func TestTUI_DetailAppliesDefaultTemplate(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	_, store, d := openDetail(t, task)

	d.PressKey('t')

	stored, _ := store.Task(task.ID)
	assert.Len(t, stored.Subtasks, 1)
	assert.Contains(t, d.Plain(), "Default step")
}

func TestTUI_DetailCopiesReference(t *testing.T) {
	task := testutil.NewTestTask("Bracket", testutil.WithOrderNumbers("4411", "99"))
	app, _, d := openDetail(t, task)
	var copied string
	app.Clipboard = func(text string) error {
		copied = text
		return nil
	}

	d.PressKey('y')

	assert.Equal(t, "PO 4411 / SO 99 Bracket", copied)
	flash, _ := d.Flash()
	assert.Equal(t, "Copied PO 4411 / SO 99 Bracket", flash)
}

func TestTUI_DetailDeleteTaskReturnsToBoard(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	_, store, d := openDetail(t, task)

	d.PressKey('x')
	require.Equal(t, ViewForm, d.ActiveViewID())
	d.ConfirmYes()

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())
	_, ok := store.Task(task.ID)
	assert.False(t, ok)
}

func TestTUI_DetailEscReturnsToBoard(t *testing.T) {
	task := testutil.NewTestTask("Bracket")
	_, _, d := openDetail(t, task)

	d.PressEsc()

	assert.Equal(t, ViewBoard, d.ActiveViewID())
}
