package board

import (
	"testing"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colBounds = Rect{Min: Point{X: 0, Y: 0}, Max: Point{X: 20, Y: 30}}

func TestDragMachine_FullGesture(t *testing.T) {
	var d DragMachine
	assert.Equal(t, DragIdle, d.State())

	require.NoError(t, d.Start(7))
	assert.Equal(t, DragDragging, d.State())

	require.NoError(t, d.Enter(domain.ResolvedInProgress))
	assert.Equal(t, DragHovering, d.State())
	hovered, ok := d.Hovered()
	require.True(t, ok)
	assert.Equal(t, domain.ResolvedInProgress, hovered)

	id, err := d.Drop()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, DragIdle, d.State())
	assert.Zero(t, d.TaskID())
}

func TestDragMachine_LeaveInsideBoundsIsIgnored(t *testing.T) {
	var d DragMachine
	require.NoError(t, d.Start(1))
	require.NoError(t, d.Enter(domain.ResolvedScheduled))

	d.Leave(domain.ResolvedScheduled, Point{X: 5, Y: 5}, colBounds)
	assert.Equal(t, DragHovering, d.State())

	d.Leave(domain.ResolvedCompleted, Point{X: 50, Y: 5}, colBounds)
	assert.Equal(t, DragHovering, d.State(), "leaving a column that is not hovered")

	d.Leave(domain.ResolvedScheduled, Point{X: 25, Y: 5}, colBounds)
	assert.Equal(t, DragDragging, d.State())
	_, ok := d.Hovered()
	assert.False(t, ok)
}

func TestDragMachine_EnterMovesHover(t *testing.T) {
	var d DragMachine
	require.NoError(t, d.Start(1))
	require.NoError(t, d.Enter(domain.ResolvedScheduled))
	require.NoError(t, d.Enter(domain.ResolvedCompleted))
	hovered, _ := d.Hovered()
	assert.Equal(t, domain.ResolvedCompleted, hovered)
}

func TestDragMachine_IllegalTransitions(t *testing.T) {
	var d DragMachine
	assert.ErrorIs(t, d.Enter(domain.ResolvedScheduled), ErrNoDrag)
	_, err := d.Drop()
	assert.ErrorIs(t, err, ErrNoDrag)

	require.NoError(t, d.Start(1))
	assert.ErrorIs(t, d.Start(2), ErrDragActive)

	d.End()
	assert.Equal(t, DragIdle, d.State())
}

func TestDropTarget(t *testing.T) {
	cases := map[domain.ResolvedStatus]domain.StoredStatus{
		domain.ResolvedCompleted:    domain.StatusCompleted,
		domain.ResolvedInProgress:   domain.StatusInProgress,
		domain.ResolvedScheduled:    domain.StatusScheduled,
		domain.ResolvedOverdue:      domain.StatusScheduled,
		domain.ResolvedUrgent:       domain.StatusScheduled,
		domain.ResolvedUpcomingSoon: domain.StatusScheduled,
	}
	for col, want := range cases {
		assert.Equal(t, want, DropTarget(col), "column=%s", col)
		assert.True(t, DropTarget(col).Valid())
	}
}

func TestPlanDrop_SameColumnNeedsNoWrite(t *testing.T) {
	for _, task := range sampleTasks() {
		col := task.Resolved(now)
		assert.False(t, PlanDrop(task, col).NeedsWrite(), "task %d in %s", task.ID, col)
	}
}

func TestPlanDrop_DerivedColumnsOnScheduledTaskNeedNoWrite(t *testing.T) {
	task := domain.Task{ID: 3, Status: domain.StatusScheduled, DueDate: dueIn(1)}
	tr := PlanDrop(task, domain.ResolvedOverdue)
	assert.False(t, tr.NeedsWrite())
	assert.Equal(t, domain.StatusScheduled, tr.To)
}

func TestPlanDrop_CompletedToUrgentResetsToScheduled(t *testing.T) {
	task := domain.Task{ID: 6, Status: domain.StatusCompleted, DueDate: dueIn(0), Priority: domain.PriorityHigh}
	tr := PlanDrop(task, domain.ResolvedUrgent)
	assert.True(t, tr.NeedsWrite())
	assert.Equal(t, domain.StatusCompleted, tr.From)
	assert.Equal(t, domain.StatusScheduled, tr.To)

	task.Status = tr.To
	assert.Equal(t, domain.ResolvedUrgent, task.Resolved(now))
}
