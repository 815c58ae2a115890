package board

import (
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func dueIn(days int) *time.Time {
	d := time.Date(2025, 6, 15+days, 0, 0, 0, 0, time.UTC)
	return &d
}

func sampleTasks() []domain.Task {
	return []domain.Task{
		{ID: 1, Title: "Bracket run", Status: domain.StatusScheduled, DueDate: dueIn(-2), Priority: domain.PriorityLow},
		{ID: 2, Title: "Enclosure", Company: "Acme Corp", Status: domain.StatusScheduled, DueDate: dueIn(0), Priority: domain.PriorityHigh},
		{ID: 3, Title: "Gasket", PONumber: "PO-778", Status: domain.StatusScheduled, DueDate: dueIn(1), Priority: domain.PriorityMedium},
		{ID: 4, Title: "Fixture", Status: domain.StatusInProgress, DueDate: dueIn(-5)},
		{ID: 5, Title: "Panel", CustomerName: "Dana Ortiz", Status: domain.StatusScheduled, DueDate: dueIn(10)},
		{ID: 6, Title: "Hinge", SONumber: "SO-42", Status: domain.StatusCompleted, DueDate: dueIn(-1)},
		{ID: 7, Title: "Shim", Status: domain.StatusScheduled},
	}
}

func columnIDs(b Board, status domain.ResolvedStatus) []int64 {
	col, _ := b.Column(status)
	var ids []int64
	for _, t := range col.Tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestMatches_FieldsAndCase(t *testing.T) {
	tasks := sampleTasks()
	assert.True(t, Matches(tasks[1], "acme"))
	assert.True(t, Matches(tasks[2], "po-77"))
	assert.True(t, Matches(tasks[4], "ORTIZ"))
	assert.True(t, Matches(tasks[5], "so-4"))
	assert.True(t, Matches(tasks[0], "  bracket "))
	assert.False(t, Matches(tasks[0], "acme"))
	assert.True(t, Matches(tasks[0], ""))
}

func TestMatches_IgnoresDescription(t *testing.T) {
	task := domain.Task{Title: "Panel", Description: "needs acme parts"}
	assert.False(t, Matches(task, "acme"))
}

func TestGroup_ColumnOrderAndMembership(t *testing.T) {
	b := Group(sampleTasks(), "", now, Options{})

	var order []domain.ResolvedStatus
	for _, c := range b.Columns {
		order = append(order, c.Status)
	}
	assert.Equal(t, domain.ResolvedStatuses, order)

	assert.Equal(t, []int64{1}, columnIDs(b, domain.ResolvedOverdue))
	assert.Equal(t, []int64{2}, columnIDs(b, domain.ResolvedUrgent))
	assert.Equal(t, []int64{3}, columnIDs(b, domain.ResolvedUpcomingSoon))
	assert.Equal(t, []int64{4}, columnIDs(b, domain.ResolvedInProgress))
	assert.Equal(t, []int64{5, 7}, columnIDs(b, domain.ResolvedScheduled))
	assert.Equal(t, []int64{6}, columnIDs(b, domain.ResolvedCompleted))
}

func TestGroup_EveryVisibleTaskInExactlyOneColumn(t *testing.T) {
	tasks := sampleTasks()
	b := Group(tasks, "", now, Options{})

	seen := map[int64]int{}
	for _, c := range b.Columns {
		for _, task := range c.Tasks {
			seen[task.ID]++
		}
	}
	assert.Len(t, seen, len(tasks))
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %d", id)
	}
	assert.Equal(t, len(tasks), b.Len())
}

func TestGroup_CompletedCollapsedByDefault(t *testing.T) {
	col, ok := Group(sampleTasks(), "", now, Options{}).Column(domain.ResolvedCompleted)
	require.True(t, ok)
	assert.True(t, col.Collapsible)
	assert.True(t, col.Collapsed)
	assert.Equal(t, 1, col.Count())

	col, _ = Group(sampleTasks(), "", now, Options{ShowCompleted: true}).Column(domain.ResolvedCompleted)
	assert.False(t, col.Collapsed)

	other, _ := Group(sampleTasks(), "", now, Options{}).Column(domain.ResolvedScheduled)
	assert.False(t, other.Collapsible)
}

func TestGroup_FilterRunsFirst(t *testing.T) {
	b := Group(sampleTasks(), "acme", now, Options{})
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, []int64{2}, columnIDs(b, domain.ResolvedUrgent))
	assert.Len(t, b.Columns, 6, "empty columns are still present")
}

func TestGroup_RecomputesWhenClockAdvances(t *testing.T) {
	task := []domain.Task{{ID: 1, Status: domain.StatusScheduled, DueDate: dueIn(0), Priority: domain.PriorityLow}}

	b := Group(task, "", now, Options{})
	assert.Equal(t, []int64{1}, columnIDs(b, domain.ResolvedUpcomingSoon))

	b = Group(task, "", now.Add(24*time.Hour), Options{})
	assert.Equal(t, []int64{1}, columnIDs(b, domain.ResolvedOverdue))
}

func TestListRows_KeepsOrderAndLabels(t *testing.T) {
	rows := ListRows(sampleTasks(), "", now)
	require.Len(t, rows, 7)
	for i, r := range rows {
		assert.Equal(t, int64(i+1), r.Task.ID)
	}
	assert.Equal(t, "Overdue", rows[0].Label())
	assert.Equal(t, "Urgent", rows[1].Label())
	assert.Equal(t, "Completed", rows[5].Label())

	assert.Len(t, ListRows(sampleTasks(), "hinge", now), 1)
}

func TestVisibleIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, VisibleIDs(sampleTasks(), ""))
	assert.Equal(t, []int64{3}, VisibleIDs(sampleTasks(), "gasket"))
	assert.Empty(t, VisibleIDs(sampleTasks(), "zzz"))
}

func TestNextRecompute(t *testing.T) {
	assert.Equal(t, time.Minute, NextRecompute(now, time.Minute))

	late := time.Date(2025, 6, 15, 23, 59, 30, 0, time.UTC)
	assert.Equal(t, 30*time.Second, NextRecompute(late, time.Minute))
}
