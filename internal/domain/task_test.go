package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtaskStatus_Toggled(t *testing.T) {
	assert.Equal(t, SubtaskCompleted, SubtaskPending.Toggled())
	assert.Equal(t, SubtaskPending, SubtaskCompleted.Toggled())
}

func TestTask_Progress(t *testing.T) {
	task := Task{Subtasks: []Subtask{
		{ID: 1, Status: SubtaskCompleted},
		{ID: 2, Status: SubtaskPending},
		{ID: 3, Status: SubtaskCompleted},
	}}
	done, total := task.Progress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 3, total)
}

func TestTask_CloneIsIndependent(t *testing.T) {
	orig := Task{ID: 1, DueDate: day(1), Subtasks: []Subtask{{ID: 7, Title: "cut"}}}
	c := orig.Clone()

	c.Subtasks[0].Title = "weld"
	*c.DueDate = c.DueDate.AddDate(0, 0, 3)

	assert.Equal(t, "cut", orig.Subtasks[0].Title)
	assert.Equal(t, *day(1), *orig.DueDate)
}

func TestTask_SubtaskIndex(t *testing.T) {
	task := Task{Subtasks: []Subtask{{ID: 4}, {ID: 9}}}
	require.Equal(t, 1, task.SubtaskIndex(9))
	assert.Equal(t, -1, task.SubtaskIndex(5))
}

func TestTask_Reference(t *testing.T) {
	assert.Equal(t, "Bracket", Task{Title: "Bracket"}.Reference())
	assert.Equal(t, "PO 118 / SO 42 Bracket", Task{Title: "Bracket", PONumber: "118", SONumber: "42"}.Reference())
}
