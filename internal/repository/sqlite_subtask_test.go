package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addSubtask(t *testing.T, repo *SQLiteSubtaskRepo, taskID int64, title string) domain.Subtask {
	t.Helper()
	ctx := context.Background()
	next, err := repo.NextSortOrder(ctx, taskID)
	require.NoError(t, err)
	st := domain.Subtask{TaskID: taskID, Title: title, Status: domain.SubtaskPending, SortOrder: next, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &st))
	return st
}

func TestSubtaskRepo_SortOrderStartsAtZero(t *testing.T) {
	db := testutil.NewTestDB(t)
	task := createTask(t, NewSQLiteTaskRepo(db), "Bracket")
	repo := NewSQLiteSubtaskRepo(db)

	a := addSubtask(t, repo, task.ID, "cut")
	b := addSubtask(t, repo, task.ID, "weld")
	assert.Equal(t, 0, a.SortOrder)
	assert.Equal(t, 1, b.SortOrder)

	list, err := repo.ListByTask(context.Background(), task.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cut", list[0].Title)
	assert.Equal(t, task.ID, list[1].TaskID)
}

func TestSubtaskRepo_ListByTasksGroups(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewSQLiteTaskRepo(db)
	one := createTask(t, tasks, "One")
	two := createTask(t, tasks, "Two")
	repo := NewSQLiteSubtaskRepo(db)
	addSubtask(t, repo, one.ID, "a")
	addSubtask(t, repo, two.ID, "b")
	addSubtask(t, repo, one.ID, "c")

	byTask, err := repo.ListByTasks(context.Background(), []int64{one.ID, two.ID})
	require.NoError(t, err)
	assert.Len(t, byTask[one.ID], 2)
	assert.Len(t, byTask[two.ID], 1)
}

func TestSubtaskRepo_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	task := createTask(t, NewSQLiteTaskRepo(db), "Bracket")
	repo := NewSQLiteSubtaskRepo(db)
	ctx := context.Background()
	st := addSubtask(t, repo, task.ID, "cut")

	st.Status = domain.SubtaskCompleted
	st.Title = "cut to length"
	require.NoError(t, repo.Update(ctx, &st))

	fetched, err := repo.GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubtaskCompleted, fetched.Status)
	assert.Equal(t, "cut to length", fetched.Title)

	require.NoError(t, repo.Delete(ctx, st.ID))
	_, err = repo.GetByID(ctx, st.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, st.ID), ErrNotFound)
}

func TestSubtaskRepo_SetSortOrderScopedToTask(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := NewSQLiteTaskRepo(db)
	one := createTask(t, tasks, "One")
	two := createTask(t, tasks, "Two")
	repo := NewSQLiteSubtaskRepo(db)
	foreign := addSubtask(t, repo, two.ID, "other")

	err := repo.SetSortOrder(context.Background(), one.ID, foreign.ID, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubtaskRepo_CreateRequiresTask(t *testing.T) {
	repo := NewSQLiteSubtaskRepo(testutil.NewTestDB(t))
	st := domain.Subtask{TaskID: 777, Title: "orphan", Status: domain.SubtaskPending}

	assert.Error(t, repo.Create(context.Background(), &st), "foreign key enforced")
}
