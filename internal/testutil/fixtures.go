package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

var testIDCounter atomic.Int64

// NextID returns a process-unique positive ID for fixtures.
func NextID() int64 {
	return testIDCounter.Add(1)
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskID(id int64) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithStatus(s domain.StoredStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		due := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		t.DueDate = &due
	}
}

// WithDueInDays sets the due date relative to now's calendar date.
func WithDueInDays(now time.Time, days int) TaskOption {
	return WithDueDate(now.AddDate(0, 0, days))
}

func WithCustomer(name, company string) TaskOption {
	return func(t *domain.Task) {
		t.CustomerName = name
		t.Company = company
	}
}

func WithOrderNumbers(po, so string) TaskOption {
	return func(t *domain.Task) {
		t.PONumber = po
		t.SONumber = so
	}
}

// WithSubtasks adds pending subtasks with the given titles.
func WithSubtasks(titles ...string) TaskOption {
	return func(t *domain.Task) {
		base := len(t.Subtasks)
		for i, title := range titles {
			t.Subtasks = append(t.Subtasks, domain.Subtask{
				ID:        NextID(),
				TaskID:    t.ID,
				Title:     title,
				Status:    domain.SubtaskPending,
				SortOrder: base + i,
			})
		}
	}
}

func NewTestTask(title string, opts ...TaskOption) domain.Task {
	now := time.Now().UTC()
	t := domain.Task{
		ID:        NextID(),
		Title:     title,
		Status:    domain.StatusScheduled,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&t)
	}
	for i := range t.Subtasks {
		t.Subtasks[i].TaskID = t.ID
	}
	return t
}

// NewTestTasks builds n scheduled tasks titled "<prefix> 1".."<prefix> n".
func NewTestTasks(prefix string, n int, opts ...TaskOption) []domain.Task {
	out := make([]domain.Task, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, NewTestTask(fmt.Sprintf("%s %d", prefix, i), opts...))
	}
	return out
}
