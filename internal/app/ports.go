package app

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// ListFilter narrows a task listing on the store side. Zero values match all.
type ListFilter struct {
	Status   domain.StoredStatus
	Priority domain.Priority
	Search   string
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title         string
	Description   string
	Status        domain.StoredStatus
	Priority      domain.Priority
	DueDate       *time.Time
	DueTime       string
	CustomerName  string
	CustomerEmail string
	Company       string
	PONumber      string
	SONumber      string
	QuoteNumber   string
}

// Validate rejects inputs the store would reject, before any request is sent.
func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return Invalid("title", "title is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return Invalid("status", "unknown status "+string(in.Status))
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return Invalid("priority", "unknown priority "+string(in.Priority))
	}
	return nil
}

// TaskPatch is a partial task update. Nil fields are left untouched.
// Status is typed as a stored status; resolved statuses cannot be written.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *domain.StoredStatus
	Priority     *domain.Priority
	DueDate      *time.Time
	ClearDueDate bool
	DueTime      *string
}

func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return Invalid("title", "title is required")
	}
	if p.Status != nil && !p.Status.Valid() {
		return Invalid("status", "unknown status "+string(*p.Status))
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return Invalid("priority", "unknown priority "+string(*p.Priority))
	}
	return nil
}

// SubtaskPatch is a partial subtask update.
type SubtaskPatch struct {
	Title  *string
	Status *domain.SubtaskStatus
}

func (p SubtaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return Invalid("title", "subtask title is required")
	}
	if p.Status != nil && !p.Status.Valid() {
		return Invalid("status", "unknown subtask status "+string(*p.Status))
	}
	return nil
}

// Stats are the aggregate counters shown next to the board.
type Stats struct {
	Total        int
	Overdue      int
	HighPriority int
	DueToday     int
	InProgress   int
	Pending      int
	Completed    int
}

// RecordStore is the remote source of truth for tasks, subtasks and templates.
// Every write returns the canonical record as persisted.
type RecordStore interface {
	ListTasks(ctx context.Context, filter ListFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	CreateTask(ctx context.Context, in TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	BulkDeleteTasks(ctx context.Context, ids []int64) (int, error)
	DeleteAllTasks(ctx context.Context) (int, error)
	ApplyTemplate(ctx context.Context, taskID int64, templateID *int64) (*domain.Task, error)

	CreateSubtask(ctx context.Context, taskID int64, title string) (*domain.Subtask, error)
	UpdateSubtask(ctx context.Context, id int64, patch SubtaskPatch) (*domain.Subtask, error)
	DeleteSubtask(ctx context.Context, id int64) error
	ReorderSubtasks(ctx context.Context, taskID int64, order []int64) ([]domain.Subtask, error)

	ListTemplates(ctx context.Context) ([]domain.Template, error)
	CreateTemplate(ctx context.Context, name string, steps []string) (*domain.Template, error)
	DeleteTemplate(ctx context.Context, id int64) error

	Stats(ctx context.Context) (*Stats, error)
	ListScanLog(ctx context.Context, limit int) ([]domain.ScanLogEntry, error)
	ClearScanLog(ctx context.Context) error
	Health(ctx context.Context) error
}
