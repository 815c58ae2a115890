package service

import (
	"context"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/board"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/optimistic"
)

// TaskService loads the task list into the workspace cache and performs
// non-optimistic task writes. Every write overwrites the cached entry with
// the canonical record.
type TaskService interface {
	Reload(ctx context.Context) error
	Refresh(ctx context.Context) error
	RefreshStats(ctx context.Context) error
	Open(ctx context.Context, id int64) (*domain.Task, error)
	Create(ctx context.Context, in app.TaskInput, tmpl *TemplateChoice) (*domain.Task, error)
	Update(ctx context.Context, id int64, patch app.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id int64, confirmed bool) error
	ApplyTemplate(ctx context.Context, taskID int64, templateID *int64) (*domain.Task, error)
}

// TemplateChoice requests a template be applied right after creation.
// A nil ID selects the store's default template.
type TemplateChoice struct {
	ID *int64
}

// CatalogService manages templates and the inbox scan log.
type CatalogService interface {
	Templates(ctx context.Context) ([]domain.Template, error)
	CreateTemplate(ctx context.Context, name string, steps []string) (*domain.Template, error)
	DeleteTemplate(ctx context.Context, id int64) error
	ScanLog(ctx context.Context, limit int) ([]domain.ScanLogEntry, error)
	ClearScanLog(ctx context.Context) error
}

// ViewService derives what is on screen from the cache and the search query.
type ViewService interface {
	Query() string
	SetQuery(q string)
	ShowCompleted() bool
	SetShowCompleted(show bool)
	Board(now time.Time) board.Board
	List(now time.Time) []board.Row
	VisibleIDs() []int64
	Task(id int64) (domain.Task, bool)
	Stats() app.Stats
}

// SubtaskService edits subtasks. Toggle, Rename, Delete and Move update the
// cache immediately and return the pending remote write.
type SubtaskService interface {
	Toggle(taskID, subtaskID int64) (optimistic.Pending, error)
	Rename(taskID, subtaskID int64, title string) (optimistic.Pending, error)
	Delete(taskID, subtaskID int64) (optimistic.Pending, error)
	Move(taskID, subtaskID int64, delta int) (optimistic.Pending, error)
	Create(ctx context.Context, taskID int64, title string) (*domain.Subtask, error)
	BulkCreate(ctx context.Context, taskID int64, block string) ([]domain.Subtask, error)
}

// DragService turns board drag gestures into stored-status writes.
type DragService interface {
	Start(taskID int64) error
	Enter(col domain.ResolvedStatus) error
	Leave(col domain.ResolvedStatus, pointer board.Point, bounds board.Rect)
	Cancel()
	State() board.DragState
	TaskID() int64
	Hovered() (domain.ResolvedStatus, bool)
	PlanDrop(col domain.ResolvedStatus) (board.Transition, error)
	Commit(ctx context.Context, tr board.Transition) error
	Drop(ctx context.Context, col domain.ResolvedStatus) (board.Transition, error)
}

// SelectionService runs selection mode and the bulk deletes built on it.
type SelectionService interface {
	Active() bool
	Enter()
	Exit()
	Toggle(id int64) bool
	ToggleAll()
	Has(id int64) bool
	Count() int
	IDs() []int64
	BulkDeletePrompt() string
	BulkDelete(ctx context.Context, confirmed bool) (int, error)
	DeleteAllPrompt() string
	DeleteAll(ctx context.Context, confirmed bool) (int, error)
}
