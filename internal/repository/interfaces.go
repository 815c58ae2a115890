package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// TaskRepo persists task rows. Returned tasks carry no subtasks.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context, filter app.ListFilter) ([]domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int, error)
	DeleteAll(ctx context.Context) (int, error)
	Stats(ctx context.Context, today time.Time) (app.Stats, error)
}

type SubtaskRepo interface {
	Create(ctx context.Context, s *domain.Subtask) error
	GetByID(ctx context.Context, id int64) (*domain.Subtask, error)
	ListByTask(ctx context.Context, taskID int64) ([]domain.Subtask, error)
	ListByTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.Subtask, error)
	Update(ctx context.Context, s *domain.Subtask) error
	Delete(ctx context.Context, id int64) error
	NextSortOrder(ctx context.Context, taskID int64) (int, error)
	SetSortOrder(ctx context.Context, taskID, id int64, order int) error
}

type TemplateRepo interface {
	Create(ctx context.Context, t *domain.Template) error
	GetByID(ctx context.Context, id int64) (*domain.Template, error)
	GetDefault(ctx context.Context) (*domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
	Delete(ctx context.Context, id int64) error
}

// ScanLogRepo stores the inbox scanner's per-message outcomes.
type ScanLogRepo interface {
	Append(ctx context.Context, e *domain.ScanLogEntry) error
	List(ctx context.Context, limit int) ([]domain.ScanLogEntry, error)
	Clear(ctx context.Context) (int, error)
}

// ProcessedEmailRepo is the scanner's dedup history of message ids.
type ProcessedEmailRepo interface {
	MarkProcessed(ctx context.Context, messageID string, taskID *int64) error
	IsProcessed(ctx context.Context, messageID string) (bool, error)
	Clear(ctx context.Context) (int, error)
}
