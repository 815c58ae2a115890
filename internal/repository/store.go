package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// DefaultScanLogLimit caps a scan log listing when no limit is given.
const DefaultScanLogLimit = 100

// Store is the SQLite record store. It implements app.RecordStore on top of
// the repositories, running multi-row operations in one transaction.
type Store struct {
	conn *sql.DB
	uow  db.UnitOfWork
	Now  func() time.Time
}

var _ app.RecordStore = (*Store)(nil)

func NewStore(conn *sql.DB, uow db.UnitOfWork) *Store {
	if uow == nil {
		uow = db.NewSQLiteUnitOfWork(conn)
	}
	return &Store{conn: conn, uow: uow, Now: time.Now}
}

// ClearResult reports what DeleteAll removed.
type ClearResult struct {
	DeletedTasks           int
	ClearedProcessedEmails int
	ClearedScanLog         int
}

func withSubtasks(ctx context.Context, conn db.DBTX, tasks []domain.Task) ([]domain.Task, error) {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	byTask, err := NewSQLiteSubtaskRepo(conn).ListByTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Subtasks = byTask[tasks[i].ID]
	}
	return tasks, nil
}

func loadTask(ctx context.Context, conn db.DBTX, id int64) (*domain.Task, error) {
	t, err := NewSQLiteTaskRepo(conn).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Subtasks, err = NewSQLiteSubtaskRepo(conn).ListByTask(ctx, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, filter app.ListFilter) ([]domain.Task, error) {
	tasks, err := NewSQLiteTaskRepo(s.conn).List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return withSubtasks(ctx, s.conn, tasks)
}

func (s *Store) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return loadTask(ctx, s.conn, id)
}

func (s *Store) CreateTask(ctx context.Context, in app.TaskInput) (*domain.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := s.Now().UTC()
	t := &domain.Task{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Status:        in.Status,
		Priority:      in.Priority,
		DueDate:       in.DueDate,
		DueTime:       in.DueTime,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Company:       in.Company,
		PONumber:      in.PONumber,
		SONumber:      in.SONumber,
		QuoteNumber:   in.QuoteNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if t.Status == "" {
		t.Status = domain.StatusScheduled
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if err := NewSQLiteTaskRepo(s.conn).Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask applies a partial update. Fields absent from patch keep their
// stored values.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch app.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.UpdateTaskWith(ctx, id, func(t *domain.Task) error {
		applyPatch(t, patch)
		return nil
	})
}

// UpdateTaskWith loads a task, lets mutate edit it and saves the result in
// one transaction. An error from mutate aborts the update.
func (s *Store) UpdateTaskWith(ctx context.Context, id int64, mutate func(*domain.Task) error) (*domain.Task, error) {
	var out *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := NewSQLiteTaskRepo(tx)
		t, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := mutate(t); err != nil {
			return err
		}
		t.UpdatedAt = s.Now().UTC()
		if err := tasks.Update(ctx, t); err != nil {
			return err
		}
		out, err = loadTask(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyPatch(t *domain.Task, p app.TaskPatch) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.DueTime != nil {
		t.DueTime = *p.DueTime
	}
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	return NewSQLiteTaskRepo(s.conn).Delete(ctx, id)
}

func (s *Store) BulkDeleteTasks(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, app.Invalid("task_ids", "no task ids provided")
	}
	return NewSQLiteTaskRepo(s.conn).DeleteMany(ctx, ids)
}

func (s *Store) DeleteAllTasks(ctx context.Context) (int, error) {
	res, err := s.DeleteAll(ctx)
	return res.DeletedTasks, err
}

// DeleteAll removes every task with its subtasks, the processed message
// history and the scan log, so previously scanned mail can be imported again.
func (s *Store) DeleteAll(ctx context.Context) (ClearResult, error) {
	var res ClearResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if res.DeletedTasks, err = NewSQLiteTaskRepo(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if res.ClearedProcessedEmails, err = NewSQLiteProcessedEmailRepo(tx).Clear(ctx); err != nil {
			return err
		}
		res.ClearedScanLog, err = NewSQLiteScanLogRepo(tx).Clear(ctx)
		return err
	})
	if err != nil {
		return ClearResult{}, err
	}
	return res, nil
}

// ApplyTemplate appends the template's steps as pending subtasks after the
// task's existing ones. A nil templateID applies the default template.
func (s *Store) ApplyTemplate(ctx context.Context, taskID int64, templateID *int64) (*domain.Task, error) {
	var out *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := NewSQLiteTaskRepo(tx).GetByID(ctx, taskID); err != nil {
			return err
		}
		templates := NewSQLiteTemplateRepo(tx)
		var tmpl *domain.Template
		var err error
		if templateID == nil {
			tmpl, err = templates.GetDefault(ctx)
		} else {
			tmpl, err = templates.GetByID(ctx, *templateID)
		}
		if err != nil {
			return err
		}

		subtasks := NewSQLiteSubtaskRepo(tx)
		next, err := subtasks.NextSortOrder(ctx, taskID)
		if err != nil {
			return err
		}
		now := s.Now().UTC()
		for i, step := range tmpl.Steps {
			st := &domain.Subtask{
				TaskID:    taskID,
				Title:     step,
				Status:    domain.SubtaskPending,
				SortOrder: next + i,
				CreatedAt: now,
			}
			if err := subtasks.Create(ctx, st); err != nil {
				return fmt.Errorf("adding step %d: %w", i+1, err)
			}
		}
		out, err = loadTask(ctx, tx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateSubtask(ctx context.Context, taskID int64, title string) (*domain.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, app.Invalid("title", "subtask title is required")
	}
	st := &domain.Subtask{TaskID: taskID, Title: title, Status: domain.SubtaskPending, CreatedAt: s.Now().UTC()}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := NewSQLiteTaskRepo(tx).GetByID(ctx, taskID); err != nil {
			return err
		}
		subtasks := NewSQLiteSubtaskRepo(tx)
		next, err := subtasks.NextSortOrder(ctx, taskID)
		if err != nil {
			return err
		}
		st.SortOrder = next
		return subtasks.Create(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) UpdateSubtask(ctx context.Context, id int64, patch app.SubtaskPatch) (*domain.Subtask, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var out *domain.Subtask
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		subtasks := NewSQLiteSubtaskRepo(tx)
		st, err := subtasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.Title != nil {
			st.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Status != nil {
			st.Status = *patch.Status
		}
		if err := subtasks.Update(ctx, st); err != nil {
			return err
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteSubtask(ctx context.Context, id int64) error {
	return NewSQLiteSubtaskRepo(s.conn).Delete(ctx, id)
}

// ReorderSubtasks gives each listed subtask its index as sort order and
// returns the task's subtasks in the new order. An id that does not belong
// to the task fails the whole reorder.
func (s *Store) ReorderSubtasks(ctx context.Context, taskID int64, order []int64) ([]domain.Subtask, error) {
	var out []domain.Subtask
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		subtasks := NewSQLiteSubtaskRepo(tx)
		for i, id := range order {
			if err := subtasks.SetSortOrder(ctx, taskID, id, i); err != nil {
				return err
			}
		}
		var err error
		out, err = subtasks.ListByTask(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	return NewSQLiteTemplateRepo(s.conn).List(ctx)
}

func (s *Store) CreateTemplate(ctx context.Context, name string, steps []string) (*domain.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, app.Invalid("name", "template name is required")
	}
	var cleaned []string
	for _, step := range steps {
		if step = strings.TrimSpace(step); step != "" {
			cleaned = append(cleaned, step)
		}
	}
	if len(cleaned) == 0 {
		return nil, app.Invalid("steps", "a template needs at least one step")
	}
	t := &domain.Template{Name: name, Steps: cleaned, CreatedAt: s.Now().UTC()}
	if err := NewSQLiteTemplateRepo(s.conn).Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) DeleteTemplate(ctx context.Context, id int64) error {
	return NewSQLiteTemplateRepo(s.conn).Delete(ctx, id)
}

// Stats counts against today's date in the store's local time.
func (s *Store) Stats(ctx context.Context) (*app.Stats, error) {
	stats, err := NewSQLiteTaskRepo(s.conn).Stats(ctx, s.Now())
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Store) ListScanLog(ctx context.Context, limit int) ([]domain.ScanLogEntry, error) {
	if limit <= 0 {
		limit = DefaultScanLogLimit
	}
	return NewSQLiteScanLogRepo(s.conn).List(ctx, limit)
}

func (s *Store) ClearScanLog(ctx context.Context) error {
	_, err := NewSQLiteScanLogRepo(s.conn).Clear(ctx)
	return err
}

// RecordScan appends a scanner outcome and adds its message to the
// processed history.
func (s *Store) RecordScan(ctx context.Context, e *domain.ScanLogEntry) error {
	if e.ScanTime.IsZero() {
		e.ScanTime = s.Now().UTC()
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := NewSQLiteScanLogRepo(tx).Append(ctx, e); err != nil {
			return err
		}
		if e.MessageID == "" {
			return nil
		}
		return NewSQLiteProcessedEmailRepo(tx).MarkProcessed(ctx, e.MessageID, e.TaskID)
	})
}

func (s *Store) Health(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}
