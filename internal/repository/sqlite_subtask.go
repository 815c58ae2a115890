package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// SQLiteSubtaskRepo implements SubtaskRepo using a SQLite database.
type SQLiteSubtaskRepo struct {
	db db.DBTX
}

func NewSQLiteSubtaskRepo(conn db.DBTX) *SQLiteSubtaskRepo {
	return &SQLiteSubtaskRepo{db: conn}
}

const subtaskColumns = `id, task_id, title, status, sort_order, created_at`

func (r *SQLiteSubtaskRepo) Create(ctx context.Context, s *domain.Subtask) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO subtasks (task_id, title, status, sort_order, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.TaskID, s.Title, string(s.Status), s.SortOrder, formatTimestamp(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting subtask: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading subtask id: %w", err)
	}
	s.ID = id
	return nil
}

func (r *SQLiteSubtaskRepo) GetByID(ctx context.Context, id int64) (*domain.Subtask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subtaskColumns+` FROM subtasks WHERE id = ?`, id)
	s, err := scanSubtask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subtask %d: %w", id, ErrNotFound)
	}
	return s, err
}

func (r *SQLiteSubtaskRepo) ListByTask(ctx context.Context, taskID int64) ([]domain.Subtask, error) {
	byTask, err := r.ListByTasks(ctx, []int64{taskID})
	if err != nil {
		return nil, err
	}
	return byTask[taskID], nil
}

// ListByTasks loads the subtasks of several tasks at once, each list in
// sort order.
func (r *SQLiteSubtaskRepo) ListByTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.Subtask, error) {
	out := make(map[int64][]domain.Subtask, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	placeholders, args := inClause(taskIDs)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+subtaskColumns+` FROM subtasks WHERE task_id IN (`+placeholders+`) ORDER BY task_id, sort_order, id`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		out[s.TaskID] = append(out[s.TaskID], *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtasks: %w", err)
	}
	return out, nil
}

func (r *SQLiteSubtaskRepo) Update(ctx context.Context, s *domain.Subtask) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subtasks SET title = ?, status = ? WHERE id = ?`,
		s.Title, string(s.Status), s.ID)
	if err != nil {
		return fmt.Errorf("updating subtask: %w", err)
	}
	return expectRow(res, "subtask", s.ID)
}

func (r *SQLiteSubtaskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subtasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting subtask: %w", err)
	}
	return expectRow(res, "subtask", id)
}

// NextSortOrder is the sort order that places a new subtask after the
// task's last one. Sort orders start at 0.
func (r *SQLiteSubtaskRepo) NextSortOrder(ctx context.Context, taskID int64) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM subtasks WHERE task_id = ?`, taskID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("reading max sort order: %w", err)
	}
	return next, nil
}

// SetSortOrder moves one subtask of taskID. Subtasks of other tasks are
// never touched.
func (r *SQLiteSubtaskRepo) SetSortOrder(ctx context.Context, taskID, id int64, order int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subtasks SET sort_order = ? WHERE id = ? AND task_id = ?`, order, id, taskID)
	if err != nil {
		return fmt.Errorf("reordering subtask: %w", err)
	}
	return expectRow(res, "subtask", id)
}

func scanSubtask(row rowScanner) (*domain.Subtask, error) {
	var s domain.Subtask
	var status, createdAt string
	err := row.Scan(&s.ID, &s.TaskID, &s.Title, &status, &s.SortOrder, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning subtask: %w", err)
	}
	s.Status = domain.SubtaskStatus(status)
	s.CreatedAt = parseTimestamp(createdAt)
	return &s, nil
}
