package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, title, description, status, priority, due_date, due_time,
	customer_name, customer_email, company, po_number, so_number, quote_number,
	source_email_id, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (title, description, status, priority, due_date, due_time,
		customer_name, customer_email, company, po_number, so_number, quote_number,
		source_email_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableDate(t.DueDate),
		t.DueTime,
		t.CustomerName,
		t.CustomerEmail,
		t.Company,
		t.PONumber,
		t.SONumber,
		t.QuoteNumber,
		t.SourceEmailID,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}
	t.ID = id
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns tasks due soonest first, undated tasks last, newest first
// within the same date.
func (r *SQLiteTaskRepo) List(ctx context.Context, filter app.ListFilter) ([]domain.Task, error) {
	var where []string
	var args []any
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		where = append(where, `(title LIKE ? OR description LIKE ? OR customer_name LIKE ?
			OR company LIKE ? OR po_number LIKE ? OR so_number LIKE ?)`)
		like := "%" + q + "%"
		args = append(args, like, like, like, like, like, like)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY due_date IS NULL, due_date ASC, created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
		due_date = ?, due_time = ?, customer_name = ?, customer_email = ?, company = ?,
		po_number = ?, so_number = ?, quote_number = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		nullableDate(t.DueDate),
		t.DueTime,
		t.CustomerName,
		t.CustomerEmail,
		t.Company,
		t.PONumber,
		t.SONumber,
		t.QuoteNumber,
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return expectRow(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectRow(res, "task", id)
}

// DeleteMany deletes the listed tasks and reports how many existed.
func (r *SQLiteTaskRepo) DeleteMany(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders, args := inClause(ids)
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted tasks: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteTaskRepo) DeleteAll(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks`)
	if err != nil {
		return 0, fmt.Errorf("deleting all tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted tasks: %w", err)
	}
	return int(n), nil
}

// Stats aggregates the board counters. Overdue, due today and high priority
// count open tasks only; today is a calendar date.
func (r *SQLiteTaskRepo) Stats(ctx context.Context, today time.Time) (app.Stats, error) {
	query := `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status != 'completed' AND due_date < ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status != 'completed' AND due_date = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status != 'completed' AND priority = 'high' THEN 1 ELSE 0 END), 0)
		FROM tasks`
	day := today.Format(dateLayout)

	var s app.Stats
	err := r.db.QueryRowContext(ctx, query, day, day).Scan(
		&s.Total, &s.Completed, &s.InProgress, &s.Overdue, &s.DueToday, &s.HighPriority,
	)
	if err != nil {
		return app.Stats{}, fmt.Errorf("computing stats: %w", err)
	}
	s.Pending = s.Total - s.Completed
	return s, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var status, priority, createdAt, updatedAt string
	var dueDate sql.NullString

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &status, &priority, &dueDate, &t.DueTime,
		&t.CustomerName, &t.CustomerEmail, &t.Company, &t.PONumber, &t.SONumber, &t.QuoteNumber,
		&t.SourceEmailID, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.StoredStatus(status)
	t.Priority = domain.Priority(priority)
	t.DueDate = parseNullableDate(dueDate)
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	return &t, nil
}

// expectRow turns an update or delete that touched nothing into ErrNotFound.
func expectRow(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s %d: %w", what, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
