package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// SQLiteTemplateRepo implements TemplateRepo. Steps are stored as a JSON
// array of titles.
type SQLiteTemplateRepo struct {
	db db.DBTX
}

func NewSQLiteTemplateRepo(conn db.DBTX) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: conn}
}

const templateColumns = `id, name, steps, is_default, created_at`

func (r *SQLiteTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	steps, err := json.Marshal(t.Steps)
	if err != nil {
		return fmt.Errorf("encoding template steps: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO subtask_templates (name, steps, is_default, created_at) VALUES (?, ?, ?, ?)`,
		t.Name, string(steps), boolToInt(t.IsDefault), formatTimestamp(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading template id: %w", err)
	}
	t.ID = id
	return nil
}

func (r *SQLiteTemplateRepo) GetByID(ctx context.Context, id int64) (*domain.Template, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM subtask_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %d: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTemplateRepo) GetDefault(ctx context.Context) (*domain.Template, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM subtask_templates WHERE is_default = 1 ORDER BY id LIMIT 1`)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("default template: %w", ErrNotFound)
	}
	return t, err
}

// List returns the default template first, then the rest by name.
func (r *SQLiteTemplateRepo) List(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM subtask_templates ORDER BY is_default DESC, name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var out []domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}
	return out, nil
}

func (r *SQLiteTemplateRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subtask_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return expectRow(res, "template", id)
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var t domain.Template
	var steps, createdAt string
	var isDefault int
	err := row.Scan(&t.ID, &t.Name, &steps, &isDefault, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning template: %w", err)
	}
	if err := json.Unmarshal([]byte(steps), &t.Steps); err != nil {
		return nil, fmt.Errorf("decoding steps of template %d: %w", t.ID, err)
	}
	t.IsDefault = isDefault != 0
	t.CreatedAt = parseTimestamp(createdAt)
	return &t, nil
}
