package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultTemplateName names the step template applied when a task asks for
// the default one.
const DefaultTemplateName = "Standard Manufacturing Project"

// DefaultTemplateSteps is the seeded default workflow, in order.
var DefaultTemplateSteps = []string{
	"Respond with clarifying questions",
	"Start design phase",
	"Contact suppliers for pricing",
	"Send CAD files and BOM",
	"Finalize revisions with customer",
	"Create pricing in MAP BOM Calculator",
	"Send QuickBooks quote",
	"Receive PO (update SO# and PO#)",
	"Create QuickBooks Sales Order",
	"Input into MAP MRP",
	"Order materials / Contact vendors",
	"Print BOM & create job traveller",
	"Manufacturing (tracked in MAP MRP)",
	"Ship and send tracking number",
}

// Migrate creates or upgrades the schema and seeds the default template.
// It is safe to run on every start.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Column additions are replayed on databases that already have them.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := seedDefaultTemplate(db); err != nil {
		return fmt.Errorf("seeding default template: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		title          TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'scheduled'
		               CHECK(status IN ('scheduled','in_progress','completed')),
		priority       TEXT NOT NULL DEFAULT 'medium'
		               CHECK(priority IN ('high','medium','low')),
		due_date       TEXT,
		due_time       TEXT NOT NULL DEFAULT '',
		customer_name  TEXT NOT NULL DEFAULT '',
		customer_email TEXT NOT NULL DEFAULT '',
		company        TEXT NOT NULL DEFAULT '',
		po_number      TEXT NOT NULL DEFAULT '',
		so_number      TEXT NOT NULL DEFAULT '',
		quote_number   TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,

	`CREATE TABLE IF NOT EXISTS subtasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id     INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK(status IN ('pending','completed')),
		sort_order  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_subtasks_task ON subtasks(task_id, sort_order)`,

	`CREATE TABLE IF NOT EXISTS subtask_templates (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		steps       TEXT NOT NULL DEFAULT '[]',
		is_default  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS processed_emails (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		message_id    TEXT NOT NULL UNIQUE,
		processed_at  TEXT NOT NULL,
		task_id       INTEGER
	)`,

	`CREATE TABLE IF NOT EXISTS email_scan_logs (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_time     TEXT NOT NULL,
		message_id    TEXT NOT NULL DEFAULT '',
		subject       TEXT NOT NULL DEFAULT '',
		from_address  TEXT NOT NULL DEFAULT '',
		result        TEXT NOT NULL DEFAULT '',
		reason        TEXT NOT NULL DEFAULT '',
		task_id       INTEGER
	)`,

	`CREATE INDEX IF NOT EXISTS idx_scan_logs_time ON email_scan_logs(scan_time)`,

	// Tasks created from scanned mail remember the message they came from.
	`ALTER TABLE tasks ADD COLUMN source_email_id TEXT NOT NULL DEFAULT ''`,
}

func seedDefaultTemplate(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subtask_templates WHERE is_default = 1`).Scan(&count); err != nil {
		return fmt.Errorf("checking default template: %w", err)
	}
	if count > 0 {
		return nil
	}

	steps, err := json.Marshal(DefaultTemplateSteps)
	if err != nil {
		return fmt.Errorf("encoding steps: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO subtask_templates (name, steps, is_default, created_at) VALUES (?, ?, 1, ?)`,
		DefaultTemplateName, string(steps), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting default template: %w", err)
	}
	return nil
}
