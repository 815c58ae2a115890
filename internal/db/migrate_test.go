package db

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM subtask_templates`).Scan(&n))
	assert.Equal(t, 1, n, "default template seeded once")
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"tasks", "subtasks", "subtask_templates", "processed_emails", "email_scan_logs"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_tasks_due_date", "idx_tasks_status", "idx_subtasks_task", "idx_scan_logs_time"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_AddsSourceEmailColumn(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO tasks (title, source_email_id, created_at, updated_at) VALUES ('x', 'msg-1', '', '')`)
	require.NoError(t, err)
}

func TestMigrate_SeedsDefaultTemplate(t *testing.T) {
	db := openTestDB(t)

	var name, raw string
	err := db.QueryRow(`SELECT name, steps FROM subtask_templates WHERE is_default = 1`).Scan(&name, &raw)
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplateName, name)

	var steps []string
	require.NoError(t, json.Unmarshal([]byte(raw), &steps))
	require.Len(t, steps, 14)
	assert.Equal(t, "Respond with clarifying questions", steps[0])
	assert.Equal(t, "Ship and send tracking number", steps[13])
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_SubtasksCascadeWithTask(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := db.Exec(`INSERT INTO tasks (title, created_at, updated_at) VALUES ('Bracket', ?, ?)`, now, now)
	require.NoError(t, err)
	taskID, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO subtasks (task_id, title, created_at) VALUES (?, 'cut', ?)`, taskID, now)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM tasks WHERE id = ?`, taskID)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM subtasks`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_RejectsUnknownStatus(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO tasks (title, status, created_at, updated_at) VALUES ('x', 'overdue', '', '')`)
	assert.Error(t, err, "resolved statuses are never stored")
}

func TestOpenDB_InMemoryJournalMode(t *testing.T) {
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}

func TestOpenDB_FileUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taskflow.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
