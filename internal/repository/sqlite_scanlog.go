package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// SQLiteScanLogRepo implements ScanLogRepo using a SQLite database.
type SQLiteScanLogRepo struct {
	db db.DBTX
}

func NewSQLiteScanLogRepo(conn db.DBTX) *SQLiteScanLogRepo {
	return &SQLiteScanLogRepo{db: conn}
}

func (r *SQLiteScanLogRepo) Append(ctx context.Context, e *domain.ScanLogEntry) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO email_scan_logs (scan_time, message_id, subject, from_address, result, reason, task_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		formatTimestamp(e.ScanTime), e.MessageID, e.Subject, e.FromAddress, e.Result, e.Reason,
		nullableInt64(e.TaskID))
	if err != nil {
		return fmt.Errorf("inserting scan log entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading scan log id: %w", err)
	}
	e.ID = id
	return nil
}

// List returns up to limit entries, most recent first.
func (r *SQLiteScanLogRepo) List(ctx context.Context, limit int) ([]domain.ScanLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, scan_time, message_id, subject, from_address, result, reason, task_id
		FROM email_scan_logs ORDER BY scan_time DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scan log: %w", err)
	}
	defer rows.Close()

	var out []domain.ScanLogEntry
	for rows.Next() {
		var e domain.ScanLogEntry
		var scanTime string
		var taskID sql.NullInt64
		if err := rows.Scan(&e.ID, &scanTime, &e.MessageID, &e.Subject, &e.FromAddress,
			&e.Result, &e.Reason, &taskID); err != nil {
			return nil, fmt.Errorf("scanning scan log entry: %w", err)
		}
		e.ScanTime = parseTimestamp(scanTime)
		e.TaskID = int64Ptr(taskID)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scan log: %w", err)
	}
	return out, nil
}

func (r *SQLiteScanLogRepo) Clear(ctx context.Context) (int, error) {
	return deleteAllFrom(ctx, r.db, "email_scan_logs")
}

// SQLiteProcessedEmailRepo implements ProcessedEmailRepo.
type SQLiteProcessedEmailRepo struct {
	db db.DBTX
}

func NewSQLiteProcessedEmailRepo(conn db.DBTX) *SQLiteProcessedEmailRepo {
	return &SQLiteProcessedEmailRepo{db: conn}
}

// MarkProcessed records messageID. Marking a message twice keeps the first
// record.
func (r *SQLiteProcessedEmailRepo) MarkProcessed(ctx context.Context, messageID string, taskID *int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_emails (message_id, processed_at, task_id) VALUES (?, datetime('now'), ?)`,
		messageID, nullableInt64(taskID))
	if err != nil {
		return fmt.Errorf("marking message processed: %w", err)
	}
	return nil
}

func (r *SQLiteProcessedEmailRepo) IsProcessed(ctx context.Context, messageID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM processed_emails WHERE message_id = ?`, messageID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking processed message: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteProcessedEmailRepo) Clear(ctx context.Context) (int, error) {
	return deleteAllFrom(ctx, r.db, "processed_emails")
}

func deleteAllFrom(ctx context.Context, conn db.DBTX, table string) (int, error) {
	res, err := conn.ExecContext(ctx, `DELETE FROM `+table)
	if err != nil {
		return 0, fmt.Errorf("clearing %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared %s: %w", table, err)
	}
	return int(n), nil
}
