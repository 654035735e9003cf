package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/sqlite"
)

type AuditRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewAuditRepository(dbs *sqlite.Database, logger *slog.Logger) *AuditRepository {
	return &AuditRepository{
		dbs:    dbs,
		logger: logger.With("source", "AuditRepository"),
	}
}

// Append writes an audit log entry. A zero Timestamp is replaced with the current time.
func (r *AuditRepository) Append(ctx context.Context, entry models.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	stmt := `INSERT INTO audit_log (action, table_name, record_id, user_id, user_phone, ip_address, details, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt,
		entry.Action, entry.TableName, entry.RecordID, entry.UserID, entry.UserPhone, entry.IPAddress, entry.Details,
		formatTime(entry.Timestamp),
	); err != nil {
		return errors.Wrap(err, "insert audit entry", slog.String("action", entry.Action))
	}
	return nil
}

// Recent returns the latest audit entries, newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	var rows []struct {
		Action    string    `db:"action"`
		TableName string    `db:"table_name"`
		RecordID  *int64    `db:"record_id"`
		UserID    *int64    `db:"user_id"`
		UserPhone string    `db:"user_phone"`
		IPAddress string    `db:"ip_address"`
		Details   string    `db:"details"`
		Timestamp time.Time `db:"timestamp"`
	}
	stmt := `SELECT action, table_name, record_id, user_id, user_phone, ip_address, details, timestamp
FROM audit_log
ORDER BY id DESC
LIMIT ?`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &rows, stmt, limit); err != nil {
		return nil, errors.Wrap(err, "select audit entries")
	}
	entries := make([]models.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.AuditEntry(row))
	}
	return entries, nil
}
