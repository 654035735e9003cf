package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/mattn/go-sqlite3"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/sqlite"
)

type NoteRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewNoteRepository(dbs *sqlite.Database, logger *slog.Logger) *NoteRepository {
	return &NoteRepository{
		dbs:    dbs,
		logger: logger.With("source", "NoteRepository"),
	}
}

// Add appends a note to a report. ErrNotFound is returned when the report does not exist.
func (r *NoteRepository) Add(ctx context.Context, note models.Note) (int64, error) {
	var (
		err error
		res sql.Result
		id  int64
	)
	if note.Type == "" {
		note.Type = models.NoteTypeComment
	}
	stmt := `INSERT INTO case_notes (report_id, admin_id, note, note_type, created_at) VALUES (?, ?, ?, ?, ?)`
	if res, err = r.dbs.ReadWrite.ExecContext(ctx, stmt,
		note.ReportID, note.AdminID, note.Note, note.Type, formatTime(note.CreatedAt),
	); err != nil {
		if isConstraintError(err, sqlite3.ErrConstraintForeignKey) {
			return 0, errors.Wrap(ErrNotFound, "insert note", slog.Int64("reportID", note.ReportID))
		}
		return 0, errors.Wrap(err, "insert note", slog.Int64("reportID", note.ReportID))
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, errors.Wrap(err, "last insert id")
	}
	return id, nil
}

// List returns the notes of a report, oldest first.
func (r *NoteRepository) List(ctx context.Context, reportID int64) ([]models.Note, error) {
	notes := []models.Note{}
	stmt := `SELECT n.id, n.report_id, n.admin_id, COALESCE(NULLIF(a.full_name, ''), a.username) AS admin_name,
       n.note, n.note_type, n.created_at
FROM case_notes n
JOIN admin_users a ON a.id = n.admin_id
WHERE n.report_id = ?
ORDER BY n.created_at, n.id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &notes, stmt, reportID); err != nil {
		return nil, errors.Wrap(err, "select notes", slog.Int64("reportID", reportID))
	}
	return notes, nil
}
