package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/sqlite"
	"github.com/shopspring/decimal"
)

const trendDays = 30

const reportColumns = `id, reference_id, phone, language_preference, location_state, location_city, fraud_medium,
       incident_type, incident_description, suspect_phone, suspect_email, suspect_upi_id, suspect_other_details,
       amount_involved, evidence_text, evidence_hash, media_files, anonymous, status, priority, assigned_to,
       i4c_synced, consent_given, data_retention_date, created_at, updated_at, resolved_at`

type reportRow struct {
	models.Report
	MediaFilesJSON string `db:"media_files"`
}

func (row reportRow) toModel() (models.Report, error) {
	report := row.Report
	if err := json.Unmarshal([]byte(row.MediaFilesJSON), &report.MediaFiles); err != nil {
		return models.Report{}, errors.Wrap(err, "unmarshal media files", slog.Int64("id", report.ID))
	}
	return report, nil
}

type ReportRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewReportRepository(dbs *sqlite.Database, logger *slog.Logger) *ReportRepository {
	return &ReportRepository{
		dbs:    dbs,
		logger: logger.With("source", "ReportRepository"),
	}
}

// Insert persists the report in a single transaction and sets its ID.
//
// ErrDuplicateReference is returned when the reference id is taken. Nothing is written in that case.
func (r *ReportRepository) Insert(ctx context.Context, report *models.Report) (int64, error) {
	var (
		err        error
		tx         *sqlx.Tx
		res        sql.Result
		id         int64
		mediaFiles []byte
	)
	media := report.MediaFiles
	if media == nil {
		media = []string{}
	}
	if mediaFiles, err = json.Marshal(media); err != nil {
		return 0, errors.Wrap(err, "marshal media files")
	}

	if tx, err = r.dbs.ReadWrite.BeginTxx(ctx, nil); err != nil {
		return 0, errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback", errors.SlogError(rollbackErr))
		}
	}()

	stmt := `INSERT INTO cyber_reports (reference_id, phone, language_preference, location_state, location_city,
                           fraud_medium, incident_type, incident_description, suspect_phone, suspect_email,
                           suspect_upi_id, suspect_other_details, amount_involved, evidence_text, evidence_hash,
                           media_files, anonymous, status, priority, consent_given, data_retention_date, created_at)
VALUES (:reference_id, :phone, :language, :state, :city, :fraud_medium, :incident_type, :description, :suspect_phone,
        :suspect_email, :suspect_upi_id, :suspect_other, :amount, :evidence_text, :evidence_hash, :media_files,
        :anonymous, :status, :priority, :consent_given, :retention_date, :created_at)`
	params := []any{
		sql.Named("reference_id", report.ReferenceID),
		sql.Named("phone", report.Phone),
		sql.Named("language", report.Language),
		sql.Named("state", report.LocationState),
		sql.Named("city", report.LocationCity),
		sql.Named("fraud_medium", report.FraudMedium),
		sql.Named("incident_type", report.IncidentType),
		sql.Named("description", report.Description),
		sql.Named("suspect_phone", report.SuspectPhone),
		sql.Named("suspect_email", report.SuspectEmail),
		sql.Named("suspect_upi_id", report.SuspectPaymentID),
		sql.Named("suspect_other", report.SuspectOtherDetails),
		sql.Named("amount", report.Amount.String()),
		sql.Named("evidence_text", report.EvidenceText),
		sql.Named("evidence_hash", report.EvidenceHash),
		sql.Named("media_files", string(mediaFiles)),
		sql.Named("anonymous", report.Anonymous),
		sql.Named("status", report.Status),
		sql.Named("priority", report.Priority),
		sql.Named("consent_given", report.ConsentGiven),
		sql.Named("retention_date", formatTime(report.RetentionDate)),
		sql.Named("created_at", formatTime(report.CreatedAt)),
	}
	if res, err = tx.ExecContext(ctx, stmt, params...); err != nil {
		if isConstraintError(err, sqlite3.ErrConstraintUnique) {
			return 0, errors.Wrap(ErrDuplicateReference, "insert report", slog.String("reference", report.ReferenceID))
		}
		return 0, errors.Wrap(err, "insert report")
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, errors.Wrap(err, "last insert id")
	}
	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit report")
	}
	report.ID = id
	return id, nil
}

// Get returns the report with given id or ErrNotFound.
func (r *ReportRepository) Get(ctx context.Context, id int64) (models.Report, error) {
	return r.getBy(ctx, "id", id)
}

// GetByReference returns the report with given reference id or ErrNotFound.
func (r *ReportRepository) GetByReference(ctx context.Context, referenceID string) (models.Report, error) {
	return r.getBy(ctx, "reference_id", referenceID)
}

func (r *ReportRepository) getBy(ctx context.Context, column string, value any) (models.Report, error) {
	var row reportRow
	stmt := `SELECT ` + reportColumns + ` FROM cyber_reports WHERE ` + column + ` = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &row, stmt, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Report{}, errors.Wrap(ErrNotFound, "get report", slog.Any(column, value))
		}
		return models.Report{}, errors.Wrap(err, "get report", slog.Any(column, value))
	}
	return row.toModel()
}

func filterClause(filter models.ReportFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.FraudMedium != "" {
		conditions = append(conditions, "fraud_medium = ?")
		args = append(args, filter.FraudMedium)
	}
	if filter.State != "" {
		conditions = append(conditions, "location_state = ?")
		args = append(args, filter.State)
	}
	if filter.Query != "" {
		conditions = append(conditions,
			"(reference_id LIKE ? OR location_city LIKE ? OR incident_description LIKE ?)")
		like := "%" + filter.Query + "%"
		args = append(args, like, like, like)
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List returns one page of reports matching filter, newest first, and the total number of matches.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error) {
	var (
		err   error
		total int
		rows  []reportRow
	)
	page, perPage := filter.Pagination()

	where, args := filterClause(filter)
	if err = r.dbs.ReadOnly.GetContext(ctx, &total, `SELECT COUNT(*) FROM cyber_reports`+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "count reports")
	}

	stmt := `SELECT ` + reportColumns + ` FROM cyber_reports` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, perPage, (page-1)*perPage)
	if err = r.dbs.ReadOnly.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, 0, errors.Wrap(err, "select reports")
	}
	reports := make([]models.Report, 0, len(rows))
	for _, row := range rows {
		var report models.Report
		if report, err = row.toModel(); err != nil {
			return nil, 0, err
		}
		reports = append(reports, report)
	}
	return reports, total, nil
}

// Export streams every report matching filter to fn, newest first. Pagination in filter is ignored.
func (r *ReportRepository) Export(
	ctx context.Context,
	filter models.ReportFilter,
	fn func(models.Report) error,
) error {
	var (
		err  error
		rows *sqlx.Rows
	)
	where, args := filterClause(filter)
	stmt := `SELECT ` + reportColumns + ` FROM cyber_reports` + where + ` ORDER BY created_at DESC, id DESC`
	if rows, err = r.dbs.ReadOnly.QueryxContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "query reports")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			r.logger.LogAttrs(ctx, slog.LevelError, "could not close rows",
				errors.SlogError(errors.Wrap(closeErr, "close rows")))
		}
	}()
	for rows.Next() {
		var (
			row    reportRow
			report models.Report
		)
		if err = rows.StructScan(&row); err != nil {
			return errors.Wrap(err, "scan report")
		}
		if report, err = row.toModel(); err != nil {
			return err
		}
		if err = fn(report); err != nil {
			return errors.Wrap(err, "export report", slog.String("reference", report.ReferenceID))
		}
	}
	if err = rows.Err(); err != nil {
		return errors.Wrap(err, "rows error")
	}
	return nil
}

// UpdateStatus sets status and priority. Moving to RESOLVED also stamps resolved_at.
func (r *ReportRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status models.ReportStatus,
	priority models.ReportPriority,
	at time.Time,
) error {
	var (
		err      error
		res      sql.Result
		affected int64
	)
	stmt := `UPDATE cyber_reports
SET status      = :status,
    priority    = :priority,
    updated_at  = :at,
    resolved_at = CASE WHEN :status = 'RESOLVED' THEN :at ELSE resolved_at END
WHERE id = :id`
	if res, err = r.dbs.ReadWrite.ExecContext(ctx, stmt,
		sql.Named("status", status),
		sql.Named("priority", priority),
		sql.Named("at", formatTime(at)),
		sql.Named("id", id),
	); err != nil {
		return errors.Wrap(err, "update report status", slog.Int64("id", id))
	}
	if affected, err = res.RowsAffected(); err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrap(ErrNotFound, "update report status", slog.Int64("id", id))
	}
	return nil
}

// MarkSynced flags the report as delivered to the external case system.
func (r *ReportRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.dbs.ReadWrite.ExecContext(ctx,
		`UPDATE cyber_reports SET i4c_synced = 1 WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "mark report synced", slog.Int64("id", id))
	}
	return nil
}

// Analytics aggregates all reports. The daily trend covers the 30 days up to and including now.
func (r *ReportRepository) Analytics(ctx context.Context, now time.Time) (models.Analytics, error) {
	var (
		err       error
		analytics models.Analytics
		amounts   []string
		trend     []models.Count
	)
	db := r.dbs.ReadOnly
	if err = db.GetContext(ctx, &analytics.TotalReports, `SELECT COUNT(*) FROM cyber_reports`); err != nil {
		return analytics, errors.Wrap(err, "count reports")
	}

	if err = db.SelectContext(ctx, &amounts, `SELECT amount_involved FROM cyber_reports`); err != nil {
		return analytics, errors.Wrap(err, "select amounts")
	}
	analytics.TotalAmount = decimal.Zero
	for _, amount := range amounts {
		var d decimal.Decimal
		if d, err = decimal.NewFromString(amount); err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "skipping unparsable amount", slog.String("amount", amount))
			continue
		}
		analytics.TotalAmount = analytics.TotalAmount.Add(d)
	}

	breakdowns := []struct {
		column string
		dest   *[]models.Count
	}{
		{column: "status", dest: &analytics.StatusBreakdown},
		{column: "fraud_medium", dest: &analytics.FraudTypeBreakdown},
		{column: "location_state", dest: &analytics.StateBreakdown},
	}
	for _, b := range breakdowns {
		stmt := `SELECT ` + b.column + ` AS label, COUNT(*) AS count FROM cyber_reports
GROUP BY ` + b.column + ` ORDER BY count DESC, label`
		*b.dest = []models.Count{}
		if err = db.SelectContext(ctx, b.dest, stmt); err != nil {
			return analytics, errors.Wrap(err, "breakdown", slog.String("column", b.column))
		}
	}

	today := now.UTC().Truncate(24 * time.Hour) //nolint:mnd // one day
	since := today.AddDate(0, 0, -(trendDays - 1))
	if err = db.SelectContext(ctx, &trend, `SELECT date(created_at) AS label, COUNT(*) AS count
FROM cyber_reports
WHERE created_at >= ?
GROUP BY label
ORDER BY label`, formatTime(since)); err != nil {
		return analytics, errors.Wrap(err, "daily trend")
	}
	perDay := make(map[string]int, len(trend))
	for _, c := range trend {
		perDay[c.Label] = c.Count
	}
	analytics.DailyTrend = make([]models.Count, 0, trendDays)
	for day := since; !day.After(today); day = day.AddDate(0, 0, 1) {
		label := day.Format(time.DateOnly)
		analytics.DailyTrend = append(analytics.DailyTrend, models.Count{Label: label, Count: perDay[label]})
	}
	return analytics, nil
}
