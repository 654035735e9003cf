package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/myrjola/fraudintake/internal/contexthelpers"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/repositories"
)

var reportPriorities = []models.ReportPriority{ //nolint:gochecknoglobals // read-only enumeration
	models.ReportPriorityLow,
	models.ReportPriorityMedium,
	models.ReportPriorityHigh,
	models.ReportPriorityCritical,
}

// parseReportFilter reads the filter from the query string.
func parseReportFilter(r *http.Request) (models.ReportFilter, error) {
	q := r.URL.Query()
	filter := models.ReportFilter{
		Status:      models.ReportStatus(q.Get("status")),
		Priority:    models.ReportPriority(q.Get("priority")),
		FraudMedium: q.Get("fraud_medium"),
		State:       q.Get("state"),
		Query:       q.Get("q"),
		Page:        0,
		PerPage:     0,
	}
	if filter.Status != "" && !slices.Contains(models.ReportStatuses, filter.Status) {
		return filter, errors.New("invalid status", slog.String("status", string(filter.Status)))
	}
	if filter.Priority != "" && !slices.Contains(reportPriorities, filter.Priority) {
		return filter, errors.New("invalid priority", slog.String("priority", string(filter.Priority)))
	}
	var err error
	if v := q.Get("page"); v != "" {
		if filter.Page, err = strconv.Atoi(v); err != nil {
			return filter, errors.Wrap(err, "parse page")
		}
	}
	if v := q.Get("per_page"); v != "" {
		if filter.PerPage, err = strconv.Atoi(v); err != nil {
			return filter, errors.Wrap(err, "parse per_page")
		}
	}
	return filter, nil
}

func (app *application) listReports(w http.ResponseWriter, r *http.Request) {
	filter, err := parseReportFilter(r)
	if err != nil {
		app.errorJSON(w, r, http.StatusBadRequest, err.Error())
		return
	}
	reports, total, err := app.reports.List(r.Context(), filter)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	page, perPage := filter.Pagination()
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"reports":     reports,
		"total":       total,
		"page":        page,
		"per_page":    perPage,
		"total_pages": (total + perPage - 1) / perPage,
	})
}

func (app *application) getReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		app.notFound(w, r)
		return
	}
	report, err := app.reports.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	notes, err := app.notes.List(r.Context(), id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"report": report, "notes": notes})
}

type statusRequest struct {
	Status   models.ReportStatus   `json:"status"   validate:"required,oneof=NEW IN_PROGRESS ESCALATED RESOLVED CLOSED"`
	Priority models.ReportPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Note     string                `json:"note"     validate:"max=5000"`
}

func (app *application) updateReportStatus(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		req    statusRequest
		report models.Report
		ctx    = r.Context()
		now    = time.Now().UTC()
	)
	id, ok := pathID(r)
	if !ok {
		app.notFound(w, r)
		return
	}
	if err = app.readJSON(w, r, &req); err != nil {
		app.errorJSON(w, r, http.StatusBadRequest, "status required")
		return
	}
	if report, err = app.reports.Get(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	if req.Priority == "" {
		req.Priority = report.Priority
	}
	if err = app.reports.UpdateStatus(ctx, id, req.Status, req.Priority, now); err != nil {
		app.serverError(w, r, err)
		return
	}

	note := fmt.Sprintf("Status changed from %s to %s", report.Status, req.Status)
	if req.Note != "" {
		note += ": " + req.Note
	}
	noteType := models.NoteTypeStatusUpdate
	if req.Status == models.ReportStatusEscalated {
		noteType = models.NoteTypeEscalation
	}
	if _, err = app.notes.Add(ctx, models.Note{ //nolint:exhaustruct // id and admin name are set by the database
		ReportID:  id,
		AdminID:   contexthelpers.AuthenticatedAdminID(ctx),
		Note:      note,
		Type:      noteType,
		CreatedAt: now,
	}); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.recordAudit(r, models.AuditEntry{ //nolint:exhaustruct // filled in by recordAudit
		Action:    models.AuditActionStatusUpdated,
		TableName: "cyber_reports",
		RecordID:  &id,
		Details:   fmt.Sprintf("status=%s priority=%s", req.Status, req.Priority),
	})

	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"success":  true,
		"status":   req.Status,
		"priority": req.Priority,
	})
}

type noteRequest struct {
	Note string          `json:"note"      validate:"required,max=5000"`
	Type models.NoteType `json:"note_type" validate:"omitempty,oneof=COMMENT STATUS_UPDATE ESCALATION"`
}

func (app *application) addNote(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		req    noteRequest
		noteID int64
		ctx    = r.Context()
	)
	id, ok := pathID(r)
	if !ok {
		app.notFound(w, r)
		return
	}
	if err = app.readJSON(w, r, &req); err != nil {
		app.errorJSON(w, r, http.StatusBadRequest, "note required")
		return
	}
	if noteID, err = app.notes.Add(ctx, models.Note{ //nolint:exhaustruct // id and admin name are set by the database
		ReportID:  id,
		AdminID:   contexthelpers.AuthenticatedAdminID(ctx),
		Note:      req.Note,
		Type:      req.Type,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.recordAudit(r, models.AuditEntry{ //nolint:exhaustruct // filled in by recordAudit
		Action:    models.AuditActionNoteAdded,
		TableName: "case_notes",
		RecordID:  &noteID,
	})
	app.writeJSON(w, r, http.StatusCreated, map[string]any{"success": true, "id": noteID})
}

var exportHeader = []string{ //nolint:gochecknoglobals // read-only column list
	"reference_id", "created_at", "status", "priority", "fraud_medium", "incident_type", "location_state",
	"location_city", "amount_involved", "anonymous", "phone", "suspect_phone", "suspect_email", "suspect_upi_id",
	"incident_description",
}

func exportRecord(report models.Report) []string {
	return []string{
		report.ReferenceID,
		report.CreatedAt.Format(time.RFC3339),
		string(report.Status),
		string(report.Priority),
		report.FraudMedium,
		report.IncidentType,
		report.LocationState,
		report.LocationCity,
		report.Amount.StringFixed(2), //nolint:mnd // paise
		strconv.FormatBool(report.Anonymous),
		report.Phone,
		report.SuspectPhone,
		report.SuspectEmail,
		report.SuspectPaymentID,
		report.Description,
	}
}

// exportReports streams every report matching the filter as CSV.
func (app *application) exportReports(w http.ResponseWriter, r *http.Request) {
	filter, err := parseReportFilter(r)
	if err != nil {
		app.errorJSON(w, r, http.StatusBadRequest, err.Error())
		return
	}
	filename := fmt.Sprintf("cyber_reports_%s.csv", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	count := 0
	if err = cw.Write(exportHeader); err != nil {
		app.serverError(w, r, errors.Wrap(err, "write csv header"))
		return
	}
	if err = app.reports.Export(r.Context(), filter, func(report models.Report) error {
		count++
		return cw.Write(exportRecord(report))
	}); err != nil {
		// The status line is already sent, so only log.
		app.logger.LogAttrs(r.Context(), slog.LevelError, "export interrupted", errors.SlogError(err))
		return
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "flush csv", errors.SlogError(err))
		return
	}
	app.recordAudit(r, models.AuditEntry{ //nolint:exhaustruct // filled in by recordAudit
		Action:    models.AuditActionReportsExport,
		TableName: "cyber_reports",
		Details:   fmt.Sprintf("count=%d", count),
	})
}

func (app *application) analyticsOverview(w http.ResponseWriter, r *http.Request) {
	analytics, err := app.reports.Analytics(r.Context(), time.Now().UTC())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, analytics)
}
