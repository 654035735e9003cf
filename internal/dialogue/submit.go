package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fraudintake/internal/background"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/metrics"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/refid"
	"github.com/myrjola/fraudintake/internal/repositories"
)

const (
	maxSubmitAttempts = 3
	retentionDays     = 365
)

type ReportInserter interface {
	Insert(ctx context.Context, report *models.Report) (int64, error)
}

type AuditAppender interface {
	Append(ctx context.Context, entry models.AuditEntry) error
}

type SyncNotifier interface {
	Notify(ctx context.Context, report models.Report) error
}

type Enqueuer interface {
	Enqueue(job background.Job) bool
}

// Submitter turns a completed Draft into a persisted report.
type Submitter struct {
	reports ReportInserter
	audit   AuditAppender
	sync    SyncNotifier
	jobs    Enqueuer
	logger  *slog.Logger
}

func NewSubmitter(
	reports ReportInserter,
	audit AuditAppender,
	sync SyncNotifier,
	jobs Enqueuer,
	logger *slog.Logger,
) *Submitter {
	return &Submitter{
		reports: reports,
		audit:   audit,
		sync:    sync,
		jobs:    jobs,
		logger:  logger.With("source", "Submitter"),
	}
}

// Submit inserts the report and returns its reference id.
//
// The insert is a single transaction, so a returned error means nothing was stored. The audit entry and the case sync
// notification are queued afterwards and never fail the submission.
func (s *Submitter) Submit(ctx context.Context, draft Draft) (string, error) {
	var (
		now    = time.Now().UTC().Truncate(time.Second)
		report = newReport(draft, now)
		err    error
	)
	for attempt := 1; ; attempt++ {
		report.ReferenceID = refid.New(now)
		if _, err = s.reports.Insert(ctx, &report); err == nil {
			break
		}
		if !errors.Is(err, repositories.ErrDuplicateReference) || attempt == maxSubmitAttempts {
			metrics.SubmissionFailures.Inc()
			return "", errors.Wrap(err, "insert report", slog.Int("attempt", attempt))
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "reference id collision, retrying",
			slog.String("reference_id", report.ReferenceID))
	}
	metrics.ReportsSubmitted.WithLabelValues(report.FraudMedium).Inc()
	s.logger.LogAttrs(ctx, slog.LevelInfo, "report submitted",
		slog.String("reference_id", report.ReferenceID), slog.Int64("report_id", report.ID))

	recordID := report.ID
	s.jobs.Enqueue(background.Job{
		Name: "audit",
		Run: func(ctx context.Context) error {
			return s.audit.Append(ctx, models.AuditEntry{
				Action:    models.AuditActionReportCreated,
				TableName: "cyber_reports",
				RecordID:  &recordID,
				UserID:    nil,
				UserPhone: report.Phone,
				IPAddress: "",
				Details:   fmt.Sprintf("reference_id=%s", report.ReferenceID),
				Timestamp: now,
			})
		},
	})
	s.jobs.Enqueue(background.Job{
		Name: "case_sync",
		Run: func(ctx context.Context) error {
			return s.sync.Notify(ctx, report)
		},
	})
	return report.ReferenceID, nil
}

func newReport(draft Draft, now time.Time) models.Report {
	return models.Report{
		ID:                  0,
		ReferenceID:         "",
		Phone:               draft.Phone,
		Language:            string(draft.Language),
		LocationState:       draft.LocationState,
		LocationCity:        draft.LocationCity,
		FraudMedium:         draft.FraudMedium,
		IncidentType:        draft.IncidentType,
		Description:         draft.Description,
		SuspectPhone:        draft.SuspectPhone,
		SuspectEmail:        draft.SuspectEmail,
		SuspectPaymentID:    draft.SuspectPaymentHandle,
		SuspectOtherDetails: draft.SuspectOtherDetails,
		Amount:              draft.Amount,
		EvidenceText:        draft.EvidenceText,
		EvidenceHash:        draft.EvidenceHash,
		MediaFiles:          draft.MediaFiles,
		Anonymous:           draft.Anonymous,
		Status:              models.ReportStatusNew,
		Priority:            models.ReportPriorityMedium,
		AssignedTo:          "",
		Synced:              false,
		ConsentGiven:        draft.ConsentGiven,
		RetentionDate:       now.AddDate(0, 0, retentionDays),
		CreatedAt:           now,
		UpdatedAt:           nil,
		ResolvedAt:          nil,
	}
}
