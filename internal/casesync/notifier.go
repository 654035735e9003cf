// Package casesync forwards submitted reports to the external case management system.
package casesync

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/shopspring/decimal"
)

// SyncMarker records a successful sync.
type SyncMarker interface {
	MarkSynced(ctx context.Context, id int64) error
}

// Notifier posts a case summary to the sync endpoint. Without an endpoint it only logs a placeholder attempt.
type Notifier struct {
	url     string
	client  *resty.Client
	reports SyncMarker
	logger  *slog.Logger
}

func NewNotifier(url string, reports SyncMarker, logger *slog.Logger) *Notifier {
	return &Notifier{
		url: url,
		client: resty.New().
			SetTimeout(10 * time.Second). //nolint:mnd // external call budget
			SetHeader("Content-Type", "application/json"),
		reports: reports,
		logger:  logger.With("source", "Notifier"),
	}
}

type caseSummary struct {
	ReferenceID  string          `json:"reference_id"`
	FraudMedium  string          `json:"fraud_medium"`
	IncidentType string          `json:"incident_type"`
	State        string          `json:"location_state"`
	City         string          `json:"location_city"`
	Amount       decimal.Decimal `json:"amount_involved"`
	EvidenceHash string          `json:"evidence_hash"`
	Anonymous    bool            `json:"anonymous"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Notify sends the report summary and marks the report synced on success.
func (n *Notifier) Notify(ctx context.Context, report models.Report) error {
	if n.url == "" {
		n.logger.LogAttrs(ctx, slog.LevelInfo, "case sync placeholder",
			slog.String("reference", report.ReferenceID))
		return nil
	}
	var (
		err  error
		resp *resty.Response
	)
	summary := caseSummary{
		ReferenceID:  report.ReferenceID,
		FraudMedium:  report.FraudMedium,
		IncidentType: report.IncidentType,
		State:        report.LocationState,
		City:         report.LocationCity,
		Amount:       report.Amount,
		EvidenceHash: report.EvidenceHash,
		Anonymous:    report.Anonymous,
		CreatedAt:    report.CreatedAt,
	}
	if resp, err = n.client.R().SetContext(ctx).SetBody(summary).Post(n.url); err != nil {
		return errors.Wrap(err, "post case summary", slog.String("reference", report.ReferenceID))
	}
	if resp.IsError() {
		return errors.New("case sync rejected",
			slog.String("reference", report.ReferenceID), slog.Int("status", resp.StatusCode()))
	}
	if err = n.reports.MarkSynced(ctx, report.ID); err != nil {
		return errors.Wrap(err, "mark synced", slog.String("reference", report.ReferenceID))
	}
	n.logger.LogAttrs(ctx, slog.LevelInfo, "case synced", slog.String("reference", report.ReferenceID))
	return nil
}
