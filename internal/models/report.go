package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportStatus tracks a case through triage. NEW moves to IN_PROGRESS or ESCALATED and ends in RESOLVED or CLOSED.
type ReportStatus string

const (
	ReportStatusNew        ReportStatus = "NEW"
	ReportStatusInProgress ReportStatus = "IN_PROGRESS"
	ReportStatusEscalated  ReportStatus = "ESCALATED"
	ReportStatusResolved   ReportStatus = "RESOLVED"
	ReportStatusClosed     ReportStatus = "CLOSED"
)

// ReportStatuses lists every status in lifecycle order.
var ReportStatuses = []ReportStatus{ //nolint:gochecknoglobals // read-only enumeration
	ReportStatusNew,
	ReportStatusInProgress,
	ReportStatusEscalated,
	ReportStatusResolved,
	ReportStatusClosed,
}

type ReportPriority string

const (
	ReportPriorityLow      ReportPriority = "LOW"
	ReportPriorityMedium   ReportPriority = "MEDIUM"
	ReportPriorityHigh     ReportPriority = "HIGH"
	ReportPriorityCritical ReportPriority = "CRITICAL"
)

// AnonymousPhone replaces the reporter's phone number when they choose to stay anonymous.
const AnonymousPhone = "ANONYMOUS"

// Report is a submitted cyber-fraud case.
type Report struct {
	ID                  int64           `db:"id"                    json:"id"`
	ReferenceID         string          `db:"reference_id"          json:"reference_id"`
	Phone               string          `db:"phone"                 json:"phone"`
	Language            string          `db:"language_preference"   json:"language_preference"`
	LocationState       string          `db:"location_state"        json:"location_state"`
	LocationCity        string          `db:"location_city"         json:"location_city"`
	FraudMedium         string          `db:"fraud_medium"          json:"fraud_medium"`
	IncidentType        string          `db:"incident_type"         json:"incident_type"`
	Description         string          `db:"incident_description"  json:"incident_description"`
	SuspectPhone        string          `db:"suspect_phone"         json:"suspect_phone"`
	SuspectEmail        string          `db:"suspect_email"         json:"suspect_email"`
	SuspectPaymentID    string          `db:"suspect_upi_id"        json:"suspect_upi_id"`
	SuspectOtherDetails string          `db:"suspect_other_details" json:"suspect_other_details"`
	Amount              decimal.Decimal `db:"amount_involved"       json:"amount_involved"`
	EvidenceText        string          `db:"evidence_text"         json:"evidence_text"`
	EvidenceHash        string          `db:"evidence_hash"         json:"evidence_hash"`
	MediaFiles          []string        `db:"-"                     json:"media_files"`
	Anonymous           bool            `db:"anonymous"             json:"anonymous"`
	Status              ReportStatus    `db:"status"                json:"status"`
	Priority            ReportPriority  `db:"priority"              json:"priority"`
	AssignedTo          string          `db:"assigned_to"           json:"assigned_to"`
	Synced              bool            `db:"i4c_synced"            json:"i4c_synced"`
	ConsentGiven        bool            `db:"consent_given"         json:"consent_given"`
	RetentionDate       time.Time       `db:"data_retention_date"   json:"data_retention_date"`
	CreatedAt           time.Time       `db:"created_at"            json:"created_at"`
	UpdatedAt           *time.Time      `db:"updated_at"            json:"updated_at,omitempty"`
	ResolvedAt          *time.Time      `db:"resolved_at"           json:"resolved_at,omitempty"`
}

// ReportFilter narrows down report listings. Zero values mean no filtering.
type ReportFilter struct {
	Status      ReportStatus
	Priority    ReportPriority
	FraudMedium string
	State       string
	// Query matches reference id, city or description.
	Query       string
	Page        int
	PerPage     int
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination returns the 1-based page and the page size with defaults and limits applied.
func (f ReportFilter) Pagination() (int, int) {
	page := max(f.Page, 1)
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return page, min(perPage, MaxPerPage)
}

// Count is a labelled aggregate.
type Count struct {
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

// Analytics summarises all reports.
type Analytics struct {
	TotalReports       int             `json:"total_reports"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	StatusBreakdown    []Count         `json:"status_breakdown"`
	FraudTypeBreakdown []Count         `json:"fraud_type_breakdown"`
	StateBreakdown     []Count         `json:"state_breakdown"`
	// DailyTrend counts reports per day over the last 30 days, oldest first. Label is YYYY-MM-DD.
	DailyTrend         []Count         `json:"daily_trend"`
}
