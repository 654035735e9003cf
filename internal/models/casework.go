package models

import "time"

type NoteType string

const (
	NoteTypeComment      NoteType = "COMMENT"
	NoteTypeStatusUpdate NoteType = "STATUS_UPDATE"
	NoteTypeEscalation   NoteType = "ESCALATION"
)

// Note is an admin comment attached to a report.
type Note struct {
	ID        int64     `db:"id"         json:"id"`
	ReportID  int64     `db:"report_id"  json:"report_id"`
	AdminID   int64     `db:"admin_id"   json:"admin_id"`
	AdminName string    `db:"admin_name" json:"admin_name"`
	Note      string    `db:"note"       json:"note"`
	Type      NoteType  `db:"note_type"  json:"note_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	AuditActionReportCreated = "REPORT_CREATED"
	AuditActionStatusUpdated = "STATUS_UPDATED"
	AuditActionNoteAdded     = "NOTE_ADDED"
	AuditActionReportsExport = "REPORTS_EXPORTED"
	AuditActionAdminLogin    = "ADMIN_LOGIN"
)

// AuditEntry is an append-only record of an action on personal data.
type AuditEntry struct {
	Action    string
	TableName string
	RecordID  *int64
	UserID    *int64
	UserPhone string
	IPAddress string
	Details   string
	Timestamp time.Time
}

type ConsentType string

const (
	ConsentTypeDataCollection ConsentType = "DATA_COLLECTION"
	ConsentTypeDataSharing    ConsentType = "DATA_SHARING"
	ConsentTypeCommunication  ConsentType = "COMMUNICATION"
)
