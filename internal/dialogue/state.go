// Package dialogue implements the intake conversation: a per-sender state machine that walks a reporter through a
// fixed sequence of questions and hands the completed draft over for persistence.
package dialogue

import (
	"time"

	"github.com/myrjola/fraudintake/internal/catalog"
	"github.com/shopspring/decimal"
)

// Step is a state of the intake conversation.
type Step string

const (
	StepWelcome        Step = "welcome"
	StepLanguage       Step = "language"
	StepConsent        Step = "consent"
	StepFraudMedium    Step = "fraud_medium"
	StepIncidentType   Step = "incident_type"
	StepLocationState  Step = "location_state"
	StepLocationCity   Step = "location_city"
	StepDescription    Step = "description"
	StepSuspectDetails Step = "suspect_details"
	StepAmount         Step = "amount"
	StepEvidence       Step = "evidence"
	StepAnonymous      Step = "anonymous"
)

// Draft accumulates a report while the conversation is in progress.
type Draft struct {
	Phone        string
	Anonymous    bool
	Language     catalog.Language
	ConsentGiven bool

	FraudMedium  string
	IncidentType string

	LocationState string
	LocationCity  string

	Description  string
	EvidenceHash string

	SuspectOtherDetails  string
	SuspectPhone         string
	SuspectEmail         string
	SuspectPaymentHandle string

	Amount decimal.Decimal

	EvidenceText string
	MediaFiles   []string
}

// State is everything remembered about one conversation between messages.
type State struct {
	ConversationID string
	Language       catalog.Language
	Step           Step
	// StatePage is the page of the state menu last shown.
	StatePage int
	Draft     Draft
	UpdatedAt time.Time
}

// NewState returns the state of a conversation that has not started yet.
func NewState(conversationID string) State {
	return State{
		ConversationID: conversationID,
		Language:       catalog.DefaultLanguage,
		Step:           StepWelcome,
		StatePage:      0,
		Draft:          Draft{Language: catalog.DefaultLanguage, Amount: decimal.Zero}, //nolint:exhaustruct // filled in by steps
		UpdatedAt:      time.Time{},
	}
}

func (s State) clone() State {
	c := s
	if s.Draft.MediaFiles != nil {
		c.Draft.MediaFiles = append([]string(nil), s.Draft.MediaFiles...)
	}
	return c
}
