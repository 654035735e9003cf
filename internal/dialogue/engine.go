package dialogue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/fraudintake/internal/catalog"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/extract"
	"github.com/myrjola/fraudintake/internal/logging"
	"github.com/myrjola/fraudintake/internal/media"
	"github.com/myrjola/fraudintake/internal/metrics"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConsentRecorder stores the reporter's consent to data collection.
type ConsentRecorder interface {
	Insert(ctx context.Context, phone string, consentType models.ConsentType, at time.Time) error
}

// CaseSubmitter persists a finished draft and returns its reference id.
type CaseSubmitter interface {
	Submit(ctx context.Context, draft Draft) (string, error)
}

// MediaArchiver copies attachments into evidence storage and returns their locations.
type MediaArchiver interface {
	Archive(ctx context.Context, refs []media.Ref) []string
}

// Inbound is one message received from a reporter.
type Inbound struct {
	ConversationID string
	Body           string
	Media          []media.Ref
}

type outcome string

const (
	outcomeAdvanced  outcome = "advanced"
	outcomePaged     outcome = "paged"
	outcomeInvalid   outcome = "invalid"
	outcomeFailed    outcome = "failed"
	outcomeCompleted outcome = "completed"
	outcomeDeclined  outcome = "declined"
)

// stepFunc handles input at one step. It may modify state, which is only stored when the outcome says so.
type stepFunc func(ctx context.Context, state *State, in Inbound) (string, outcome)

// Engine runs the intake conversation.
type Engine struct {
	store     Store
	consents  ConsentRecorder
	submitter CaseSubmitter
	archiver  MediaArchiver
	helpline  string
	steps     map[Step]stepFunc
	logger    *slog.Logger
}

// NewEngine creates an Engine. helpline is substituted into every reply that mentions it.
func NewEngine(
	store Store,
	consents ConsentRecorder,
	submitter CaseSubmitter,
	archiver MediaArchiver,
	helpline string,
	logger *slog.Logger,
) *Engine {
	e := &Engine{
		store:     store,
		consents:  consents,
		submitter: submitter,
		archiver:  archiver,
		helpline:  helpline,
		steps:     nil,
		logger:    logger.With("source", "Engine"),
	}
	e.steps = map[Step]stepFunc{
		StepWelcome:        e.welcome,
		StepLanguage:       e.language,
		StepConsent:        e.consent,
		StepFraudMedium:    e.fraudMedium,
		StepIncidentType:   e.incidentType,
		StepLocationState:  e.locationState,
		StepLocationCity:   e.locationCity,
		StepDescription:    e.description,
		StepSuspectDetails: e.suspectDetails,
		StepAmount:         e.amount,
		StepEvidence:       e.evidence,
		StepAnonymous:      e.anonymous,
	}
	return e
}

func isGreeting(body string) bool {
	switch strings.ToLower(strings.TrimSpace(body)) {
	case "hi", "hello", "start":
		return true
	default:
		return false
	}
}

// Handle processes one inbound message and returns the reply. It always returns a reply.
//
// Messages of one conversation are handled one at a time. Only turns that advance the conversation change its stored
// state; a failed or panicking turn leaves it as it was.
func (e *Engine) Handle(ctx context.Context, in Inbound) (reply string) {
	ctx = logging.WithAttrs(ctx, slog.String("conversation_id", in.ConversationID))
	unlock := e.store.Lock(in.ConversationID)
	defer unlock()

	state := e.store.Get(in.ConversationID)
	step, lang := state.Step, state.Language
	defer func() {
		if r := recover(); r != nil {
			metrics.InboundMessages.WithLabelValues(string(step), "panic").Inc()
			err := errors.New("panic handling message", slog.String("panic", fmt.Sprint(r)))
			e.logger.LogAttrs(ctx, slog.LevelError, "recovered from panic", errors.SlogError(err))
			reply = catalog.Render(lang, catalog.KeyInternalError, e.subs(nil))
		}
	}()

	if isGreeting(in.Body) {
		state = NewState(in.ConversationID)
	}
	handler, ok := e.steps[state.Step]
	if !ok {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "unknown step, restarting", slog.String("step", string(state.Step)))
		handler = e.welcome
	}

	reply, result := handler(ctx, &state, in)
	metrics.InboundMessages.WithLabelValues(string(step), string(result)).Inc()
	switch result {
	case outcomeAdvanced, outcomePaged, outcomeInvalid:
		state.UpdatedAt = time.Now()
		e.store.Put(state)
	case outcomeCompleted, outcomeDeclined:
		e.store.Remove(in.ConversationID)
	case outcomeFailed:
	}
	return reply
}

func (e *Engine) subs(extra map[string]string) map[string]string {
	subs := map[string]string{"helpline": e.helpline}
	for k, v := range extra {
		subs[k] = v
	}
	return subs
}

func (e *Engine) render(state *State, key catalog.Key, extra map[string]string) string {
	return catalog.Render(state.Language, key, e.subs(extra))
}

func (e *Engine) invalid(state *State) (string, outcome) {
	return e.render(state, catalog.KeyInvalidInput, nil), outcomeInvalid
}

func (e *Engine) welcome(_ context.Context, state *State, _ Inbound) (string, outcome) {
	state.Step = StepLanguage
	return catalog.Render(catalog.DefaultLanguage, catalog.KeyWelcome, e.subs(nil)), outcomeAdvanced
}

func (e *Engine) language(_ context.Context, state *State, in Inbound) (string, outcome) {
	lang, ok := catalog.LanguageForCode(strings.TrimSpace(in.Body))
	if !ok {
		return e.invalid(state)
	}
	state.Language = lang
	state.Draft.Language = lang
	state.Step = StepConsent
	return e.render(state, catalog.KeyConsent, nil), outcomeAdvanced
}

func (e *Engine) consent(ctx context.Context, state *State, in Inbound) (string, outcome) {
	switch strings.ToLower(strings.TrimSpace(in.Body)) {
	case "1", "agree":
		if err := e.consents.Insert(ctx, state.ConversationID, models.ConsentTypeDataCollection,
			time.Now()); err != nil {
			e.logger.LogAttrs(ctx, slog.LevelError, "failed to record consent", errors.SlogError(err))
			return e.render(state, catalog.KeySubmissionFailed, nil), outcomeFailed
		}
		state.Draft.ConsentGiven = true
		state.Draft.Phone = state.ConversationID
		state.Step = StepFraudMedium
		return e.render(state, catalog.KeyFraudMedium, map[string]string{
			"options": catalog.FormatOptions(catalog.FraudMediums(state.Language)),
		}), outcomeAdvanced
	case "2", "decline":
		return e.render(state, catalog.KeyConsentDeclined, nil), outcomeDeclined
	default:
		return e.invalid(state)
	}
}

func (e *Engine) fraudMedium(_ context.Context, state *State, in Inbound) (string, outcome) {
	medium, ok := catalog.CanonicalFraudMedium(strings.TrimSpace(in.Body))
	if !ok {
		return e.invalid(state)
	}
	state.Draft.FraudMedium = medium
	state.Step = StepIncidentType
	return e.render(state, catalog.KeyIncidentType, map[string]string{
		"options": catalog.FormatOptions(catalog.IncidentTypes(state.Language)),
	}), outcomeAdvanced
}

func (e *Engine) incidentType(_ context.Context, state *State, in Inbound) (string, outcome) {
	incident, ok := catalog.CanonicalIncidentType(strings.TrimSpace(in.Body))
	if !ok {
		return e.invalid(state)
	}
	state.Draft.IncidentType = incident
	state.Step = StepLocationState
	state.StatePage = 0
	return e.render(state, catalog.KeyLocationState, map[string]string{
		"options": catalog.FormatOptions(catalog.StatePage(0)),
	}), outcomeAdvanced
}

// locationState accepts a state name or index from the full list. "more" shows the next page of ten and wraps from
// the last page back to the first.
func (e *Engine) locationState(_ context.Context, state *State, in Inbound) (string, outcome) {
	input := strings.TrimSpace(in.Body)
	if strings.EqualFold(input, "more") {
		state.StatePage = (state.StatePage + 1) % catalog.StatePages()
		return e.render(state, catalog.KeyLocationStateMore, map[string]string{
			"page":    strconv.Itoa(state.StatePage + 1),
			"pages":   strconv.Itoa(catalog.StatePages()),
			"options": catalog.FormatOptions(catalog.StatePage(state.StatePage)),
		}), outcomePaged
	}
	name, ok := catalog.LookupState(input)
	if !ok {
		return e.invalid(state)
	}
	state.Draft.LocationState = name
	state.Step = StepLocationCity
	return e.render(state, catalog.KeyLocationCity, nil), outcomeAdvanced
}

func (e *Engine) locationCity(_ context.Context, state *State, in Inbound) (string, outcome) {
	city := strings.TrimSpace(in.Body)
	if city == "" {
		return e.invalid(state)
	}
	state.Draft.LocationCity = cases.Title(language.Make(string(state.Language))).String(city)
	state.Step = StepDescription
	return e.render(state, catalog.KeyDescription, nil), outcomeAdvanced
}

func (e *Engine) description(_ context.Context, state *State, in Inbound) (string, outcome) {
	sum := sha256.Sum256([]byte(in.Body))
	state.Draft.Description = in.Body
	state.Draft.EvidenceHash = hex.EncodeToString(sum[:])
	state.Step = StepSuspectDetails
	return e.render(state, catalog.KeySuspectDetails, nil), outcomeAdvanced
}

func (e *Engine) suspectDetails(_ context.Context, state *State, in Inbound) (string, outcome) {
	fields := extract.Extract(in.Body)
	state.Draft.SuspectOtherDetails = in.Body
	state.Draft.SuspectPhone = fields.Phone
	state.Draft.SuspectEmail = fields.Email
	state.Draft.SuspectPaymentHandle = fields.PaymentHandle
	state.Step = StepAmount
	return e.render(state, catalog.KeyAmount, nil), outcomeAdvanced
}

var ( //nolint:gochecknoglobals // stateless, compiled once
	amountCleaner = strings.NewReplacer(",", "", "₹", "")
	// Plain decimals only. Exponent notation would let a short message expand into a huge number.
	amountPattern = regexp.MustCompile(`^[+-]?(?:\d{1,15}(?:\.\d{0,4})?|\.\d{1,4})$`)
)

// ParseAmount reads a rupee amount such as "1,234.50" or "₹500". Anything else, including exponent notation and
// more than 15 integer digits, is zero.
func ParseAmount(input string) decimal.Decimal {
	cleaned := strings.TrimSpace(amountCleaner.Replace(input))
	if !amountPattern.MatchString(cleaned) {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func (e *Engine) amount(_ context.Context, state *State, in Inbound) (string, outcome) {
	state.Draft.Amount = ParseAmount(in.Body)
	state.Step = StepEvidence
	return e.render(state, catalog.KeyEvidence, nil), outcomeAdvanced
}

func (e *Engine) evidence(ctx context.Context, state *State, in Inbound) (string, outcome) {
	if !strings.EqualFold(strings.TrimSpace(in.Body), "skip") {
		state.Draft.EvidenceText = in.Body
		if len(in.Media) > 0 {
			state.Draft.MediaFiles = append(state.Draft.MediaFiles, e.archiver.Archive(ctx, in.Media)...)
		}
	}
	state.Step = StepAnonymous
	return e.render(state, catalog.KeyAnonymous, nil), outcomeAdvanced
}

func (e *Engine) anonymous(ctx context.Context, state *State, in Inbound) (string, outcome) {
	switch strings.TrimSpace(in.Body) {
	case "1":
		state.Draft.Anonymous = true
		state.Draft.Phone = models.AnonymousPhone
	case "2":
		state.Draft.Anonymous = false
		state.Draft.Phone = state.ConversationID
	default:
		return e.invalid(state)
	}
	referenceID, err := e.submitter.Submit(ctx, state.Draft)
	if err != nil {
		e.logger.LogAttrs(ctx, slog.LevelError, "failed to submit report", errors.SlogError(err))
		return e.render(state, catalog.KeySubmissionFailed, nil), outcomeFailed
	}
	return e.render(state, catalog.KeyConfirmation, map[string]string{"reference_id": referenceID}),
		outcomeCompleted
}
