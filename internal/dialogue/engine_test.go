package dialogue_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/myrjola/fraudintake/internal/catalog"
	"github.com/myrjola/fraudintake/internal/dialogue"
	"github.com/myrjola/fraudintake/internal/media"
	"github.com/myrjola/fraudintake/internal/refid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sender = "whatsapp:+919812345678"

func TestEngine_Handle_happyPath(t *testing.T) {
	h := newHarness(t, nil)
	en := catalog.English

	steps := []struct {
		body     string
		want     string
		wantStep dialogue.Step
	}{
		{"hi", expect(en, catalog.KeyWelcome, nil), dialogue.StepLanguage},
		{"1", expect(en, catalog.KeyConsent, nil), dialogue.StepConsent},
		{"1", expect(en, catalog.KeyFraudMedium, map[string]string{
			"options": catalog.FormatOptions(catalog.FraudMediums(en)),
		}), dialogue.StepFraudMedium},
		{"5", expect(en, catalog.KeyIncidentType, map[string]string{
			"options": catalog.FormatOptions(catalog.IncidentTypes(en)),
		}), dialogue.StepIncidentType},
		{"2", expect(en, catalog.KeyLocationState, map[string]string{
			"options": catalog.FormatOptions(catalog.StatePage(0)),
		}), dialogue.StepLocationState},
		{"1", expect(en, catalog.KeyLocationCity, nil), dialogue.StepLocationCity},
		{"mumbai", expect(en, catalog.KeyDescription, nil), dialogue.StepDescription},
		{"Lost money to a fake UPI request", expect(en, catalog.KeySuspectDetails, nil), dialogue.StepSuspectDetails},
		{"unknown, contact upi@fake", expect(en, catalog.KeyAmount, nil), dialogue.StepAmount},
		{"2,000", expect(en, catalog.KeyEvidence, nil), dialogue.StepEvidence},
		{"skip", expect(en, catalog.KeyAnonymous, nil), dialogue.StepAnonymous},
	}
	for _, s := range steps {
		require.Equal(t, s.want, h.send(sender, s.body), "reply to %q", s.body)
		require.Equal(t, s.wantStep, h.store.Get(sender).Step, "step after %q", s.body)
	}
	require.Equal(t, []string{sender}, h.consents.phones)
	require.Zero(t, h.submitter.calls())

	reply := h.send(sender, "2")
	require.Equal(t, 1, h.submitter.calls())
	referenceID := h.submitter.refs[0]
	require.True(t, refid.IsValid(referenceID), referenceID)
	require.Equal(t, expect(en, catalog.KeyConfirmation, map[string]string{"reference_id": referenceID}), reply)
	require.Zero(t, h.store.Len())

	draft := h.submitter.drafts[0]
	assert.Equal(t, sender, draft.Phone)
	assert.False(t, draft.Anonymous)
	assert.True(t, draft.ConsentGiven)
	assert.Equal(t, catalog.English, draft.Language)
	assert.Equal(t, "UPI/Payment App", draft.FraudMedium)
	assert.Equal(t, "Fake Payment Request", draft.IncidentType)
	assert.Equal(t, "Andhra Pradesh", draft.LocationState)
	assert.Equal(t, "Mumbai", draft.LocationCity)
	assert.Equal(t, "Lost money to a fake UPI request", draft.Description)
	assert.Len(t, draft.EvidenceHash, 64)
	assert.Equal(t, "unknown, contact upi@fake", draft.SuspectOtherDetails)
	assert.Equal(t, "upi@fake", draft.SuspectPaymentHandle)
	assert.Empty(t, draft.SuspectEmail)
	assert.Empty(t, draft.SuspectPhone)
	assert.True(t, decimal.NewFromInt(2000).Equal(draft.Amount))
	assert.Empty(t, draft.EvidenceText)
	assert.Empty(t, draft.MediaFiles)
}

// stateAt stores a conversation parked at step with a plausible draft.
func stateAt(h *harness, id string, step dialogue.Step, lang catalog.Language) {
	state := dialogue.NewState(id)
	state.Step = step
	state.Language = lang
	state.Draft.Language = lang
	state.Draft.ConsentGiven = true
	state.Draft.Phone = id
	h.store.Put(state)
}

func TestEngine_Handle_gatedStepsRejectInvalidInput(t *testing.T) {
	tests := []struct {
		step  dialogue.Step
		input string
	}{
		{dialogue.StepLanguage, "4"},
		{dialogue.StepLanguage, "english"},
		{dialogue.StepConsent, "maybe"},
		{dialogue.StepConsent, "3"},
		{dialogue.StepFraudMedium, "0"},
		{dialogue.StepFraudMedium, "99"},
		{dialogue.StepIncidentType, "phishing"},
		{dialogue.StepLocationState, "37"},
		{dialogue.StepLocationState, "Atlantis"},
		{dialogue.StepLocationCity, "   "},
		{dialogue.StepAnonymous, "3"},
		{dialogue.StepAnonymous, "yes"},
	}
	for _, tt := range tests {
		for _, lang := range []catalog.Language{catalog.English, catalog.Hindi, catalog.Gujarati} {
			t.Run(fmt.Sprintf("%s %q %s", tt.step, tt.input, lang), func(t *testing.T) {
				h := newHarness(t, nil)
				stateAt(h, sender, tt.step, lang)

				reply := h.send(sender, tt.input)
				require.Equal(t, expect(lang, catalog.KeyInvalidInput, nil), reply)
				require.Equal(t, tt.step, h.store.Get(sender).Step)
				require.Zero(t, h.submitter.calls())
				require.Empty(t, h.consents.phones)
			})
		}
	}
}

func TestEngine_Handle_freeTextStepsAlwaysAdvance(t *testing.T) {
	tests := []struct {
		step  dialogue.Step
		input string
		want  dialogue.Step
	}{
		{dialogue.StepLocationCity, "x", dialogue.StepDescription},
		{dialogue.StepDescription, "", dialogue.StepSuspectDetails},
		{dialogue.StepDescription, "???", dialogue.StepSuspectDetails},
		{dialogue.StepSuspectDetails, "no idea", dialogue.StepAmount},
		{dialogue.StepAmount, "a lot", dialogue.StepEvidence},
		{dialogue.StepEvidence, "screenshot lost", dialogue.StepAnonymous},
		{dialogue.StepEvidence, "SKIP", dialogue.StepAnonymous},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %q", tt.step, tt.input), func(t *testing.T) {
			h := newHarness(t, nil)
			stateAt(h, sender, tt.step, catalog.English)
			h.send(sender, tt.input)
			require.Equal(t, tt.want, h.store.Get(sender).Step)
		})
	}
}

func TestEngine_Handle_locationState(t *testing.T) {
	t.Run("more pages through the states", func(t *testing.T) {
		h := newHarness(t, nil)
		stateAt(h, sender, dialogue.StepLocationState, catalog.English)

		for i := 1; i <= catalog.StatePages(); i++ {
			page := i % catalog.StatePages()
			reply := h.send(sender, "More")
			require.Equal(t, expect(catalog.English, catalog.KeyLocationStateMore, map[string]string{
				"page":    fmt.Sprint(page + 1),
				"pages":   fmt.Sprint(catalog.StatePages()),
				"options": catalog.FormatOptions(catalog.StatePage(page)),
			}), reply)
			state := h.store.Get(sender)
			require.Equal(t, dialogue.StepLocationState, state.Step)
			require.Equal(t, page, state.StatePage)
		}
	})

	t.Run("name in any case", func(t *testing.T) {
		h := newHarness(t, nil)
		stateAt(h, sender, dialogue.StepLocationState, catalog.English)
		h.send(sender, "tamil nadu")
		state := h.store.Get(sender)
		require.Equal(t, dialogue.StepLocationCity, state.Step)
		require.Equal(t, "Tamil Nadu", state.Draft.LocationState)
	})

	t.Run("index into the full list from any page", func(t *testing.T) {
		h := newHarness(t, nil)
		stateAt(h, sender, dialogue.StepLocationState, catalog.English)
		h.send(sender, "more")
		h.send(sender, "36")
		require.Equal(t, catalog.States()[35], h.store.Get(sender).Draft.LocationState)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1,234.50", "1234.5"},
		{"₹500", "500"},
		{"₹ 12,00,000", "1200000"},
		{" 75 ", "75"},
		{"abc", "0"},
		{"", "0"},
		{"500 rupees", "0"},
		{"-250", "-250"},
		{"1e9", "0"},
		{"1E9", "0"},
		{"1e200000000", "0"},
		{"2.5e3", "0"},
		{"1234567890123456", "0"},
		{"123456789012345", "123456789012345"},
		{"1.23456", "0"},
		{".5", "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := dialogue.ParseAmount(tt.input)
			require.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestEngine_Handle_amountNeverBlocks(t *testing.T) {
	for _, input := range []string{"1,234.50", "₹500", "abc", "1e200000000"} {
		t.Run(input, func(t *testing.T) {
			h := newHarness(t, nil)
			stateAt(h, sender, dialogue.StepAmount, catalog.English)
			require.Equal(t, expect(catalog.English, catalog.KeyEvidence, nil), h.send(sender, input))
			state := h.store.Get(sender)
			require.Equal(t, dialogue.StepEvidence, state.Step)
			require.True(t, dialogue.ParseAmount(input).Equal(state.Draft.Amount))
		})
	}
}

func TestEngine_Handle_consent(t *testing.T) {
	t.Run("decline removes the conversation", func(t *testing.T) {
		h := newHarness(t, nil)
		h.send(sender, "hi")
		h.send(sender, "2")
		reply := h.send(sender, "2")
		require.Equal(t, expect(catalog.Hindi, catalog.KeyConsentDeclined, nil), reply)
		require.Zero(t, h.store.Len())
		require.Empty(t, h.consents.phones)
		require.Zero(t, h.submitter.calls())
	})

	t.Run("agree in words", func(t *testing.T) {
		h := newHarness(t, nil)
		stateAt(h, sender, dialogue.StepConsent, catalog.English)
		h.send(sender, " Agree ")
		require.Equal(t, dialogue.StepFraudMedium, h.store.Get(sender).Step)
	})

	t.Run("failure to record consent keeps the step", func(t *testing.T) {
		h := newHarness(t, nil)
		h.consents.err = errBoom
		stateAt(h, sender, dialogue.StepConsent, catalog.Gujarati)
		reply := h.send(sender, "1")
		require.Equal(t, expect(catalog.Gujarati, catalog.KeySubmissionFailed, nil), reply)
		require.Equal(t, dialogue.StepConsent, h.store.Get(sender).Step)

		h.consents.err = nil
		h.send(sender, "1")
		require.Equal(t, dialogue.StepFraudMedium, h.store.Get(sender).Step)
	})
}

func TestEngine_Handle_submission(t *testing.T) {
	t.Run("failure keeps the draft for a retry", func(t *testing.T) {
		h := newHarness(t, nil)
		stateAt(h, sender, dialogue.StepAmount, catalog.English)
		h.send(sender, "999")
		h.send(sender, "skip")

		h.submitter.err = errBoom
		reply := h.send(sender, "1")
		require.Equal(t, expect(catalog.English, catalog.KeySubmissionFailed, nil), reply)
		state := h.store.Get(sender)
		require.Equal(t, dialogue.StepAnonymous, state.Step)
		require.True(t, decimal.NewFromInt(999).Equal(state.Draft.Amount))

		h.submitter.err = nil
		reply = h.send(sender, "1")
		require.Equal(t, 1, h.submitter.calls())
		require.Contains(t, reply, h.submitter.refs[0])
		require.Zero(t, h.store.Len())
	})

	t.Run("anonymous reports drop the phone number", func(t *testing.T) {
		h := newHarness(t, nil)
		stateAt(h, sender, dialogue.StepAnonymous, catalog.English)
		h.send(sender, "1")
		require.Equal(t, 1, h.submitter.calls())
		draft := h.submitter.drafts[0]
		require.True(t, draft.Anonymous)
		require.Equal(t, "ANONYMOUS", draft.Phone)
	})
}

func TestEngine_Handle_evidenceMedia(t *testing.T) {
	h := newHarness(t, nil)
	stateAt(h, sender, dialogue.StepEvidence, catalog.English)
	h.send(sender, "payment screenshot",
		media.Ref{URL: "https://api.twilio.com/media/ME1", ContentType: "image/png"},
		media.Ref{URL: "https://api.twilio.com/media/ME2", ContentType: "image/jpeg"})

	draft := h.store.Get(sender).Draft
	require.Equal(t, "payment screenshot", draft.EvidenceText)
	require.Equal(t, []string{"file:///evidence/ME1", "file:///evidence/ME2"}, draft.MediaFiles)

	t.Run("skip ignores attachments", func(t *testing.T) {
		stateAt(h, "other", dialogue.StepEvidence, catalog.English)
		h.send("other", "skip", media.Ref{URL: "https://api.twilio.com/media/ME3", ContentType: "image/png"})
		require.Empty(t, h.store.Get("other").Draft.MediaFiles)
	})
}

func TestEngine_Handle_restarts(t *testing.T) {
	t.Run("greeting from any step", func(t *testing.T) {
		h := newHarness(t, nil)
		stateAt(h, sender, dialogue.StepAmount, catalog.Hindi)
		reply := h.send(sender, "HELLO")
		require.Equal(t, expect(catalog.English, catalog.KeyWelcome, nil), reply)
		state := h.store.Get(sender)
		require.Equal(t, dialogue.StepLanguage, state.Step)
		require.Equal(t, catalog.English, state.Language)
		require.False(t, state.Draft.ConsentGiven)
	})

	t.Run("unknown step", func(t *testing.T) {
		h := newHarness(t, nil)
		stateAt(h, sender, dialogue.Step("bogus"), catalog.English)
		require.Equal(t, expect(catalog.English, catalog.KeyWelcome, nil), h.send(sender, "1"))
		require.Equal(t, dialogue.StepLanguage, h.store.Get(sender).Step)
	})

	t.Run("first contact with any text", func(t *testing.T) {
		h := newHarness(t, nil)
		require.Equal(t, expect(catalog.English, catalog.KeyWelcome, nil), h.send(sender, "help me"))
		require.Equal(t, dialogue.StepLanguage, h.store.Get(sender).Step)
	})
}

func TestEngine_Handle_panicLeavesStateUntouched(t *testing.T) {
	h := newHarness(t, fakeArchiver{panics: true})
	stateAt(h, sender, dialogue.StepEvidence, catalog.Hindi)

	reply := h.send(sender, "see attachment", media.Ref{URL: "https://api.twilio.com/media/ME1", ContentType: ""})
	require.Equal(t, expect(catalog.Hindi, catalog.KeyInternalError, nil), reply)
	state := h.store.Get(sender)
	require.Equal(t, dialogue.StepEvidence, state.Step)
	require.Empty(t, state.Draft.EvidenceText)
}

func TestEngine_Handle_conversationsAreIsolated(t *testing.T) {
	h := newHarness(t, nil)
	script := func(city, amount, anonymous string) []string {
		return []string{"hi", "1", "1", "1", "1", "1", city, "story of " + city, "none", amount, "skip", anonymous}
	}
	alice := script("pune", "100", "2")
	bob := script("surat", "200", "1")
	for i := range alice {
		h.send("alice", alice[i])
		h.send("bob", bob[i])
	}
	require.Equal(t, 2, h.submitter.calls())
	byCity := map[string]dialogue.Draft{}
	for _, d := range h.submitter.drafts {
		byCity[d.LocationCity] = d
	}
	require.Equal(t, "alice", byCity["Pune"].Phone)
	require.True(t, decimal.NewFromInt(100).Equal(byCity["Pune"].Amount))
	require.Equal(t, "story of pune", byCity["Pune"].Description)
	require.Equal(t, "ANONYMOUS", byCity["Surat"].Phone)
	require.True(t, decimal.NewFromInt(200).Equal(byCity["Surat"].Amount))
}

func TestEngine_Handle_concurrentConversations(t *testing.T) {
	h := newHarness(t, nil)
	const conversations = 20
	var wg sync.WaitGroup
	for i := range conversations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("whatsapp:+91900000%04d", i)
			for _, body := range []string{"hi", "1", "1", "2", "3", "4", "Kochi", id, "s", "1", "skip", "2"} {
				h.send(id, body)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, conversations, h.submitter.calls())
	require.Zero(t, h.store.Len())
	for _, d := range h.submitter.drafts {
		require.Equal(t, d.Phone, d.Description)
	}
}
