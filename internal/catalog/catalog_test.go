package catalog_test

import (
	"testing"

	"github.com/myrjola/fraudintake/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		lang     catalog.Language
		key      catalog.Key
		subs     map[string]string
		contains string
		equals   string
	}{
		{
			name:     "substitutes placeholders",
			lang:     catalog.English,
			key:      catalog.KeyConfirmation,
			subs:     map[string]string{"reference_id": "I4C-20240101000000-ABCDEF", "helpline": "1930"},
			contains: "Reference ID: I4C-20240101000000-ABCDEF",
		},
		{
			name:     "unsupported language falls back to English",
			lang:     catalog.Language("fr"),
			key:      catalog.KeyInvalidInput,
			contains: "not a valid option",
		},
		{
			name:     "missing translation falls back to English",
			lang:     catalog.Hindi,
			key:      catalog.KeyWelcome,
			contains: "Welcome to the Cyber Fraud Reporting Assistant",
		},
		{
			name:     "translated",
			lang:     catalog.Gujarati,
			key:      catalog.KeyInvalidInput,
			contains: "માન્ય વિકલ્પ નથી",
		},
		{
			name:   "unknown key",
			lang:   catalog.Hindi,
			key:    catalog.Key("no_such_key"),
			equals: "Message: no_such_key",
		},
		{
			name:     "unknown placeholders are kept",
			lang:     catalog.English,
			key:      catalog.KeyConsentDeclined,
			subs:     map[string]string{"unrelated": "x"},
			contains: "{helpline}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Render(tt.lang, tt.key, tt.subs)
			if tt.equals != "" {
				require.Equal(t, tt.equals, got)
				return
			}
			require.Contains(t, got, tt.contains)
		})
	}
}

func TestLanguageForCode(t *testing.T) {
	for code, want := range map[string]catalog.Language{"1": catalog.English, "2": catalog.Hindi, "3": catalog.Gujarati} {
		got, ok := catalog.LanguageForCode(code)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	_, ok := catalog.LanguageForCode("4")
	require.False(t, ok)
}

func TestCanonicalLabels(t *testing.T) {
	label, ok := catalog.CanonicalFraudMedium("5")
	require.True(t, ok)
	require.Equal(t, "UPI/Payment App", label)
	_, ok = catalog.CanonicalFraudMedium("9")
	require.False(t, ok)

	label, ok = catalog.CanonicalIncidentType("2")
	require.True(t, ok)
	require.Equal(t, "Fake Payment Request", label)

	hindi := catalog.FraudMediums(catalog.Hindi)
	english := catalog.FraudMediums(catalog.English)
	require.Len(t, hindi, len(english))
	for i := range english {
		assert.Equal(t, english[i].Code, hindi[i].Code)
	}
	require.Len(t, catalog.IncidentTypes(catalog.Gujarati), len(catalog.IncidentTypes(catalog.English)))
	require.Equal(t, english, catalog.FraudMediums(catalog.Language("xx")))
}

func TestStatePage(t *testing.T) {
	states := catalog.States()
	require.Len(t, states, 36)
	require.Equal(t, 4, catalog.StatePages())

	for n := range catalog.StatePages() {
		page := catalog.StatePage(n)
		end := min(10*n+10, len(states))
		require.Len(t, page, end-10*n)
		for i, o := range page {
			require.Equal(t, states[10*n+i], o.Label)
		}
	}
	require.Equal(t, "11", catalog.StatePage(1)[0].Code)
	require.Empty(t, catalog.StatePage(4))
	require.Empty(t, catalog.StatePage(-1))
}

func TestLookupState(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "1", want: "Andhra Pradesh", wantOK: true},
		{input: "36", want: "Puducherry", wantOK: true},
		{input: "37", want: "", wantOK: false},
		{input: "0", want: "", wantOK: false},
		{input: "Tamil Nadu", want: "Tamil Nadu", wantOK: true},
		{input: "  tamil nadu ", want: "Tamil Nadu", wantOK: true},
		{input: "Atlantis", want: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := catalog.LookupState(tt.input)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormatOptions(t *testing.T) {
	got := catalog.FormatOptions([]catalog.Option{{Code: "1", Label: "Phone Call"}, {Code: "2", Label: "SMS"}})
	require.Equal(t, "1. Phone Call\n2. SMS", got)
}
