// Package catalog holds the bot's message templates and the controlled vocabularies offered in its menus.
package catalog

import (
	"fmt"
	"strings"
)

// Language is an ISO 639-1 code of a supported reply language.
type Language string

const (
	English  Language = "en"
	Hindi    Language = "hi"
	Gujarati Language = "gu"

	DefaultLanguage = English
)

// languageCodes maps the numeric menu choice to a language.
var languageCodes = map[string]Language{ //nolint:gochecknoglobals // read-only lookup table
	"1": English,
	"2": Hindi,
	"3": Gujarati,
}

// LanguageForCode resolves the numeric language menu choice.
func LanguageForCode(code string) (Language, bool) {
	lang, ok := languageCodes[code]
	return lang, ok
}

// Supported reports whether templates exist for lang.
func Supported(lang Language) bool {
	_, ok := messages[lang]
	return ok
}

// Key identifies a message template.
type Key string

const (
	KeyWelcome           Key = "welcome"
	KeyConsent           Key = "consent"
	KeyConsentDeclined   Key = "consent_declined"
	KeyFraudMedium       Key = "fraud_medium"
	KeyIncidentType      Key = "incident_type"
	KeyLocationState     Key = "location_state"
	KeyLocationStateMore Key = "location_state_more"
	KeyLocationCity      Key = "location_city"
	KeyDescription       Key = "description"
	KeySuspectDetails    Key = "suspect_details"
	KeyAmount            Key = "amount"
	KeyEvidence          Key = "evidence"
	KeyAnonymous         Key = "anonymous"
	KeyConfirmation      Key = "confirmation"
	KeyInvalidInput      Key = "invalid_input"
	KeySubmissionFailed  Key = "submission_failed"
	KeyInternalError     Key = "internal_error"
)

// Render returns the template for key in lang with every {name} placeholder found in subs replaced.
//
// Unsupported languages fall back to English, as do keys missing from a translation. A key unknown in English too
// renders as "Message: <key>". Placeholders without a substitution are left as they are.
func Render(lang Language, key Key, subs map[string]string) string {
	if !Supported(lang) {
		lang = DefaultLanguage
	}
	template, ok := messages[lang][key]
	if !ok {
		if template, ok = messages[DefaultLanguage][key]; !ok {
			return fmt.Sprintf("Message: %s", key)
		}
	}
	if len(subs) == 0 {
		return template
	}
	oldnew := make([]string, 0, 2*len(subs)) //nolint:mnd // pairs
	for name, value := range subs {
		oldnew = append(oldnew, "{"+name+"}", value)
	}
	return strings.NewReplacer(oldnew...).Replace(template)
}
