package catalog

import (
	"strconv"
	"strings"
)

// Option is a numbered menu entry.
type Option struct {
	Code  string
	Label string
}

// FormatOptions renders options one per line as "<code>. <label>".
func FormatOptions(options []Option) string {
	var b strings.Builder
	for i, o := range options {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(o.Code)
		b.WriteString(". ")
		b.WriteString(o.Label)
	}
	return b.String()
}

func find(options []Option, code string) (Option, bool) {
	for _, o := range options {
		if o.Code == code {
			return o, true
		}
	}
	return Option{}, false
}

func localized(table map[Language][]Option, lang Language) []Option {
	options, ok := table[lang]
	if !ok {
		options = table[DefaultLanguage]
	}
	return append([]Option(nil), options...)
}

// FraudMediums lists the fraud medium menu in lang.
func FraudMediums(lang Language) []Option {
	return localized(fraudMediums, lang)
}

// CanonicalFraudMedium returns the language-independent label stored for a fraud medium menu code.
func CanonicalFraudMedium(code string) (string, bool) {
	o, ok := find(fraudMediums[DefaultLanguage], code)
	return o.Label, ok
}

// IncidentTypes lists the incident type menu in lang.
func IncidentTypes(lang Language) []Option {
	return localized(incidentTypes, lang)
}

// CanonicalIncidentType returns the language-independent label stored for an incident type menu code.
func CanonicalIncidentType(code string) (string, bool) {
	o, ok := find(incidentTypes[DefaultLanguage], code)
	return o.Label, ok
}

const statesPerPage = 10

// States returns every Indian state and union territory in menu order.
func States() []string {
	return append([]string(nil), states...)
}

// StatePages is the number of pages the state menu spans.
func StatePages() int {
	return (len(states) + statesPerPage - 1) / statesPerPage
}

// StatePage returns the numbered options on page n, covering states [10n, 10n+10). Pages past the end are empty.
func StatePage(n int) []Option {
	start := n * statesPerPage
	if n < 0 || start >= len(states) {
		return nil
	}
	end := min(start+statesPerPage, len(states))
	options := make([]Option, 0, end-start)
	for i := start; i < end; i++ {
		options = append(options, Option{Code: strconv.Itoa(i + 1), Label: states[i]})
	}
	return options
}

// LookupState accepts a 1-based index into States or a state name in any letter case.
func LookupState(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if i, err := strconv.Atoi(input); err == nil {
		if i >= 1 && i <= len(states) {
			return states[i-1], true
		}
		return "", false
	}
	for _, s := range states {
		if strings.EqualFold(s, input) {
			return s, true
		}
	}
	return "", false
}
