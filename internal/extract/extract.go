// Package extract pulls contact details out of free-text suspect descriptions.
package extract

import (
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	handlePattern = regexp.MustCompile(`[\w.\-]+@[\w.\-]+`)
	// 10 to 13 digits not touching other digits, optionally split by single spaces or hyphens.
	phonePattern  = regexp.MustCompile(`(?:^|[^\d+])(\+?\d(?:[ \-]?\d){9,12})(?:$|\D)`)
	trailingPunct = ".,;:!?-"
)

// Fields holds the first match found per category. Empty means no match.
type Fields struct {
	Phone         string
	Email         string
	PaymentHandle string
}

// Extract finds the first phone number, email address and payment handle in text.
//
// A payment handle is any token@token that does not overlap the email match. Values are returned as they appear in
// text apart from trailing punctuation on handles.
func Extract(text string) Fields {
	var fields Fields

	if m := phonePattern.FindStringSubmatch(text); m != nil {
		fields.Phone = m[1]
	}

	emailLoc := emailPattern.FindStringIndex(text)
	if emailLoc != nil {
		fields.Email = text[emailLoc[0]:emailLoc[1]]
	}

	for _, loc := range handlePattern.FindAllStringIndex(text, -1) {
		if emailLoc != nil && loc[0] < emailLoc[1] && emailLoc[0] < loc[1] {
			continue
		}
		handle := strings.TrimRight(text[loc[0]:loc[1]], trailingPunct)
		if strings.HasPrefix(handle, "@") || strings.HasSuffix(handle, "@") {
			continue
		}
		fields.PaymentHandle = handle
		break
	}

	return fields
}
