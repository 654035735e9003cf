// Package refid generates the reference ids handed to reporters after submission.
//
// A reference id looks like I4C-20240131235959-01HNB2 where the middle part is the submission time in UTC at second
// granularity and the suffix is the tail of a monotonic ULID, so ids generated within the same second differ.
package refid

import (
	"crypto/rand"
	"regexp"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	Prefix       = "I4C"
	timeLayout   = "20060102150405"
	suffixLength = 6
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)

	pattern = regexp.MustCompile(`^I4C-\d{14}-[0-9A-HJKMNP-TV-Z]{6}$`)
)

// New returns a fresh reference id for a submission at now.
func New(now time.Time) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), entropy)
	entropyMu.Unlock()
	s := id.String()
	return Prefix + "-" + now.UTC().Format(timeLayout) + "-" + s[len(s)-suffixLength:]
}

// IsValid reports whether s has the shape of a reference id.
func IsValid(s string) bool {
	if !pattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(timeLayout, s[len(Prefix)+1:len(Prefix)+1+len(timeLayout)])
	return err == nil
}
