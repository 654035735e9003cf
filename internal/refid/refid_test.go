package refid_test

import (
	"sync"
	"testing"
	"time"

	"github.com/myrjola/fraudintake/internal/refid"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	id := refid.New(now)
	require.Regexp(t, `^I4C-20240131235959-[0-9A-Z]{6}$`, id)
	require.True(t, refid.IsValid(id))
}

func TestNew_localTimeIsFormattedInUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	id := refid.New(time.Date(2024, 2, 1, 5, 29, 59, 0, ist))
	require.Contains(t, id, "-20240131235959-")
}

func TestNew_sameSecondIsUnique(t *testing.T) {
	now := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[string]struct{})
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				id := refid.New(now)
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Len(t, seen, 400)
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "valid", id: "I4C-20240131235959-01HNB2", want: true},
		{name: "missing suffix", id: "I4C-20240131235959", want: false},
		{name: "lower case suffix", id: "I4C-20240131235959-01hnb2", want: false},
		{name: "ambiguous letter", id: "I4C-20240131235959-01HNBU", want: false},
		{name: "impossible date", id: "I4C-20241331235959-01HNB2", want: false},
		{name: "wrong prefix", id: "ABC-20240131235959-01HNB2", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, refid.IsValid(tt.id))
		})
	}
}
