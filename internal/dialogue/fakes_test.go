package dialogue_test

import (
	"context"
	"io"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/myrjola/fraudintake/internal/catalog"
	"github.com/myrjola/fraudintake/internal/dialogue"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/media"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/refid"
	"github.com/myrjola/fraudintake/internal/testhelpers"
)

const helpline = "1930"

var errBoom = errors.NewSentinel("boom")

type fakeConsents struct {
	mu     sync.Mutex
	phones []string
	err    error
}

func (f *fakeConsents) Insert(_ context.Context, phone string, _ models.ConsentType, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.phones = append(f.phones, phone)
	return nil
}

type fakeSubmitter struct {
	mu     sync.Mutex
	drafts []dialogue.Draft
	refs   []string
	err    error
}

func (f *fakeSubmitter) Submit(_ context.Context, draft dialogue.Draft) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	ref := refid.New(time.Now())
	f.drafts = append(f.drafts, draft)
	f.refs = append(f.refs, ref)
	return ref, nil
}

func (f *fakeSubmitter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.drafts)
}

type fakeArchiver struct {
	panics bool
}

func (f fakeArchiver) Archive(_ context.Context, refs []media.Ref) []string {
	if f.panics {
		panic("archiver exploded")
	}
	locations := make([]string, 0, len(refs))
	for _, ref := range refs {
		locations = append(locations, "file:///evidence/"+path.Base(ref.URL))
	}
	return locations
}

type harness struct {
	store     *dialogue.MemoryStore
	consents  *fakeConsents
	submitter *fakeSubmitter
	engine    *dialogue.Engine
}

func newHarness(t *testing.T, archiver dialogue.MediaArchiver) *harness {
	t.Helper()
	logger := testhelpers.NewLogger(io.Discard)
	h := &harness{
		store:     dialogue.NewMemoryStore(logger),
		consents:  &fakeConsents{},
		submitter: &fakeSubmitter{},
		engine:    nil,
	}
	if archiver == nil {
		archiver = fakeArchiver{}
	}
	h.engine = dialogue.NewEngine(h.store, h.consents, h.submitter, archiver, helpline, logger)
	return h
}

func (h *harness) send(id, body string, refs ...media.Ref) string {
	return h.engine.Handle(context.Background(), dialogue.Inbound{ConversationID: id, Body: body, Media: refs})
}

func expect(lang catalog.Language, key catalog.Key, extra map[string]string) string {
	subs := map[string]string{"helpline": helpline}
	for k, v := range extra {
		subs[k] = v
	}
	return catalog.Render(lang, key, subs)
}
