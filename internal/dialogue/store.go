package dialogue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/myrjola/fraudintake/internal/metrics"
)

// Store keeps conversation state between messages.
//
// Get and Put exchange copies, so a turn that fails half way leaves the stored state untouched. Callers serialise
// turns of one conversation with Lock.
type Store interface {
	// Get returns the state for conversationID or a fresh state at StepWelcome when there is none.
	Get(conversationID string) State
	Put(state State)
	Remove(conversationID string)
	// Lock blocks until the caller holds the conversation exclusively. Call the returned function to release it.
	Lock(conversationID string) (unlock func())
	Len() int
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// MemoryStore is a process-local Store. Conversations idle for longer than a TTL are reaped by RunSweeper.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State

	locksMu sync.Mutex
	locks   map[string]*keyLock

	logger *slog.Logger
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		mu:      sync.RWMutex{},
		states:  make(map[string]State),
		locksMu: sync.Mutex{},
		locks:   make(map[string]*keyLock),
		logger:  logger.With("source", "MemoryStore"),
	}
}

func (s *MemoryStore) Get(conversationID string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[conversationID]
	if !ok {
		return NewState(conversationID)
	}
	return state.clone()
}

func (s *MemoryStore) Put(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ConversationID] = state.clone()
	metrics.ActiveConversations.Set(float64(len(s.states)))
}

func (s *MemoryStore) Remove(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, conversationID)
	metrics.ActiveConversations.Set(float64(len(s.states)))
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func (s *MemoryStore) Lock(conversationID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[conversationID]
	if !ok {
		l = &keyLock{mu: sync.Mutex{}, refs: 0}
		s.locks[conversationID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, conversationID)
		}
		s.locksMu.Unlock()
	}
}

// Sweep removes conversations last updated before cutoff and returns how many were removed.
func (s *MemoryStore) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, state := range s.states {
		if state.UpdatedAt.Before(cutoff) {
			delete(s.states, id)
			removed++
		}
	}
	metrics.ActiveConversations.Set(float64(len(s.states)))
	metrics.SweptConversations.Add(float64(removed))
	return removed
}

// RunSweeper removes conversations idle for longer than ttl every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if removed := s.Sweep(now.Add(-ttl)); removed > 0 {
				s.logger.LogAttrs(ctx, slog.LevelInfo, "swept idle conversations",
					slog.Int("removed", removed), slog.Duration("ttl", ttl))
			}
		}
	}
}
