package dialogue_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/myrjola/fraudintake/internal/dialogue"
	"github.com/myrjola/fraudintake/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := dialogue.NewMemoryStore(testhelpers.NewLogger(io.Discard))

	state := store.Get("a")
	require.Equal(t, dialogue.StepWelcome, state.Step)
	require.Zero(t, store.Len(), "get does not create entries")

	state.Step = dialogue.StepEvidence
	state.Draft.MediaFiles = []string{"s3://bucket/one"}
	store.Put(state)
	require.Equal(t, 1, store.Len())

	got := store.Get("a")
	got.Draft.MediaFiles[0] = "tampered"
	got.Step = dialogue.StepAnonymous
	again := store.Get("a")
	require.Equal(t, dialogue.StepEvidence, again.Step)
	require.Equal(t, []string{"s3://bucket/one"}, again.Draft.MediaFiles)

	store.Remove("a")
	require.Zero(t, store.Len())
	require.Equal(t, dialogue.StepWelcome, store.Get("a").Step)
}

func TestMemoryStore_Lock(t *testing.T) {
	store := dialogue.NewMemoryStore(testhelpers.NewLogger(io.Discard))

	const workers = 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := store.Lock("a")
			defer unlock()
			state := store.Get("a")
			state.StatePage++
			store.Put(state)
		}()
	}
	wg.Wait()
	require.Equal(t, workers, store.Get("a").StatePage)

	t.Run("distinct keys do not block each other", func(t *testing.T) {
		unlockA := store.Lock("a")
		defer unlockA()
		done := make(chan struct{})
		go func() {
			store.Lock("b")()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock on b blocked by lock on a")
		}
	})
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := dialogue.NewMemoryStore(testhelpers.NewLogger(io.Discard))
	now := time.Now()

	stale := dialogue.NewState("stale")
	stale.UpdatedAt = now.Add(-25 * time.Hour)
	fresh := dialogue.NewState("fresh")
	fresh.UpdatedAt = now.Add(-time.Hour)
	store.Put(stale)
	store.Put(fresh)

	require.Equal(t, 1, store.Sweep(now.Add(-24*time.Hour)))
	require.Equal(t, 1, store.Len())
	require.Equal(t, dialogue.StepWelcome, store.Get("stale").Step)
	require.Equal(t, now.Add(-time.Hour), store.Get("fresh").UpdatedAt)
}

func TestMemoryStore_RunSweeper(t *testing.T) {
	store := dialogue.NewMemoryStore(testhelpers.NewLogger(io.Discard))
	stale := dialogue.NewState("stale")
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	store.Put(stale)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- store.RunSweeper(ctx, 10*time.Millisecond, time.Minute)
	}()
	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-errCh)
}
