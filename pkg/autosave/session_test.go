package autosave_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scratchpad/pkg/adapters/memory"
	"github.com/aretw0/scratchpad/pkg/autosave"
	"github.com/aretw0/scratchpad/pkg/core"
)

// recorder collects save results from timer goroutines.
type recorder struct {
	mu      sync.Mutex
	results []autosave.Result
}

func (r *recorder) add(res autosave.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) all() []autosave.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]autosave.Result(nil), r.results...)
}

// gateStorage holds the first write after arm until release is closed.
type gateStorage struct {
	*memory.Storage
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGateStorage() *gateStorage {
	return &gateStorage{
		Storage: memory.New(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gateStorage) SetItem(ctx context.Context, key, value string) error {
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return g.Storage.SetItem(ctx, key, value)
}

// waitClosed reports whether ch is closed within d.
func waitClosed(ch <-chan struct{}, d time.Duration) bool {
	select {
	case <-ch:
		return true
	case <-time.After(d):
		return false
	}
}

func newSession(t *testing.T, id string) (*autosave.Session, *core.Store, *recorder) {
	t.Helper()
	store := core.NewStore(memory.New())
	rec := &recorder{}
	s := autosave.New(store, id, "Story Title",
		autosave.WithInterval(50*time.Millisecond),
		autosave.WithOnSave(rec.add),
	)
	t.Cleanup(s.Close)
	return s, store, rec
}

func TestChangeDebounces(t *testing.T) {
	ctx := context.Background()
	s, store, rec := newSession(t, "story-id")

	for _, text := range []string{"h", "he", "hel", "hello"} {
		s.Change(text)
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, s.Pending())
	assert.Equal(t, 0, store.Count(ctx), "nothing is written during the quiet period")

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 10*time.Millisecond)

	got, ok := store.GetNote(ctx, "story-id")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Note)
	assert.Equal(t, "Story Title", got.StoryTitle)

	res := rec.all()[0]
	assert.True(t, res.Silent)
	assert.Equal(t, 1, res.Count)
	assert.False(t, s.Pending())
}

func TestFlushCancelsPending(t *testing.T) {
	ctx := context.Background()
	s, store, rec := newSession(t, "story-id")

	s.Change("typed")
	s.Flush(ctx, "blurred")

	got, _ := store.GetNote(ctx, "story-id")
	assert.Equal(t, "blurred", got.Note)

	time.Sleep(120 * time.Millisecond)

	got, _ = store.GetNote(ctx, "story-id")
	assert.Equal(t, "blurred", got.Note, "debounced save must not fire after flush")
	require.Len(t, rec.all(), 1)
	assert.False(t, rec.all()[0].Silent)
}

func TestFlushWaitsForDebouncedSave(t *testing.T) {
	ctx := context.Background()
	gate := newGateStorage()
	store := core.NewStore(gate)
	s := autosave.New(store, "story-id", "", autosave.WithInterval(10*time.Millisecond))
	t.Cleanup(s.Close)

	gate.armed.Store(true)
	s.Change("ab")
	require.True(t, waitClosed(gate.entered, time.Second), "debounced save never started")

	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		s.Flush(ctx, "abc")
	}()
	assert.False(t, waitClosed(flushed, 30*time.Millisecond), "flush must wait for the save in progress")

	close(gate.release)
	require.True(t, waitClosed(flushed, time.Second))

	got, ok := store.GetNote(ctx, "story-id")
	require.True(t, ok)
	assert.Equal(t, "abc", got.Note, "the flushed text is the last write")
}

func TestCloseWaitsForDebouncedSave(t *testing.T) {
	ctx := context.Background()
	gate := newGateStorage()
	store := core.NewStore(gate)
	s := autosave.New(store, "story-id", "", autosave.WithInterval(10*time.Millisecond))

	gate.armed.Store(true)
	s.Change("in flight")
	require.True(t, waitClosed(gate.entered, time.Second), "debounced save never started")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		s.Close()
	}()
	assert.False(t, waitClosed(closed, 30*time.Millisecond), "close must wait for the save in progress")

	close(gate.release)
	require.True(t, waitClosed(closed, time.Second))

	got, ok := store.GetNote(ctx, "story-id")
	require.True(t, ok)
	assert.Equal(t, "in flight", got.Note)

	s.Change("after close")
	s.Close()
	time.Sleep(40 * time.Millisecond)
	got, _ = store.GetNote(ctx, "story-id")
	assert.Equal(t, "in flight", got.Note)
}

func TestCloseDropsPending(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newSession(t, "story-id")

	s.Change("never saved")
	s.Close()
	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, 0, store.Count(ctx))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newSession(t, "story-id")
	store.SaveNote(ctx, "other", "keep", "")

	s.Flush(ctx, "note")
	s.Change("pending")
	s.Clear(ctx)
	time.Sleep(120 * time.Millisecond)

	_, ok := store.GetNote(ctx, "story-id")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Count(ctx))
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	s, store, rec := newSession(t, "story-id")
	store.SaveNote(ctx, "other", "gone", "")

	s.ClearAll(ctx)

	assert.Equal(t, 0, store.Count(ctx))
	require.NotEmpty(t, rec.all())
	assert.Equal(t, 0, rec.all()[0].Count)
}

func TestCopyAllFlushesFirst(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newSession(t, "story-id")
	store.SaveNote(ctx, "a-first", "X", "")

	s.Change("unsaved text")
	out := s.CopyAll(ctx, "unsaved text")

	assert.Equal(t, "## Storybook Feedback\n\n### a-first\nX\n\n### story-id\nunsaved text\n", out)
	assert.False(t, s.Pending())
}

func TestEmptyIdentifier(t *testing.T) {
	ctx := context.Background()
	s, store, rec := newSession(t, "")

	s.Change("ignored")
	s.Flush(ctx, "ignored")
	s.Clear(ctx)
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, "", s.Load(ctx))
	assert.Equal(t, 0, store.Count(ctx))
	assert.Empty(t, rec.all())
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newSession(t, "story-id")
	store.SaveNote(ctx, "story-id", "stored", "")

	assert.Equal(t, "stored", s.Load(ctx))
	assert.Equal(t, 1, s.Count(ctx))
}
