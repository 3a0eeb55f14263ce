// Package autosave drives a Store from an editor: text changes are coalesced
// and saved after a quiet period, and a blur flushes immediately, cancelling
// whatever save was pending.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/scratchpad/pkg/core"
)

// DefaultInterval is the quiet period before a debounced save fires.
const DefaultInterval = 500 * time.Millisecond

// Result describes a completed save.
type Result struct {
	ID string
	// Silent is true for debounced saves, which should not flash a status.
	Silent bool
	// Count is the number of stored notes after the save.
	Count int
}

// Session edits the note of one example identifier.
type Session struct {
	store    *core.Store
	id       string
	title    string
	interval time.Duration
	onSave   func(Result)
	logger   *slog.Logger

	// saveMu serializes saves. It is taken before mu, never after.
	saveMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	gen     uint64
}

// Option configures a Session.
type Option func(*Session)

// WithInterval sets the quiet period before a debounced save.
func WithInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithOnSave registers a callback invoked after every save. Debounced saves
// call it from the timer goroutine. It runs while the session is saving and
// must not call back into the session.
func WithOnSave(fn func(Result)) Option {
	return func(s *Session) {
		s.onSave = fn
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New starts a session for id. An empty id yields a session whose mutations
// are no-ops, matching an editor with no example selected.
func New(store *core.Store, id, title string, opts ...Option) *Session {
	s := &Session{
		store:    store,
		id:       id,
		title:    title,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ID returns the identifier being edited.
func (s *Session) ID() string {
	return s.id
}

// Load returns the stored text for the session's identifier.
func (s *Session) Load(ctx context.Context) string {
	if s.id == "" {
		return ""
	}
	rec, _ := s.store.GetNote(ctx, s.id)
	return rec.Note
}

// Count returns the number of stored notes.
func (s *Session) Count(ctx context.Context) int {
	return s.store.Count(ctx)
}

// Change records new editor text and restarts the quiet-period timer.
// Only the last text seen before the timer fires is saved.
func (s *Session) Change(text string) {
	if s.id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = text
	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("autosave panicked", slog.Any("error", r))
			}
		}()

		s.saveMu.Lock()
		defer s.saveMu.Unlock()

		s.mu.Lock()
		if gen != s.gen {
			// Superseded by a later Change or cancelled by Flush.
			s.mu.Unlock()
			return
		}
		text := s.pending
		s.timer = nil
		s.mu.Unlock()

		s.save(context.Background(), text, true)
	})
}

// Flush cancels any pending debounced save and saves text now. A debounced
// save already writing completes first, so text is always the last write.
func (s *Session) Flush(ctx context.Context, text string) {
	if s.id == "" {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.cancel()
	s.save(ctx, text, false)
}

// FlushSilent is Flush without a status-worthy result (used before copying).
func (s *Session) FlushSilent(ctx context.Context, text string) {
	if s.id == "" {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.cancel()
	s.save(ctx, text, true)
}

// Clear cancels any pending save and deletes the current note.
func (s *Session) Clear(ctx context.Context) {
	if s.id == "" {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.cancel()
	s.store.DeleteNote(ctx, s.id)
	s.notify(ctx, false)
}

// ClearAll cancels any pending save and deletes every note.
func (s *Session) ClearAll(ctx context.Context) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.cancel()
	s.store.ClearAll(ctx)
	s.notify(ctx, false)
}

// CopyAll saves text for the current identifier, then returns the Markdown
// export of every note.
func (s *Session) CopyAll(ctx context.Context, text string) string {
	s.FlushSilent(ctx, text)
	return core.FormatForExport(s.store.GetAll(ctx))
}

// Pending reports whether a debounced save is scheduled.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Close cancels any pending save without writing it, and waits for a
// debounced save already in progress. No write happens after Close returns.
func (s *Session) Close() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.cancel()
}

func (s *Session) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) save(ctx context.Context, text string, silent bool) {
	s.store.SaveNote(ctx, s.id, text, s.title)
	s.logger.Debug("note saved", "id", s.id, "silent", silent)
	s.notify(ctx, silent)
}

func (s *Session) notify(ctx context.Context, silent bool) {
	if s.onSave == nil {
		return
	}
	s.onSave(Result{ID: s.id, Silent: silent, Count: s.store.Count(ctx)})
}
