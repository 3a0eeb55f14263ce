package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Store persists a NotesMap as one JSON value under StorageKey.
//
// Every mutation is a full read-modify-write: the whole map is read, one key
// is changed and the whole map is written back. Concurrent writers from other
// processes are not merged; the last write wins.
//
// No operation returns an error to the caller. Unreadable or corrupt data is
// treated as an empty map, and failed writes are reported to the error
// handler (see WithErrorHandler) and logged.
type Store struct {
	storage  Storage
	logger   *slog.Logger
	now      func() time.Time
	onError  func(error)
	readOnly bool

	parseFailures atomic.Int64
	writeFailures atomic.Int64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the clock used to stamp UpdatedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithErrorHandler registers a callback for storage failures that the store
// otherwise only logs (write errors, read-only refusals).
func WithErrorHandler(fn func(error)) StoreOption {
	return func(s *Store) {
		s.onError = fn
	}
}

// WithReadOnly makes every write a refused no-op reported as ErrReadOnly.
func WithReadOnly(enabled bool) StoreOption {
	return func(s *Store) {
		s.readOnly = enabled
	}
}

// NewStore creates a Store over the given storage medium.
func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Storage returns the underlying medium.
func (s *Store) Storage() Storage {
	return s.storage
}

// Close releases the storage medium if it holds resources (e.g. a database).
func (s *Store) Close() error {
	if c, ok := s.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// GetAll returns every stored note. It never fails: an absent key, a read
// error or a value that is not a JSON object all yield an empty map. Records
// that do not decode are skipped.
func (s *Store) GetAll(ctx context.Context) NotesMap {
	raw, ok, err := s.storage.GetItem(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("failed to read notes, using empty set", "key", StorageKey, "error", err)
		return NotesMap{}
	}
	if !ok || raw == "" {
		return NotesMap{}
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.parseFailures.Add(1)
		s.logger.Warn("stored notes are not valid JSON, using empty set", "key", StorageKey, "error", err)
		return NotesMap{}
	}

	// A malformed record is dropped on its own so its siblings survive the
	// next write.
	notes := make(NotesMap, len(entries))
	for id, data := range entries {
		var rec NoteRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			s.parseFailures.Add(1)
			s.logger.Warn("skipping malformed note", "key", StorageKey, "id", id, "error", err)
			continue
		}
		notes[id] = rec
	}
	return notes
}

// SaveAll serializes notes and overwrites the stored value.
func (s *Store) SaveAll(ctx context.Context, notes NotesMap) {
	if notes == nil {
		notes = NotesMap{}
	}
	if s.readOnly {
		s.fail(fmt.Errorf("save notes: %w", ErrReadOnly))
		return
	}

	raw, err := encode(notes)
	if err != nil {
		s.fail(fmt.Errorf("encode notes: %w", err))
		return
	}

	if err := s.storage.SetItem(ctx, StorageKey, raw); err != nil {
		s.fail(fmt.Errorf("write notes: %w", err))
		return
	}
	s.logger.Debug("notes saved", "key", StorageKey, "count", len(notes))
}

// GetNote returns the note for id, if any.
func (s *Store) GetNote(ctx context.Context, id string) (NoteRecord, bool) {
	rec, ok := s.GetAll(ctx)[id]
	return rec, ok
}

// SaveNote stores the trimmed text for id, stamped with the current time.
// Empty or whitespace-only text removes the entry instead.
func (s *Store) SaveNote(ctx context.Context, id, text, title string) {
	notes := s.GetAll(ctx)

	if trimmed := strings.TrimSpace(text); trimmed != "" {
		notes[id] = NoteRecord{
			Note:       trimmed,
			UpdatedAt:  FormatTimestamp(s.now()),
			StoryTitle: title,
		}
	} else {
		delete(notes, id)
	}

	s.SaveAll(ctx, notes)
}

// DeleteNote removes the note for id. Absent ids are not an error.
func (s *Store) DeleteNote(ctx context.Context, id string) {
	notes := s.GetAll(ctx)
	delete(notes, id)
	s.SaveAll(ctx, notes)
}

// ClearAll removes every note.
func (s *Store) ClearAll(ctx context.Context) {
	s.SaveAll(ctx, NotesMap{})
}

// Count returns the number of stored notes.
func (s *Store) Count(ctx context.Context) int {
	return len(s.GetAll(ctx))
}

// List returns the stored notes ordered by identifier. A non-empty pattern
// filters identifiers with doublestar glob syntax (e.g. "button--*").
func (s *Store) List(ctx context.Context, pattern string) ([]Entry, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	notes := s.GetAll(ctx)
	entries := make([]Entry, 0, len(notes))
	for _, id := range SortedIDs(notes) {
		if pattern != "" {
			match, err := doublestar.Match(pattern, id)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadPattern, err)
			}
			if !match {
				continue
			}
		}
		entries = append(entries, Entry{ID: id, NoteRecord: notes[id]})
	}
	return entries, nil
}

// SortedIDs returns the identifiers of notes in ascending byte order.
func SortedIDs(notes NotesMap) []string {
	ids := make([]string, 0, len(notes))
	for id := range notes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) fail(err error) {
	s.writeFailures.Add(1)
	s.logger.Error("failed to persist notes", "key", StorageKey, "error", err)
	if s.onError != nil {
		s.onError(err)
	}
}

// encode produces compact JSON without HTML escaping, matching what
// JSON.stringify writes.
func encode(notes NotesMap) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(notes); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
