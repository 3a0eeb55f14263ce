package scratchpad

import (
	_ "embed"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/scratchpad/internal/platform"
	"github.com/aretw0/scratchpad/pkg/autosave"
	"github.com/aretw0/scratchpad/pkg/core"
)

//go:embed VERSION
var version string

// Version exposes the version of the library.
var Version = strings.TrimSpace(version)

// --- Types ---

// Store is the note store.
type Store = core.Store

// NoteRecord is one stored note.
type NoteRecord = core.NoteRecord

// NotesMap is the complete persisted collection.
type NotesMap = core.NotesMap

// Storage is the contract a storage medium implements.
type Storage = core.Storage

// Session is an autosaving editor session.
type Session = autosave.Session

// --- Configuration ---

// Option defines a functional option for opening a store.
type Option = platform.Option

// WithAdapter selects the storage medium by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStorage injects a custom storage medium.
func WithStorage(s Storage) Option {
	return platform.WithStorage(s)
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock overrides the clock used to stamp notes.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithErrorHandler receives write failures the store does not return.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// WithReadOnly refuses every write.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist requires the storage location to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the temp-dir sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New opens a Store at uri.
func New(uri string, opts ...Option) (*Store, error) {
	return platform.New(uri, opts...)
}

// NewSession starts an autosaving editor session for one identifier.
func NewSession(store *Store, id, title string, opts ...autosave.Option) *Session {
	return autosave.New(store, id, title, opts...)
}

// --- Utils ---

// FormatForExport renders notes as Markdown.
func FormatForExport(notes NotesMap) string {
	return core.FormatForExport(notes)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindProjectDir looks upwards for a project-local notes directory.
func FindProjectDir(startDir string) (string, error) {
	return platform.FindProjectDir(startDir)
}
