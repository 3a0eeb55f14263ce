package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/scratchpad/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// options holds the configuration for opening a store.
type options struct {
	adapter   string
	storage   core.Storage
	logger    *slog.Logger
	clock     func() time.Time
	onError   func(error)
	readOnly  bool
	mustExist bool
	forceTemp bool
	devSafety bool
}

// Option defines a functional option for opening a store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		devSafety: true,
	}
}

// WithAdapter selects the storage medium by name ("fs", "sqlite", "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStorage injects a custom storage medium. If provided, the adapter
// name and URI are ignored.
func WithStorage(s core.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithLogger sets the logger for the store and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the clock used to stamp notes.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithErrorHandler receives write failures the store does not return, and
// runtime watcher failures of the fs adapter.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Writes are refused and reported as core.ErrReadOnly.
// 2. No directory or schema is created.
// 3. The dev sandbox is bypassed (the real path is read).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist requires the storage location to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithForceTemp forces storage into a temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. Enabled by default: storage is redirected to a temp directory
// so experiments never touch real notes.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
