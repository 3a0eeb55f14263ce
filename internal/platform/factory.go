// Package platform wires configuration to a concrete storage medium and
// returns a ready core.Store.
package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/scratchpad/pkg/adapters/fs"
	"github.com/aretw0/scratchpad/pkg/adapters/memory"
	"github.com/aretw0/scratchpad/pkg/adapters/sqlite"
	"github.com/aretw0/scratchpad/pkg/core"
)

// ErrUnknownAdapter is returned for adapter names Open does not know.
var ErrUnknownAdapter = errors.New("unknown adapter")

// New opens the storage at uri and wraps it in a Store.
// The uri is adapter-specific: a directory for "fs", a database file or
// directory for "sqlite", ignored for "memory".
//
//	store, err := platform.New("./notes", platform.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storage, err := open(uri, o)
	if err != nil {
		return nil, err
	}

	storeOpts := []core.StoreOption{core.WithReadOnly(o.readOnly)}
	if o.logger != nil {
		storeOpts = append(storeOpts, core.WithLogger(o.logger))
	}
	if o.clock != nil {
		storeOpts = append(storeOpts, core.WithClock(o.clock))
	}
	if o.onError != nil {
		storeOpts = append(storeOpts, core.WithErrorHandler(o.onError))
	}

	return core.NewStore(storage, storeOpts...), nil
}

// Open returns the initialized storage medium for uri without a Store.
func Open(uri string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return open(uri, o)
}

func open(uri string, o *options) (core.Storage, error) {
	if o.storage != nil {
		return o.storage, nil
	}

	var storage core.Storage
	switch o.adapter {
	case AdapterMemory:
		return memory.New(), nil
	case AdapterFS:
		storage = fs.New(fs.Config{
			Path:         resolve(uri, o),
			MustExist:    o.mustExist,
			ReadOnly:     o.readOnly,
			Logger:       o.logger,
			ErrorHandler: o.onError,
		})
	case AdapterSQLite:
		db, err := sqlite.Open(resolve(uri, o), sqlite.WithReadOnly(o.readOnly))
		if err != nil {
			return nil, err
		}
		storage = db
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAdapter, o.adapter)
	}

	if initializer, ok := storage.(core.Initializer); ok {
		if err := initializer.Initialize(context.Background()); err != nil {
			if db, ok := storage.(*sqlite.Storage); ok {
				db.Close()
			}
			return nil, err
		}
	}

	return storage, nil
}

// resolve applies the dev sandbox rules to uri.
func resolve(uri string, o *options) string {
	// Read-only access cannot damage anything, so it reads the real path.
	bypass := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypass)
	resolved := ResolvePath(uri, useTemp)

	if o.logger != nil && useTemp && resolved != uri {
		o.logger.Warn("running in SAFE MODE (dev/test sandbox)", "original_path", uri, "resolved_path", resolved)
	}

	return resolved
}
