// Package fs implements core.Storage on a local directory: one file per key,
// replaced atomically on every write.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/scratchpad/pkg/core"
)

// fileExt is appended to every escaped key.
const fileExt = ".json"

// Config holds the configuration for the filesystem storage.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger

	// ErrorHandler receives runtime watcher failures that are otherwise only logged.
	ErrorHandler func(error)
}

// Storage implements core.Storage using the filesystem.
type Storage struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// New creates a new filesystem-backed storage. Call Initialize before use.
func New(config Config) *Storage {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Storage{
		Path:   config.Path,
		config: config,
	}
}

// Initialize ensures the storage directory exists.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("storage path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("stat storage path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

// GetItem reads the file for key.
func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.filename(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

// SetItem atomically replaces the file for key.
func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := replaceFile(s.filename(key), []byte(value), filePerm); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.config.Logger.Debug("item written", "key", key, "bytes", len(value))
	return nil
}

// RemoveItem deletes the file for key.
func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	err := os.Remove(s.filename(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// filename maps a key to its file. Keys are path-escaped so any string is a
// valid key and cannot leave the storage directory.
func (s *Storage) filename(key string) string {
	return filepath.Join(s.Path, url.PathEscape(key)+fileExt)
}

// keyFor is the inverse of filename. ok is false for files that do not
// belong to the storage (temp files, foreign extensions).
func keyFor(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, TempFilePrefix) || !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(base, fileExt))
	if err != nil {
		return "", false
	}
	return key, true
}

var (
	_ core.Storage     = (*Storage)(nil)
	_ core.Initializer = (*Storage)(nil)
	_ core.Watchable   = (*Storage)(nil)
)
