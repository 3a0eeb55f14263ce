// Package sqlite implements core.Storage as a single key-value table in a
// SQLite database file (pure Go driver, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/scratchpad/pkg/core"
)

// DefaultFilename is used when Open receives a directory.
const DefaultFilename = "scratchpad.db"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Storage implements core.Storage on SQLite.
type Storage struct {
	db       *sql.DB
	dbPath   string
	readOnly bool
}

// Option configures a Storage.
type Option func(*Storage)

// WithReadOnly makes SetItem and RemoveItem return core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(s *Storage) {
		s.readOnly = enabled
	}
}

// Open creates or opens the database at path. If path is an existing
// directory, DefaultFilename inside it is used. In read-only mode the
// database must already exist.
func Open(path string, opts ...Option) (*Storage, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFilename)
	}

	s := &Storage{dbPath: path}
	for _, opt := range opts {
		opt(s)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if s.readOnly {
		// mode=ro never creates the file, and WAL cannot be switched on read-only.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open database read-only: %w", err)
		}
		dsn = "file:" + path + "?mode=ro&_pragma=busy_timeout(5000)"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return s, nil
}

// Initialize creates the schema. In read-only mode it only checks that the
// database can be opened.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.readOnly {
		return s.db.PingContext(ctx)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Storage) Path() string {
	return s.dbPath
}

func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "sqlite"
}

var (
	_ core.Storage     = (*Storage)(nil)
	_ core.Initializer = (*Storage)(nil)
)
