package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scratchpad/pkg/adapters/sqlite"
	"github.com/aretw0/scratchpad/pkg/core"
)

func openStorage(t *testing.T, path string, opts ...sqlite.Option) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	s := openStorage(t, dir)
	assert.Equal(t, filepath.Join(dir, sqlite.DefaultFilename), s.Path())
}

func TestItems(t *testing.T) {
	ctx := context.Background()
	s := openStorage(t, filepath.Join(t.TempDir(), "nested", "notes.db"))

	_, ok, err := s.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(ctx, "k", "one"))
	require.NoError(t, s.SetItem(ctx, "k", "two"))

	got, ok, err := s.GetItem(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", got)

	require.NoError(t, s.RemoveItem(ctx, "k"))
	require.NoError(t, s.RemoveItem(ctx, "k"))
	_, ok, err = s.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreOverSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")
	store := core.NewStore(openStorage(t, path))

	store.SaveNote(ctx, "card--default", "Add shadow variant", "Card/Default")
	store.SaveNote(ctx, "button--primary", "L1\nL2", "")

	reopened := core.NewStore(openStorage(t, path))
	assert.Equal(t, 2, reopened.Count(ctx))
	got, ok := reopened.GetNote(ctx, "button--primary")
	require.True(t, ok)
	assert.Equal(t, "L1\nL2", got.Note)
}

func TestCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := openStorage(t, filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, s.SetItem(ctx, core.StorageKey, "not json"))

	assert.Empty(t, core.NewStore(s).GetAll(ctx))
}

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")
	rw := openStorage(t, path)
	require.NoError(t, rw.SetItem(ctx, "k", "stored"))

	ro := openStorage(t, path, sqlite.WithReadOnly(true))
	value, ok, err := ro.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "stored", value)

	assert.ErrorIs(t, ro.SetItem(ctx, "k", "v"), core.ErrReadOnly)
	assert.ErrorIs(t, ro.RemoveItem(ctx, "k"), core.ErrReadOnly)
}

func TestReadOnlyMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.db")

	_, err := sqlite.Open(path, sqlite.WithReadOnly(true))
	require.Error(t, err)
	assert.NoFileExists(t, path)

	// An empty directory resolves to DefaultFilename, which is missing too.
	_, err = sqlite.Open(dir, sqlite.WithReadOnly(true))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, sqlite.DefaultFilename))
}
