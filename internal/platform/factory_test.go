package platform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scratchpad/pkg/adapters/fs"
	"github.com/aretw0/scratchpad/pkg/adapters/memory"
	"github.com/aretw0/scratchpad/pkg/adapters/sqlite"
	"github.com/aretw0/scratchpad/pkg/core"
)

func TestNew_Adapters(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		adapter string
		want    any
	}{
		{AdapterFS, &fs.Storage{}},
		{AdapterSQLite, &sqlite.Storage{}},
		{AdapterMemory, &memory.Storage{}},
	}

	for _, tt := range tests {
		t.Run(tt.adapter, func(t *testing.T) {
			store, err := New(filepath.Join(t.TempDir(), "notes"), WithAdapter(tt.adapter))
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })

			assert.IsType(t, tt.want, store.Storage())

			store.SaveNote(ctx, "button--primary", "hello", "")
			got, ok := store.GetNote(ctx, "button--primary")
			require.True(t, ok)
			assert.Equal(t, "hello", got.Note)
		})
	}
}

func TestNew_UnknownAdapter(t *testing.T) {
	_, err := New(t.TempDir(), WithAdapter("redis"))
	assert.ErrorIs(t, err, ErrUnknownAdapter)
}

func TestNew_InjectedStorage(t *testing.T) {
	storage := memory.New()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	store, err := New("ignored", WithStorage(storage), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	store.SaveNote(context.Background(), "id", "x", "")
	raw, ok := storage.Raw(core.StorageKey)
	require.True(t, ok)
	assert.Contains(t, raw, "2024-01-01T00:00:00.000Z")
}

func TestNew_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	writable, err := New(dir)
	require.NoError(t, err)
	writable.SaveNote(ctx, "id", "original", "")

	var reported error
	ro, err := New(dir, WithReadOnly(true), WithErrorHandler(func(err error) { reported = err }))
	require.NoError(t, err)

	ro.SaveNote(ctx, "id", "changed", "")
	assert.True(t, errors.Is(reported, core.ErrReadOnly), "Expected ErrReadOnly, got: %v", reported)

	got, _ := ro.GetNote(ctx, "id")
	assert.Equal(t, "original", got.Note)
}

func TestNew_MustExist(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), WithMustExist(true))
	assert.Error(t, err)
}

func TestOpen_ForceTempKeepsTempPaths(t *testing.T) {
	dir := t.TempDir()
	storage, err := Open(dir, WithForceTemp(true))
	require.NoError(t, err)

	fsStorage, ok := storage.(*fs.Storage)
	require.True(t, ok)
	assert.Equal(t, filepath.Clean(dir), fsStorage.Path)
}

func TestResolvePath(t *testing.T) {
	devRoot := filepath.Join(os.TempDir(), devDirName)
	inTemp := filepath.Join(os.TempDir(), "already", "here")

	tests := []struct {
		name      string
		path      string
		forceTemp bool
		want      string
	}{
		{"Passthrough", "/var/notes", false, "/var/notes"},
		{"Empty Passthrough", "", false, "."},
		{"Sandboxed", "/var/notes", true, filepath.Join(devRoot, "notes")},
		{"Sandboxed Relative", "./notes", true, filepath.Join(devRoot, "notes")},
		{"Sandboxed Empty", "", true, filepath.Join(devRoot, "default")},
		{"Trusted Temp", inTemp, true, inTemp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.path, tt.forceTemp))
		})
	}
}

func TestFindProjectDir(t *testing.T) {
	base := t.TempDir()
	repo := filepath.Join(base, "repo")
	nested := filepath.Join(repo, "src", "components")
	empty := filepath.Join(base, "empty")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.MkdirAll(empty, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(repo, ProjectDir), 0755))

	want := filepath.Join(repo, ProjectDir)

	got, err := FindProjectDir(repo)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = FindProjectDir(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = FindProjectDir(empty)
	assert.Error(t, err)

	assert.Equal(t, want, DefaultLocation(nested, "/fallback"))
	assert.Equal(t, "/fallback", DefaultLocation(empty, "/fallback"))
}
