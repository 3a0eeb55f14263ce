package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// TempFilePrefix marks in-flight writes; the watcher ignores these files.
	TempFilePrefix = "scratchpad-tmp-"

	filePerm os.FileMode = 0o644
)

// syncDir flushes a directory entry to disk. Replaced in tests.
var syncDir = func(dir string) error {
	// Directories cannot be opened for sync on Windows; rename is durable there.
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	return errors.Join(d.Sync(), d.Close())
}

// replaceFile swaps the content of filename for data in one rename, so a
// reader sees either the previous value or the new one, never a partial write.
// The rename itself is made durable by syncing the parent directory, which
// must exist.
func replaceFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpName, err := writeTemp(dir, data, perm)
	if err != nil {
		return err
	}
	defer os.Remove(tmpName) // no-op once renamed

	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}
	if err := syncDir(dir); err != nil {
		return fmt.Errorf("sync directory %s: %w", dir, err)
	}
	return nil
}

// writeTemp writes data to a new synced file in dir and returns its name.
func writeTemp(dir string, data []byte, perm os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(name, perm)
	}
	if err != nil {
		os.Remove(name)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return name, nil
}
