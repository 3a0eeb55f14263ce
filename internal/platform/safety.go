package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectDir is the directory name that marks project-local notes.
const ProjectDir = ".scratchpad"

// devDirName namespaces sandboxed storage under the system temp dir.
const devDirName = "scratchpad-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolvePath returns where storage should live. With forceTemp, a path that
// is not already inside the system temp dir is re-rooted under a namespaced
// temp directory, keeping only its base name.
func ResolvePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if rel, err := filepath.Rel(os.TempDir(), clean); err == nil && filepath.IsAbs(clean) && !strings.HasPrefix(rel, "..") {
		return clean
	}

	name := filepath.Base(clean)
	if userPath == "" || name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(os.TempDir(), devDirName, name)
}

// FindProjectDir looks upwards from startDir for a ProjectDir directory and
// returns its absolute path.
func FindProjectDir(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, ProjectDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s directory found above %s", ProjectDir, startDir)
}

// DefaultLocation picks the storage path when none is configured: the
// nearest project directory, else fallback.
func DefaultLocation(cwd, fallback string) string {
	if dir, err := FindProjectDir(cwd); err == nil {
		return dir
	}
	return fallback
}
