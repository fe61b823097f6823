package paths

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotDirectory indicates a path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// EnsureDir creates dir if it does not already exist. An existing directory is
// not an error; created reports whether this call made it. Any other failure,
// including an existing non-directory at dir, is returned.
func EnsureDir(dir string) (bool, error) {
	err := os.Mkdir(dir, 0o755)
	if err == nil {
		return true, nil
	}

	if !errors.Is(err, fs.ErrExist) {
		return false, fmt.Errorf("create directory %q: %w", dir, err)
	}

	fi, statErr := os.Stat(dir)
	if statErr != nil {
		return false, fmt.Errorf("stat directory %q: %w", dir, statErr)
	}

	if !fi.IsDir() {
		return false, fmt.Errorf("create directory %q: %w", dir, ErrNotDirectory)
	}

	return false, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path, so readers observe either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file for %q: %w", path, err)
	}

	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName) //nolint:errcheck // Best-effort removal.
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // Already failing.
		cleanup()

		return fmt.Errorf("write %q: %w", tmpName, err)
	}

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close() //nolint:errcheck // Already failing.
		cleanup()

		return fmt.Errorf("chmod %q: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		cleanup()

		return fmt.Errorf("close %q: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		cleanup()

		return fmt.Errorf("rename %q to %q: %w", tmpName, path, err)
	}

	return nil
}
