// Package fsutil holds the small file primitives the persistence layer
// relies on: atomic replace, a sibling .bak copy, and quarantining files
// that fail to parse.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// WriteFileAtomic writes data to path by writing to a temp file in the same
// directory, fsyncing, and then renaming into place.
//
// On Unix, rename is atomic. On Windows, rename does not overwrite existing
// files; in that case we fall back to removing the destination first (not
// atomic, but best-effort).
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}

	tmpPath := tmp.Name()
	discard := func(cause error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return cause
	}

	if err := tmp.Chmod(perm); err != nil {
		return discard(fmt.Errorf("chmod %s: %w", tmpPath, err))
	}
	if _, err := tmp.Write(data); err != nil {
		return discard(fmt.Errorf("write %s: %w", tmpPath, err))
	}
	if err := tmp.Sync(); err != nil {
		return discard(fmt.Errorf("fsync %s: %w", tmpPath, err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if runtime.GOOS == "windows" && replaceExisting(tmpPath, path) == nil {
			return syncDir(dir)
		}
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
	}

	return syncDir(dir)
}

// Windows cannot rename over an existing destination.
func replaceExisting(from, to string) error {
	if _, err := os.Stat(to); err != nil {
		return err
	}
	if err := os.Remove(to); err != nil {
		return err
	}
	return os.Rename(from, to)
}

// BackupPath returns the sibling backup path used by BestEffortBackup.
func BackupPath(path string) string {
	return path + ".bak"
}

// BestEffortBackup tries to write a `.bak` alongside path with the current
// contents, without failing the calling operation.
func BestEffortBackup(path string, perm os.FileMode) {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return
	}
	_ = WriteFileAtomic(BackupPath(path), data, perm)
}

// MoveAside renames path to path.corrupt.<timestamp> so a fresh file can take
// its place, and returns the new location. A missing file is not an error.
func MoveAside(path string, now time.Time) (string, error) {
	aside := fmt.Sprintf("%s.corrupt.%s", path, now.Format("20060102-150405"))
	if err := os.Rename(path, aside); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("move %s aside: %w", path, err)
	}
	return aside, nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return nil
	}
	defer f.Close()
	_ = f.Sync()
	return nil
}
