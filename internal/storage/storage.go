// Package storage persists the task collection. JSONFile is the default
// backend; SQLite is an alternative; Queue serializes access to either one
// off the UI goroutine.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"taskline/internal/fsutil"
	"taskline/internal/task"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	// DocumentName is the JSON document inside the data directory.
	DocumentName = "task-storage.json"
	// DatabaseName is the SQLite database inside the data directory.
	DatabaseName = "task-storage.db"
)

// JSONFile stores the whole collection as one JSON document.
type JSONFile struct {
	dataDir string
	logger  *log.Logger
	now     func() time.Time
}

// NewJSONFile creates the data directory if needed.
func NewJSONFile(dataDir string, logger *log.Logger) (*JSONFile, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &JSONFile{dataDir: dataDir, logger: logger, now: time.Now}, nil
}

// SetNowFunc overrides the clock used for normalization and quarantine
// names. Passing nil resets it to time.Now.
func (f *JSONFile) SetNowFunc(now func() time.Time) {
	if now == nil {
		f.now = time.Now
		return
	}
	f.now = now
}

// Path returns the document location.
func (f *JSONFile) Path() string {
	return filepath.Join(f.dataDir, DocumentName)
}

// DataDir returns the directory holding the document.
func (f *JSONFile) DataDir() string {
	return f.dataDir
}

// Save replaces the document atomically, keeping the previous version as a
// .bak sibling.
func (f *JSONFile) Save(ctx context.Context, tasks []task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeDocument(tasks)
	if err != nil {
		return err
	}

	path := f.Path()
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", DocumentName, err)
	}
	return nil
}

// Load reads the document. A missing file yields task.ErrNoSavedState. A
// damaged one is restored from .bak when possible; otherwise it is moved
// aside and ErrCorrupt is returned.
func (f *JSONFile) Load(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := f.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, task.ErrNoSavedState
		}
		return nil, fmt.Errorf("read %s: %w", DocumentName, err)
	}

	tasks, skipped, err := decodeDocument(data)
	if err != nil {
		return f.recover(ctx, err)
	}
	if skipped > 0 {
		f.logger.Warn("dropped unparseable fields", "file", path, "count", skipped)
	}
	return task.Normalize(tasks, f.now(), uuid.NewString), nil
}

func (f *JSONFile) recover(ctx context.Context, cause error) ([]task.Task, error) {
	path := f.Path()

	if data, err := os.ReadFile(fsutil.BackupPath(path)); err == nil {
		if tasks, _, err := decodeDocument(data); err == nil {
			aside, _ := fsutil.MoveAside(path, f.now())
			tasks = task.Normalize(tasks, f.now(), uuid.NewString)
			if err := f.Save(ctx, tasks); err != nil {
				f.logger.Error("rewrite recovered document", "err", err)
			}
			f.logger.Warn("recovered tasks from backup", "cause", cause, "moved", aside)
			return tasks, nil
		}
	}

	aside, err := fsutil.MoveAside(path, f.now())
	if err != nil {
		f.logger.Error("quarantine document", "err", err)
	}
	f.logger.Error("task document unreadable", "cause", cause, "moved", aside)
	return nil, fmt.Errorf("%w (original moved to %s)", cause, aside)
}
