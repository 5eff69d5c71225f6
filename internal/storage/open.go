package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"taskline/internal/task"
)

// Backends accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Backend is a repository that may hold resources.
type Backend interface {
	task.Repository
	io.Closer
}

// Open returns the configured backend rooted at dataDir.
func Open(backend, dataDir string, logger *log.Logger) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		f, err := NewJSONFile(dataDir, logger)
		if err != nil {
			return nil, err
		}
		return nopCloser{f}, nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, DatabaseName))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (use json or sqlite)", backend)
	}
}

// DataFile returns the file a backend writes inside dataDir.
func DataFile(backend, dataDir string) string {
	if strings.EqualFold(strings.TrimSpace(backend), BackendSQLite) {
		return filepath.Join(dataDir, DatabaseName)
	}
	return filepath.Join(dataDir, DocumentName)
}

type nopCloser struct {
	*JSONFile
}

func (nopCloser) Close() error { return nil }
