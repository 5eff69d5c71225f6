// Package logging builds the charmbracelet/log loggers used at runtime.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"taskline/internal/config"
)

// AppName prefixes every log line.
const AppName = "taskline"

// Console returns a text logger for CLI commands.
func Console(w io.Writer, cfg config.LoggingConfig) (*log.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          AppName,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Formatter:       log.TextFormatter,
	}), nil
}

// FileLogger writes logfmt lines to a file. It is used while the TUI owns
// the terminal.
type FileLogger struct {
	*log.Logger
	file *os.File
}

// OpenFile appends to path, creating it and its directory as needed.
func OpenFile(path string, cfg config.LoggingConfig) (*FileLogger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		Prefix:          AppName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
	})
	return &FileLogger{Logger: logger, file: f}, nil
}

// Path returns the file being written.
func (l *FileLogger) Path() string {
	return l.file.Name()
}

// Close flushes and closes the file.
func (l *FileLogger) Close() error {
	return l.file.Close()
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func parseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("parse logging level %q: %w", s, err)
	}
	return level, nil
}
