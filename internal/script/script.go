// Package script finds helper scripts in a directory and runs them.
package script

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Script is a runnable file discovered under the scripts directory.
type Script struct {
	ID          string
	Name        string
	Path        string
	Description string
}

// DefaultInterpreters maps file extensions to the command that runs them.
func DefaultInterpreters() map[string]string {
	return map[string]string{".py": "python3"}
}

var languageNames = map[string]string{
	".py":  "Python",
	".sh":  "Shell",
	".rb":  "Ruby",
	".js":  "Node",
	".pl":  "Perl",
	".lua": "Lua",
}

// Discover walks dir recursively and returns every file whose extension has
// an interpreter. Hidden directories are skipped; unreadable ones are logged
// and skipped. A missing dir is created and yields no scripts.
func Discover(dir string, interpreters map[string]string, logger *log.Logger) ([]Script, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scripts dir: %w", err)
	}

	var scripts []Script
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Warn("skipping unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, ok := interpreters[ext]; !ok {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = d.Name()
		}
		scripts = append(scripts, Script{
			ID:          uuid.NewString(),
			Name:        d.Name(),
			Path:        path,
			Description: describe(ext, interpreters[ext], rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan scripts dir: %w", err)
	}
	return scripts, nil
}

func describe(ext, interpreter, rel string) string {
	lang, ok := languageNames[ext]
	if !ok {
		lang = interpreter
	}
	return fmt.Sprintf("%s script: %s", lang, filepath.ToSlash(rel))
}
