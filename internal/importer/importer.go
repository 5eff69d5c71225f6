// Package importer reads task exports from other tools and turns them into
// tasks for the store.
package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"taskline/internal/task"
)

// Batch is the outcome of parsing one export.
type Batch struct {
	Tasks   []task.Task
	Skipped int // rows that were not tasks, blank, or deleted
}

// Result summarizes an import into a store.
type Result struct {
	Imported int
	Skipped  int
}

// Importer parses one export format. Parsed tasks carry no id; the store
// assigns one on Append.
type Importer interface {
	Parse(r io.Reader) (Batch, error)
	Name() string
}

var importers = map[string]func() Importer{
	"todoist":     func() Importer { return &Todoist{} },
	"taskwarrior": func() Importer { return &Taskwarrior{} },
}

// Get returns the importer for format, or nil.
func Get(format string) Importer {
	if mk, ok := importers[strings.ToLower(strings.TrimSpace(format))]; ok {
		return mk()
	}
	return nil
}

// SupportedFormats lists the accepted format names.
func SupportedFormats() []string {
	names := make([]string, 0, len(importers))
	for name := range importers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Import parses r and appends the tasks to store in one write.
func Import(imp Importer, r io.Reader, store *task.Store) (Result, error) {
	batch, err := imp.Parse(r)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", imp.Name(), err)
	}
	added := store.Append(batch.Tasks...)
	return Result{
		Imported: added,
		Skipped:  batch.Skipped + len(batch.Tasks) - added,
	}, nil
}
