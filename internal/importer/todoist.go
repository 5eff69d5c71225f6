package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"taskline/internal/task"
)

// Todoist reads Todoist CSV exports.
type Todoist struct{}

// Name returns "todoist".
func (*Todoist) Name() string { return "todoist" }

// Parse reads the CSV header, then keeps rows whose TYPE is "task".
func (*Todoist) Parse(r io.Reader) (Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return Batch{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		cols[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"TYPE", "CONTENT"} {
		if _, ok := cols[required]; !ok {
			return Batch{}, fmt.Errorf("missing required column: %s", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var batch Batch
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Batch{}, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		if !strings.EqualFold(field(record, "TYPE"), "task") {
			batch.Skipped++
			continue
		}
		text := field(record, "CONTENT")
		if text == "" {
			batch.Skipped++
			continue
		}
		batch.Tasks = append(batch.Tasks, task.Task{
			Text:     text,
			Priority: todoistPriority(field(record, "PRIORITY")),
			DueDate:  parseTodoistDate(field(record, "DATE")),
		})
	}
	return batch, nil
}

// todoistPriority maps Todoist's 1 (urgent) through 4 (normal).
func todoistPriority(p string) task.Priority {
	switch p {
	case "1", "2":
		return task.PriorityHigh
	case "3":
		return task.PriorityMedium
	case "4":
		return task.PriorityLow
	default:
		return task.PriorityNone
	}
}

var todoistDateLayouts = []string{
	"2006-01-02",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"01/02/2006",
}

// parseTodoistDate returns local midnight of the date, or nil.
func parseTodoistDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range todoistDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			d := task.Midnight(t)
			return &d
		}
	}
	return nil
}
