package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"taskline/internal/task"
)

// Export formats understood by Export.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

// Export renders tasks in the requested format.
func Export(tasks []task.Task, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return ExportJSON(tasks)
	case FormatCSV:
		return ExportCSV(tasks)
	case FormatMarkdown, "markdown":
		return ExportMarkdown(tasks), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (use json, csv or md)", format)
	}
}

// ExportJSON uses the same document format as the JSON backend, so the
// output can be dropped into a data directory as-is.
func ExportJSON(tasks []task.Task) ([]byte, error) {
	return encodeDocument(tasks)
}

// ExportCSV writes one row per task with a header.
func ExportCSV(tasks []task.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{{"ID", "Text", "Completed", "Priority", "DueDate", "CreatedAt", "UpdatedAt"}}
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			t.ID,
			t.Text,
			strconv.FormatBool(t.Completed),
			string(t.Priority),
			due,
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			t.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportMarkdown renders a checklist.
func ExportMarkdown(tasks []task.Task) []byte {
	var b strings.Builder
	b.WriteString("# Tasks\n\n")
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", mark, t.Text)
		var meta []string
		if t.Priority != task.PriorityNone {
			meta = append(meta, string(t.Priority))
		}
		if t.DueDate != nil {
			meta = append(meta, "due "+t.DueDate.Format("2006-01-02"))
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, " _(%s)_", strings.Join(meta, ", "))
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}
