package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskline/internal/task"
)

// documentVersion is written into every saved document.
const documentVersion = 1

// document is the on-disk shape of task-storage.json.
type document struct {
	Version int          `json:"version"`
	Tasks   []taskRecord `json:"tasks"`
}

// legacyDocument is the older envelope that nested tasks under "state".
type legacyDocument struct {
	State struct {
		Tasks []taskRecord `json:"tasks"`
	} `json:"state"`
	Version int `json:"version"`
}

// taskRecord keeps dates as strings so one bad value does not reject the
// whole document.
type taskRecord struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	Priority  string  `json:"priority,omitempty"`
	DueDate   *string `json:"dueDate,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// ErrCorrupt marks a document that exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt task document")

// encodeDocument renders tasks in the current document format.
func encodeDocument(tasks []task.Task) ([]byte, error) {
	doc := document{Version: documentVersion, Tasks: make([]taskRecord, 0, len(tasks))}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, toRecord(t))
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize tasks: %w", err)
	}
	return data, nil
}

// decodeDocument accepts both the current and the legacy envelope. The
// returned tasks are not yet normalized. skipped counts fields that could
// not be parsed and were dropped.
func decodeDocument(data []byte) (tasks []task.Task, skipped int, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, 0, fmt.Errorf("%w: empty", ErrCorrupt)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var records []taskRecord
	switch {
	case fields["tasks"] != nil:
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		records = doc.Tasks
	case fields["state"] != nil:
		var doc legacyDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		records = doc.State.Tasks
	default:
		return nil, 0, fmt.Errorf("%w: no tasks field", ErrCorrupt)
	}

	tasks = make([]task.Task, 0, len(records))
	for _, r := range records {
		t, bad := fromRecord(r)
		skipped += bad
		tasks = append(tasks, t)
	}
	return tasks, skipped, nil
}

func toRecord(t task.Task) taskRecord {
	r := taskRecord{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Priority:  string(t.Priority),
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
	}
	if t.DueDate != nil {
		s := formatTime(*t.DueDate)
		r.DueDate = &s
	}
	return r
}

func fromRecord(r taskRecord) (task.Task, int) {
	bad := 0
	t := task.Task{
		ID:        r.ID,
		Text:      r.Text,
		Completed: r.Completed,
		Priority:  task.Priority(r.Priority),
	}
	if r.DueDate != nil && *r.DueDate != "" {
		if d, ok := parseTime(*r.DueDate); ok {
			t.DueDate = &d
		} else {
			bad++
		}
	}
	if ts, ok := parseTime(r.CreatedAt); ok {
		t.CreatedAt = ts
	} else if r.CreatedAt != "" {
		bad++
	}
	if ts, ok := parseTime(r.UpdatedAt); ok {
		t.UpdatedAt = ts
	} else if r.UpdatedAt != "" {
		bad++
	}
	return t, bad
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
