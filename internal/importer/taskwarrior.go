package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"taskline/internal/task"
)

// maxNDJSONLine bounds one line of newline-delimited input.
const maxNDJSONLine = 4 << 20

// Taskwarrior reads `task export` output, either a JSON array or one
// object per line.
type Taskwarrior struct{}

type taskwarriorRecord struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Due         string `json:"due"`
	Entry       string `json:"entry"`
	Modified    string `json:"modified"`
	End         string `json:"end"`
}

// Name returns "taskwarrior".
func (*Taskwarrior) Name() string { return "taskwarrior" }

// Parse sniffs the first non-space byte to pick the array or NDJSON reader.
func (*Taskwarrior) Parse(r io.Reader) (Batch, error) {
	br := bufio.NewReader(r)
	prefix, first, err := firstNonSpace(br)
	if errors.Is(err, io.EOF) {
		return Batch{}, fmt.Errorf("empty input")
	}
	if err != nil {
		return Batch{}, fmt.Errorf("failed to read input: %w", err)
	}

	rest := io.MultiReader(bytes.NewReader(prefix), br)
	if first == '[' {
		return parseTaskwarriorArray(rest)
	}
	return parseTaskwarriorLines(rest)
}

func firstNonSpace(r *bufio.Reader) ([]byte, byte, error) {
	var prefix []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return prefix, 0, err
		}
		prefix = append(prefix, b)
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return prefix, b, nil
	}
}

func parseTaskwarriorArray(r io.Reader) (Batch, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return Batch{}, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	if tok != json.Delim('[') {
		return Batch{}, fmt.Errorf("failed to parse JSON array: expected '['")
	}

	var batch Batch
	for n := 1; dec.More(); n++ {
		var rec taskwarriorRecord
		if err := dec.Decode(&rec); err != nil {
			return Batch{}, fmt.Errorf("failed to decode task %d: %w", n, err)
		}
		batch.add(rec)
	}
	if _, err := dec.Token(); err != nil {
		return Batch{}, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	return batch, nil
}

func parseTaskwarriorLines(r io.Reader) (Batch, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxNDJSONLine)

	var batch Batch
	lineNo, records := 0, 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec taskwarriorRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return Batch{}, fmt.Errorf("invalid JSON on line %d: %w", lineNo, err)
		}
		records++
		batch.add(rec)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Batch{}, fmt.Errorf("line %d exceeds %d bytes", lineNo+1, maxNDJSONLine)
		}
		return Batch{}, fmt.Errorf("failed to read NDJSON: %w", err)
	}
	if records == 0 {
		return Batch{}, fmt.Errorf("empty input")
	}
	return batch, nil
}

// add converts one record, skipping deleted and blank entries.
func (b *Batch) add(rec taskwarriorRecord) {
	text := strings.TrimSpace(rec.Description)
	if rec.Status == "deleted" || text == "" {
		b.Skipped++
		return
	}

	t := task.Task{
		Text:      text,
		Completed: rec.Status == "completed",
		Priority:  taskwarriorPriority(rec.Priority),
	}
	if due := parseTaskwarriorDate(rec.Due); due != nil {
		d := task.Midnight(*due)
		t.DueDate = &d
	}
	if entry := parseTaskwarriorDate(rec.Entry); entry != nil {
		t.CreatedAt = *entry
	}
	for _, s := range []string{rec.Modified, rec.End} {
		if at := parseTaskwarriorDate(s); at != nil && at.After(t.UpdatedAt) {
			t.UpdatedAt = *at
		}
	}
	b.Tasks = append(b.Tasks, t)
}

func taskwarriorPriority(p string) task.Priority {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case "H":
		return task.PriorityHigh
	case "M":
		return task.PriorityMedium
	case "L":
		return task.PriorityLow
	default:
		return task.PriorityNone
	}
}

var taskwarriorDateLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTaskwarriorDate reads the ISO 8601 basic form Taskwarrior writes
// (20140928T211124Z) and a few looser variants, returning local time.
func parseTaskwarriorDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range taskwarriorDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			local := t.Local()
			return &local
		}
	}
	return nil
}
