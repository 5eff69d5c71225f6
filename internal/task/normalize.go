package task

import (
	"strings"
	"time"
)

// Normalize repairs records read from outside the store: blank tasks are
// dropped, missing or duplicate ids are re-issued, missing timestamps are set
// to now, and an UpdatedAt earlier than CreatedAt is raised to match.
func Normalize(tasks []Task, now time.Time, newID func() string) []Task {
	out := make([]Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		if t.ID == "" || seen[t.ID] {
			t.ID = newID()
		}
		seen[t.ID] = true

		if !t.Priority.Valid() {
			t.Priority = PriorityNone
		}
		fillTimestamps(&t, now)
		out = append(out, t.Clone())
	}
	return out
}

func fillTimestamps(t *Task, now time.Time) {
	if t.CreatedAt.IsZero() && t.UpdatedAt.IsZero() {
		t.CreatedAt = now
		t.UpdatedAt = now
		return
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = t.UpdatedAt
	}
	if t.UpdatedAt.IsZero() || t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}
}
