// Package task holds the task model and the in-memory task store that the
// interaction layer mutates.
package task

import (
	"strings"
	"time"
)

// Priority levels. The zero value means no priority was set.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting: high 3, medium 2, low 1, unset 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known levels (unset included).
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts the level names and their first letters.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PriorityNone, true
	case "l", "low":
		return PriorityLow, true
	case "m", "medium", "med":
		return PriorityMedium, true
	case "h", "high":
		return PriorityHigh, true
	}
	return PriorityNone, false
}

// Task is a single entry in the list.
type Task struct {
	ID        string
	Text      string
	Completed bool
	Priority  Priority
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// IsDueOn reports whether the task is due on the calendar day of day.
func (t Task) IsDueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return sameDay(*t.DueDate, day)
}

// SortType names one of the derived orderings.
type SortType string

const (
	SortPriority     SortType = "priority"
	SortAlphabetical SortType = "alphabetical"
	SortDueDate      SortType = "dueDate"
	SortCreatedAt    SortType = "createdAt"
)

func cloneAll(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
