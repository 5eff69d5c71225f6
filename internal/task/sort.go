package task

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortByPriority orders tasks high to low. Ties keep their relative order.
func SortByPriority(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		return b.Priority.Rank() - a.Priority.Rank()
	})
}

// SortAlphabetically orders tasks by text using the collator's locale rules.
// A nil collator falls back to case-insensitive byte order.
func SortAlphabetically(tasks []Task, c *collate.Collator) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if c == nil {
			return strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text))
		}
		return c.CompareString(a.Text, b.Text)
	})
}

// SortByDueDate orders tasks earliest first; undated tasks go last.
func SortByDueDate(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return a.DueDate.Compare(*b.DueDate)
	})
}

// SortByCreatedAt orders tasks newest first.
func SortByCreatedAt(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// NewCollator builds a case-insensitive collator for the given BCP 47 tag.
// Unknown tags fall back to English.
func NewCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return collate.New(tag, collate.IgnoreCase)
}
