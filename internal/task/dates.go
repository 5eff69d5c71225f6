package task

import (
	"strings"
	"time"
)

// Midnight truncates t to the start of its local calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDateTerm resolves a relative term (today, tomorrow, yesterday,
// next week, next month, next year) against now. Anything else must be an
// ISO-8601 date or RFC 3339 timestamp; otherwise ok is false.
func ParseDateTerm(term string, now time.Time) (time.Time, bool) {
	normalized := strings.ToLower(strings.Join(strings.Fields(term), " "))
	if normalized == "" {
		return time.Time{}, false
	}

	today := Midnight(now)
	switch normalized {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "yesterday":
		return today.AddDate(0, 0, -1), true
	case "next week":
		return today.AddDate(0, 0, 7), true
	case "next month":
		return today.AddDate(0, 1, 0), true
	case "next year":
		return today.AddDate(1, 0, 0), true
	}

	raw := strings.TrimSpace(term)
	if d, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return d, true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
