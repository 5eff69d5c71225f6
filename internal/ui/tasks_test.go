package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"taskline/internal/session"
	"taskline/internal/task"
)

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		name                string
		selected, total     int
		rows                int
		wantStart, wantEnd int
	}{
		{"fits", 2, 5, 9, 0, 5},
		{"top", 0, 20, 9, 0, 9},
		{"middle", 10, 20, 9, 6, 15},
		{"bottom", 19, 20, 9, 11, 20},
		{"unbounded", 3, 4, 0, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := visibleWindow(tt.selected, tt.total, tt.rows)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("visibleWindow(%d, %d, %d) = %d, %d, want %d, %d",
					tt.selected, tt.total, tt.rows, start, end, tt.wantStart, tt.wantEnd)
			}
			if tt.total > 0 && (tt.selected < start || tt.selected >= end) {
				t.Errorf("selection %d outside window [%d, %d)", tt.selected, start, end)
			}
		})
	}
}

func TestFormatDue(t *testing.T) {
	at := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
		return &v
	}
	tests := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"none", nil, "-"},
		{"today", at(2024, 3, 15), "Today"},
		{"tomorrow", at(2024, 3, 16), "Tomorrow"},
		{"yesterday", at(2024, 3, 14), "Yesterday"},
		{"later", at(2024, 4, 2), "4/2"},
		{"earlier", at(2023, 12, 25), "12/25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDue(tt.due, fixedNow); got != tt.want {
				t.Errorf("formatDue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPriorityGlyph(t *testing.T) {
	tests := map[task.Priority]string{
		task.PriorityHigh:   "↑",
		task.PriorityMedium: "→",
		task.PriorityLow:    "↓",
		task.PriorityNone:   " ",
	}
	for p, want := range tests {
		if got := priorityGlyph(p); got != want {
			t.Errorf("priorityGlyph(%q) = %q, want %q", p, got, want)
		}
	}
}

func TestTaskTable_Empty(t *testing.T) {
	setupTest(t)
	tbl := taskTable{styles: createTestStyles(), rows: 9, width: 80}

	out := tbl.View(session.Snapshot{}, fixedNow)
	if !strings.Contains(out, "No tasks yet") {
		t.Errorf("empty table = %q", out)
	}
}

func TestTaskTable_Rows(t *testing.T) {
	setupTest(t)
	store := createTestStore(t, "Buy groceries", "Write tests")
	store.NavigateDown()
	store.Toggle()
	store.SetPriority(task.PriorityHigh)
	m := session.NewMachine(store, session.DefaultKeyMap(), session.DefaultOptions(), nil)

	tbl := taskTable{styles: createTestStyles(), rows: 9, width: 80}
	out := tbl.View(m.Snapshot(), fixedNow)

	for _, want := range []string{"Task", "Due", "Buy groceries", "Write tests", "Today", "✓", "↑", "→"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "more above") || strings.Contains(out, "more below") {
		t.Errorf("unexpected scroll hint:\n%s", out)
	}
}

func TestTaskTable_ScrollHints(t *testing.T) {
	setupTest(t)
	var texts []string
	for i := range 20 {
		texts = append(texts, fmt.Sprintf("task %02d", i))
	}
	store := createTestStore(t, texts...)
	for range 10 {
		store.NavigateDown()
	}
	m := session.NewMachine(store, session.DefaultKeyMap(), session.DefaultOptions(), nil)

	tbl := taskTable{styles: createTestStyles(), rows: 9, width: 80}
	out := tbl.View(m.Snapshot(), fixedNow)

	if !strings.Contains(out, "↑ 6 more above") {
		t.Errorf("missing above hint:\n%s", out)
	}
	if !strings.Contains(out, "↓ 5 more below") {
		t.Errorf("missing below hint:\n%s", out)
	}
	if !strings.Contains(out, "task 10") || strings.Contains(out, "task 05") || strings.Contains(out, "task 15") {
		t.Errorf("wrong window:\n%s", out)
	}
}

func TestTaskTable_TruncatesLongText(t *testing.T) {
	setupTest(t)
	store := createTestStore(t, strings.Repeat("long ", 40))
	m := session.NewMachine(store, session.DefaultKeyMap(), session.DefaultOptions(), nil)

	tbl := taskTable{styles: createTestStyles(), rows: 9, width: 60}
	out := tbl.View(m.Snapshot(), fixedNow)
	if !strings.Contains(out, "…") {
		t.Errorf("long text not truncated:\n%s", out)
	}
}
