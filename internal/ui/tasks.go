package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"taskline/internal/session"
	"taskline/internal/task"
)

// taskTable renders the visible slice of the task list.
type taskTable struct {
	styles *Styles
	rows   int
	width  int
}

// visibleWindow returns the half-open range of rows to draw so the
// selection stays on screen.
func visibleWindow(selected, total, rows int) (start, end int) {
	if rows <= 0 || total <= rows {
		return 0, total
	}
	start = selected - rows/2
	start = max(0, min(start, total-rows))
	return start, start + rows
}

// View renders the table for snap as of now.
func (t taskTable) View(snap session.Snapshot, now time.Time) string {
	if len(snap.Tasks) == 0 {
		return t.styles.EmptyStyle.Render("  No tasks yet. Press 'a' to add one.")
	}

	start, end := visibleWindow(snap.Selected, len(snap.Tasks), t.rows)
	visible := snap.Tasks[start:end]

	// P, S and Due take a fixed share; the rest goes to the text column.
	textWidth := max(t.width-24, 10)

	rows := make([][]string, 0, len(visible))
	for _, tk := range visible {
		status := " "
		if tk.Completed {
			status = "✓"
		}
		rows = append(rows, []string{
			priorityGlyph(tk.Priority),
			status,
			runewidth.Truncate(tk.Text, textWidth, "…"),
			formatDue(tk.DueDate, now),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.styles.ColorMuted)).
		Headers("P", "S", "Task", "Due").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.styles.HeaderStyle
			}
			idx := start + row
			if idx < 0 || idx >= len(snap.Tasks) {
				return t.styles.CellStyle
			}
			return t.cellStyle(snap, idx, col, now)
		})

	var b strings.Builder
	if start > 0 {
		b.WriteString(t.styles.ScrollHintStyle.Render(fmt.Sprintf("  ↑ %d more above", start)))
		b.WriteString("\n")
	}
	b.WriteString(tbl.Render())
	if rest := len(snap.Tasks) - end; rest > 0 {
		b.WriteString("\n")
		b.WriteString(t.styles.ScrollHintStyle.Render(fmt.Sprintf("  ↓ %d more below", rest)))
	}
	return b.String()
}

func (t taskTable) cellStyle(snap session.Snapshot, idx, col int, now time.Time) lipgloss.Style {
	tk := snap.Tasks[idx]
	base := t.styles.CellStyle

	if snap.HasSelection && idx == snap.Selected {
		if snap.Mode == session.ModeReorder {
			return base.Inherit(t.styles.TaskMovingStyle)
		}
		return base.Inherit(t.styles.TaskSelectedStyle)
	}

	switch col {
	case 0:
		return base.Inherit(t.priorityStyle(tk.Priority))
	case 1:
		return base.Foreground(t.styles.ColorSuccess)
	case 2:
		if tk.Completed {
			return base.Inherit(t.styles.TaskDoneStyle)
		}
		return base.Inherit(t.styles.TaskPendingStyle)
	case 3:
		return base.Inherit(t.dueStyle(tk.DueDate, now))
	}
	return base
}

func (t taskTable) priorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return t.styles.PriorityHighStyle
	case task.PriorityMedium:
		return t.styles.PriorityMediumStyle
	case task.PriorityLow:
		return t.styles.PriorityLowStyle
	}
	return lipgloss.NewStyle()
}

func (t taskTable) dueStyle(due *time.Time, now time.Time) lipgloss.Style {
	if due == nil {
		return t.styles.DueDateFutureStyle
	}
	today := task.Midnight(now)
	day := task.Midnight(*due)
	switch {
	case day.Before(today):
		return t.styles.DueDateOverdueStyle
	case day.Equal(today):
		return t.styles.DueDateTodayStyle
	}
	return t.styles.DueDateFutureStyle
}

// priorityGlyph returns the arrow shown in the P column.
func priorityGlyph(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "↑"
	case task.PriorityMedium:
		return "→"
	case task.PriorityLow:
		return "↓"
	}
	return " "
}

// formatDue returns a compact due date relative to now.
func formatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return "-"
	}
	today := task.Midnight(now)
	day := task.Midnight(due.In(now.Location()))
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return fmt.Sprintf("%d/%d", day.Month(), day.Day())
}
