package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"taskline/internal/session"
	"taskline/internal/task"
)

const progressBarWidth = 20

// renderTitleBar creates the top bar with the app name and the date.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" taskline ")
	date := a.styles.DateStyle.Render(a.clock.Format("Mon Jan 2 · 15:04"))

	spacer := max(a.width-lipgloss.Width(title)-lipgloss.Width(date), 2)
	return title + strings.Repeat(" ", spacer) + date
}

// renderPanel renders the mode-specific panel under the task table.
func (a *App) renderPanel(snap session.Snapshot) string {
	width := max(a.width-2, 30)
	panel := a.styles.PanelStyle.Width(width - 2)

	switch snap.Mode {
	case session.ModeAdd:
		return panel.Render(a.spinner.View() + " " + a.styles.PanelTitleStyle.Render("New task") + "\n" +
			a.styles.InputPromptStyle.Render("+ ") + a.input.View())

	case session.ModeEdit:
		return panel.Render(a.styles.PanelTitleStyle.Render("Edit task") + "\n" +
			a.styles.InputPromptStyle.Render("> ") + a.input.View())

	case session.ModeDate:
		return panel.Render(a.styles.PanelTitleStyle.Render("Due date") + "\n" +
			a.styles.InputPromptStyle.Render("> ") + a.input.View() + "\n" +
			a.styles.MutedStyle.Render("today · tomorrow · yesterday · next week · next month · next year · YYYY-MM-DD"))

	case session.ModePriority:
		var b strings.Builder
		b.WriteString(a.styles.PanelTitleStyle.Render("Set priority"))
		b.WriteString("\n")
		for _, opt := range []struct {
			keys string
			p    task.Priority
		}{
			{"1/l", task.PriorityLow},
			{"2/m", task.PriorityMedium},
			{"3/h", task.PriorityHigh},
		} {
			b.WriteString(a.styles.MenuItemStyle.Render(fmt.Sprintf("[%s] %s %s", opt.keys, priorityGlyph(opt.p), opt.p)))
			b.WriteString("\n")
		}
		return panel.Render(strings.TrimRight(b.String(), "\n"))

	case session.ModeSort:
		var b strings.Builder
		b.WriteString(a.styles.PanelTitleStyle.Render("Sort tasks"))
		b.WriteString("\n")
		for i, opt := range session.SortOptions {
			line := fmt.Sprintf("[%s] %s: %s", opt.Key, opt.Label, opt.Description)
			if i == snap.SortCursor {
				b.WriteString(a.styles.MenuSelectedStyle.Render("▸ " + line))
			} else {
				b.WriteString(a.styles.MenuItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
		return panel.Render(strings.TrimRight(b.String(), "\n"))

	case session.ModeScripts:
		return panel.Render(a.renderScripts(snap, width-4))
	}
	return ""
}

func (a *App) renderScripts(snap session.Snapshot, width int) string {
	var b strings.Builder
	title := "Scripts"
	if snap.Running {
		title = a.spinner.View() + " " + title
	}
	b.WriteString(a.styles.PanelTitleStyle.Render(title))
	b.WriteString("\n")

	if len(snap.Scripts) == 0 {
		b.WriteString(a.styles.MutedStyle.Render(fmt.Sprintf("No scripts found in %s", a.scriptsDir)))
	}
	for i, s := range snap.Scripts {
		line := runewidth.Truncate(fmt.Sprintf("%s  %s", s.Name, s.Description), width-2, "…")
		if i == snap.ScriptCursor {
			b.WriteString(a.styles.MenuSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(a.styles.MenuItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if out := strings.TrimSpace(snap.ScriptOutput); out != "" {
		lines := strings.Split(out, "\n")
		if len(lines) > 8 {
			lines = lines[len(lines)-8:]
		}
		b.WriteString(a.styles.OutputStyle.Width(width).Render(strings.Join(lines, "\n")))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderStatusBar shows daily progress, the mode and the status message.
func (a *App) renderStatusBar(snap session.Snapshot) string {
	p := task.Progress(snap.Tasks, a.clock)
	filled := p.Percent() * progressBarWidth / 100
	bar := a.styles.ProgressFullStyle.Render(strings.Repeat("█", filled)) +
		a.styles.ProgressEmptyStyle.Render(strings.Repeat("░", progressBarWidth-filled))
	progress := fmt.Sprintf("%s Daily tasks completed: %d/%d", bar, p.Completed, p.Active)

	status := a.styles.StatusIdleStyle.Render("Waiting for input...")
	if snap.Status != "" {
		status = a.styles.StatusStyle.Render(snap.Status)
	}

	clock := a.styles.DateStyle.Render(formatClock(a.clock))
	return progress + "  " + a.styles.ModeBadge(snap.Mode) + " " + status + "  " + clock
}

// renderConfirmDelete renders the delete confirmation overlay.
func (a *App) renderConfirmDelete(snap session.Snapshot) string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	var text string
	if snap.HasSelection {
		text = snap.Tasks[snap.Selected].Text
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Delete task?"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.TaskPendingStyle.Render(runewidth.Truncate(text, overlayWidth-8, "…")))
	b.WriteString("\n\n")
	b.WriteString(a.styles.MutedStyle.Render("[y] delete    [n/esc] cancel"))

	content := a.styles.OverlayStyle.Width(overlayWidth).Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderGoodbye shows an exit message with today's progress.
func (a *App) renderGoodbye() string {
	p := task.Progress(a.store.Tasks(), a.now())

	var b strings.Builder
	b.WriteString("\n  See you later!\n\n")
	if p.Active > 0 {
		fmt.Fprintf(&b, "  Today's progress: %d/%d (%d%%)\n\n", p.Completed, p.Active, p.Percent())
	}
	return b.String()
}

func formatClock(t time.Time) string {
	return t.Format("15:04")
}
