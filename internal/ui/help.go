package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"taskline/internal/session"
)

// markdownRenderer renders markdown for terminal views and recreates the
// renderer when the wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown into styled terminal text wrapped at width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(width, 24)

	if r.renderer == nil || r.width != wrapWidth {
		style := "dark"
		if lipgloss.ColorProfile() == termenv.Ascii {
			style = "notty"
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// HelpOverlay renders the full key reference.
type HelpOverlay struct {
	width    int
	height   int
	styles   *Styles
	keys     session.KeyMap
	markdown markdownRenderer
}

// NewHelpOverlay creates a new help overlay.
func NewHelpOverlay(styles *Styles, keys session.KeyMap) *HelpOverlay {
	return &HelpOverlay{styles: styles, keys: keys}
}

// SetSize sets the overlay dimensions.
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Markdown returns the key reference as a markdown document.
func (h *HelpOverlay) Markdown() string {
	k := h.keys
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{k.Up, k.Down, k.Top, k.Bottom}},
		{"Tasks", []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Copy}},
		{"Priority and dates", []key.Binding{k.PriorityLow, k.PriorityMedium, k.PriorityHigh, k.PriorityMode, k.DateMode}},
		{"Modes", []key.Binding{k.SortMode, k.ReorderMode, k.ScriptsMode}},
		{"General", []key.Binding{k.Help, k.Quit}},
	}

	var b strings.Builder
	b.WriteString("# Keyboard shortcuts\n\n")
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n\n| Key | Action |\n| --- | --- |\n", s.title)
		for _, binding := range s.bindings {
			if !binding.Enabled() {
				continue
			}
			h := binding.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("## Due dates\n\n")
	b.WriteString("Type `today`, `tomorrow`, `yesterday`, `next week`, `next month`, ")
	b.WriteString("`next year` or a date such as `2024-03-15`. Anything else clears the date.\n")
	return b.String()
}

// View renders the help overlay.
func (h *HelpOverlay) View() string {
	overlayWidth := 64
	if h.width > 0 {
		overlayWidth = min(64, max(28, h.width-4))
	}

	style := h.styles.PanelStyle.Width(overlayWidth)
	body := h.markdown.render(h.Markdown(), overlayWidth-4)
	footer := h.styles.MutedStyle.Italic(true).Render("Press ? or Esc to close")

	content := style.Render(body + "\n\n" + footer)
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, content)
}
