package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskline/internal/config"
	"taskline/internal/session"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary   lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	// Title bar
	TitleStyle lipgloss.Style
	DateStyle  lipgloss.Style
	PaneStyle  lipgloss.Style

	// Mode panels and overlays
	PanelStyle      lipgloss.Style
	PanelTitleStyle lipgloss.Style
	OverlayStyle    lipgloss.Style

	// Task table
	HeaderStyle       lipgloss.Style
	CellStyle         lipgloss.Style
	TaskDoneStyle     lipgloss.Style
	TaskPendingStyle  lipgloss.Style
	TaskSelectedStyle lipgloss.Style
	TaskMovingStyle   lipgloss.Style
	ScrollHintStyle   lipgloss.Style
	EmptyStyle        lipgloss.Style

	// Priority badge styles
	PriorityHighStyle   lipgloss.Style
	PriorityMediumStyle lipgloss.Style
	PriorityLowStyle    lipgloss.Style

	// Due date indicator styles
	DueDateOverdueStyle lipgloss.Style
	DueDateTodayStyle   lipgloss.Style
	DueDateFutureStyle  lipgloss.Style

	// Status bar
	ModeBadgeStyle     lipgloss.Style
	StatusStyle        lipgloss.Style
	StatusIdleStyle    lipgloss.Style
	ProgressFullStyle  lipgloss.Style
	ProgressEmptyStyle lipgloss.Style

	// Menus and script output
	MenuItemStyle     lipgloss.Style
	MenuSelectedStyle lipgloss.Style
	OutputStyle       lipgloss.Style

	// Input
	InputPromptStyle lipgloss.Style
	MutedStyle       lipgloss.Style
}

// NewStyles creates a new Styles instance from the given config.
// If a theme color is empty, it uses the appropriate default.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#7C3AED")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")
	s.ColorAccent = colorOrDefault(theme.Accent, "#3B82F6")

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorWarning = lipgloss.Color("#F59E0B")
	s.ColorSuccess = lipgloss.Color("#10B981")

	s.ColorBg = colorOrDefault(theme.Background, "#1F2937")
	s.ColorBgLight = lipgloss.Color("#374151")
	s.ColorText = colorOrDefault(theme.Text, "#F9FAFB")
	s.ColorTextMuted = lipgloss.Color("#9CA3AF")

	s.initComponentStyles()

	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)

	s.PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.PanelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary)

	s.OverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorDanger).
		Padding(1, 2)

	s.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorAccent).
		Padding(0, 1)

	s.CellStyle = lipgloss.NewStyle().
		Padding(0, 1)

	s.TaskDoneStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Strikethrough(true)

	s.TaskPendingStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.TaskSelectedStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.TaskMovingStyle = lipgloss.NewStyle().
		Background(s.ColorWarning).
		Foreground(s.ColorBg).
		Bold(true)

	s.ScrollHintStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	s.EmptyStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	s.PriorityHighStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.PriorityMediumStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning)

	s.PriorityLowStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess)

	s.DueDateOverdueStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.DueDateTodayStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning)

	s.DueDateFutureStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.ModeBadgeStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorBg).
		Background(s.ColorAccent).
		Padding(0, 1)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.StatusIdleStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.ProgressFullStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess)

	s.ProgressEmptyStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)

	s.MenuItemStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		PaddingLeft(2)

	s.MenuSelectedStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.OutputStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(s.ColorMuted)

	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.MutedStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)
}

// ModeBadge renders the status bar label for a mode.
func (s *Styles) ModeBadge(m session.Mode) string {
	var label string
	switch m {
	case session.ModeList:
		label = "TASKS"
	case session.ModeAdd:
		label = "ADD"
	case session.ModeEdit:
		label = "EDIT"
	case session.ModePriority:
		label = "PRIORITY"
	case session.ModeDate:
		label = "DUE DATE"
	case session.ModeScripts:
		label = "SCRIPTS"
	case session.ModeSort:
		label = "SORT"
	case session.ModeDeleteConfirm:
		label = "DELETE"
	case session.ModeReorder:
		label = "REORDER"
	}
	style := s.ModeBadgeStyle
	switch m {
	case session.ModeDeleteConfirm:
		style = style.Background(s.ColorDanger)
	case session.ModeReorder:
		style = style.Background(s.ColorWarning)
	}
	return style.Render(label)
}
