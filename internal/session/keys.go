package session

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"taskline/internal/config"
)

// Key is one decoded keystroke: a named key such as "up", "enter", "esc",
// "tab", "backspace" or "ctrl+c", or a single printable character (" " is
// the space bar).
type Key string

const (
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyEnter     Key = "enter"
	KeyEsc       Key = "esc"
	KeyTab       Key = "tab"
	KeyBackspace Key = "backspace"
	KeySpace     Key = " "
	KeyCtrlC     Key = "ctrl+c"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// label returns the help text for a configurable key.
func label(customKeys, def string) string {
	if strings.TrimSpace(customKeys) == "" {
		return def
	}
	keys := parseKeys(customKeys)
	for i, k := range keys {
		if k == " " {
			keys[i] = "space"
		}
	}
	return strings.Join(keys, "/")
}

// Matches reports whether k triggers binding b.
func Matches(k Key, b key.Binding) bool {
	if !b.Enabled() {
		return false
	}
	for _, s := range b.Keys() {
		if s == string(k) {
			return true
		}
	}
	return false
}

// KeyMap holds every binding the machine reacts to.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	Add            key.Binding
	Edit           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	Copy           key.Binding
	PriorityLow    key.Binding
	PriorityMedium key.Binding
	PriorityHigh   key.Binding

	PriorityMode key.Binding
	DateMode     key.Binding
	ScriptsMode  key.Binding
	SortMode     key.Binding
	ReorderMode  key.Binding

	Confirm key.Binding
	Cancel  key.Binding

	// Fixed keys inside sub-modes.
	PickLow    key.Binding
	PickMedium key.Binding
	PickHigh   key.Binding
	Yes        key.Binding
	No         key.Binding
	Back       key.Binding
	Apply      key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(&config.KeysConfig{})
}

// NewKeyMap creates bindings from config, falling back to defaults for
// anything left empty.
func NewKeyMap(cfg *config.KeysConfig) KeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	confirm := parseKeys(cfg.Confirm, "enter")
	reorder := parseKeys(cfg.ReorderMode, "tab")
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "esc", "q", "ctrl+c")...),
			key.WithHelp(label(cfg.Quit, "q/esc"), "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp(label(cfg.Help, "?"), "help"),
		),
		Up: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Up, "k", "up")...),
			key.WithHelp(label(cfg.Up, "↑/k"), "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Down, "j", "down")...),
			key.WithHelp(label(cfg.Down, "↓/j"), "down"),
		),
		Top: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Top, "g")...),
			key.WithHelp(label(cfg.Top, "g"), "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Bottom, "G")...),
			key.WithHelp(label(cfg.Bottom, "G"), "bottom"),
		),
		Add: key.NewBinding(
			key.WithKeys(parseKeys(cfg.AddTask, "a")...),
			key.WithHelp(label(cfg.AddTask, "a"), "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.EditTask, "e", "enter")...),
			key.WithHelp(label(cfg.EditTask, "e"), "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleTask, " ")...),
			key.WithHelp(label(cfg.ToggleTask, "space"), "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.DeleteTask, "x")...),
			key.WithHelp(label(cfg.DeleteTask, "x"), "delete"),
		),
		Copy: key.NewBinding(
			key.WithKeys(parseKeys(cfg.CopyTask, "y")...),
			key.WithHelp(label(cfg.CopyTask, "y"), "copy"),
		),
		PriorityLow: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PriorityLow, "1")...),
			key.WithHelp(label(cfg.PriorityLow, "1"), "low"),
		),
		PriorityMedium: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PriorityMed, "2")...),
			key.WithHelp(label(cfg.PriorityMed, "2"), "medium"),
		),
		PriorityHigh: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PriorityHi, "3")...),
			key.WithHelp(label(cfg.PriorityHi, "3"), "high"),
		),
		PriorityMode: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PriorityMode, "p")...),
			key.WithHelp(label(cfg.PriorityMode, "p"), "priority"),
		),
		DateMode: key.NewBinding(
			key.WithKeys(parseKeys(cfg.DateMode, "d")...),
			key.WithHelp(label(cfg.DateMode, "d"), "due date"),
		),
		ScriptsMode: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ScriptsMode, "s")...),
			key.WithHelp(label(cfg.ScriptsMode, "s"), "scripts"),
		),
		SortMode: key.NewBinding(
			key.WithKeys(parseKeys(cfg.SortMode, "o")...),
			key.WithHelp(label(cfg.SortMode, "o"), "sort"),
		),
		ReorderMode: key.NewBinding(
			key.WithKeys(reorder...),
			key.WithHelp(label(cfg.ReorderMode, "tab"), "reorder"),
		),
		Confirm: key.NewBinding(
			key.WithKeys(confirm...),
			key.WithHelp(label(cfg.Confirm, "enter"), "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp(label(cfg.Cancel, "esc"), "cancel"),
		),
		PickLow: key.NewBinding(
			key.WithKeys("1", "l"),
			key.WithHelp("1/l", "low"),
		),
		PickMedium: key.NewBinding(
			key.WithKeys("2", "m"),
			key.WithHelp("2/m", "medium"),
		),
		PickHigh: key.NewBinding(
			key.WithKeys("3", "h"),
			key.WithHelp("3/h", "high"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "delete"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "keep"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "B"),
			key.WithHelp("b", "back"),
		),
		Apply: key.NewBinding(
			key.WithKeys(append(append([]string{}, confirm...), reorder...)...),
			key.WithHelp(label(cfg.Confirm, "enter")+"/"+label(cfg.ReorderMode, "tab"), "apply"),
		),
	}
}
