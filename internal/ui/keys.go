package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"taskline/internal/session"
)

// modeHelp adapts a set of bindings to help.KeyMap.
type modeHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h modeHelp) ShortHelp() []key.Binding  { return h.short }
func (h modeHelp) FullHelp() [][]key.Binding { return h.full }

// helpKeysFor returns the footer bindings for the active mode.
func helpKeysFor(mode session.Mode, k session.KeyMap) help.KeyMap {
	switch mode {
	case session.ModeAdd, session.ModeEdit, session.ModeDate:
		save := k.Confirm
		save.SetHelp(k.Confirm.Help().Key, "save")
		return modeHelp{short: []key.Binding{save, k.Cancel}}

	case session.ModePriority:
		return modeHelp{short: []key.Binding{k.PickLow, k.PickMedium, k.PickHigh, k.Cancel}}

	case session.ModeSort:
		return modeHelp{short: []key.Binding{k.Up, k.Down, k.Confirm, k.Cancel}}

	case session.ModeScripts:
		run := k.Confirm
		run.SetHelp(k.Confirm.Help().Key, "run")
		return modeHelp{short: []key.Binding{k.Up, k.Down, run, k.Back}}

	case session.ModeDeleteConfirm:
		return modeHelp{short: []key.Binding{k.Yes, k.No}}

	case session.ModeReorder:
		up, down := k.Up, k.Down
		up.SetHelp(k.Up.Help().Key, "move up")
		down.SetHelp(k.Down.Help().Key, "move down")
		return modeHelp{short: []key.Binding{up, down, k.Apply, k.Cancel}}
	}

	return modeHelp{
		short: []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.SortMode, k.Help, k.Quit},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Top, k.Bottom},
			{k.Add, k.Edit, k.Toggle, k.Delete, k.Copy},
			{k.PriorityLow, k.PriorityMedium, k.PriorityHigh, k.PriorityMode, k.DateMode},
			{k.SortMode, k.ReorderMode, k.ScriptsMode, k.Help, k.Quit},
		},
	}
}
