// Package ui provides the terminal user interface for taskline.
// This file contains tea.Cmd factories that run the effects requested by
// the session machine. Each command returns a message type defined in
// messages.go.
package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"taskline/internal/script"
	"taskline/internal/session"
	"taskline/internal/task"
)

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// clockTickCmd ticks once a second for the status bar clock.
func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// clearStatusCmd fires when a status message should disappear.
func clearStatusCmd(seq uint64, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// listScriptsCmd discovers scripts off the event loop.
func listScriptsCmd(dir string, interpreters map[string]string, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		scripts, err := script.Discover(dir, interpreters, logger)
		return scriptsListedMsg{scripts: scripts, err: err}
	}
}

// runScriptCmd executes a script and reports its result.
func runScriptCmd(ctx context.Context, runner *script.Runner, s script.Script) tea.Cmd {
	return func() tea.Msg {
		return scriptFinishedMsg{result: runner.Run(ctx, s)}
	}
}

// rehydrateCmd reloads the persisted collection.
func rehydrateCmd(ctx context.Context, store *task.Store, req session.Rehydrate) tea.Cmd {
	return func() tea.Msg {
		tasks, err := store.Fetch(ctx)
		return rehydratedMsg{req: req, tasks: tasks, err: err}
	}
}

// copyCmd places text on the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboardWrite(text)}
	}
}

// effectCmds converts machine effects into commands.
func (a *App) effectCmds(effects []session.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case session.ClearStatus:
			cmds = append(cmds, clearStatusCmd(e.Seq, e.After))
		case session.ListScripts:
			cmds = append(cmds, listScriptsCmd(a.scriptsDir, a.interpreters, a.logger))
		case session.RunScript:
			cmds = append(cmds, runScriptCmd(a.ctx, a.runner, e.Script), a.spinner.Tick)
		case session.Rehydrate:
			cmds = append(cmds, rehydrateCmd(a.ctx, a.store, e))
		case session.CopyText:
			cmds = append(cmds, copyCmd(e.Text))
		case session.Quit:
			a.quitting = true
			a.cancel()
			cmds = append(cmds, tea.Quit)
		}
	}
	return tea.Batch(cmds...)
}
