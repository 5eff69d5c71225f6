// Package ui provides the terminal user interface for taskline.
// This file defines message types for async work using the Bubble Tea
// command pattern. Each command in commands.go returns one of these so the
// event loop never blocks on I/O.
package ui

import (
	"time"

	"taskline/internal/script"
	"taskline/internal/session"
	"taskline/internal/task"
)

// statusExpiredMsg is sent when a status message's display time runs out.
type statusExpiredMsg struct {
	seq uint64
}

// clockTickMsg refreshes the status bar clock.
type clockTickMsg time.Time

// scriptsListedMsg carries the result of script discovery.
type scriptsListedMsg struct {
	scripts []script.Script
	err     error
}

// scriptFinishedMsg is sent when a script run completes.
type scriptFinishedMsg struct {
	result script.Result
}

// rehydratedMsg carries the persisted collection reloaded after a cancelled
// reorder.
type rehydratedMsg struct {
	req   session.Rehydrate
	tasks []task.Task
	err   error
}

// copiedMsg reports a clipboard write.
type copiedMsg struct {
	err error
}
