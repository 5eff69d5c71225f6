// Package session implements the modal interaction model: which mode is
// active, how each keystroke is interpreted in it, and which task store
// operation or asynchronous effect it triggers.
package session

import (
	"time"

	"taskline/internal/script"
	"taskline/internal/task"
)

// Mode is the active interaction mode.
type Mode int

const (
	ModeList Mode = iota
	ModeAdd
	ModeEdit
	ModePriority
	ModeDate
	ModeScripts
	ModeSort
	ModeDeleteConfirm
	ModeReorder
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeAdd:
		return "add"
	case ModeEdit:
		return "edit"
	case ModePriority:
		return "priority"
	case ModeDate:
		return "date"
	case ModeScripts:
		return "scripts"
	case ModeSort:
		return "sort"
	case ModeDeleteConfirm:
		return "deleteConfirm"
	case ModeReorder:
		return "dnd"
	default:
		return "unknown"
	}
}

// TakesText reports whether the mode edits the input buffer.
func (m Mode) TakesText() bool {
	return m == ModeAdd || m == ModeEdit || m == ModeDate
}

// SortOption is one entry of the sort menu.
type SortOption struct {
	Key         string
	Type        task.SortType
	Label       string
	Description string
	Done        string
}

// SortOptions lists the sort menu in display order.
var SortOptions = []SortOption{
	{Key: "p", Type: task.SortPriority, Label: "Priority", Description: "Sort by task priority (high to low)", Done: "Tasks sorted by priority (high to low)"},
	{Key: "a", Type: task.SortAlphabetical, Label: "Alphabetical", Description: "Sort tasks alphabetically (A to Z)", Done: "Tasks sorted alphabetically (A to Z)"},
	{Key: "d", Type: task.SortDueDate, Label: "Due Date", Description: "Sort by due date (earliest first)", Done: "Tasks sorted by due date (earliest first)"},
	{Key: "c", Type: task.SortCreatedAt, Label: "Created Date", Description: "Sort by creation date (newest first)", Done: "Tasks sorted by creation date (newest first)"},
}

// Effect is asynchronous work requested by a transition. The caller runs it
// and reports back through the matching Finish method.
type Effect interface {
	isEffect()
}

// ClearStatus asks for ExpireStatus(Seq) after the delay.
type ClearStatus struct {
	Seq   uint64
	After time.Duration
}

// RunScript asks for the script to be executed; report with FinishScript.
type RunScript struct {
	Script script.Script
}

// ListScripts asks for script discovery; report with SetScripts.
type ListScripts struct{}

// Rehydrate asks for the persisted collection to be reloaded; report with
// FinishRehydrate.
type Rehydrate struct {
	Seq      uint64
	SelectID string
	Revision uint64
}

// CopyText asks for text to be placed on the clipboard; report with
// FinishCopy.
type CopyText struct {
	Text string
}

// Quit asks the program to exit.
type Quit struct{}

func (ClearStatus) isEffect() {}
func (RunScript) isEffect()   {}
func (ListScripts) isEffect() {}
func (Rehydrate) isEffect()   {}
func (CopyText) isEffect()    {}
func (Quit) isEffect()        {}

// Snapshot is a read-only view of everything the screen renders.
type Snapshot struct {
	Tasks        []task.Task
	Selected     int
	HasSelection bool
	Mode         Mode
	Input        string
	Status       string
	SortCursor   int
	Scripts      []script.Script
	ScriptCursor int
	ScriptOutput string
	Running      bool
}
