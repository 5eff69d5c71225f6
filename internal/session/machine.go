package session

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"taskline/internal/script"
	"taskline/internal/task"
)

// Options tunes the machine.
type Options struct {
	StatusTTL        time.Duration
	ScriptStatusTTL  time.Duration
	ConfirmDeletions bool
}

// DefaultOptions returns the stock timings with delete confirmation on.
func DefaultOptions() Options {
	return Options{
		StatusTTL:        2 * time.Second,
		ScriptStatusTTL:  3 * time.Second,
		ConfirmDeletions: true,
	}
}

// Machine owns the interaction state. It is not safe for concurrent use;
// the UI loop drives it from a single goroutine and feeds asynchronous
// results back through the Finish and Set methods.
type Machine struct {
	store  *task.Store
	keys   KeyMap
	opts   Options
	logger *log.Logger

	mode      Mode
	input     string
	status    string
	statusSeq uint64

	sortCursor int

	// reorder session
	dndID       string
	dndSnapshot []task.Task

	// Seq of the one Rehydrate still allowed to land; zero when none.
	rehydrateSeq     uint64
	pendingRehydrate uint64

	scripts      []script.Script
	scriptCursor int
	scriptOutput string
	running      bool
}

// NewMachine returns a machine in list mode.
func NewMachine(store *task.Store, keys KeyMap, opts Options, logger *log.Logger) *Machine {
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = DefaultOptions().StatusTTL
	}
	if opts.ScriptStatusTTL <= 0 {
		opts.ScriptStatusTTL = DefaultOptions().ScriptStatusTTL
	}
	return &Machine{
		store:  store,
		keys:   keys,
		opts:   opts,
		logger: logger,
		mode:   ModeList,
	}
}

func (m *Machine) Mode() Mode         { return m.mode }
func (m *Machine) Input() string      { return m.input }
func (m *Machine) Status() string     { return m.status }
func (m *Machine) Keys() KeyMap       { return m.keys }
func (m *Machine) Store() *task.Store { return m.store }

// Snapshot captures the render state.
func (m *Machine) Snapshot() Snapshot {
	sel, ok := m.store.Selected()
	return Snapshot{
		Tasks:        m.store.Tasks(),
		Selected:     sel,
		HasSelection: ok,
		Mode:         m.mode,
		Input:        m.input,
		Status:       m.status,
		SortCursor:   m.sortCursor,
		Scripts:      append([]script.Script(nil), m.scripts...),
		ScriptCursor: m.scriptCursor,
		ScriptOutput: m.scriptOutput,
		Running:      m.running,
	}
}

// SetInput replaces the input buffer. Front ends with their own line editor
// call it after every edit.
func (m *Machine) SetInput(s string) {
	if m.mode.TakesText() {
		m.input = s
	}
}

// SetStatus shows msg for the standard duration.
func (m *Machine) SetStatus(msg string) []Effect {
	return m.setStatusFor(msg, m.opts.StatusTTL)
}

func (m *Machine) setStatusFor(msg string, ttl time.Duration) []Effect {
	m.statusSeq++
	m.status = msg
	return []Effect{ClearStatus{Seq: m.statusSeq, After: ttl}}
}

// ExpireStatus clears the status if no newer message replaced it.
func (m *Machine) ExpireStatus(seq uint64) {
	if seq == m.statusSeq {
		m.status = ""
	}
}

// Handle applies one keystroke and returns the effects it requests.
func (m *Machine) Handle(k Key) []Effect {
	pending := m.pendingRehydrate
	sel, _ := m.store.Selected()
	mode, rev := m.mode, m.store.Revision()

	effects := m.dispatch(k)

	// Any later change of mode, selection or order outranks a reload
	// that has not arrived yet.
	if pending != 0 && m.pendingRehydrate == pending {
		if after, _ := m.store.Selected(); after != sel || m.mode != mode || m.store.Revision() != rev {
			m.pendingRehydrate = 0
		}
	}
	return effects
}

func (m *Machine) dispatch(k Key) []Effect {
	switch m.mode {
	case ModeList:
		return m.handleList(k)
	case ModeAdd, ModeEdit, ModeDate:
		return m.handleInput(k)
	case ModePriority:
		return m.handlePriority(k)
	case ModeScripts:
		return m.handleScripts(k)
	case ModeSort:
		return m.handleSort(k)
	case ModeDeleteConfirm:
		return m.handleDeleteConfirm(k)
	case ModeReorder:
		return m.handleReorder(k)
	}
	return nil
}

func (m *Machine) handleList(k Key) []Effect {
	keys := m.keys
	hasTasks := m.store.Len() > 0

	switch {
	case Matches(k, keys.Quit):
		return []Effect{Quit{}}

	case Matches(k, keys.Up):
		m.store.NavigateUp()
	case Matches(k, keys.Down):
		m.store.NavigateDown()
	case Matches(k, keys.Top):
		m.store.NavigateTop()
	case Matches(k, keys.Bottom):
		m.store.NavigateBottom()

	case Matches(k, keys.Add):
		m.mode = ModeAdd
		m.input = ""
		return m.SetStatus("Adding a new task...")

	case Matches(k, keys.Edit):
		t, ok := m.store.SelectedTask()
		if !ok {
			return nil
		}
		m.mode = ModeEdit
		m.input = t.Text
		return m.SetStatus("Editing task...")

	case Matches(k, keys.Toggle):
		if completed, ok := m.store.Toggle(); ok {
			if completed {
				return m.SetStatus("Task completed!")
			}
			return m.SetStatus("Task marked as incomplete")
		}

	case Matches(k, keys.Delete):
		if !hasTasks {
			return nil
		}
		if !m.opts.ConfirmDeletions {
			return m.deleteSelected()
		}
		m.mode = ModeDeleteConfirm
		return m.SetStatus("Confirm deletion")

	case Matches(k, keys.Copy):
		t, ok := m.store.SelectedTask()
		if !ok {
			return nil
		}
		return []Effect{CopyText{Text: t.Text}}

	case Matches(k, keys.PriorityLow):
		return m.applyPriority(task.PriorityLow)
	case Matches(k, keys.PriorityMedium):
		return m.applyPriority(task.PriorityMedium)
	case Matches(k, keys.PriorityHigh):
		return m.applyPriority(task.PriorityHigh)

	case Matches(k, keys.PriorityMode):
		if !hasTasks {
			return nil
		}
		m.mode = ModePriority
		return m.SetStatus("Select priority: 1 low, 2 medium, 3 high")

	case Matches(k, keys.DateMode):
		if !hasTasks {
			return nil
		}
		m.mode = ModeDate
		m.input = ""
		return m.SetStatus("Enter a due date")

	case Matches(k, keys.ScriptsMode):
		m.mode = ModeScripts
		m.scriptCursor = 0
		m.scriptOutput = ""
		return append(m.SetStatus("Script mode: Select a script to run"), ListScripts{})

	case Matches(k, keys.SortMode):
		if m.store.Len() <= 1 {
			return nil
		}
		m.mode = ModeSort
		m.sortCursor = 0
		return m.SetStatus("Sort mode: Use arrow keys to select sort type")

	case Matches(k, keys.ReorderMode):
		t, ok := m.store.SelectedTask()
		if !ok {
			return nil
		}
		m.mode = ModeReorder
		m.dndID = t.ID
		m.dndSnapshot = m.store.Tasks()
		return m.SetStatus("DnD mode: Use arrow keys to move task, Enter/Tab to apply, Esc to cancel")
	}
	return nil
}

func (m *Machine) applyPriority(p task.Priority) []Effect {
	if !m.store.SetPriority(p) {
		return nil
	}
	return m.SetStatus("Priority set to " + string(p))
}

func (m *Machine) deleteSelected() []Effect {
	m.mode = ModeList
	if _, ok := m.store.Delete(); !ok {
		return nil
	}
	return m.SetStatus("Task deleted")
}

func (m *Machine) handleInput(k Key) []Effect {
	switch {
	case Matches(k, m.keys.Cancel):
		return m.cancelInput()
	case Matches(k, m.keys.Confirm):
		return m.submitInput()
	case k == KeyBackspace:
		if _, size := utf8.DecodeLastRuneInString(m.input); size > 0 {
			m.input = m.input[:len(m.input)-size]
		}
	case isPrintable(k):
		m.input += string(k)
	}
	return nil
}

func isPrintable(k Key) bool {
	r, size := utf8.DecodeRuneInString(string(k))
	return size > 0 && size == len(k) && r != utf8.RuneError && unicode.IsPrint(r)
}

func (m *Machine) cancelInput() []Effect {
	mode := m.mode
	m.mode = ModeList
	m.input = ""
	switch mode {
	case ModeAdd:
		return m.SetStatus("Add task canceled")
	case ModeEdit:
		return m.SetStatus("Edit canceled")
	}
	return nil
}

func (m *Machine) submitInput() []Effect {
	mode, text := m.mode, m.input
	m.mode = ModeList
	m.input = ""

	switch mode {
	case ModeAdd:
		if _, ok := m.store.Add(text); !ok {
			return m.SetStatus("Task cannot be empty. Add canceled.")
		}
		return m.SetStatus("New task added!")

	case ModeEdit:
		if strings.TrimSpace(text) == "" {
			return m.SetStatus("Task cannot be empty. Edit canceled.")
		}
		if !m.store.Edit(text) {
			return nil
		}
		return m.SetStatus("Task updated!")

	case ModeDate:
		due, ok := m.store.SetDueDate(text)
		if !ok {
			return nil
		}
		if due == nil {
			return m.SetStatus("Due date cleared")
		}
		return m.SetStatus("Due date set")
	}
	return nil
}

func (m *Machine) handlePriority(k Key) []Effect {
	var p task.Priority
	switch {
	case Matches(k, m.keys.PickLow):
		p = task.PriorityLow
	case Matches(k, m.keys.PickMedium):
		p = task.PriorityMedium
	case Matches(k, m.keys.PickHigh):
		p = task.PriorityHigh
	case Matches(k, m.keys.Cancel):
		m.mode = ModeList
		return nil
	default:
		return nil
	}
	m.mode = ModeList
	return m.applyPriority(p)
}

func (m *Machine) handleSort(k Key) []Effect {
	switch {
	case Matches(k, m.keys.Cancel):
		m.mode = ModeList
		return nil
	case Matches(k, m.keys.Up):
		m.sortCursor = max(m.sortCursor-1, 0)
		return nil
	case Matches(k, m.keys.Down):
		m.sortCursor = min(m.sortCursor+1, len(SortOptions)-1)
		return nil
	case Matches(k, m.keys.Confirm):
		opt := SortOptions[m.sortCursor]
		m.mode = ModeList
		if !m.store.Sort(opt.Type) {
			return nil
		}
		return m.SetStatus("Tasks sorted by " + strings.ToLower(opt.Label))
	}
	for _, opt := range SortOptions {
		if string(k) == opt.Key {
			m.mode = ModeList
			if !m.store.Sort(opt.Type) {
				return nil
			}
			return m.SetStatus(opt.Done)
		}
	}
	return nil
}

func (m *Machine) handleScripts(k Key) []Effect {
	switch {
	case Matches(k, m.keys.Cancel), Matches(k, m.keys.Back):
		m.mode = ModeList
		m.scriptOutput = ""
	case Matches(k, m.keys.Up):
		m.scriptCursor = max(m.scriptCursor-1, 0)
	case Matches(k, m.keys.Down):
		if len(m.scripts) > 0 {
			m.scriptCursor = min(m.scriptCursor+1, len(m.scripts)-1)
		}
	case Matches(k, m.keys.Confirm):
		if len(m.scripts) == 0 || m.running {
			return nil
		}
		s := m.scripts[m.scriptCursor]
		m.running = true
		m.scriptOutput = ""
		return append(m.SetStatus(fmt.Sprintf("Running script: %s...", s.Name)), RunScript{Script: s})
	}
	return nil
}

// SetScripts installs the result of script discovery.
func (m *Machine) SetScripts(list []script.Script, err error) []Effect {
	m.scripts = list
	if m.scriptCursor >= len(list) {
		m.scriptCursor = max(len(list)-1, 0)
	}
	if err != nil {
		m.logger.Warn("discover scripts", "err", err)
		return m.SetStatus("Could not read scripts: " + err.Error())
	}
	return nil
}

// FinishScript records a script run.
func (m *Machine) FinishScript(res script.Result) []Effect {
	m.running = false
	m.scriptOutput = res.Output
	if res.Err != nil {
		m.logger.Warn("script failed", "script", res.Script.Name, "err", res.Err, "duration", res.Duration)
		return m.setStatusFor("Error running script: "+res.Err.Error(), m.opts.ScriptStatusTTL)
	}
	m.logger.Info("script finished", "script", res.Script.Name, "duration", res.Duration)
	return m.setStatusFor(fmt.Sprintf("Script %s completed successfully!", res.Script.Name), m.opts.ScriptStatusTTL)
}

func (m *Machine) handleDeleteConfirm(k Key) []Effect {
	switch {
	case Matches(k, m.keys.Yes):
		return m.deleteSelected()
	case Matches(k, m.keys.No), Matches(k, m.keys.Cancel):
		m.mode = ModeList
		return m.SetStatus("Deletion cancelled")
	}
	return nil
}

func (m *Machine) handleReorder(k Key) []Effect {
	switch {
	case Matches(k, m.keys.Cancel):
		return m.cancelReorder()
	case Matches(k, m.keys.Apply):
		m.store.Commit()
		m.endReorder()
		return m.SetStatus("Task reordering applied")
	case Matches(k, m.keys.Up):
		if m.store.MoveUp() {
			return m.SetStatus("Task moved up")
		}
	case Matches(k, m.keys.Down):
		if m.store.MoveDown() {
			return m.SetStatus("Task moved down")
		}
	}
	return nil
}

// cancelReorder puts the pre-reorder order back at once and asks for the
// persisted collection, which is authoritative once it arrives.
func (m *Machine) cancelReorder() []Effect {
	m.rehydrateSeq++
	m.pendingRehydrate = m.rehydrateSeq
	req := Rehydrate{Seq: m.rehydrateSeq, SelectID: m.dndID, Revision: m.store.Revision()}
	m.store.Restore(m.dndSnapshot)
	m.store.SelectID(m.dndID)
	m.endReorder()
	return append(m.SetStatus("Task reordering cancelled"), req)
}

func (m *Machine) endReorder() {
	m.mode = ModeList
	m.dndID = ""
	m.dndSnapshot = nil
}

// FinishRehydrate applies a reload requested by a Rehydrate effect. It is
// dropped unless it is the latest request, the machine is still in list
// mode, and nothing was written, moved or selected since.
func (m *Machine) FinishRehydrate(req Rehydrate, tasks []task.Task, err error) {
	pending := m.pendingRehydrate
	if req.Seq == pending {
		m.pendingRehydrate = 0
	}
	if err != nil {
		m.logger.Error("rehydrate tasks", "err", err)
		return
	}
	if pending == 0 || req.Seq != pending || m.mode != ModeList || m.store.Revision() != req.Revision {
		m.logger.Debug("stale rehydrate dropped", "seq", req.Seq, "pending", pending,
			"requested", req.Revision, "current", m.store.Revision())
		return
	}
	m.store.Restore(tasks)
	if req.SelectID != "" {
		m.store.SelectID(req.SelectID)
	}
}

// FinishCopy reports a clipboard write.
func (m *Machine) FinishCopy(err error) []Effect {
	if err != nil {
		m.logger.Warn("copy to clipboard", "err", err)
		return m.SetStatus("Clipboard unavailable")
	}
	return m.SetStatus("Copied to clipboard")
}
