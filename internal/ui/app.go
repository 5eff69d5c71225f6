// Package ui provides the terminal user interface for taskline.
// This file contains the App model, which feeds keystrokes to the session
// machine, runs the effects it requests and renders its snapshot.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"taskline/internal/script"
	"taskline/internal/session"
	"taskline/internal/task"
)

const defaultVisibleTasks = 9

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys         session.KeyMap
	Session      session.Options
	VisibleTasks int
	ScriptsDir   string
	Interpreters map[string]string
	Runner       *script.Runner
	Logger       *log.Logger
}

// App is the main application model.
type App struct {
	machine     *session.Machine
	store       *task.Store
	styles      *Styles
	keys        session.KeyMap
	table       taskTable
	input       textinput.Model
	spinner     spinner.Model
	help        help.Model
	helpOverlay *HelpOverlay
	showHelp    bool
	width       int
	height      int
	clock       time.Time
	quitting    bool

	runner       *script.Runner
	scriptsDir   string
	interpreters map[string]string
	logger       *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the application around an opened store.
func NewApp(store *task.Store, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{Keys: session.DefaultKeyMap(), Session: session.DefaultOptions()}
	}
	if cfg.VisibleTasks <= 0 {
		cfg.VisibleTasks = defaultVisibleTasks
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = script.NewRunner(cfg.Interpreters, nil)
	}

	ti := textinput.New()
	// No limit; SetValue would truncate existing task text when editing.
	ti.CharLimit = 0
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.InputPromptStyle

	h := help.New()
	h.Styles.ShortKey = styles.HeaderStyle.UnsetPadding()
	h.Styles.ShortDesc = styles.MutedStyle

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		machine:      session.NewMachine(store, cfg.Keys, cfg.Session, cfg.Logger),
		store:        store,
		styles:       styles,
		keys:         cfg.Keys,
		table:        taskTable{styles: styles, rows: cfg.VisibleTasks, width: 80},
		input:        ti,
		spinner:      sp,
		help:         h,
		helpOverlay:  NewHelpOverlay(styles, cfg.Keys),
		clock:        store.Now(),
		runner:       cfg.Runner,
		scriptsDir:   cfg.ScriptsDir,
		interpreters: cfg.Interpreters,
		logger:       cfg.Logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Machine exposes the session state.
func (a *App) Machine() *session.Machine {
	return a.machine
}

func (a *App) now() time.Time {
	return a.store.Now()
}

// Init starts the clock.
func (a *App) Init() tea.Cmd {
	return clockTickCmd()
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.table.width = msg.Width
		a.input.Width = max(10, msg.Width-12)
		a.help.Width = msg.Width
		a.helpOverlay.SetSize(msg.Width, msg.Height)
		return a, nil

	case clockTickMsg:
		a.clock = a.now()
		return a, clockTickCmd()

	case statusExpiredMsg:
		a.machine.ExpireStatus(msg.seq)
		return a, nil

	case scriptsListedMsg:
		return a, a.effectCmds(a.machine.SetScripts(msg.scripts, msg.err))

	case scriptFinishedMsg:
		return a, a.effectCmds(a.machine.FinishScript(msg.result))

	case rehydratedMsg:
		a.machine.FinishRehydrate(msg.req, msg.tasks, msg.err)
		return a, nil

	case copiedMsg:
		return a, a.effectCmds(a.machine.FinishCopy(msg.err))

	case spinner.TickMsg:
		if !a.machine.Snapshot().Running && a.machine.Mode() != session.ModeAdd {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	if a.machine.Mode().TakesText() {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return a.effectCmds([]session.Effect{session.Quit{}})
	}

	k := session.Key(msg.String())

	if a.showHelp {
		if session.Matches(k, a.keys.Help) || session.Matches(k, a.keys.Cancel) || k == "q" {
			a.showHelp = false
		}
		return nil
	}

	before := a.machine.Mode()
	if before == session.ModeList && session.Matches(k, a.keys.Help) {
		a.showHelp = true
		return nil
	}

	// Text modes edit through the textinput; only confirm and cancel reach
	// the machine as keystrokes.
	if before.TakesText() && !session.Matches(k, a.keys.Confirm) && !session.Matches(k, a.keys.Cancel) {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		a.machine.SetInput(a.input.Value())
		return cmd
	}

	effects := a.machine.Handle(k)
	return tea.Batch(a.effectCmds(effects), a.syncInput(before))
}

// syncInput focuses or resets the text field when the mode changes.
func (a *App) syncInput(before session.Mode) tea.Cmd {
	after := a.machine.Mode()
	if after == before {
		return nil
	}
	if !after.TakesText() {
		a.input.Blur()
		a.input.Reset()
		return nil
	}

	switch after {
	case session.ModeAdd:
		a.input.Placeholder = "What needs to be done?"
	case session.ModeEdit:
		a.input.Placeholder = ""
	case session.ModeDate:
		a.input.Placeholder = "tomorrow, next week, 2024-03-15..."
	}
	a.input.SetValue(a.machine.Input())
	a.input.CursorEnd()
	cmds := []tea.Cmd{a.input.Focus(), textinput.Blink}
	if after == session.ModeAdd {
		cmds = append(cmds, a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}

	snap := a.machine.Snapshot()
	if snap.Mode == session.ModeDeleteConfirm {
		return a.renderConfirmDelete(snap)
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n\n")
	b.WriteString(a.table.View(snap, a.clock))
	b.WriteString("\n")
	if panel := a.renderPanel(snap); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n")
	}
	b.WriteString(a.renderStatusBar(snap))
	b.WriteString("\n")
	b.WriteString(a.help.View(helpKeysFor(snap.Mode, a.keys)))
	return b.String()
}

// Run starts the Bubble Tea program on the alternate screen.
func Run(store *task.Store, styles *Styles, cfg *AppConfig) error {
	app := NewApp(store, styles, cfg)
	defer app.cancel()
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
