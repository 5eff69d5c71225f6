package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"taskline/internal/config"
	"taskline/internal/session"
	"taskline/internal/task"
)

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

var fixedNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.Local)

type memRepo struct {
	mu    sync.Mutex
	tasks []task.Task
	saved bool
}

func (r *memRepo) Load(context.Context) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.saved {
		return nil, task.ErrNoSavedState
	}
	out := make([]task.Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (r *memRepo) Save(_ context.Context, tasks []task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = tasks
	r.saved = true
	return nil
}

// createTestStore returns a store holding texts, each added with the
// defaults (medium, due today).
func createTestStore(t *testing.T, texts ...string) *task.Store {
	t.Helper()
	store := task.NewStore(&memRepo{}, log.New(io.Discard))
	store.SetNowFunc(func() time.Time { return fixedNow })
	n := 0
	store.SetIDFunc(func() string {
		n++
		return fmt.Sprintf("t%d", n)
	})
	for _, text := range texts {
		if _, ok := store.Add(text); !ok {
			t.Fatalf("Add(%q) failed", text)
		}
	}
	store.NavigateTop()
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

func createTestApp(t *testing.T, store *task.Store) *App {
	t.Helper()
	app := NewApp(store, createTestStyles(), &AppConfig{
		Keys:       session.DefaultKeyMap(),
		Session:    session.DefaultOptions(),
		ScriptsDir: t.TempDir(),
		Logger:     log.New(io.Discard),
	})
	t.Cleanup(app.cancel)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

// keyMsg builds the KeyMsg Bubble Tea would deliver for s.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys in order and returns the last command.
func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(keyMsg(k))
	}
	return cmd
}

// typeText sends one key per rune.
func typeText(a *App, s string) {
	for _, r := range s {
		press(a, string(r))
	}
}
