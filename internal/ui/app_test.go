// Package ui provides the terminal user interface for taskline.
// This file contains tests for the App model.
package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskline/internal/script"
	"taskline/internal/session"
)

func TestApp_ViewShowsTasksAndStatusBar(t *testing.T) {
	setupTest(t)
	app := createTestApp(t, createTestStore(t, "Buy groceries", "Write tests"))

	view := app.View()
	for _, want := range []string{"taskline", "Buy groceries", "Write tests", "Waiting for input...", "Daily tasks completed: 0/2", "TASKS"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestApp_AddTaskThroughTextInput(t *testing.T) {
	setupTest(t)
	store := createTestStore(t)
	app := createTestApp(t, store)

	press(app, "a")
	if app.Machine().Mode() != session.ModeAdd {
		t.Fatalf("mode = %v", app.Machine().Mode())
	}
	if !strings.Contains(app.View(), "New task") {
		t.Error("add panel not shown")
	}

	// q and x must be typed, not treated as commands.
	typeText(app, "quick fix")
	press(app, "backspace")
	typeText(app, "x")
	if got := app.Machine().Input(); got != "quick fix" {
		t.Errorf("input = %q", got)
	}
	press(app, "enter")

	if app.Machine().Mode() != session.ModeList {
		t.Errorf("mode = %v", app.Machine().Mode())
	}
	tasks := store.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "quick fix" {
		t.Errorf("tasks = %+v", tasks)
	}
	if !strings.Contains(app.View(), "New task added!") {
		t.Error("status not shown")
	}
	if app.input.Value() != "" || app.input.Focused() {
		t.Error("input not reset after leaving add mode")
	}
}

func TestApp_EditPrefillsInput(t *testing.T) {
	setupTest(t)
	app := createTestApp(t, createTestStore(t, "draft"))

	press(app, "e")
	if app.input.Value() != "draft" {
		t.Errorf("input = %q, want draft", app.input.Value())
	}
	typeText(app, " v2")
	press(app, "enter")

	sel, _ := app.store.SelectedTask()
	if sel.Text != "draft v2" {
		t.Errorf("text = %q", sel.Text)
	}
}

func TestApp_EditKeepsLongText(t *testing.T) {
	setupTest(t)
	long := strings.Repeat("x", 300)
	app := createTestApp(t, createTestStore(t, long))

	press(app, "e")
	if app.input.Value() != long {
		t.Fatalf("input holds %d chars, want 300", len(app.input.Value()))
	}
	typeText(app, "!")
	press(app, "enter")

	sel, _ := app.store.SelectedTask()
	if len(sel.Text) != 301 || !strings.HasSuffix(sel.Text, "x!") {
		t.Errorf("text has %d chars: %q", len(sel.Text), sel.Text)
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	setupTest(t)
	app := createTestApp(t, createTestStore(t, "one"))

	press(app, "?")
	if !app.showHelp || !strings.Contains(app.View(), "Keyboard shortcuts") {
		t.Fatal("help overlay not shown")
	}
	press(app, "a")
	if app.Machine().Mode() != session.ModeList {
		t.Error("keys leaked through the help overlay")
	}
	press(app, "esc")
	if app.showHelp {
		t.Error("esc did not close help")
	}
}

func TestApp_DeleteConfirmOverlay(t *testing.T) {
	setupTest(t)
	store := createTestStore(t, "remove me", "keep me")
	app := createTestApp(t, store)

	press(app, "x")
	view := app.View()
	if !strings.Contains(view, "Delete task?") || !strings.Contains(view, "remove me") {
		t.Fatalf("confirm overlay missing:\n%s", view)
	}
	press(app, "y")
	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}
}

func TestApp_SortPanel(t *testing.T) {
	setupTest(t)
	app := createTestApp(t, createTestStore(t, "b", "a"))

	press(app, "o")
	view := app.View()
	for _, opt := range session.SortOptions {
		if !strings.Contains(view, opt.Label) {
			t.Errorf("sort panel missing %q", opt.Label)
		}
	}
	press(app, "a")
	if app.Machine().Mode() != session.ModeList {
		t.Errorf("mode = %v", app.Machine().Mode())
	}
}

func TestApp_ReorderCancelRehydrates(t *testing.T) {
	setupTest(t)
	store := createTestStore(t, "a", "b", "c")
	app := createTestApp(t, store)

	press(app, "tab", "down")
	cmd := press(app, "esc")
	if cmd == nil {
		t.Fatal("cancel returned no command")
	}

	// Run the rehydrate command directly; the batch also holds a timer.
	// The first cancel carries sequence 1.
	req := session.Rehydrate{Seq: 1, SelectID: "t1", Revision: store.Revision()}
	msg := rehydrateCmd(app.ctx, store, req)()
	app.Update(msg)

	var texts []string
	for _, tk := range store.Tasks() {
		texts = append(texts, tk.Text)
	}
	if strings.Join(texts, "") != "abc" {
		t.Errorf("order = %v", texts)
	}
	if sel, _ := store.SelectedTask(); sel.Text != "a" {
		t.Errorf("selected = %q, want a", sel.Text)
	}
}

func TestApp_ScriptsFlow(t *testing.T) {
	setupTest(t)
	app := createTestApp(t, createTestStore(t))
	if err := os.WriteFile(filepath.Join(app.scriptsDir, "hello.py"), []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	press(app, "s")
	msg := listScriptsCmd(app.scriptsDir, script.DefaultInterpreters(), app.logger)()
	app.Update(msg)

	view := app.View()
	if !strings.Contains(view, "hello.py") {
		t.Fatalf("script not listed:\n%s", view)
	}

	press(app, "enter")
	if !app.Machine().Snapshot().Running {
		t.Fatal("script not marked running")
	}
	app.Update(scriptFinishedMsg{result: script.Result{
		Script: app.Machine().Snapshot().Scripts[0],
		Output: "hi\n",
	}})
	view = app.View()
	if !strings.Contains(view, "Script hello.py completed successfully!") || !strings.Contains(view, "hi") {
		t.Errorf("script result missing:\n%s", view)
	}
}

func TestApp_Copy(t *testing.T) {
	setupTest(t)
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { clipboardWrite = orig })

	app := createTestApp(t, createTestStore(t, "copy me"))
	press(app, "y")
	app.Update(copyCmd("copy me")())

	if copied != "copy me" {
		t.Errorf("copied = %q", copied)
	}
	if app.Machine().Status() != "Copied to clipboard" {
		t.Errorf("status = %q", app.Machine().Status())
	}

	app.Update(copiedMsg{err: errors.New("no clipboard")})
	if app.Machine().Status() != "Clipboard unavailable" {
		t.Errorf("status = %q", app.Machine().Status())
	}
}

func TestApp_StatusExpires(t *testing.T) {
	setupTest(t)
	app := createTestApp(t, createTestStore(t, "one"))

	press(app, " ")
	if app.Machine().Status() == "" {
		t.Fatal("no status after toggle")
	}
	app.Update(statusExpiredMsg{seq: 1})
	if app.Machine().Status() != "" {
		t.Errorf("status = %q, want cleared", app.Machine().Status())
	}
	if !strings.Contains(app.View(), "Waiting for input...") {
		t.Error("idle status not shown")
	}
}

func TestApp_QuitFromAddModeWithCtrlC(t *testing.T) {
	setupTest(t)
	app := createTestApp(t, createTestStore(t))

	press(app, "a")
	cmd := press(app, "ctrl+c")
	if cmd == nil || !app.quitting {
		t.Fatal("ctrl+c did not quit")
	}
	if app.ctx.Err() == nil {
		t.Error("context not cancelled on quit")
	}
	if !strings.Contains(app.View(), "See you later!") {
		t.Error("goodbye not rendered")
	}
}

func TestApp_WindowResize(t *testing.T) {
	setupTest(t)
	app := createTestApp(t, createTestStore(t, "one"))

	app.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if app.width != 60 || app.table.width != 60 || app.help.Width != 60 {
		t.Errorf("sizes = %d, %d, %d", app.width, app.table.width, app.help.Width)
	}
}
