// Package ui provides the terminal user interface for worklog.
// This file contains tests for the main App model and its key routing.
package ui

import (
	"strings"
	"testing"
	"time"

	"worklog/internal/tracker"

	tea "github.com/charmbracelet/bubbletea"
)

func typeString(app *App, s string) {
	for _, r := range s {
		app.Update(keyRune(r))
	}
}

func TestApp_AddTaskFlow(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr, false)

	app.Update(keyRune('a'))
	if app.mode != viewForm {
		t.Fatalf("mode after 'a' = %v, want viewForm", app.mode)
	}

	typeString(app, "Ship release")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter}) // to description
	typeString(app, "cut and tag")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter}) // save

	if app.mode != viewList {
		t.Fatalf("mode after save = %v, want viewList", app.mode)
	}
	tasks := tr.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	if tasks[0].Name != "Ship release" || tasks[0].Description != "cut and tag" {
		t.Errorf("task = %+v", tasks[0])
	}
	if tasks[0].Status != tracker.StatusPending {
		t.Errorf("Status = %q, want pending", tasks[0].Status)
	}
}

func TestApp_AddCanceledByEsc(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr, false)

	app.Update(keyRune('a'))
	typeString(app, "half typed")
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if app.mode != viewList {
		t.Errorf("mode after esc = %v, want viewList", app.mode)
	}
	if len(tr.Tasks()) != 0 {
		t.Errorf("len(tasks) = %d, want 0", len(tr.Tasks()))
	}
}

func TestApp_EditTaskFlow(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	task, _ := tr.CreateTask("old name", "old desc")
	app := newTestApp(t, tr, false)

	app.Update(keyRune('e'))
	if app.mode != viewForm {
		t.Fatalf("mode after 'e' = %v, want viewForm", app.mode)
	}
	if !app.form.Editing() {
		t.Fatal("form should be in edit mode")
	}

	// Replace the name field wholesale.
	app.form.name.SetValue("new name")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got, err := tr.Find(task.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Name != "new name" {
		t.Errorf("Name = %q, want %q", got.Name, "new name")
	}
}

func TestApp_ToggleTimer(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	task, _ := tr.CreateTask("work", "")
	app := newTestApp(t, tr, false)

	app.Update(tea.KeyMsg{Type: tea.KeySpace})
	got, _ := tr.Find(task.ID)
	if !got.IsTimerActive {
		t.Fatal("timer should be running after space")
	}
	if got.Status != tracker.StatusInProgress {
		t.Errorf("Status = %q, want inProgress", got.Status)
	}

	app.Update(tea.KeyMsg{Type: tea.KeySpace})
	got, _ = tr.Find(task.ID)
	if got.IsTimerActive {
		t.Fatal("timer should be paused after second space")
	}
}

func TestApp_CompleteAndReopen(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	task, _ := tr.CreateTask("work", "")
	app := newTestApp(t, tr, false)

	app.Update(keyRune('d'))
	got, _ := tr.Find(task.ID)
	if got.Status != tracker.StatusCompleted {
		t.Fatalf("Status = %q, want completed", got.Status)
	}

	app.Update(keyRune('d'))
	got, _ = tr.Find(task.ID)
	if got.Status != tracker.StatusInProgress {
		t.Errorf("Status after reopen = %q, want inProgress", got.Status)
	}
}

func TestApp_DeleteWithConfirmation(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	tr.CreateTask("doomed", "")
	app := newTestApp(t, tr, true)

	app.Update(keyRune('x'))
	if app.confirmDel == nil {
		t.Fatal("expected confirmation prompt")
	}

	view := app.View()
	if !strings.Contains(view, "Delete task?") || !strings.Contains(view, "doomed") {
		t.Errorf("confirmation view missing prompt:\n%s", view)
	}

	app.Update(keyRune('y'))
	if len(tr.Tasks()) != 0 {
		t.Errorf("len(tasks) = %d, want 0 after confirm", len(tr.Tasks()))
	}
}

func TestApp_DeleteCanceled(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	tr.CreateTask("kept", "")
	app := newTestApp(t, tr, true)

	app.Update(keyRune('x'))
	app.Update(keyRune('n'))

	if app.confirmDel != nil {
		t.Error("confirmation should be dismissed")
	}
	if len(tr.Tasks()) != 1 {
		t.Errorf("len(tasks) = %d, want 1 after cancel", len(tr.Tasks()))
	}
}

func TestApp_DeleteWithoutConfirmation(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	tr.CreateTask("doomed", "")
	app := newTestApp(t, tr, false)

	app.Update(keyRune('x'))
	if len(tr.Tasks()) != 0 {
		t.Errorf("len(tasks) = %d, want 0", len(tr.Tasks()))
	}
}

func TestApp_TickUpdatesElapsedDisplay(t *testing.T) {
	setupTest(t)
	tr, clock := newTestTracker(t)
	task, _ := tr.CreateTask("work", "")
	tr.StartTimer(task.ID)
	app := newTestApp(t, tr, false)

	app.Update(tickMsg(clock.Advance(5 * time.Second)))

	view := app.View()
	if !strings.Contains(view, "00:00:05") {
		t.Errorf("view missing elapsed time after tick:\n%s", view)
	}
}

func TestApp_TickDoesNotMutateAccumulators(t *testing.T) {
	setupTest(t)
	tr, clock := newTestTracker(t)
	task, _ := tr.CreateTask("work", "")
	tr.StartTimer(task.ID)
	app := newTestApp(t, tr, false)

	app.Update(tickMsg(clock.Advance(5 * time.Second)))

	got, _ := tr.Find(task.ID)
	if got.ActiveTime != 0 || got.BaseActiveTime != 0 {
		t.Errorf("tick mutated accumulators: active=%d base=%d", got.ActiveTime, got.BaseActiveTime)
	}
	if got.CurrentSessionTime != 5 {
		t.Errorf("CurrentSessionTime = %d, want 5", got.CurrentSessionTime)
	}
}

func TestApp_DetailFlow(t *testing.T) {
	setupTest(t)
	tr, clock := newTestTracker(t)
	task, _ := tr.CreateTask("work", "some details")
	tr.StartTimer(task.ID)
	clock.Advance(90 * time.Second)
	tr.PauseTimer(task.ID)
	tr.AddActivity(task.ID, "made progress")
	app := newTestApp(t, tr, false)

	app.Update(keyRune('v'))
	if app.mode != viewDetail {
		t.Fatalf("mode after 'v' = %v, want viewDetail", app.mode)
	}

	view := app.View()
	for _, want := range []string{"work", "SESSIONS (1)", "NOTES (1)", "made progress", "00:01:30"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	// Add a note from the detail view.
	app.Update(keyRune('n'))
	typeString(app, "wrapped up")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := tr.Find(task.ID)
	if len(got.Activities) != 2 {
		t.Fatalf("len(Activities) = %d, want 2", len(got.Activities))
	}

	// Delete the selected session.
	app.Update(keyRune('x'))
	got, _ = tr.Find(task.ID)
	if len(got.Sessions) != 0 {
		t.Errorf("len(Sessions) = %d, want 0 after delete", len(got.Sessions))
	}
	if got.ActiveTime != 0 {
		t.Errorf("ActiveTime = %d, want 0 after session delete", got.ActiveTime)
	}

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if app.mode != viewList {
		t.Errorf("mode after esc = %v, want viewList", app.mode)
	}
}

func TestApp_DetailFollowsDeletedTask(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	task, _ := tr.CreateTask("work", "")
	app := newTestApp(t, tr, false)

	app.Update(keyRune('v'))
	tr.DeleteTask(task.ID)
	app.refresh()

	if app.mode != viewList {
		t.Errorf("mode = %v, want viewList after underlying task vanished", app.mode)
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr, false)

	app.Update(keyRune('?'))
	if !app.showHelp {
		t.Fatal("help should be shown")
	}

	view := app.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Errorf("help overlay missing title:\n%s", view)
	}

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if app.showHelp {
		t.Error("help should be dismissed")
	}
}

func TestApp_QuitRendersSummary(t *testing.T) {
	setupTest(t)
	tr, _ := newTestTracker(t)
	a, _ := tr.CreateTask("one", "")
	tr.CreateTask("two", "")
	tr.CompleteTask(a.ID)
	app := newTestApp(t, tr, false)

	_, cmd := app.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}

	view := app.View()
	if !strings.Contains(view, "1/2 complete") {
		t.Errorf("goodbye view missing summary:\n%s", view)
	}
}

func TestApp_TitleBarShowsRunningTask(t *testing.T) {
	setupTest(t)
	tr, clock := newTestTracker(t)
	task, _ := tr.CreateTask("deep work", "")
	tr.StartTimer(task.ID)
	app := newTestApp(t, tr, false)
	app.Update(tickMsg(clock.Advance(3 * time.Second)))

	view := app.View()
	if !strings.Contains(view, "deep work") || !strings.Contains(view, "00:00:03") {
		t.Errorf("title bar missing running timer:\n%s", view)
	}
}
