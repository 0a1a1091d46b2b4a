// Package ui provides the terminal user interface for worklog.
// This file contains the main App model which coordinates the list, form,
// and detail views and routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"worklog/internal/config"
	"worklog/internal/tracker"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// viewMode identifies which view currently owns the screen.
type viewMode int

const (
	viewList viewMode = iota
	viewForm
	viewDetail
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys             *config.KeysConfig
	ConfirmDeletions bool
}

// App is the main application model.
type App struct {
	tracker     *tracker.Tracker
	styles      *Styles
	config      *AppConfig
	list        *ListView
	form        *FormView
	detail      *DetailView
	helpOverlay *HelpOverlay
	confirmDel  *confirmDeleteState
	mode        viewMode
	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap
}

type confirmDeleteState struct {
	title string
	body  string
	apply func() error
	desc  string
}

// NewApp creates a new application around an already loaded tracker.
func NewApp(tr *tracker.Tracker, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:             &config.KeysConfig{},
			ConfirmDeletions: true,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	app := &App{
		tracker:     tr,
		styles:      styles,
		config:      cfg,
		list:        NewListView(styles, cfg.Keys),
		form:        NewFormView(styles, cfg.Keys),
		detail:      NewDetailView(styles, cfg.Keys),
		helpOverlay: NewHelpOverlay(styles),
		mode:        viewList,
		keys:        NewGlobalKeyMap(cfg.Keys),
		helpKeys:    DefaultHelpKeyMap(),
	}

	app.refresh()
	return app
}

// tickMsg is sent periodically for elapsed-time updates.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the tick loop.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// refresh pulls the current collection from the tracker into the views.
func (a *App) refresh() {
	tasks := a.tracker.Tasks()
	a.list.SetTasks(tasks)

	if a.mode == viewDetail {
		task, err := a.tracker.Find(a.detail.TaskID())
		if err != nil {
			// The task was removed out from under the view.
			a.mode = viewList
			return
		}
		a.detail.SetTask(task)
	}
}

// Update handles all messages and routes them to the active view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		a.tracker.Tick(time.Time(msg))
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		a.refresh()
		return a, tickCmd()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Forward everything else (e.g. cursor blink) to the input-bearing view.
	switch a.mode {
	case viewForm:
		_, cmd := a.form.Update(msg)
		return a, cmd
	case viewDetail:
		_, cmd := a.detail.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			pending := a.confirmDel
			a.confirmDel = nil
			if err := pending.apply(); err != nil {
				a.SetStatus(pending.desc+": "+err.Error(), true)
			} else {
				a.SetStatus("Deleted "+pending.desc, false)
			}
			a.refresh()
			return a, nil
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
			return a, nil
		default:
			return a, nil
		}
	}

	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return a, nil
	}

	switch a.mode {
	case viewForm:
		return a.handleFormKey(msg)
	case viewDetail:
		return a.handleDetailKey(msg)
	default:
		return a.handleListKey(msg)
	}
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result, cmd := a.form.Update(msg)
	if result == nil {
		return a, cmd
	}

	a.mode = viewList
	if result.Canceled {
		return a, nil
	}

	if result.TaskID == "" {
		task, err := a.tracker.CreateTask(result.Name, result.Description)
		if err != nil {
			a.SetStatus("Add task: "+err.Error(), true)
			return a, nil
		}
		a.refresh()
		a.list.SelectTask(task.ID)
		a.SetStatus("Added "+truncateText(task.Name, 40), false)
		return a, nil
	}

	if _, err := a.tracker.EditTask(result.TaskID, result.Name, result.Description, result.Activities); err != nil {
		a.SetStatus("Edit task: "+err.Error(), true)
		return a, nil
	}
	a.refresh()
	a.list.SelectTask(result.TaskID)
	return a, nil
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inInput := a.detail.IsAddingNote()

	if !inInput {
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.showHelp = true
			return a, nil
		}
	}

	action, cmd := a.detail.Update(msg)
	if action == nil {
		return a, cmd
	}

	switch {
	case action.Back:
		a.mode = viewList
		a.refresh()
		a.list.SelectTask(a.detail.TaskID())

	case action.AddNote != "":
		if _, err := a.tracker.AddActivity(a.detail.TaskID(), action.AddNote); err != nil {
			a.SetStatus("Add note: "+err.Error(), true)
		}
		a.refresh()

	case action.DeleteSession >= 0:
		id := a.detail.TaskID()
		index := action.DeleteSession
		apply := func() error {
			_, err := a.tracker.DeleteSession(id, index)
			return err
		}
		desc := fmt.Sprintf("session %d", index+1)
		if a.config.ConfirmDeletions {
			a.confirmDel = &confirmDeleteState{
				title: "Delete session?",
				body:  fmt.Sprintf("Session %d and its tracked time will be removed.", index+1),
				apply: apply,
				desc:  desc,
			}
			return a, nil
		}
		if err := apply(); err != nil {
			a.SetStatus("Delete session: "+err.Error(), true)
		}
		a.refresh()

	case action.DeleteActivity != "":
		id := a.detail.TaskID()
		activityID := action.DeleteActivity
		apply := func() error {
			return a.tracker.DeleteActivity(id, activityID)
		}
		if a.config.ConfirmDeletions {
			a.confirmDel = &confirmDeleteState{
				title: "Delete note?",
				body:  "The note will be removed from the task.",
				apply: apply,
				desc:  "note",
			}
			return a, nil
		}
		if err := apply(); err != nil {
			a.SetStatus("Delete note: "+err.Error(), true)
		}
		a.refresh()
	}

	return a, cmd
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, a.list.keys.Add):
		a.mode = viewForm
		return a, a.form.StartAdd()

	case key.Matches(msg, a.list.keys.Edit):
		if task, ok := a.list.Selected(); ok {
			a.mode = viewForm
			return a, a.form.StartEdit(task)
		}
		a.SetStatus("No task selected", true)
		return a, nil

	case key.Matches(msg, a.list.keys.ToggleTimer):
		task, ok := a.list.Selected()
		if !ok {
			a.SetStatus("No task selected", true)
			return a, nil
		}
		var err error
		if task.IsTimerActive {
			err = a.tracker.PauseTimer(task.ID)
		} else {
			err = a.tracker.StartTimer(task.ID)
		}
		if err != nil {
			a.SetStatus("Timer: "+err.Error(), true)
		}
		a.refresh()
		a.list.SelectTask(task.ID)
		return a, nil

	case key.Matches(msg, a.list.keys.Complete):
		task, ok := a.list.Selected()
		if !ok {
			a.SetStatus("No task selected", true)
			return a, nil
		}
		var err error
		if task.Status == tracker.StatusCompleted {
			err = a.tracker.ReopenTask(task.ID)
		} else {
			err = a.tracker.CompleteTask(task.ID)
		}
		if err != nil {
			a.SetStatus("Status: "+err.Error(), true)
		}
		a.refresh()
		a.list.SelectTask(task.ID)
		return a, nil

	case key.Matches(msg, a.list.keys.Delete):
		task, ok := a.list.Selected()
		if !ok {
			a.SetStatus("No task selected", true)
			return a, nil
		}
		apply := func() error { return a.tracker.DeleteTask(task.ID) }
		if a.config.ConfirmDeletions {
			a.confirmDel = &confirmDeleteState{
				title: "Delete task?",
				body:  truncateText(task.Name, 60),
				apply: apply,
				desc:  truncateText(task.Name, 40),
			}
			return a, nil
		}
		if err := apply(); err != nil {
			a.SetStatus("Delete: "+err.Error(), true)
		}
		a.refresh()
		return a, nil

	case key.Matches(msg, a.list.keys.Detail):
		if task, ok := a.list.Selected(); ok {
			a.detail.Show(task)
			a.mode = viewDetail
		}
		return a, nil
	}

	return a, a.list.Update(msg)
}

// updateLayout recalculates view sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for the title bar (2) and help bar (1).
	contentHeight := a.height - 4
	if contentHeight < 8 {
		contentHeight = 8
	}
	contentWidth := a.width - 2
	if contentWidth < 20 {
		contentWidth = 20
	}

	a.helpOverlay.SetSize(a.width, a.height)
	a.list.SetSize(contentWidth, contentHeight)
	a.form.SetSize(contentWidth, contentHeight)
	a.detail.SetSize(contentWidth, contentHeight)
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	b.WriteString(a.renderTitleBar())
	b.WriteString("\n\n")

	switch a.mode {
	case viewForm:
		b.WriteString(a.form.View())
	case viewDetail:
		b.WriteString(a.detail.View())
	default:
		b.WriteString(a.list.View())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderGoodbye shows an exit message with a session summary.
func (a *App) renderGoodbye() string {
	completed, total := a.list.Stats()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	b.WriteString("\n")

	if total > 0 {
		pct := (completed * 100) / total
		b.WriteString(fmt.Sprintf("  Tasks: %d/%d complete (%d%%)\n", completed, total, pct))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTitleBar creates the top title bar with stats and timer status.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" worklog ")

	completed, total := a.list.Stats()
	var stats string
	if total > 0 {
		stats = a.styles.StatLabelStyle.Render(fmt.Sprintf("Tasks: %d/%d", completed, total))
	}

	var timerStatus string
	if active, ok := a.tracker.ActiveTask(); ok {
		name := runewidth.Truncate(active.Name, 16, "…")
		timerStatus = a.styles.TimerRunningStyle.Render(
			fmt.Sprintf("▶ %s %s", name, formatDuration(active.CurrentSessionTime)))
	}

	dateStr := time.Now().Format("Mon Jan 2 · 15:04")
	date := a.styles.DateStyle.Render(dateStr)

	usedWidth := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(timerStatus) + lipgloss.Width(date)
	spacerWidth := a.width - usedWidth - 6
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	var parts []string
	parts = append(parts, title)
	if stats != "" {
		parts = append(parts, "  "+stats)
	}

	leftSpacer := strings.Repeat(" ", spacerWidth/2)
	rightSpacer := strings.Repeat(" ", spacerWidth-spacerWidth/2)

	parts = append(parts, leftSpacer)
	if timerStatus != "" {
		parts = append(parts, timerStatus)
	}
	parts = append(parts, rightSpacer)
	parts = append(parts, date)

	return strings.Join(parts, "")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	switch a.mode {
	case viewForm:
		return a.styles.RenderHelp(
			"enter", "next/save",
			"tab", "field",
			"esc", "cancel",
		)
	case viewDetail:
		if a.detail.IsAddingNote() {
			return a.styles.RenderHelp(
				"enter", "save",
				"esc", "cancel",
			)
		}
		return a.styles.RenderHelp(
			"tab", "section",
			"n", "note",
			"x", "del",
			"j/k", "nav",
			"esc", "back",
		)
	default:
		return a.styles.RenderHelp(
			"a", "add",
			"space", "timer",
			"d", "done",
			"v", "details",
			"x", "del",
			"j/k", "nav",
			"?", "help",
		)
	}
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// truncateText shortens text to at most n display cells.
func truncateText(text string, n int) string {
	return runewidth.Truncate(text, n, "…")
}

// Run starts the Bubble Tea program around the given tracker.
func Run(tr *tracker.Tracker, styles *Styles, cfg *AppConfig) error {
	app := NewApp(tr, styles, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
