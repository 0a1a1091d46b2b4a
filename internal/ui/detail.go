package ui

import (
	"fmt"
	"strings"

	"worklog/internal/config"
	"worklog/internal/tracker"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type detailSection int

const (
	sectionSessions detailSection = iota
	sectionActivities
)

// DetailAction is what the detail view asks the App to do. At most one
// field is set per update.
type DetailAction struct {
	Back           bool
	AddNote        string
	DeleteSession  int    // session index, -1 when unset
	DeleteActivity string // activity id, empty when unset
}

// DetailView shows one task's sessions and activity notes.
type DetailView struct {
	task       tracker.Task
	section    detailSection
	cursor     int
	addingNote bool
	noteInput  textinput.Model
	width      int
	height     int
	styles     *Styles

	keys      DetailKeyMap
	inputKeys InputKeyMap
}

// NewDetailView creates the task detail view.
func NewDetailView(styles *Styles, keyCfg *config.KeysConfig) *DetailView {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}

	note := textinput.New()
	note.Placeholder = "What happened?"
	note.CharLimit = 500
	note.Width = 40

	return &DetailView{
		noteInput: note,
		styles:    styles,
		keys:      NewDetailKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// Show resets the view onto a task.
func (v *DetailView) Show(task tracker.Task) {
	v.task = task
	v.section = sectionSessions
	v.cursor = 0
	v.addingNote = false
	v.noteInput.Reset()
}

// SetTask refreshes the displayed task without resetting position. Used on
// ticks and after mutations so the view tracks the live collection.
func (v *DetailView) SetTask(task tracker.Task) {
	v.task = task
	v.clampCursor()
}

// TaskID returns the id of the task being shown.
func (v *DetailView) TaskID() string {
	return v.task.ID
}

// IsAddingNote reports whether the note input is open.
func (v *DetailView) IsAddingNote() bool {
	return v.addingNote
}

// SetSize sets the view dimensions.
func (v *DetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.noteInput.Width = max(10, width-10)
}

func (v *DetailView) sectionLen() int {
	if v.section == sectionSessions {
		return len(v.task.Sessions)
	}
	return len(v.task.Activities)
}

func (v *DetailView) clampCursor() {
	if n := v.sectionLen(); v.cursor >= n {
		v.cursor = max(0, n-1)
	}
}

// Update handles detail view input. A non-nil action tells the App what to
// do; navigation is handled internally.
func (v *DetailView) Update(msg tea.Msg) (*DetailAction, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.addingNote {
			var cmd tea.Cmd
			v.noteInput, cmd = v.noteInput.Update(msg)
			return nil, cmd
		}
		return nil, nil
	}

	if v.addingNote {
		switch {
		case key.Matches(keyMsg, v.inputKeys.Confirm):
			text := strings.TrimSpace(v.noteInput.Value())
			v.addingNote = false
			v.noteInput.Reset()
			if text == "" {
				return nil, nil
			}
			return &DetailAction{AddNote: text, DeleteSession: -1}, nil

		case key.Matches(keyMsg, v.inputKeys.Cancel):
			v.addingNote = false
			v.noteInput.Reset()
			return nil, nil
		}

		var cmd tea.Cmd
		v.noteInput, cmd = v.noteInput.Update(msg)
		return nil, cmd
	}

	switch {
	case key.Matches(keyMsg, v.keys.Back):
		return &DetailAction{Back: true, DeleteSession: -1}, nil

	case key.Matches(keyMsg, v.keys.Section):
		if v.section == sectionSessions {
			v.section = sectionActivities
		} else {
			v.section = sectionSessions
		}
		v.cursor = 0

	case key.Matches(keyMsg, v.keys.Down):
		if n := v.sectionLen(); n > 0 {
			v.cursor = min(v.cursor+1, n-1)
		}

	case key.Matches(keyMsg, v.keys.Up):
		v.cursor = max(v.cursor-1, 0)

	case key.Matches(keyMsg, v.keys.Top):
		v.cursor = 0

	case key.Matches(keyMsg, v.keys.Bottom):
		if n := v.sectionLen(); n > 0 {
			v.cursor = n - 1
		}

	case key.Matches(keyMsg, v.keys.AddNote):
		v.addingNote = true
		v.noteInput.Focus()
		return nil, textinput.Blink

	case key.Matches(keyMsg, v.keys.DeleteItem):
		if v.section == sectionSessions {
			if v.cursor < len(v.task.Sessions) {
				return &DetailAction{DeleteSession: v.cursor}, nil
			}
		} else {
			if v.cursor < len(v.task.Activities) {
				return &DetailAction{
					DeleteSession:  -1,
					DeleteActivity: v.task.Activities[v.cursor].ID,
				}, nil
			}
		}
	}

	return nil, nil
}

// View renders the task details with sessions and activity notes.
func (v *DetailView) View() string {
	var b strings.Builder
	task := v.task

	nameWidth := max(10, v.width-6)
	b.WriteString(" " + v.styles.SectionStyle.Render(runewidth.Truncate(task.Name, nameWidth, "..")))
	b.WriteString("\n")

	if task.Description != "" {
		b.WriteString("  " + v.styles.StatLabelStyle.Render(runewidth.Truncate(task.Description, nameWidth, "..")))
		b.WriteString("\n")
	}

	status := string(task.Status)
	if task.IsTimerActive {
		status = v.styles.TimerRunningStyle.Render("▶ timing")
	}
	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s\n",
		v.styles.StatLabelStyle.Render("status:"), status,
		v.styles.StatLabelStyle.Render("total:"), v.styles.StatValueStyle.Render(formatDuration(displaySeconds(task))),
		v.styles.StatLabelStyle.Render("assigned:"), task.AssignedDate,
	))
	b.WriteString("\n")

	b.WriteString(v.renderSectionHeader("SESSIONS", len(task.Sessions), v.section == sectionSessions))
	b.WriteString("\n")
	if len(task.Sessions) == 0 {
		b.WriteString("  " + v.styles.StatLabelStyle.Render("none recorded") + "\n")
	}
	for i, s := range task.Sessions {
		secs := int64(s.End.Sub(s.Start).Seconds())
		line := fmt.Sprintf("%d. %s → %s (%s)",
			i+1,
			s.Start.Format("Jan 2 15:04:05"),
			s.End.Format("15:04:05"),
			formatMinutesShort(secs),
		)
		b.WriteString(v.renderItem(line, v.section == sectionSessions && i == v.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(v.renderSectionHeader("NOTES", len(task.Activities), v.section == sectionActivities))
	b.WriteString("\n")
	if len(task.Activities) == 0 {
		b.WriteString("  " + v.styles.StatLabelStyle.Render("none yet, press 'n' to add one") + "\n")
	}
	for i, a := range task.Activities {
		line := fmt.Sprintf("%s  %s",
			a.Timestamp.Format("Jan 2 15:04"),
			runewidth.Truncate(a.Text, max(10, v.width-24), ".."),
		)
		b.WriteString(v.renderItem(line, v.section == sectionActivities && i == v.cursor))
		b.WriteString("\n")
	}

	if v.addingNote {
		b.WriteString("\n")
		b.WriteString("  " + v.styles.InputPromptStyle.Render("+ ") + v.noteInput.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (v *DetailView) renderSectionHeader(name string, count int, active bool) string {
	label := fmt.Sprintf(" %s (%d)", name, count)
	if active {
		return v.styles.SectionStyle.Render(label)
	}
	return lipgloss.NewStyle().Foreground(v.styles.ColorTextMuted).Bold(true).Render(label)
}

func (v *DetailView) renderItem(line string, selected bool) string {
	if selected && !v.addingNote {
		return v.styles.TaskSelectedStyle.Render(" " + line + " ")
	}
	return "  " + line
}
