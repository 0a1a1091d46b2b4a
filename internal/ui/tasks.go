// Package ui provides the terminal user interface for worklog.
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

// sectionOrder fixes the display order of status sections.
var sectionOrder = []tracker.Status{
	tracker.StatusInProgress,
	tracker.StatusPending,
	tracker.StatusCompleted,
}

func sectionTitle(status tracker.Status) string {
	switch status {
	case tracker.StatusInProgress:
		return "IN PROGRESS"
	case tracker.StatusPending:
		return "PENDING"
	case tracker.StatusCompleted:
		return "COMPLETED"
	default:
		return strings.ToUpper(string(status))
	}
}

// ListView renders the task collection grouped by status and tracks the
// cursor over the flattened display order.
type ListView struct {
	tasks  []tracker.Task
	order  []int // indices into tasks, in display order
	cursor int   // index into order
	width  int
	height int
	styles *Styles

	keys TaskKeyMap
}

// NewListView creates the task list view.
func NewListView(styles *Styles, keyCfg *config.KeysConfig) *ListView {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	return &ListView{
		styles: styles,
		keys:   NewTaskKeyMap(keyCfg),
	}
}

// SetTasks replaces the displayed collection and rebuilds the display order:
// in progress first (running task at the top of its section), then pending,
// then completed. Cursor position is clamped to the new bounds.
func (v *ListView) SetTasks(tasks []tracker.Task) {
	v.tasks = tasks
	v.order = v.order[:0]

	for _, status := range sectionOrder {
		// Running task leads its section.
		for i, t := range tasks {
			if t.Status == status && t.IsTimerActive {
				v.order = append(v.order, i)
			}
		}
		for i, t := range tasks {
			if t.Status == status && !t.IsTimerActive {
				v.order = append(v.order, i)
			}
		}
	}

	if v.cursor >= len(v.order) {
		v.cursor = max(0, len(v.order)-1)
	}
}

// SetSize sets the view dimensions.
func (v *ListView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns a copy of the task under the cursor.
func (v *ListView) Selected() (tracker.Task, bool) {
	if len(v.order) == 0 || v.cursor < 0 || v.cursor >= len(v.order) {
		return tracker.Task{}, false
	}
	return v.tasks[v.order[v.cursor]], true
}

// SelectTask moves the cursor to the task with the given id, if present.
func (v *ListView) SelectTask(id string) {
	for pos, idx := range v.order {
		if v.tasks[idx].ID == id {
			v.cursor = pos
			return
		}
	}
}

// Update handles navigation keys. Action keys are handled by the App, which
// owns the tracker.
func (v *ListView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, v.keys.Down):
		if len(v.order) > 0 {
			v.cursor = min(v.cursor+1, len(v.order)-1)
		}
	case key.Matches(keyMsg, v.keys.Up):
		if len(v.order) > 0 {
			v.cursor = max(v.cursor-1, 0)
		}
	case key.Matches(keyMsg, v.keys.Top):
		v.cursor = 0
	case key.Matches(keyMsg, v.keys.Bottom):
		if len(v.order) > 0 {
			v.cursor = len(v.order) - 1
		}
	}
	return nil
}

// View renders the grouped task list.
func (v *ListView) View() string {
	var b strings.Builder

	if len(v.order) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(v.styles.ColorTextMuted).Italic(true).
			Render("  No tasks yet. Press 'a' to add one."))
		b.WriteString("\n")
		return b.String()
	}

	pos := 0
	for _, status := range sectionOrder {
		count := 0
		for _, idx := range v.order {
			if v.tasks[idx].Status == status {
				count++
			}
		}
		if count == 0 {
			continue
		}

		b.WriteString(v.styles.SectionStyle.Render(fmt.Sprintf(" %s (%d)", sectionTitle(status), count)))
		b.WriteString("\n")

		for _, idx := range v.order {
			task := v.tasks[idx]
			if task.Status != status {
				continue
			}
			b.WriteString(v.renderRow(task, pos == v.cursor))
			b.WriteString("\n")
			pos++
		}
		b.WriteString("\n")
	}

	completed, total := v.Stats()
	b.WriteString("  " + v.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d complete", completed, total)))
	b.WriteString("\n")

	return b.String()
}

// renderRow renders one task line: timer marker, name, elapsed time.
func (v *ListView) renderRow(task tracker.Task, selected bool) string {
	marker := "  "
	if task.IsTimerActive {
		marker = v.styles.TimerRunningStyle.Render("▶ ")
	}

	elapsed := formatDuration(displaySeconds(task))

	// Layout: [2 marker][name][gap][8 time] within the pane width.
	timeWidth := len(elapsed)
	nameWidth := v.width - 2 - timeWidth - 6
	if nameWidth < 8 {
		nameWidth = 8
	}

	name := runewidth.Truncate(task.Name, nameWidth, "..")
	gap := nameWidth - runewidth.StringWidth(name) + 1
	if gap < 1 {
		gap = 1
	}

	var styledName string
	switch {
	case task.Status == tracker.StatusCompleted:
		styledName = v.styles.TaskCompletedStyle.Render(name)
	default:
		styledName = v.styles.TaskPendingStyle.Render(name)
	}

	timeStr := v.styles.StatLabelStyle.Render(elapsed)
	if task.IsTimerActive {
		timeStr = v.styles.TimerRunningStyle.Render(elapsed)
	}

	if selected {
		line := fmt.Sprintf("%s%s%s%s", marker, name, strings.Repeat(" ", gap), elapsed)
		return v.styles.TaskSelectedStyle.Render(" " + line + " ")
	}
	return fmt.Sprintf("  %s%s%s%s", marker, styledName, strings.Repeat(" ", gap), timeStr)
}

// Stats returns completed and total task counts.
func (v *ListView) Stats() (completed, total int) {
	for _, t := range v.tasks {
		if t.Status == tracker.StatusCompleted {
			completed++
		}
	}
	return completed, len(v.tasks)
}

// displaySeconds is the total tracked time to show for a task: the settled
// accumulator plus the open session's elapsed whole seconds while running.
func displaySeconds(task tracker.Task) int64 {
	secs := task.ActiveTime
	if task.IsTimerActive {
		secs += task.CurrentSessionTime
	}
	return secs
}

// formatDuration formats whole seconds as HH:MM:SS.
func formatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	d := time.Duration(secs) * time.Second
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatMinutesShort formats whole seconds as Xh Xm / Xm.
func formatMinutesShort(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
