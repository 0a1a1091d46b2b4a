package ui

import (
	"strings"

	"worklog/internal/config"
	"worklog/internal/tracker"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FormResult carries the outcome of the add/edit form back to the App.
type FormResult struct {
	Canceled    bool
	TaskID      string // empty when adding
	Name        string
	Description string
	Activities  []tracker.Activity // preserved through an edit
}

// FormView is the add/edit task form with name and description fields.
type FormView struct {
	taskID     string
	activities []tracker.Activity
	name       textinput.Model
	desc       textinput.Model
	focusIdx   int
	width      int
	styles     *Styles

	inputKeys InputKeyMap
}

// NewFormView creates the task form.
func NewFormView(styles *Styles, keyCfg *config.KeysConfig) *FormView {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}

	name := textinput.New()
	name.Placeholder = "What are you working on?"
	name.CharLimit = 200
	name.Width = 40

	desc := textinput.New()
	desc.Placeholder = "Optional description"
	desc.CharLimit = 500
	desc.Width = 40

	return &FormView{
		name:      name,
		desc:      desc,
		styles:    styles,
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// StartAdd resets the form for creating a new task.
func (f *FormView) StartAdd() tea.Cmd {
	f.taskID = ""
	f.activities = nil
	f.name.Reset()
	f.desc.Reset()
	f.focusIdx = 0
	f.name.Focus()
	f.desc.Blur()
	return textinput.Blink
}

// StartEdit pre-fills the form with an existing task.
func (f *FormView) StartEdit(task tracker.Task) tea.Cmd {
	f.taskID = task.ID
	f.activities = task.Activities
	f.name.SetValue(task.Name)
	f.desc.SetValue(task.Description)
	f.focusIdx = 0
	f.name.Focus()
	f.desc.Blur()
	return textinput.Blink
}

// Editing reports whether the form is editing an existing task.
func (f *FormView) Editing() bool {
	return f.taskID != ""
}

// SetSize sets the view dimensions.
func (f *FormView) SetSize(width, height int) {
	f.width = width
	inputWidth := max(10, width-16)
	f.name.Width = inputWidth
	f.desc.Width = inputWidth
}

// Update handles form input. A non-nil result means the form is done:
// either canceled or carrying the values to apply.
func (f *FormView) Update(msg tea.Msg) (*FormResult, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, f.inputKeys.Cancel):
			return &FormResult{Canceled: true}, nil

		case key.Matches(keyMsg, f.inputKeys.Confirm):
			// Enter advances from name to description; from the last
			// field it submits.
			if f.focusIdx == 0 {
				f.setFocus(1)
				return nil, textinput.Blink
			}
			name := strings.TrimSpace(f.name.Value())
			if name == "" {
				// Nothing to save.
				return &FormResult{Canceled: true}, nil
			}
			return &FormResult{
				TaskID:      f.taskID,
				Name:        name,
				Description: strings.TrimSpace(f.desc.Value()),
				Activities:  f.activities,
			}, nil

		case key.Matches(keyMsg, f.inputKeys.NextField):
			f.setFocus((f.focusIdx + 1) % 2)
			return nil, textinput.Blink
		}
	}

	var cmd tea.Cmd
	if f.focusIdx == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.desc, cmd = f.desc.Update(msg)
	}
	return nil, cmd
}

func (f *FormView) setFocus(idx int) {
	f.focusIdx = idx
	if idx == 0 {
		f.name.Focus()
		f.desc.Blur()
	} else {
		f.name.Blur()
		f.desc.Focus()
	}
}

// View renders the form.
func (f *FormView) View() string {
	var b strings.Builder

	title := "New task"
	if f.Editing() {
		title = "Edit task"
	}
	b.WriteString(f.styles.SectionStyle.Render(" " + title))
	b.WriteString("\n\n")

	b.WriteString("  " + f.styles.InputLabelStyle.Render("Name        "))
	b.WriteString(f.name.View())
	b.WriteString("\n\n")

	b.WriteString("  " + f.styles.InputLabelStyle.Render("Description "))
	b.WriteString(f.desc.View())
	b.WriteString("\n")

	return b.String()
}
