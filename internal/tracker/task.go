// Package tracker implements the task collection and its timing state
// machine: task lifecycle (pending → in progress → completed), the single
// global timer, and the session accounting that credits whole seconds of
// active time to tasks.
package tracker

import "time"

// Status represents a task's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inProgress"
	StatusCompleted  Status = "completed"
)

// Task represents a single unit of work.
type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`

	// AssignedDate is the creation date in YYYY-MM-DD form. Immutable.
	AssignedDate string `json:"assigned_date"`

	// BaseActiveTime is the authoritative accumulator: whole seconds from
	// all closed sessions. ActiveTime mirrors it whenever no timer runs.
	ActiveTime     int64 `json:"active_time"`
	BaseActiveTime int64 `json:"base_active_time"`

	// CurrentSessionTime is display-only: seconds elapsed in the open
	// session, refreshed by Tick. Zero while the timer is stopped.
	CurrentSessionTime int64 `json:"current_session_time"`

	Sessions []Session `json:"sessions"`

	IsTimerActive  bool       `json:"is_timer_active"`
	TimerStartTime *time.Time `json:"timer_start_time,omitempty"`

	// Activities are free-text log entries, independent of time accounting.
	Activities []Activity `json:"activities,omitempty"`
}

// Session is a closed interval during which the task's timer was running.
// Sessions are immutable once recorded, except for explicit deletion.
type Session struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Activity is a free-text note attached to a task.
type Activity struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.TimerStartTime != nil {
		start := *t.TimerStartTime
		c.TimerStartTime = &start
	}
	if t.Sessions != nil {
		c.Sessions = make([]Session, len(t.Sessions))
		copy(c.Sessions, t.Sessions)
	}
	if t.Activities != nil {
		c.Activities = make([]Activity, len(t.Activities))
		copy(c.Activities, t.Activities)
	}
	return c
}

// CloneTasks returns a deep copy of a task collection.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
