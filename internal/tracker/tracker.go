package tracker

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	maxNameLen        = 200
	maxDescriptionLen = 2000
	maxActivityLen    = 500
)

// Tracker owns the authoritative task collection and enforces the timing
// state machine. All operations take the collection as a whole so the
// single-timer exclusivity invariant can be enforced inside one locked
// read-modify-write; no operation ever leaves a task partially updated.
type Tracker struct {
	mu    sync.Mutex
	tasks []Task

	now      func() time.Time
	onChange func(tasks []Task)
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{now: time.Now}
}

// SetNowFunc overrides the clock used by timer operations.
// Passing nil resets it to time.Now.
func (t *Tracker) SetNowFunc(now func() time.Time) {
	if now == nil {
		t.now = time.Now
		return
	}
	t.now = now
}

// Now returns the current time according to the tracker clock.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// SetOnChange registers a callback invoked with a deep copy of the
// collection after every successful mutation. The callback runs while the
// operation still holds the collection, so it must not call back into the
// Tracker; hand the snapshot off (e.g. to a save queue) instead.
func (t *Tracker) SetOnChange(fn func(tasks []Task)) {
	t.onChange = fn
}

// Replace swaps in a previously persisted task collection. Used once at
// startup with the loaded snapshot; it does not trigger the change callback.
func (t *Tracker) Replace(tasks []Task) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks = CloneTasks(tasks)
}

// Tasks returns a deep copy of the current task collection in insertion
// order.
func (t *Tracker) Tasks() []Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return CloneTasks(t.tasks)
}

// Find returns a copy of the task with the given id.
func (t *Tracker) Find(id string) (Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	task := t.findLocked(id)
	if task == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return task.Clone(), nil
}

// CreateTask adds a new pending task with zeroed timing state.
func (t *Tracker) CreateTask(name, description string) (Task, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" {
		return Task{}, ErrNameRequired
	}
	if len(name) > maxNameLen {
		return Task{}, fmt.Errorf("task name too long (max %d)", maxNameLen)
	}
	if len(description) > maxDescriptionLen {
		return Task{}, fmt.Errorf("description too long (max %d)", maxDescriptionLen)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	task := Task{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		Status:       StatusPending,
		AssignedDate: t.now().Format("2006-01-02"),
		Sessions:     []Session{},
	}
	t.tasks = append(t.tasks, task)

	t.notifyLocked()
	return task.Clone(), nil
}

// EditTask replaces a task's mutable fields: name, description, and the
// activity log. Timing state and status are left untouched. Activities
// without an id are treated as new entries and assigned one.
func (t *Tracker) EditTask(id, name, description string, activities []Activity) (Task, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" {
		return Task{}, ErrNameRequired
	}
	if len(name) > maxNameLen {
		return Task{}, fmt.Errorf("task name too long (max %d)", maxNameLen)
	}
	if len(description) > maxDescriptionLen {
		return Task{}, fmt.Errorf("description too long (max %d)", maxDescriptionLen)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	task := t.findLocked(id)
	if task == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	cleaned := make([]Activity, 0, len(activities))
	for _, a := range activities {
		a.Text = strings.TrimSpace(a.Text)
		if a.Text == "" {
			continue
		}
		if len(a.Text) > maxActivityLen {
			return Task{}, fmt.Errorf("activity text too long (max %d)", maxActivityLen)
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.Timestamp.IsZero() {
			a.Timestamp = t.now()
		}
		cleaned = append(cleaned, a)
	}

	task.Name = name
	task.Description = description
	task.Activities = cleaned

	t.notifyLocked()
	return task.Clone(), nil
}

// AddActivity appends a free-text note to a task's activity log.
func (t *Tracker) AddActivity(id, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, fmt.Errorf("activity text is required")
	}
	if len(text) > maxActivityLen {
		return Task{}, fmt.Errorf("activity text too long (max %d)", maxActivityLen)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	task := t.findLocked(id)
	if task == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	task.Activities = append(task.Activities, Activity{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: t.now(),
	})

	t.notifyLocked()
	return task.Clone(), nil
}

// DeleteActivity removes a note from a task's activity log.
func (t *Tracker) DeleteActivity(id, activityID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	task := t.findLocked(id)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	for i, a := range task.Activities {
		if a.ID == activityID {
			task.Activities = append(task.Activities[:i], task.Activities[i+1:]...)
			t.notifyLocked()
			return nil
		}
	}
	return fmt.Errorf("activity not found: %s", activityID)
}

// DeleteTask removes a task from the collection. If the task owns the
// active timer, its open interval is discarded without crediting partial
// time; callers that care about that interval should pause first.
func (t *Tracker) DeleteTask(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.tasks {
		if t.tasks[i].ID == id {
			t.tasks = append(t.tasks[:i], t.tasks[i+1:]...)
			t.notifyLocked()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// DeleteSession removes the session at index from a task and debits its
// whole-second duration from both accumulators, restoring the invariant
// that accumulated time equals the sum over recorded sessions.
func (t *Tracker) DeleteSession(id string, index int) (Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task := t.findLocked(id)
	if task == nil {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if index < 0 || index >= len(task.Sessions) {
		return Task{}, fmt.Errorf("%w: %d", ErrSessionIndex, index)
	}

	secs := sessionSeconds(task.Sessions[index])
	task.Sessions = append(task.Sessions[:index], task.Sessions[index+1:]...)
	task.ActiveTime -= secs
	task.BaseActiveTime -= secs

	t.notifyLocked()
	return task.Clone(), nil
}

// StartTimer makes the task the sole owner of the global timer and moves it
// to in progress. Any other task currently timing is stopped first with the
// same close-session rules as PauseTimer, so at most one timer ever runs.
// Starting a completed task's timer implicitly reopens it.
func (t *Tracker) StartTimer(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	task := t.findLocked(id)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if task.IsTimerActive {
		// Already the sole owner; restarting would discard the open
		// interval.
		return nil
	}

	now := t.now()
	for i := range t.tasks {
		if t.tasks[i].ID != id && t.tasks[i].IsTimerActive {
			t.stopLocked(&t.tasks[i], now)
		}
	}

	// Reconciliation point: fold any external adjustment of ActiveTime
	// into the accumulator before opening a new session.
	task.BaseActiveTime = task.ActiveTime
	task.IsTimerActive = true
	task.TimerStartTime = &now
	task.CurrentSessionTime = 0
	task.Status = StatusInProgress

	t.notifyLocked()
	return nil
}

// PauseTimer stops the task's running timer, recording a session when at
// least one whole second elapsed. Status is left unchanged: pausing does
// not demote a task back to pending.
func (t *Tracker) PauseTimer(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	task := t.findLocked(id)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if !task.IsTimerActive {
		return fmt.Errorf("%w: %s", ErrTimerNotRunning, id)
	}

	t.stopLocked(task, t.now())
	t.notifyLocked()
	return nil
}

// CompleteTask marks a task completed. A running timer is closed first so
// the task never leaves the timing role with an unaccounted open interval.
func (t *Tracker) CompleteTask(id string) error {
	return t.setStatus(id, StatusCompleted)
}

// ReopenTask moves a completed task back to in progress. Symmetric to
// CompleteTask, including closing a running timer.
func (t *Tracker) ReopenTask(id string) error {
	return t.setStatus(id, StatusInProgress)
}

func (t *Tracker) setStatus(id string, status Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	task := t.findLocked(id)
	if task == nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if task.IsTimerActive && task.TimerStartTime != nil {
		now := t.now()
		start := *task.TimerStartTime
		secs, sess := closeSession(start, now)
		if sess == nil {
			// Unlike pausing, a status change records even a
			// sub-second session; zero seconds are credited.
			sess = &Session{Start: start, End: now}
		}
		task.Sessions = append(task.Sessions, *sess)
		task.BaseActiveTime += secs
		task.ActiveTime = task.BaseActiveTime
	}

	task.Status = status
	task.IsTimerActive = false
	task.TimerStartTime = nil
	task.CurrentSessionTime = 0

	t.notifyLocked()
	return nil
}

// Tick refreshes the displayed session time of the task owning the timer,
// if any. It is read-only with respect to persisted state: accumulators and
// sessions are untouched, nothing is saved, and calling it twice with the
// same now is a no-op the second time.
func (t *Tracker) Tick(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.tasks {
		task := &t.tasks[i]
		if task.IsTimerActive && task.TimerStartTime != nil {
			secs := int64(now.Sub(*task.TimerStartTime) / time.Second)
			if secs < 0 {
				secs = 0
			}
			task.CurrentSessionTime = secs
			return
		}
	}
}

// ActiveTask returns a copy of the task currently owning the timer.
func (t *Tracker) ActiveTask() (Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.tasks {
		if t.tasks[i].IsTimerActive {
			return t.tasks[i].Clone(), true
		}
	}
	return Task{}, false
}

// stopLocked closes a task's open session with pause semantics: spans under
// one second are discarded rather than recorded.
func (t *Tracker) stopLocked(task *Task, now time.Time) {
	if task.TimerStartTime != nil {
		if secs, sess := closeSession(*task.TimerStartTime, now); sess != nil {
			task.Sessions = append(task.Sessions, *sess)
			task.BaseActiveTime += secs
			task.ActiveTime = task.BaseActiveTime
		}
	}
	task.IsTimerActive = false
	task.TimerStartTime = nil
	task.CurrentSessionTime = 0
}

func (t *Tracker) findLocked(id string) *Task {
	for i := range t.tasks {
		if t.tasks[i].ID == id {
			return &t.tasks[i]
		}
	}
	return nil
}

// notifyLocked hands a snapshot to the change callback. The save is skipped
// while the collection is empty, matching the persistence contract: the
// snapshot starts being written once there is something to write.
func (t *Tracker) notifyLocked() {
	if t.onChange == nil || len(t.tasks) == 0 {
		return
	}
	t.onChange(CloneTasks(t.tasks))
}
