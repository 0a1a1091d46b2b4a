package tracker

import "errors"

// Sentinel errors returned by Tracker operations. Callers can classify
// failures with errors.Is; every failure leaves the collection unchanged.
var (
	// ErrNameRequired is returned when a task name is empty after trimming.
	ErrNameRequired = errors.New("task name is required")

	// ErrTaskNotFound is returned when no task has the given id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSessionIndex is returned when a session index is out of range.
	ErrSessionIndex = errors.New("session index out of range")

	// ErrTimerNotRunning is returned when pausing a task whose timer is
	// not the active one.
	ErrTimerNotRunning = errors.New("timer is not running")
)
