package storage

import (
	"fmt"
	"io"
	"sync"

	"worklog/internal/tracker"
)

// Saver serializes snapshot writes on a single goroutine so persistence
// never delays the caller. Snapshots are latest-wins: if mutations arrive
// faster than the disk, intermediate states are skipped and only the newest
// collection is written. Write failures are logged, not surfaced; the
// in-memory collection stays authoritative.
type Saver struct {
	store *Store
	errw  io.Writer

	mu      sync.Mutex
	pending []tracker.Task
	dirty   bool
	wake    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewSaver starts the save queue. Write errors are logged to errw.
func NewSaver(store *Store, errw io.Writer) *Saver {
	s := &Saver{
		store: store,
		errw:  errw,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue schedules tasks to be written, replacing any not-yet-written
// snapshot. Safe to call from any goroutine; never blocks on I/O.
func (s *Saver) Enqueue(tasks []tracker.Task) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = tasks
	s.dirty = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Close flushes any pending snapshot and stops the queue.
func (s *Saver) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.wake)
	<-s.done
}

func (s *Saver) run() {
	defer close(s.done)
	for range s.wake {
		s.flush()
	}
	// Drain whatever arrived before Close.
	s.flush()
}

func (s *Saver) flush() {
	for {
		s.mu.Lock()
		if !s.dirty {
			s.mu.Unlock()
			return
		}
		tasks := s.pending
		s.pending = nil
		s.dirty = false
		s.mu.Unlock()

		if err := s.store.Save(tasks); err != nil {
			fmt.Fprintf(s.errw, "Warning: failed to save tasks: %v\n", err)
		}
	}
}
