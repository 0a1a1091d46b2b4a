// Package storage persists the task collection as a single JSON snapshot.
// It is the persistence adapter for the tracker: the snapshot is loaded once
// at startup and rewritten after every mutation. A malformed snapshot is
// never fatal; it is recovered from backup or moved aside and reset.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"worklog/internal/fsutil"
	"worklog/internal/tracker"
)

const (
	// SnapshotFile is the name of the task snapshot inside the data dir.
	SnapshotFile = "tasks.json"

	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// snapshot is the on-disk shape of the task collection.
type snapshot struct {
	Tasks []tracker.Task `json:"tasks"`
}

// Store reads and writes the task snapshot under a data directory.
type Store struct {
	dataDir string
}

// New creates a Store rooted at dataDir, creating the directory if needed.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dataDir: dataDir}, nil
}

// DataDir returns the path to the data directory.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) path() string {
	return filepath.Join(s.dataDir, SnapshotFile)
}

// Load reads the task snapshot. A missing file yields an empty collection.
// A corrupt file is recovered from the .bak copy when possible, otherwise
// moved aside and reset; in both cases Load returns usable tasks together
// with a descriptive error the caller should log as a warning.
func (s *Store) Load() ([]tracker.Task, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return []tracker.Task{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", SnapshotFile, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recover(fmt.Errorf("%s is empty", SnapshotFile))
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return s.recover(fmt.Errorf("parse %s: %w", SnapshotFile, err))
	}
	if snap.Tasks == nil {
		snap.Tasks = []tracker.Task{}
	}
	return snap.Tasks, nil
}

// Save writes the task collection atomically, keeping a best-effort .bak of
// the previous snapshot.
func (s *Store) Save(tasks []tracker.Task) error {
	if tasks == nil {
		tasks = []tracker.Task{}
	}
	data, err := json.MarshalIndent(snapshot{Tasks: tasks}, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", SnapshotFile, err)
	}

	fsutil.BestEffortBackup(s.path(), dataFilePerm)

	if err := fsutil.WriteFileAtomic(s.path(), data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", SnapshotFile, err)
	}
	return nil
}

// recover attempts to restore a broken snapshot from its .bak copy. The
// broken file is preserved under a .corrupt timestamp either way so no data
// is silently destroyed.
func (s *Store) recover(cause error) ([]tracker.Task, error) {
	path := s.path()
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))

	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		var snap snapshot
		if err := json.Unmarshal(bakData, &snap); err == nil {
			_ = os.Rename(path, corruptPath)
			if snap.Tasks == nil {
				snap.Tasks = []tracker.Task{}
			}
			_ = s.Save(snap.Tasks)
			return snap.Tasks, fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), SnapshotFile)
		}
	}

	_ = os.Rename(path, corruptPath)
	_ = s.Save([]tracker.Task{})
	return []tracker.Task{}, fmt.Errorf("%s (reset to empty; original moved to %s)", cause.Error(), corruptPath)
}
