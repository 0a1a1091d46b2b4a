package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"worklog/internal/storage"
)

// createTestData creates a sample snapshot file for testing.
func createTestData(t *testing.T, dataDir string) {
	t.Helper()

	snap := map[string]interface{}{
		"tasks": []map[string]interface{}{
			{"id": "t_1", "name": "Task 1", "status": "pending"},
			{"id": "t_2", "name": "Task 2", "status": "completed"},
			{"id": "t_3", "name": "Task 3", "status": "inProgress"},
		},
	}
	writeTestJSON(t, filepath.Join(dataDir, storage.SnapshotFile), snap)
}

func writeTestJSON(t *testing.T, path string, v interface{}) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func readTestJSON(t *testing.T, path string) map[string]interface{} {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}

	return result
}

func TestManager_Create(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.2.0-test")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Backup name format: 2006-01-02_150405_XXX
	if len(name) != 21 {
		t.Errorf("Expected backup name length 21, got %d: %s", len(name), name)
	}

	backupPath := filepath.Join(tmpDir, BackupsDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Errorf("Backup directory not created: %s", backupPath)
	}

	if _, err := os.Stat(filepath.Join(backupPath, storage.SnapshotFile)); os.IsNotExist(err) {
		t.Errorf("Snapshot not backed up")
	}

	manifest := readTestJSON(t, filepath.Join(backupPath, ManifestFile))

	if manifest["version"] != ManifestVersion {
		t.Errorf("Expected manifest version %s, got %v", ManifestVersion, manifest["version"])
	}
	if manifest["app_version"] != "1.2.0-test" {
		t.Errorf("Expected app_version 1.2.0-test, got %v", manifest["app_version"])
	}

	stats, ok := manifest["stats"].(map[string]interface{})
	if !ok {
		t.Fatal("Stats not found in manifest")
	}
	if int(stats["tasks"].(float64)) != 3 {
		t.Errorf("Expected 3 tasks, got %v", stats["tasks"])
	}
	if int(stats["pending"].(float64)) != 1 {
		t.Errorf("Expected 1 pending, got %v", stats["pending"])
	}
	if int(stats["completed"].(float64)) != 1 {
		t.Errorf("Expected 1 completed, got %v", stats["completed"])
	}
	if int(stats["in_progress"].(float64)) != 1 {
		t.Errorf("Expected 1 in_progress, got %v", stats["in_progress"])
	}
}

func TestManager_List(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("Expected 0 backups, got %d", len(backups))
	}

	name1, _ := manager.Create()
	time.Sleep(10 * time.Millisecond)
	name2, _ := manager.Create()

	backups, err = manager.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	if len(backups) != 2 {
		t.Fatalf("Expected 2 backups, got %d", len(backups))
	}

	// Newest first.
	if backups[0].Name != name2 {
		t.Errorf("Expected newest backup %s first, got %s", name2, backups[0].Name)
	}
	if backups[1].Name != name1 {
		t.Errorf("Expected older backup %s second, got %s", name1, backups[1].Name)
	}
}

func TestManager_Restore(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Overwrite the snapshot with a single task.
	writeTestJSON(t, filepath.Join(tmpDir, storage.SnapshotFile), map[string]interface{}{
		"tasks": []map[string]interface{}{
			{"id": "t_new", "name": "New Task", "status": "pending"},
		},
	})

	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	restored := readTestJSON(t, filepath.Join(tmpDir, storage.SnapshotFile))
	restoredTasks := restored["tasks"].([]interface{})
	if len(restoredTasks) != 3 {
		t.Errorf("Expected 3 tasks after restore, got %d", len(restoredTasks))
	}
}

func TestManager_RestoreLatest(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	if _, err := manager.Create(); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	writeTestJSON(t, filepath.Join(tmpDir, storage.SnapshotFile), map[string]interface{}{
		"tasks": []map[string]interface{}{
			{"id": "t_modified", "name": "Modified Task", "status": "pending"},
		},
	})

	time.Sleep(10 * time.Millisecond)
	if _, err := manager.Create(); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	writeTestJSON(t, filepath.Join(tmpDir, storage.SnapshotFile), map[string]interface{}{
		"tasks": []map[string]interface{}{
			{"id": "t_final", "name": "Final Task", "status": "pending"},
		},
	})

	if err := manager.RestoreLatest(); err != nil {
		t.Fatalf("RestoreLatest() error: %v", err)
	}

	restored := readTestJSON(t, filepath.Join(tmpDir, storage.SnapshotFile))
	restoredTasks := restored["tasks"].([]interface{})
	if len(restoredTasks) != 1 {
		t.Fatalf("Expected 1 task after restore, got %d", len(restoredTasks))
	}

	firstTask := restoredTasks[0].(map[string]interface{})
	if firstTask["id"] != "t_modified" {
		t.Errorf("Expected restored task id 't_modified', got %v", firstTask["id"])
	}
}

func TestManager_RestoreNonexistent(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	if err := manager.Restore("nonexistent-backup"); err == nil {
		t.Error("Expected error when restoring nonexistent backup")
	}
}

func TestManager_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := manager.Delete(name); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	backups, _ := manager.List()
	if len(backups) != 0 {
		t.Errorf("Expected 0 backups after delete, got %d", len(backups))
	}
}

func TestManager_Prune(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	for i := 0; i < 5; i++ {
		if _, err := manager.Create(); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	deleted, err := manager.Prune(2)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted, got %d", deleted)
	}

	backups, _ := manager.List()
	if len(backups) != 2 {
		t.Errorf("Expected 2 backups after prune, got %d", len(backups))
	}
}

func TestManager_CreateWithEmptyData(t *testing.T) {
	tmpDir := t.TempDir()

	// No snapshot file exists yet.
	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		t.Fatalf("GetBackup() error: %v", err)
	}
	if info.Name != name {
		t.Errorf("Expected backup name %s, got %s", name, info.Name)
	}
}

func TestManager_GetBackup(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		t.Fatalf("GetBackup() error: %v", err)
	}
	if info.Name != name {
		t.Errorf("Expected name %s, got %s", name, info.Name)
	}
	if info.Stats["tasks"] != 3 {
		t.Errorf("Expected 3 tasks, got %d", info.Stats["tasks"])
	}

	if _, err := manager.GetBackup("nonexistent"); err == nil {
		t.Error("Expected error for nonexistent backup")
	}
}

func TestManager_RestoreCreatesSafetyBackup(t *testing.T) {
	tmpDir := t.TempDir()
	createTestData(t, tmpDir)

	manager := NewManager(tmpDir, "1.0.0")

	name, err := manager.Create()
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := manager.Restore(name); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}

	backups, _ := manager.List()
	if len(backups) < 2 {
		t.Errorf("Expected at least 2 backups (including safety backup), got %d", len(backups))
	}
}
