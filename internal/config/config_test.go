package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "worklog")
	if err := os.MkdirAll(cfgDir, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Theme.Primary == "" {
		t.Error("Theme.Primary should have a default")
	}
	if !cfg.UX.ConfirmDeletions {
		t.Error("ConfirmDeletions should default to true")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.Primary != Default().Theme.Primary {
		t.Errorf("Theme.Primary = %q, want default", cfg.Theme.Primary)
	}
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	writeTestConfig(t, `
theme:
  primary: "#FF0000"
keys:
  add_task: "n"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Theme.Primary != "#FF0000" {
		t.Errorf("Theme.Primary = %q, want #FF0000", cfg.Theme.Primary)
	}
	// Unset fields keep defaults.
	if cfg.Theme.Accent != Default().Theme.Accent {
		t.Errorf("Theme.Accent = %q, want default", cfg.Theme.Accent)
	}
	if cfg.Keys.AddTask != "n" {
		t.Errorf("Keys.AddTask = %q, want n", cfg.Keys.AddTask)
	}
	if cfg.Keys.Quit != "" {
		t.Errorf("Keys.Quit = %q, want empty (built-in default)", cfg.Keys.Quit)
	}
	if !cfg.UX.ConfirmDeletions {
		t.Error("ConfirmDeletions should keep its default when absent")
	}
}

func TestLoad_ExplicitFalseBoolean(t *testing.T) {
	writeTestConfig(t, `
ux:
  confirm_deletions: false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UX.ConfirmDeletions {
		t.Error("ConfirmDeletions = true, want false from config")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	writeTestConfig(t, "theme: [not a map")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Theme.Primary = "#123456"
	cfg.DataDir = "/tmp/worklog-test-data"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Theme.Primary != "#123456" {
		t.Errorf("Theme.Primary = %q, want #123456", got.Theme.Primary)
	}
	if got.DataDir != "/tmp/worklog-test-data" {
		t.Errorf("DataDir = %q", got.DataDir)
	}
}

func TestGetDataDir_TildeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	cfg := &Config{DataDir: "~/custom-worklog"}
	got := cfg.GetDataDir()
	if got != filepath.Join(home, "custom-worklog") {
		t.Errorf("GetDataDir() = %q, want under %q", got, home)
	}

	cfg = &Config{DataDir: "~"}
	if cfg.GetDataDir() != home {
		t.Errorf("GetDataDir() = %q, want %q", cfg.GetDataDir(), home)
	}
}

func TestGetDataDir_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}
	got := cfg.GetDataDir()
	if !strings.HasSuffix(got, ".worklog") {
		t.Errorf("GetDataDir() = %q, want default .worklog path", got)
	}
}

func TestGetDataDir_AbsolutePathUnchanged(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/worklog"}
	if got := cfg.GetDataDir(); got != "/var/lib/worklog" {
		t.Errorf("GetDataDir() = %q, want /var/lib/worklog", got)
	}
}
