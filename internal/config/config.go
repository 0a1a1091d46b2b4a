// Package config handles configuration loading and defaults for worklog.
// Configuration is loaded from XDG-compliant paths (typically
// ~/.config/worklog/config.yaml).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"worklog/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.worklog)
	DataDir string `yaml:"data_dir,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`
}

// ThemeConfig defines color settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for the running timer and highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "j,down"
type KeysConfig struct {
	// Global keys
	Quit string `yaml:"quit,omitempty"` // default: "q,ctrl+c"
	Help string `yaml:"help,omitempty"` // default: "?"

	// Navigation keys
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g"
	Bottom string `yaml:"bottom,omitempty"` // default: "G"

	// Task keys
	AddTask     string `yaml:"add_task,omitempty"`     // default: "a"
	EditTask    string `yaml:"edit_task,omitempty"`    // default: "e"
	ToggleTimer string `yaml:"toggle_timer,omitempty"` // default: "space,enter"
	Complete    string `yaml:"complete,omitempty"`     // default: "d"
	DeleteTask  string `yaml:"delete_task,omitempty"`  // default: "x"
	Detail      string `yaml:"detail,omitempty"`       // default: "v"

	// Detail view keys
	AddNote    string `yaml:"add_note,omitempty"`    // default: "n"
	DeleteItem string `yaml:"delete_item,omitempty"` // default: "x"
	Section    string `yaml:"section,omitempty"`     // default: "tab"

	// Input keys
	Confirm   string `yaml:"confirm,omitempty"`    // default: "enter"
	Cancel    string `yaml:"cancel,omitempty"`     // default: "esc"
	NextField string `yaml:"next_field,omitempty"` // default: "tab"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows confirmation prompts before deleting items
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Theme: ThemeConfig{
			Primary: "#3B82F6", // Blue
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
		},
		Keys: KeysConfig{
			// Empty strings mean use built-in defaults
		},
		UX: UXConfig{
			ConfirmDeletions: true,
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".worklog"
	}
	return filepath.Join(home, ".worklog")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "worklog")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "worklog")
}

// configPath returns the path to the config file.
func configPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	path := configPath()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)

	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// Booleans need presence-aware merging and are handled in mergeFromYAML.
func (c *Config) mergeNonEmpty(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}

	if other.Theme.Primary != "" {
		c.Theme.Primary = other.Theme.Primary
	}
	if other.Theme.Accent != "" {
		c.Theme.Accent = other.Theme.Accent
	}
	if other.Theme.Muted != "" {
		c.Theme.Muted = other.Theme.Muted
	}

	if other.Keys.Quit != "" {
		c.Keys.Quit = other.Keys.Quit
	}
	if other.Keys.Help != "" {
		c.Keys.Help = other.Keys.Help
	}
	if other.Keys.Up != "" {
		c.Keys.Up = other.Keys.Up
	}
	if other.Keys.Down != "" {
		c.Keys.Down = other.Keys.Down
	}
	if other.Keys.Top != "" {
		c.Keys.Top = other.Keys.Top
	}
	if other.Keys.Bottom != "" {
		c.Keys.Bottom = other.Keys.Bottom
	}
	if other.Keys.AddTask != "" {
		c.Keys.AddTask = other.Keys.AddTask
	}
	if other.Keys.EditTask != "" {
		c.Keys.EditTask = other.Keys.EditTask
	}
	if other.Keys.ToggleTimer != "" {
		c.Keys.ToggleTimer = other.Keys.ToggleTimer
	}
	if other.Keys.Complete != "" {
		c.Keys.Complete = other.Keys.Complete
	}
	if other.Keys.DeleteTask != "" {
		c.Keys.DeleteTask = other.Keys.DeleteTask
	}
	if other.Keys.Detail != "" {
		c.Keys.Detail = other.Keys.Detail
	}
	if other.Keys.AddNote != "" {
		c.Keys.AddNote = other.Keys.AddNote
	}
	if other.Keys.DeleteItem != "" {
		c.Keys.DeleteItem = other.Keys.DeleteItem
	}
	if other.Keys.Section != "" {
		c.Keys.Section = other.Keys.Section
	}
	if other.Keys.Confirm != "" {
		c.Keys.Confirm = other.Keys.Confirm
	}
	if other.Keys.Cancel != "" {
		c.Keys.Cancel = other.Keys.Cancel
	}
	if other.Keys.NextField != "" {
		c.Keys.NextField = other.Keys.NextField
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Booleans only when actually present in the YAML, so `false` is
	// distinguishable from "not set".
	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = v
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := configPath()
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}

	if c.DataDir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return c.DataDir
	}
	if strings.HasPrefix(c.DataDir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(c.DataDir, "~/"))
		}
	}
	return c.DataDir
}
