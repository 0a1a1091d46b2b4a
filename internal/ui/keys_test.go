package ui

import (
	"testing"

	"worklog/internal/config"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name     string
		custom   string
		defaults []string
		want     []string
	}{
		{"empty uses defaults", "", []string{"q", "ctrl+c"}, []string{"q", "ctrl+c"}},
		{"single key", "z", []string{"q"}, []string{"z"}},
		{"multiple keys", "z,ctrl+d", []string{"q"}, []string{"z", "ctrl+d"}},
		{"trims whitespace", " z , x ", []string{"q"}, []string{"z", "x"}},
		{"skips empty segments", "z,,x", []string{"q"}, []string{"z", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseKeys(tt.custom, tt.defaults...)
			if len(got) != len(tt.want) {
				t.Fatalf("parseKeys() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseKeys()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewTaskKeyMap_Defaults(t *testing.T) {
	keys := DefaultTaskKeyMap()

	if !key.Matches(keyRune('a'), keys.Add) {
		t.Error("'a' should match Add")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeySpace}, keys.ToggleTimer) {
		t.Error("space should match ToggleTimer")
	}
	if !key.Matches(keyRune('d'), keys.Complete) {
		t.Error("'d' should match Complete")
	}
	if !key.Matches(keyRune('v'), keys.Detail) {
		t.Error("'v' should match Detail")
	}
}

func TestNewTaskKeyMap_CustomBindings(t *testing.T) {
	keys := NewTaskKeyMap(&config.KeysConfig{
		AddTask:    "n",
		DeleteTask: "D,delete",
	})

	if !key.Matches(keyRune('n'), keys.Add) {
		t.Error("custom 'n' should match Add")
	}
	if key.Matches(keyRune('a'), keys.Add) {
		t.Error("default 'a' should no longer match Add")
	}
	if !key.Matches(keyRune('D'), keys.Delete) {
		t.Error("custom 'D' should match Delete")
	}
}

func TestKeyMaps_NilConfig(t *testing.T) {
	// Nil config falls back to defaults without panicking.
	global := NewGlobalKeyMap(nil)
	if !key.Matches(keyRune('q'), global.Quit) {
		t.Error("'q' should match Quit with nil config")
	}

	detail := NewDetailKeyMap(nil)
	if !key.Matches(keyRune('n'), detail.AddNote) {
		t.Error("'n' should match AddNote with nil config")
	}
}
