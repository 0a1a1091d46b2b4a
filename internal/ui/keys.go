// Package ui provides the terminal user interface for worklog.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and customization.
package ui

import (
	"strings"

	"worklog/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit key.Binding
	Help key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q", "ctrl+c")...),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp("?", "help"),
		),
	}
}

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultNavigationKeyMap returns the default navigation key bindings.
func DefaultNavigationKeyMap() NavigationKeyMap {
	return NewNavigationKeyMap(&config.KeysConfig{})
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Up, "k", "up")...),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Down, "j", "down")...),
			key.WithHelp("j/↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Top, "g")...),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Bottom, "G")...),
			key.WithHelp("G", "bottom"),
		),
	}
}

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Confirm, "enter")...),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp("esc", "cancel"),
		),
		NextField: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextField, "tab")...),
			key.WithHelp("tab", "next field"),
		),
	}
}

// TaskKeyMap defines keys for the task list view.
type TaskKeyMap struct {
	Add         key.Binding
	Edit        key.Binding
	ToggleTimer key.Binding
	Complete    key.Binding
	Delete      key.Binding
	Detail      key.Binding
	NavigationKeyMap
}

// DefaultTaskKeyMap returns the default task list key bindings.
func DefaultTaskKeyMap() TaskKeyMap {
	return NewTaskKeyMap(&config.KeysConfig{})
}

// NewTaskKeyMap creates task key bindings from config.
func NewTaskKeyMap(cfg *config.KeysConfig) TaskKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return TaskKeyMap{
		Add: key.NewBinding(
			key.WithKeys(parseKeys(cfg.AddTask, "a")...),
			key.WithHelp("a", "add task"),
		),
		Edit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.EditTask, "e")...),
			key.WithHelp("e", "edit"),
		),
		ToggleTimer: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleTimer, " ", "enter")...),
			key.WithHelp("space", "start/pause"),
		),
		Complete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Complete, "d")...),
			key.WithHelp("d", "done/reopen"),
		),
		Delete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.DeleteTask, "x")...),
			key.WithHelp("x", "delete"),
		),
		Detail: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Detail, "v")...),
			key.WithHelp("v", "details"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the task list (implements help.KeyMap).
func (k TaskKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.ToggleTimer, k.Complete, k.Down}
}

// FullHelp returns the full help for the task list (implements help.KeyMap).
func (k TaskKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.ToggleTimer, k.Complete, k.Delete, k.Detail},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// DetailKeyMap defines keys for the task detail view.
type DetailKeyMap struct {
	AddNote    key.Binding
	DeleteItem key.Binding
	Section    key.Binding
	Back       key.Binding
	NavigationKeyMap
}

// DefaultDetailKeyMap returns the default detail view key bindings.
func DefaultDetailKeyMap() DetailKeyMap {
	return NewDetailKeyMap(&config.KeysConfig{})
}

// NewDetailKeyMap creates detail view key bindings from config.
func NewDetailKeyMap(cfg *config.KeysConfig) DetailKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return DetailKeyMap{
		AddNote: key.NewBinding(
			key.WithKeys(parseKeys(cfg.AddNote, "n")...),
			key.WithHelp("n", "add note"),
		),
		DeleteItem: key.NewBinding(
			key.WithKeys(parseKeys(cfg.DeleteItem, "x")...),
			key.WithHelp("x", "delete"),
		),
		Section: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Section, "tab")...),
			key.WithHelp("tab", "section"),
		),
		Back: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp("esc", "back"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
