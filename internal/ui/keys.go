// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap holds the bindings of the main screen and the settings screen.
// Keys used by the textarea for editing (enter, ctrl+k, ctrl+u) are avoided.
type KeyMap struct {
	Polish   key.Binding
	Cancel   key.Binding
	Copy     key.Binding
	Clear    key.Binding
	Focus    key.Binding
	Settings key.Binding
	Help     key.Binding
	Quit     key.Binding

	// Settings screen
	Up      key.Binding
	Down    key.Binding
	Save    key.Binding
	Back    key.Binding
	Dismiss key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Polish: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "polish"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel request"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy result"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "switch pane"),
		),
		Settings: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "settings"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous model"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next model"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("Enter", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", " "),
			key.WithHelp("Enter", "dismiss"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Polish, k.Copy, k.Settings, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Polish, k.Cancel, k.Copy, k.Clear},
		{k.Focus, k.Settings, k.Help, k.Quit},
	}
}

// settingsHelp is the key map shown on the settings screen.
type settingsHelp struct{ k KeyMap }

func (s settingsHelp) ShortHelp() []key.Binding {
	return []key.Binding{s.k.Focus, s.k.Up, s.k.Down, s.k.Save, s.k.Back}
}

func (s settingsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{s.ShortHelp()}
}
