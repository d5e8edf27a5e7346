package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the demo UI.
type KeyMap struct {
	Quit             key.Binding
	Cancel           key.Binding
	TogglePagination key.Binding
	ToggleEnabled    key.Binding
	Help             key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag/selection"),
		),
		TogglePagination: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle pagination"),
		),
		ToggleEnabled: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "toggle drag handles"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Cancel, k.TogglePagination, k.ToggleEnabled, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Cancel},
		{k.TogglePagination, k.ToggleEnabled, k.Help},
	}
}
