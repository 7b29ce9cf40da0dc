package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap contains the dashboard keyboard shortcuts
type KeyMap struct {
	Help    key.Binding
	Mount   key.Binding
	Quit    key.Binding
	Refresh key.Binding
	Unmount key.Binding
}

// NewKeyMap creates the default bindings
func NewKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Mount: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mount"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Unmount: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unmount"),
		),
	}
}

// ShortHelp returns the bindings shown in the bottom bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Mount, k.Unmount, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Mount, k.Unmount},
		{k.Help, k.Quit},
	}
}
