package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the terminal portfolio.
type KeyMap struct {
	NextBadge     key.Binding
	PreviousBadge key.Binding
	ClearBadge    key.Binding
	Quit          key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	NextBadge: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab", "next skill"),
	),
	PreviousBadge: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("S-tab", "previous skill"),
	),
	ClearBadge: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) help() []key.Binding {
	return []key.Binding{k.NextBadge, k.PreviousBadge, k.ClearBadge, k.Quit}
}
