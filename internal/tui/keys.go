// ABOUTME: Key bindings for the terminal client

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings outside of text-entry fields.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// Flight bucket switching.
	TabUpcoming  key.Binding
	TabOngoing   key.Binding
	TabCompleted key.Binding

	// Screen switching.
	GoFlights       key.Binding
	GoNotifications key.Binding
	GoProfile       key.Binding
	GoManager       key.Binding
	GoAdmin         key.Binding

	FilterActivate key.Binding
	FilterClear    key.Binding

	Book    key.Binding
	Rate    key.Binding
	Approve key.Binding
	Reject  key.Binding
	Dismiss key.Binding

	Logout key.Binding
	Quit   key.Binding
}

// DefaultKeyMap is the built-in binding set. Vim-style movement next to
// the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	TabUpcoming: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "upcoming"),
	),
	TabOngoing: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "ongoing"),
	),
	TabCompleted: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "completed"),
	),
	GoFlights: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "flights"),
	),
	GoNotifications: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "notifications"),
	),
	GoProfile: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "profile"),
	),
	GoManager: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "manager"),
	),
	GoAdmin: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "admin"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	Book: key.NewBinding(
		key.WithKeys("b", "enter"),
		key.WithHelp("b", "book"),
	),
	Rate: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rate"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	Reject: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reject"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("d", "x"),
		key.WithHelp("d", "dismiss"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "logout"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
