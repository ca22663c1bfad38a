package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings. Bindings other than Submit, Cancel,
// FocusSwitch, and Quit apply only while the list has focus, so they do
// not collide with typing.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	Submit      key.Binding // Input: add todo. Edit: save title.
	Cancel      key.Binding // Edit: restore title. Otherwise: dismiss error.
	FocusSwitch key.Binding // Move between the input and the list.

	Toggle         key.Binding
	Delete         key.Binding
	Edit           key.Binding
	ToggleAll      key.Binding
	ClearCompleted key.Binding

	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel / dismiss"),
	),
	FocusSwitch: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "input/list"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle all"),
	),
	ClearCompleted: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear completed"),
	),
	FilterAll: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "all"),
	),
	FilterActive: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "active"),
	),
	FilterCompleted: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "completed"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.Delete, k.FocusSwitch, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.FocusSwitch},
		{k.Toggle, k.Edit, k.Delete},
		{k.ToggleAll, k.ClearCompleted, k.Cancel},
		{k.FilterAll, k.FilterActive, k.FilterCompleted},
		{k.Help, k.Quit},
	}
}
