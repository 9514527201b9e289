package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the selector reacts to.
type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	All          key.Binding
	Clear        key.Binding
	Preview      key.Binding
	Invalid      key.Binding
	ExpandErrors key.Binding
	Confirm      key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Invalid: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "invalid"),
		),
		ExpandErrors: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "errors"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "launch"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap. Disabled bindings (e while the invalid section is hidden) are not shown.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.All, k.Clear, k.Preview, k.Invalid, k.ExpandErrors, k.Confirm, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.All, k.Clear, k.Confirm},
		{k.Preview, k.Invalid, k.ExpandErrors, k.Quit},
	}
}
