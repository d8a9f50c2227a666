package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Echo    key.Binding
	Toggle  key.Binding
	Glitch  key.Binding
	NextPot key.Binding
	Up      key.Binding
	Down    key.Binding
	Edit    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Echo: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "press echo"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "press toggle"),
		),
		Glitch: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bounce"),
		),
		NextPot: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pot"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "turn up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "turn down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "set raw"),
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
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Echo, k.Toggle, k.NextPot, k.Edit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Echo, k.Toggle, k.Glitch},
		{k.NextPot, k.Up, k.Down, k.Edit},
		{k.Help, k.Quit},
	}
}
