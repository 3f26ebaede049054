package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Increment key.Binding
	Decrement key.Binding
	Select    key.Binding
	Back      key.Binding
	Hold      key.Binding
	Brighter  key.Binding
	Darker    key.Binding
	Tubes     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Increment, k.Decrement, k.Select, k.Back, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Increment, k.Decrement, k.Select, k.Back, k.Hold},
		{k.Brighter, k.Darker, k.Tubes, k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Increment: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "increment"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "decrement"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Hold: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hold select"),
		),
		Brighter: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more light"),
		),
		Darker: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "less light"),
		),
		Tubes: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tube digits"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
