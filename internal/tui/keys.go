package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab     key.Binding
	Checkin key.Binding
	Quiz    key.Binding
	Answer  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Answer, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Checkin, k.Quiz},
		{k.Answer, k.Refresh},
		{k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch plan"),
		),
		Checkin: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "check-in plan"),
		),
		Quiz: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "quiz plan"),
		),
		Answer: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter", "answer quiz"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
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
