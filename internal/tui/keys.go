package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	OpenNow key.Binding
	Search  key.Binding
	Add     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
	Back    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		OpenNow: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle open now"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add location"),
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
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
