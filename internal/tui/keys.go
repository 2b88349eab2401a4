package tui

import (
	"imgfilter/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Keep     key.Binding
	Favorite key.Binding
	Delete   key.Binding
	Back     key.Binding
	Jump     key.Binding
	Reload   key.Binding
	Info     key.Binding
	Help     key.Binding
	Quit     key.Binding

	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
	Accept key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Keep: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "keep"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "favorite"),
		),
		Delete: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "back"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump to image"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload folder"),
		),
		Info: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle info"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "delete originals"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "keep originals"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Keep, k.Favorite, k.Delete, k.Back, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Keep, k.Favorite, k.Delete, k.Back},
		{k.Jump, k.Reload, k.Info},
		{k.Help, k.Quit},
	}
}

// confirmKeys is the help shown while the purge prompt is open.
type confirmKeys struct{ keyMap }

func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Cancel}
}

func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// jumpKeys is the help shown while the jump prompt is open.
type jumpKeys struct{ keyMap }

func (k jumpKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Cancel}
}

func (k jumpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// action maps a key press to a session action.
func (k keyMap) action(msg tea.KeyMsg) (session.Action, bool) {
	switch {
	case key.Matches(msg, k.Keep):
		return session.ClassifyKeep, true
	case key.Matches(msg, k.Favorite):
		return session.ClassifyFavorite, true
	case key.Matches(msg, k.Delete):
		return session.ClassifyDelete, true
	case key.Matches(msg, k.Back):
		return session.GoBack, true
	}
	return 0, false
}
