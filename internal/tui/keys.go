package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type menuKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Open  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func newMenuKeys() menuKeyMap {
	return menuKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Help, k.Quit}
}

func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Open, k.Help, k.Quit},
	}
}

type topicKeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Reset     key.Binding
	OrbitL    key.Binding
	OrbitR    key.Binding
	OrbitU    key.Binding
	OrbitD    key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	CamReset  key.Binding
	Back      key.Binding
	Help      key.Binding
	ForceQuit key.Binding
}

func newTopicKeys() topicKeyMap {
	return topicKeyMap{
		Next:      key.NewBinding(key.WithKeys("right", "l", "n", " "), key.WithHelp("→/n", "next")),
		Prev:      key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/p", "prev")),
		Reset:     key.NewBinding(key.WithKeys("home", "g", "r"), key.WithHelp("r", "reset")),
		OrbitL:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "orbit left")),
		OrbitR:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "orbit right")),
		OrbitU:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "orbit up")),
		OrbitD:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "orbit down")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		CamReset:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "camera reset")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "menu")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k topicKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Reset, k.Back, k.Help}
}

func (k topicKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Reset},
		{k.OrbitL, k.OrbitR, k.OrbitU, k.OrbitD},
		{k.ZoomIn, k.ZoomOut, k.CamReset},
		{k.Back, k.Help, k.ForceQuit},
	}
}

var (
	_ help.KeyMap = menuKeyMap{}
	_ help.KeyMap = topicKeyMap{}
)
