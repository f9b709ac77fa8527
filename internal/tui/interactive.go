package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/stepviz/internal/config"
	"github.com/san-kum/stepviz/internal/logging"
	"github.com/san-kum/stepviz/internal/playback"
	"github.com/san-kum/stepviz/internal/scriptpack"
	"github.com/san-kum/stepviz/internal/topics"
	"github.com/san-kum/stepviz/internal/viz"
)

const (
	buttonWidth = 22
	orbitStep   = 0.15
)

type state int

const (
	stateMenu state = iota
	stateTopic
)

// Options configure a shell session.
type Options struct {
	Registry *topics.Registry
	Config   *config.Config
	// Start opens a topic directly instead of the menu.
	Start string
	// WatchDirs are script pack directories reloaded on change.
	WatchDirs []string
	// Packs tracks which keys each script directory installed. Nil starts
	// with no pack topics owned.
	Packs *scriptpack.Installer
}

type model struct {
	state  state
	reg    *topics.Registry
	packs  *scriptpack.Installer
	cfg    *config.Config
	keys   []string
	names  map[string]string
	cursor int

	topic  topics.Topic
	player *playback.Player
	view   viz.View

	menuKeys  menuKeyMap
	topicKeys topicKeyMap
	help      help.Model
	status    string
	// info marks status as a notice rather than an error.
	info bool

	width  int
	height int
	now    func() time.Time
}

// fadeMsg is delivered when a transition's delay has elapsed.
type fadeMsg struct {
	at       time.Time
	deadline time.Time
}

// ReloadMsg carries freshly loaded script pack topics into the shell.
type ReloadMsg struct {
	Dir    string
	Topics []topics.Topic
	Err    error
}

func newModel(opts Options) model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	reg := opts.Registry
	if reg == nil {
		reg = topics.WithSeed(cfg.AddressSeed)
	}
	packs := opts.Packs
	if packs == nil {
		packs = scriptpack.NewInstaller(reg)
	}
	m := model{
		state:     stateMenu,
		reg:       reg,
		packs:     packs,
		cfg:       cfg,
		menuKeys:  newMenuKeys(),
		topicKeys: newTopicKeys(),
		help:      help.New(),
		width:     80,
		height:    24,
		now:       time.Now,
	}
	m.refresh()
	m.view = viz.View{
		Styles: viz.NewStyles(viz.GetTheme(cfg.Theme)),
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
	}
	if opts.Start != "" {
		m = m.open(opts.Start)
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case fadeMsg:
		if m.player != nil && msg.deadline.Equal(m.player.Deadline()) {
			m.player.Settle(msg.at)
		}
		return m, nil
	case ReloadMsg:
		return m.reload(msg), nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateTopic:
		return m.topicKey(msg)
	}
	return m, nil
}

func (m model) columns() int {
	return max(1, (m.width-4)/(buttonWidth+4))
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	k := m.menuKeys
	cols := m.columns()
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Right):
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, k.Down):
		if m.cursor+cols < len(m.keys) {
			m.cursor += cols
		}
	case key.Matches(msg, k.Open):
		if len(m.keys) == 0 {
			return m, nil
		}
		m = m.open(m.keys[m.cursor])
		if m.state == stateTopic {
			return m, tea.ClearScreen
		}
	}
	return m, nil
}

// open switches to a topic. Unknown keys leave the menu up with the error
// in the status line.
func (m model) open(k string) model {
	t, err := m.reg.Lookup(k)
	if err == nil {
		var ctrl *playback.Controller
		ctrl, err = playback.New(t.Len())
		if err == nil {
			m.topic = t
			m.player = playback.NewPlayer(ctrl, m.cfg.Fade(t.Fades()))
			m.view.Camera = m.baseCamera()
			m.state = stateTopic
			m.status = ""
			for i, name := range m.keys {
				if name == k {
					m.cursor = i
				}
			}
			logging.Logger().Info("topic opened", "key", k, "steps", t.Len())
			return m
		}
	}
	logging.Logger().Warn("topic open failed", "key", k, "err", err)
	m.state = stateMenu
	m.status = err.Error()
	m.info = false
	return m
}

func (m model) close() model {
	if m.topic != nil {
		logging.Logger().Info("topic closed", "key", m.topic.Key(), "at", m.player.Position())
	}
	m.state = stateMenu
	m.topic = nil
	m.player = nil
	return m
}

func (m model) baseCamera() *viz.Camera {
	c := m.cfg.Camera
	cam := viz.OrbitCamera(c.RotX, c.RotY, c.Zoom)
	if m.topic != nil {
		viz.FitTopic(cam, m.topic)
	}
	return cam
}

func (m model) topicKey(msg tea.KeyMsg) (model, tea.Cmd) {
	k := m.topicKeys
	cam := m.view.Camera
	now := m.now()
	switch {
	case key.Matches(msg, k.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, k.Back):
		return m.close(), tea.ClearScreen
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Next):
		if m.player.Next(now) {
			return m, m.fade()
		}
	case key.Matches(msg, k.Prev):
		if m.player.Prev(now) {
			return m, m.fade()
		}
	case key.Matches(msg, k.Reset):
		if m.player.Reset(now) {
			return m, m.fade()
		}
	case key.Matches(msg, k.OrbitL):
		cam.RotateY(-orbitStep)
	case key.Matches(msg, k.OrbitR):
		cam.RotateY(orbitStep)
	case key.Matches(msg, k.OrbitU):
		cam.RotateX(-orbitStep)
	case key.Matches(msg, k.OrbitD):
		cam.RotateX(orbitStep)
	case key.Matches(msg, k.ZoomIn):
		cam.ZoomIn()
	case key.Matches(msg, k.ZoomOut):
		cam.ZoomOut()
	case key.Matches(msg, k.CamReset):
		m.view.Camera = m.baseCamera()
	}
	return m, nil
}

// fade schedules the settle tick for a pending transition.
func (m model) fade() tea.Cmd {
	if m.player.Phase() != playback.Transitioning {
		return nil
	}
	deadline := m.player.Deadline()
	return tea.Tick(m.player.Delay(), func(t time.Time) tea.Msg {
		return fadeMsg{at: t, deadline: deadline}
	})
}

// refresh rebuilds the menu entries from the registry.
func (m *model) refresh() {
	m.keys = m.reg.Keys()
	m.names = make(map[string]string, len(m.keys))
	for _, t := range m.reg.All() {
		m.names[t.Key()] = t.Name()
	}
}

func (m model) reload(msg ReloadMsg) model {
	if msg.Err != nil {
		logging.Logger().Warn("script reload failed", "err", msg.Err)
		m.status = "reload: " + msg.Err.Error()
		m.info = false
		return m
	}
	err := m.packs.Sync(msg.Dir, msg.Topics)
	m.refresh()
	if m.cursor >= len(m.keys) {
		m.cursor = max(0, len(m.keys)-1)
	}
	if err != nil {
		logging.Logger().Warn("script reload rejected topics", "dir", msg.Dir, "err", err)
		m.status = "reload: " + err.Error()
		m.info = false
		return m
	}
	n := len(m.packs.Owned(msg.Dir))
	m.status = fmt.Sprintf("reloaded %d script topics", n)
	m.info = true
	logging.Logger().Info("scripts reloaded", "dir", msg.Dir, "topics", n)
	return m
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateTopic:
		return m.viewTopic()
	}
	return ""
}

func (m model) viewMenu() string {
	s := m.view.Styles
	var b strings.Builder

	b.WriteString("\n  " + viz.GradientText("s t e p v i z", s.Theme.Title, s.Theme.Subtitle) + "\n")
	b.WriteString("  " + s.Separator(30) + "\n")
	b.WriteString("  " + s.Header.Render(fmt.Sprintf("%d topics", len(m.keys))) + "\n\n")

	cols := m.columns()
	var rows []string
	var row []string
	for i, k := range m.keys {
		row = append(row, s.Button(m.names[k], i == m.cursor, buttonWidth))
		if len(row) == cols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n\n")

	if m.status != "" {
		b.WriteString("  " + m.statusLine() + "\n")
	}
	b.WriteString("  " + m.help.View(m.menuKeys) + "\n")
	return b.String()
}

func (m model) viewTopic() string {
	f := m.topic.Frame(m.player.Position())
	var b strings.Builder
	b.WriteString(m.view.Render(m.topic, f, m.player.Visible()) + "\n")
	if m.status != "" {
		b.WriteString(m.statusLine() + "\n")
	}
	b.WriteString(m.help.View(m.topicKeys) + "\n")
	return b.String()
}

func (m model) statusLine() string {
	if m.info {
		return m.view.Styles.KeyHint.Render(m.status)
	}
	return m.view.Styles.Error.Render(m.status)
}

// Run starts the shell and blocks until it exits. Script pack directories
// in opts.WatchDirs are watched for the lifetime of the program.
func Run(opts Options) error {
	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, dir := range opts.WatchDirs {
		go func(dir string) {
			err := scriptpack.Watch(ctx, dir, func() {
				ts, err := scriptpack.LoadDir(dir)
				p.Send(ReloadMsg{Dir: dir, Topics: ts, Err: err})
			})
			if err != nil {
				logging.Logger().Warn("watch stopped", "dir", dir, "err", err)
			}
		}(dir)
	}

	_, err := p.Run()
	return err
}
