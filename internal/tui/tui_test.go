package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/stepviz/internal/config"
	"github.com/san-kum/stepviz/internal/playback"
	"github.com/san-kum/stepviz/internal/scriptpack"
	"github.com/san-kum/stepviz/internal/topics"
	"github.com/san-kum/stepviz/internal/viz"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func noFade() *config.Config {
	cfg := config.DefaultConfig()
	cfg.FadeMs = 0
	return cfg
}

func TestOpenUnknownKeyStaysOnMenu(t *testing.T) {
	m := newModel(Options{Config: noFade(), Start: "no_such_topic"})
	if m.state != stateMenu {
		t.Fatalf("state = %v, want menu", m.state)
	}
	if !strings.Contains(m.status, "no_such_topic") {
		t.Errorf("status = %q", m.status)
	}
	if m.player != nil {
		t.Error("player should be nil")
	}
	if !strings.Contains(m.View(), "no_such_topic") {
		t.Error("menu view should show the error")
	}
}

func TestMenuEnterOpensSelected(t *testing.T) {
	m := newModel(Options{Config: noFade()})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateTopic {
		t.Fatalf("state = %v, want topic", m.state)
	}
	if cmd == nil {
		t.Error("expected a clear-screen command")
	}
	if m.topic.Key() != m.keys[0] {
		t.Errorf("opened %q, want %q", m.topic.Key(), m.keys[0])
	}
}

func TestMenuGridNavigation(t *testing.T) {
	m := newModel(Options{Config: noFade()})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	cols := m.columns()
	if cols < 1 {
		t.Fatalf("columns = %d", cols)
	}

	m, _ = send(t, m, runes("l"))
	if m.cursor != 1 {
		t.Errorf("after right cursor = %d", m.cursor)
	}
	m, _ = send(t, m, runes("j"))
	if m.cursor != 1+cols {
		t.Errorf("after down cursor = %d, want %d", m.cursor, 1+cols)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	m, _ = send(t, m, runes("k"))
	if m.cursor != 0 {
		t.Errorf("up at top moved cursor to %d", m.cursor)
	}
}

func TestMenuQuit(t *testing.T) {
	m := newModel(Options{Config: noFade()})
	_, cmd := send(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit from the menu")
	}
}

func TestLoopScenario(t *testing.T) {
	m := newModel(Options{Config: noFade(), Start: "loop"})
	if m.state != stateTopic {
		t.Fatalf("loop did not open: %s", m.status)
	}
	for i := 0; i < 7; i++ {
		m, _ = send(t, m, runes("n"))
	}
	f := m.topic.Frame(m.player.Position())
	if f.Index != 7 {
		t.Fatalf("index = %d, want 7", f.Index)
	}
	if f.Values["count"] != 3 || f.Values["loop"] != 0 {
		t.Errorf("values = %v", f.Values)
	}
	if f.Text != "count == 3, break the loop." {
		t.Errorf("text = %q", f.Text)
	}

	// clamped at the end
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.player.Position() != 7 {
		t.Errorf("position moved past end: %d", m.player.Position())
	}

	m, _ = send(t, m, runes("r"))
	if m.player.Position() != 0 {
		t.Errorf("reset position = %d", m.player.Position())
	}
	m, _ = send(t, m, runes("p"))
	if m.player.Position() != 0 {
		t.Errorf("prev at start moved to %d", m.player.Position())
	}
}

func TestFadeSettlesOnTick(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FadeMs = 100
	cfg.FadeAll = true
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base

	m := newModel(Options{Config: cfg, Start: "arrays"})
	m.now = func() time.Time { return now }

	m, cmd := send(t, m, runes("n"))
	if cmd == nil {
		t.Fatal("expected a fade tick")
	}
	if m.player.Phase() != playback.Transitioning || m.player.Position() != 0 {
		t.Fatalf("phase %v position %d", m.player.Phase(), m.player.Position())
	}
	first := m.player.Deadline()

	now = base.Add(50 * time.Millisecond)
	m, _ = send(t, m, runes("n"))
	second := m.player.Deadline()

	// the superseded tick settles nothing
	m, _ = send(t, m, fadeMsg{at: first, deadline: first})
	if m.player.Position() != 0 {
		t.Fatalf("stale tick committed position %d", m.player.Position())
	}

	m, _ = send(t, m, fadeMsg{at: second, deadline: second})
	if m.player.Phase() != playback.Idle {
		t.Fatal("fade did not settle")
	}
	if m.player.Position() != 1 {
		t.Errorf("position = %d, want 1", m.player.Position())
	}
}

func TestBackDropsPlayer(t *testing.T) {
	m := newModel(Options{Config: noFade(), Start: "stacks"})
	m, _ = send(t, m, runes("n"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateMenu || m.player != nil || m.topic != nil {
		t.Fatal("esc should return to the menu and drop the player")
	}
	// keys are scoped to the topic view: n does nothing on the menu
	m, cmd := send(t, m, runes("n"))
	if cmd != nil || m.state != stateMenu {
		t.Error("topic key handled on menu")
	}
}

func TestCameraKeys(t *testing.T) {
	m := newModel(Options{Config: noFade(), Start: "binary_heaps"})
	rotY := m.view.Camera.RotY
	zoom := m.view.Camera.Zoom

	m, _ = send(t, m, runes("d"))
	m, _ = send(t, m, runes("+"))
	if m.view.Camera.RotY <= rotY {
		t.Error("d should orbit right")
	}
	if m.view.Camera.Zoom <= zoom {
		t.Error("+ should zoom in")
	}

	m, _ = send(t, m, runes("0"))
	if m.view.Camera.RotY != rotY || m.view.Camera.Zoom != zoom {
		t.Error("0 should reset the camera")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newModel(Options{Config: noFade(), Start: "arrays"})
	m, _ = send(t, m, runes("?"))
	if !m.help.ShowAll {
		t.Fatal("? should expand help")
	}
	if !strings.Contains(m.View(), "orbit") {
		t.Error("full help should list camera keys")
	}
}

const packYAML = `
key: tiny_stack
name: Tiny Stack
kind: sequence
shape: stack
code: ["let mut s = vec![];", "s.push(1);"]
steps:
  - text: "Empty."
    line: 0
  - text: "Push."
    line: 1
    items: [1]
`

func TestReload(t *testing.T) {
	m := newModel(Options{Config: noFade()})
	n := len(m.keys)

	m, _ = send(t, m, ReloadMsg{Dir: "packs", Err: errors.New("bad yaml")})
	if !strings.Contains(m.status, "bad yaml") {
		t.Errorf("status = %q", m.status)
	}

	tp, err := scriptpack.Parse([]byte(packYAML))
	if err != nil {
		t.Fatal(err)
	}
	m, _ = send(t, m, ReloadMsg{Dir: "packs", Topics: []topics.Topic{tp}})
	if len(m.keys) != n+1 {
		t.Fatalf("keys = %d, want %d", len(m.keys), n+1)
	}
	if m.names["tiny_stack"] != "Tiny Stack" {
		t.Errorf("names = %v", m.names["tiny_stack"])
	}
	m = m.open("tiny_stack")
	if m.state != stateTopic {
		t.Errorf("reloaded topic did not open: %s", m.status)
	}
}

func TestReloadKeepsBuiltins(t *testing.T) {
	m := newModel(Options{Config: noFade()})
	n := len(m.keys)

	hijack, err := scriptpack.Parse([]byte("key: loop\nname: Hijack\nkind: flow\nsteps: [{text: mine}]\n"))
	if err != nil {
		t.Fatal(err)
	}
	m, _ = send(t, m, ReloadMsg{Dir: "packs", Topics: []topics.Topic{hijack}})
	if m.info || !strings.Contains(m.status, "duplicate") {
		t.Errorf("status = %q, want a duplicate key error", m.status)
	}
	if m.names["loop"] != "Loop" {
		t.Errorf("loop renamed to %q", m.names["loop"])
	}
	if len(m.keys) != n {
		t.Errorf("keys = %d, want %d", len(m.keys), n)
	}
}

func TestReloadDropsRemovedTopics(t *testing.T) {
	m := newModel(Options{Config: noFade()})
	n := len(m.keys)

	tp, err := scriptpack.Parse([]byte(packYAML))
	if err != nil {
		t.Fatal(err)
	}
	m, _ = send(t, m, ReloadMsg{Dir: "packs", Topics: []topics.Topic{tp}})
	m.cursor = len(m.keys) - 1

	// the pack file was deleted
	m, _ = send(t, m, ReloadMsg{Dir: "packs"})
	if _, ok := m.names["tiny_stack"]; ok {
		t.Error("tiny_stack still listed")
	}
	if len(m.keys) != n {
		t.Errorf("keys = %d, want %d", len(m.keys), n)
	}
	if m.cursor != n-1 {
		t.Errorf("cursor = %d, want %d", m.cursor, n-1)
	}
}

func TestLiveRendererPlaysEveryStep(t *testing.T) {
	tp := topics.Arrays()
	var buf bytes.Buffer
	view := viz.View{Styles: viz.NewStyles(viz.GetTheme("paper")), Width: 30, Height: 8}
	r := NewLiveRenderer(&buf, view, time.Millisecond)
	r.Plain = true

	if err := r.Play(context.Background(), tp); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if got := strings.Count(out, clearScreen); got != tp.Len() {
		t.Errorf("frames = %d, want %d", got, tp.Len())
	}
	if !strings.HasPrefix(out, hideCursor) || !strings.HasSuffix(out, showCursor) {
		t.Error("cursor not hidden and restored")
	}
}

func TestLiveRendererCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	view := viz.View{Styles: viz.NewStyles(viz.GetTheme("paper")), Width: 30, Height: 8}
	r := NewLiveRenderer(&buf, view, time.Hour)
	r.Plain = true
	if err := r.Play(ctx, topics.Arrays()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}
