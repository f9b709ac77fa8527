package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
	"github.com/san-kum/stepviz/internal/topics"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Pen = scene.Danger
	c.Set(0, 0)
	c.Set(3, 3)
	if !c.Dot(0, 0) || !c.Dot(3, 3) {
		t.Fatal("dots not set")
	}
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if _, ink := c.Cell(1, 0); ink != scene.Danger {
		t.Errorf("ink = %v, want danger", ink)
	}
	c.Unset(0, 0)
	if c.Dot(0, 0) {
		t.Error("dot still set")
	}
	c.Set(-1, 0)
	c.Set(100, 100)
}

func TestCanvasText(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Text(2, 1, "abc", scene.Text)
	got := strings.Split(c.String(), "\n")
	if got[1] != "⠀⠀ab" {
		t.Errorf("row 1 = %q", got[1])
	}
	c.Clear()
	if r, _ := c.Cell(2, 1); r != blank {
		t.Errorf("overlay survived Clear: %q", r)
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(5, 1)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x < 10; x++ {
		if !c.Dot(x, 0) {
			t.Fatalf("dot %d missing", x)
		}
	}
}

func TestProjectCentre(t *testing.T) {
	cam := NewCamera()
	x, y, _, ok := cam.Project(scene.V(0, 0, 0), 100, 80)
	if !ok || x != 50 || y != 40 {
		t.Errorf("origin -> (%d, %d, %v), want (50, 40, true)", x, y, ok)
	}
	x2, y2, _, _ := cam.Project(scene.V(1, 1, 0), 100, 80)
	if x2 <= x || y2 >= y {
		t.Errorf("+x+y should go right and up, got (%d, %d)", x2, y2)
	}
	cam.Target = scene.V(1, 1, 0)
	x, y, _, _ = cam.Project(scene.V(1, 1, 0), 100, 80)
	if x != 50 || y != 40 {
		t.Errorf("target not centred: (%d, %d)", x, y)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewCamera()
	if _, _, _, ok := cam.Project(scene.V(0, 0, 40), 100, 80); ok {
		t.Error("point behind the camera reported visible")
	}
}

func TestRenderScene(t *testing.T) {
	s := scene.New()
	b := s.Builder()
	b.Box(scene.V(0, 0, 0), scene.V(2, 2, 2), scene.Active)
	b.Label(scene.V(0, 0, 0), "hi", 0.3, scene.Text)

	c := NewCanvas(40, 20)
	RenderScene(c, s, NewCamera())

	dots := 0
	for row := range c.Grid {
		for col := range c.Grid[row] {
			if c.Grid[row][col] != blank {
				dots++
			}
		}
	}
	if dots == 0 {
		t.Fatal("box drew nothing")
	}
	if !strings.Contains(c.String(), "hi") {
		t.Error("label missing from overlay")
	}
}

func TestSceneWireframe(t *testing.T) {
	s := scene.New()
	b := s.Builder()
	b.Box(scene.V(0, 0, 0), scene.V(1, 1, 1), scene.Base)
	b.Sphere(scene.V(0, 0, 0), 1, scene.Base)
	b.Line(scene.V(0, 0, 0), scene.V(1, 0, 0), scene.Base)
	b.Arrow(scene.V(0, 0, 0), scene.V(0, 1, 0), scene.Base)
	b.Label(scene.V(0, 0, 0), "x", 0.2, scene.Text)

	w := SceneWireframe(s)
	want := 12 + 3*ringSegments + 1 + 3
	if len(w.Edges) != want {
		t.Errorf("edges = %d, want %d", len(w.Edges), want)
	}
}

func TestCodePanel(t *testing.T) {
	th := GetTheme("paper")
	code := []string{"let x = 5;", "let y = 6;"}

	out := CodePanel(code, script.Cursor{Line: 1, Word: 1}, th)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "▸") || strings.Contains(lines[0], "▸") {
		t.Errorf("marker on wrong line:\n%s", out)
	}
	if !strings.Contains(lines[1], "y") || !strings.Contains(lines[1], "6") {
		t.Errorf("highlighted line lost text: %q", lines[1])
	}

	out = CodePanel(code, script.NoCursor, th)
	if strings.Contains(out, "▸") {
		t.Error("marker shown without a cursor")
	}
}

func TestHighlightWordOutOfRange(t *testing.T) {
	th := GetTheme("paper")
	got := CodePanel([]string{"a b"}, script.Cursor{Line: 0, Word: 9}, th)
	if !strings.Contains(got, "a b") {
		t.Errorf("line mangled: %q", got)
	}
}

func TestPlainProse(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain text", "plain text"},
		{"use `pop` here", "use pop here"},
		{"*very* **bold**", "very bold"},
		{"Check first arm: 1 => ... (no match)", "Check first arm: 1 => ... (no match)"},
	}
	for _, tt := range tests {
		if got := PlainProse(tt.in); got != tt.want {
			t.Errorf("PlainProse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProseKeepsText(t *testing.T) {
	got := Prose("We `insert` the key", GetTheme("blueprint"))
	for _, w := range []string{"We", "insert", "the key"} {
		if !strings.Contains(got, w) {
			t.Errorf("Prose output missing %q: %q", w, got)
		}
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "chalk" {
		t.Error("unknown theme should fall back to chalk")
	}
	if _, ok := LookupTheme("nope"); ok {
		t.Error("LookupTheme found a missing theme")
	}
	for _, th := range Themes {
		for c := scene.Base; c <= scene.Text; c++ {
			if _, ok := th.Inks[c]; !ok {
				t.Errorf("%s has no %s ink", th.Name, c)
			}
		}
	}
	th := GetTheme("chalk")
	if th.Ink(scene.Danger) != th.Inks[scene.Danger] || th.Ink(scene.Color(99)) != th.Text {
		t.Error("ink roles mapped wrong")
	}
	if r, g, b := th.RGB(scene.Active); r != 0xff || g != 0xd5 || b != 0x4f {
		t.Errorf("RGB(active) = %d,%d,%d", r, g, b)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}

func TestViewPlain(t *testing.T) {
	tp := topics.Stacks()
	v := View{Styles: NewStyles(GetTheme("paper")), Camera: NewCamera(), Width: 30, Height: 10}
	out := v.Plain(tp, tp.Frame(4))
	if !strings.Contains(out, "Step 5 / 6") {
		t.Errorf("missing counter:\n%s", out)
	}
	if !strings.Contains(out, ">  8 stack.push(3);") {
		t.Errorf("cursor line not marked:\n%s", out)
	}
}

func TestObservables(t *testing.T) {
	tp := topics.Stacks()
	v := View{Styles: NewStyles(GetTheme("paper")), Width: 30, Height: 10}
	out := v.Observables(tp, tp.Frame(4), 4)
	if !strings.Contains(out, "len") {
		t.Errorf("len observable missing: %q", out)
	}
	if strings.Count(out, "▁")+strings.Count(out, "█") == 0 {
		t.Errorf("no sparkline drawn: %q", out)
	}
	if got := v.Observables(tp, tp.Frame(4), 0); got != "" {
		t.Errorf("limit 0 should draw nothing, got %q", got)
	}
}

func TestFitTopic(t *testing.T) {
	tp := topics.BinaryHeaps()
	cam := NewCamera()
	FitTopic(cam, tp)
	if cam.Target == (Vec3{}) {
		t.Error("camera not moved onto the heap")
	}
	oc := OrbitCamera(0.3, -0.2, 0)
	if oc.RotX != 0.3 || oc.RotY != -0.2 || oc.Zoom != 1 {
		t.Errorf("OrbitCamera = %+v", oc)
	}
}

func TestSparklineGaps(t *testing.T) {
	s := NewStyles(GetTheme("paper"))
	out := s.SparklineChart([]float64{math.NaN(), 1, 2}, 3, -1)
	if !strings.HasPrefix(out, " ") {
		t.Errorf("missing value should be a gap: %q", out)
	}
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("values around the gap not drawn: %q", out)
	}

	tp := topics.HashMaps()
	v := View{Styles: s, Width: 30, Height: 10}
	if got := v.Observables(tp, tp.Frame(0), 4); !strings.Contains(got, "bucket.Yellow") || !strings.Contains(got, "-") {
		t.Errorf("absent value should read as -: %q", got)
	}
}
