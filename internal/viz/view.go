package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/stepviz/internal/topics"
)

// View lays out one frame of a topic: scene canvas, code panel, prose and
// a progress header.
type View struct {
	Styles Styles
	Camera *Camera
	// Canvas size in cells.
	Width, Height int
}

// Canvas draws the frame's scene onto a fresh canvas.
func (v View) Canvas(f topics.Frame) *Canvas {
	c := NewCanvas(v.Width, v.Height)
	cam := v.Camera
	if cam == nil {
		cam = NewCamera()
	}
	RenderScene(c, f.Scene, cam)
	return c
}

// Header is the title line with step counter and progress bar.
func (v View) Header(t topics.Topic, f topics.Frame, barWidth int) string {
	s := v.Styles
	progress := 0.0
	if f.Total > 1 {
		progress = float64(f.Index) / float64(f.Total-1)
	}
	return fmt.Sprintf("%s  %s  %s",
		GradientText(t.Title(), s.Theme.Title, s.Theme.Subtitle),
		s.Subtle.Render(fmt.Sprintf("Step %d / %d", f.Index+1, f.Total)),
		s.ProgressBar(progress, barWidth))
}

// Render composes the full frame. When visible is false the explanation
// is drawn dimmed, the state a fade holds it in.
func (v View) Render(t topics.Topic, f topics.Frame, visible bool) string {
	s := v.Styles
	scenePane := s.PanelFocus.Render(v.Canvas(f).Render(s.Theme))
	codePane := s.Panel.Render(s.Title.Render("Code") + "\n" + CodePanel(t.Code(), f.Cursor, s.Theme))

	prose := Prose(f.Text, s.Theme)
	if !visible {
		prose = s.Subtle.Render(PlainProse(f.Text))
	}
	textWidth := lipgloss.Width(scenePane) + lipgloss.Width(codePane)
	explain := s.Panel.Width(max(20, textWidth-4)).Render(s.Title.Render("Explanation") + "\n" + prose)

	parts := []string{
		v.Header(t, f, 24),
		lipgloss.JoinHorizontal(lipgloss.Top, scenePane, codePane),
		explain,
	}
	if obs := v.Observables(t, f, 4); obs != "" {
		parts = append(parts, obs)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Observables draws a sparkline per step value, up to limit of them, with
// the current step marked.
func (v View) Observables(t topics.Topic, f topics.Frame, limit int) string {
	s := v.Styles
	names, series := topics.Series(t)
	if len(names) > limit {
		names = names[:limit]
	}

	var b strings.Builder
	for i, n := range names {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(s.MetricLabel.Render(n) + " ")
		b.WriteString(s.SparklineChart(series[n], t.Len(), f.Index) + " ")
		cur := "-"
		if x, ok := f.Values[n]; ok {
			cur = fmt.Sprintf("%g", x)
		}
		b.WriteString(s.MetricValue.Render(cur))
	}
	return b.String()
}

// Plain renders the frame without colour, for pipes and golden files.
func (v View) Plain(t topics.Topic, f topics.Frame) string {
	out := fmt.Sprintf("%s  Step %d / %d\n\n", t.Title(), f.Index+1, f.Total)
	for i, line := range t.Code() {
		mark := "  "
		if i == f.Cursor.Line {
			mark = "> "
		}
		out += fmt.Sprintf("%s%2d %s\n", mark, i+1, line)
	}
	out += "\n" + PlainProse(f.Text) + "\n\n"
	out += v.Canvas(f).String()
	return out
}

// FitTopic centres cam on the union of every step's scene, so the view
// holds still while the topic plays.
func FitTopic(cam *Camera, t topics.Topic) {
	first := true
	var lo, hi Vec3
	for i := 0; i < t.Len(); i++ {
		s := t.Frame(i).Scene
		if s == nil || len(s.Prims) == 0 {
			continue
		}
		a, b := s.Bounds()
		if first {
			lo, hi, first = a, b, false
			continue
		}
		lo = Vec3{X: min(lo.X, a.X), Y: min(lo.Y, a.Y), Z: min(lo.Z, a.Z)}
		hi = Vec3{X: max(hi.X, b.X), Y: max(hi.Y, b.Y), Z: max(hi.Z, b.Z)}
	}
	if first {
		cam.Target = Vec3{}
		return
	}
	cam.Target = lo.Lerp(hi, 0.5)
}
