package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/viz"
)

const (
	arrowRadius = 0.05
	headRadius  = 0.15
	labelScale  = 40
)

func vec(v scene.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// ink resolves a palette role against the theme.
func ink(th viz.Theme, c scene.Color, alpha uint8) rl.Color {
	r, g, b := th.RGB(c)
	return rl.NewColor(r, g, b, alpha)
}

// label is a projected text anchor, drawn after the 3D pass.
type label struct {
	text string
	at   rl.Vector2
	size float32
	col  rl.Color
}

// DrawScene draws the solid primitives inside BeginMode3D and returns the
// labels projected to screen space.
func (a *App) DrawScene(s *scene.Scene) []label {
	if s == nil {
		return nil
	}
	var labels []label
	th := a.Theme
	for _, p := range s.Prims {
		switch p.Kind {
		case scene.Box:
			rl.DrawCubeV(vec(p.At), vec(p.Size), ink(th, p.Color, 70))
			rl.DrawCubeWiresV(vec(p.At), vec(p.Size), ink(th, p.Color, 255))
		case scene.Sphere:
			rl.DrawSphere(vec(p.At), float32(p.Radius), ink(th, p.Color, 230))
		case scene.Line:
			rl.DrawLine3D(vec(p.At), vec(p.To), ink(th, p.Color, 255))
		case scene.Arrow:
			a.drawArrow(p)
		case scene.Label:
			pos := rl.GetWorldToScreen(vec(p.At), a.Camera)
			labels = append(labels, label{
				text: p.Text,
				at:   pos,
				size: float32(p.Radius * labelScale),
				col:  ink(th, p.Color, 255),
			})
		}
	}
	return labels
}

// drawArrow is a cylinder shaft capped by a cone.
func (a *App) drawArrow(p scene.Primitive) {
	head := p.Radius
	if head <= 0 {
		head = 0.3
	}
	shaftEnd, dir := scene.ArrowHead(p.At, p.To, head)
	col := ink(a.Theme, p.Color, 255)
	tip := p.To
	if p.At == p.To {
		tip = p.At.Add(dir.Scale(head))
	}
	rl.DrawCylinderEx(vec(p.At), vec(shaftEnd), arrowRadius, arrowRadius, 8, col)
	rl.DrawCylinderEx(vec(shaftEnd), vec(tip), headRadius, 0, 12, col)
}

func (a *App) drawLabels(labels []label) {
	for _, l := range labels {
		size := max(l.size, 12)
		w := rl.MeasureTextEx(a.Font, l.text, size, 1)
		pos := rl.NewVector2(l.at.X-w.X/2, l.at.Y-w.Y/2)
		rl.DrawTextEx(a.Font, l.text, pos, size, 1, l.col)
	}
}
