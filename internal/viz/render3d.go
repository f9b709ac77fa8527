package viz

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/san-kum/stepviz/internal/scene"
)

type Vec3 = scene.Vec3

// Camera orbits a target and projects world points onto a canvas.
type Camera struct {
	Target           Vec3
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
	// Span is the world width that fits the shorter screen side at zoom 1.
	Span float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 30, Zoom: 1.0, Span: 11}
}

// OrbitCamera is a default camera turned to the given angles.
func OrbitCamera(rotX, rotY, zoom float64) *Camera {
	c := NewCamera()
	c.RotX, c.RotY = rotX, rotY
	if zoom > 0 {
		c.Zoom = zoom
	}
	return c
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts world coordinates to screen coordinates. It returns x,
// y, depth (larger is nearer) and whether the point is on screen.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p.Sub(c.Target)).Scale(c.Zoom)
	dist := c.Distance
	if rot.Z >= dist-0.1 {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(min(sw, sh))
	span := c.Span
	if span <= 0 {
		span = 11
	}
	pScale := minDim / span
	sx := int(math.Round(rot.X*scale*pScale)) + sw/2
	sy := int(math.Round(-rot.Y*scale*pScale)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
	Color      scene.Color
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                        { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3, c scene.Color) { w.Edges = append(w.Edges, Edge{s, e, c}) }

var boxEdges = [12][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}

// AddBox adds the 12 edges of an axis-aligned box.
func (w *Wireframe) AddBox(at, size Vec3, c scene.Color) {
	x, y, z := size.X/2, size.Y/2, size.Z/2
	v := [8]Vec3{{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z}, {X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z}}
	for _, e := range boxEdges {
		w.AddEdge(at.Add(v[e[0]]), at.Add(v[e[1]]), c)
	}
}

const ringSegments = 16

// AddSphere approximates a sphere with three great circles.
func (w *Wireframe) AddSphere(at Vec3, r float64, c scene.Color) {
	ring := func(pt func(a float64) Vec3) {
		prev := pt(0)
		for i := 1; i <= ringSegments; i++ {
			next := pt(2 * math.Pi * float64(i) / ringSegments)
			w.AddEdge(at.Add(prev), at.Add(next), c)
			prev = next
		}
	}
	ring(func(a float64) Vec3 { return Vec3{X: r * math.Cos(a), Y: r * math.Sin(a)} })
	ring(func(a float64) Vec3 { return Vec3{X: r * math.Cos(a), Z: r * math.Sin(a)} })
	ring(func(a float64) Vec3 { return Vec3{Y: r * math.Cos(a), Z: r * math.Sin(a)} })
}

// AddArrow adds a shaft and two head strokes.
func (w *Wireframe) AddArrow(from, to Vec3, head float64, c scene.Color) {
	shaftEnd, dir := scene.ArrowHead(from, to, head)
	w.AddEdge(from, to, c)
	side := dir.Cross(Vec3{Z: 1})
	if side.Length() < 1e-9 {
		side = dir.Cross(Vec3{X: 1})
	}
	side = side.Normalize().Scale(head * 0.6)
	w.AddEdge(to, shaftEnd.Add(side), c)
	w.AddEdge(to, shaftEnd.Sub(side), c)
}

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Color          scene.Color
	Visible        bool
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.SubWidth(), c.SubHeight()
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color, true})
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].Depth < proj[j].Depth })
	pen := c.Pen
	for _, e := range proj {
		c.Pen = e.Color
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
	c.Pen = pen
}

// SceneWireframe turns every non-label primitive into edges.
func SceneWireframe(s *scene.Scene) *Wireframe {
	w := NewWireframe()
	for _, p := range s.Prims {
		switch p.Kind {
		case scene.Box:
			w.AddBox(p.At, p.Size, p.Color)
		case scene.Sphere:
			w.AddSphere(p.At, p.Radius, p.Color)
		case scene.Line:
			w.AddEdge(p.At, p.To, p.Color)
		case scene.Arrow:
			w.AddArrow(p.At, p.To, p.Radius, p.Color)
		}
	}
	return w
}

// RenderScene draws a scene: wireframes first, then labels into the
// overlay, nearest label last.
func RenderScene(c *Canvas, s *scene.Scene, cam *Camera) {
	if c == nil || s == nil || cam == nil {
		return
	}
	Render3D(c, SceneWireframe(s), cam)

	type label struct {
		col, row int
		depth    float64
		text     string
		ink      scene.Color
	}
	var labels []label
	for _, p := range s.Prims {
		if p.Kind != scene.Label || p.Text == "" {
			continue
		}
		x, y, d, ok := cam.Project(p.At, c.SubWidth(), c.SubHeight())
		if !ok {
			continue
		}
		n := utf8.RuneCountInString(p.Text)
		labels = append(labels, label{x/2 - n/2, y / 4, d, p.Text, p.Color})
	}
	sort.SliceStable(labels, func(i, j int) bool { return labels[i].depth < labels[j].depth })
	for _, l := range labels {
		c.Text(l.col, l.row, l.text, l.ink)
	}
}

// FitCamera points cam at the scene centre.
func FitCamera(cam *Camera, s *scene.Scene) {
	if s == nil || len(s.Prims) == 0 {
		cam.Target = Vec3{}
		return
	}
	cam.Target = s.Center()
}
