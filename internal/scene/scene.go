package scene

import "math"

type Kind int

const (
	Box Kind = iota
	Sphere
	Line
	Arrow
	Label
)

func (k Kind) String() string {
	switch k {
	case Box:
		return "box"
	case Sphere:
		return "sphere"
	case Line:
		return "line"
	case Arrow:
		return "arrow"
	case Label:
		return "label"
	}
	return "unknown"
}

// Color is a palette role; renderers map it to a concrete colour.
type Color int

const (
	Base Color = iota
	Active
	Muted
	Danger
	Success
	Accent
	Owner
	Text
)

var colorNames = [...]string{"base", "active", "muted", "danger", "success", "accent", "owner", "text"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "base"
	}
	return colorNames[c]
}

// Primitive is one shape descriptor handed to a renderer.
//
//	Box:    At is the centre, Size the extents.
//	Sphere: At is the centre, Radius the radius.
//	Line:   At to To.
//	Arrow:  At to To, head length in Radius.
//	Label:  Text anchored at At, font size in Radius.
type Primitive struct {
	Kind   Kind
	At, To Vec3
	Size   Vec3
	Radius float64
	Color  Color
	Text   string
}

type Scene struct {
	Prims []Primitive
}

func New() *Scene { return &Scene{} }

// Builder appends primitives translated by a fixed offset.
type Builder struct {
	s      *Scene
	offset Vec3
}

func (s *Scene) Builder() *Builder { return &Builder{s: s} }

// Group returns a builder whose positions are relative to off.
func (b *Builder) Group(off Vec3) *Builder {
	return &Builder{s: b.s, offset: b.offset.Add(off)}
}

func (b *Builder) add(p Primitive) *Builder {
	p.At = p.At.Add(b.offset)
	if p.Kind == Line || p.Kind == Arrow {
		p.To = p.To.Add(b.offset)
	}
	b.s.Prims = append(b.s.Prims, p)
	return b
}

func (b *Builder) Box(at, size Vec3, c Color) *Builder {
	return b.add(Primitive{Kind: Box, At: at, Size: size, Color: c})
}

func (b *Builder) Sphere(at Vec3, r float64, c Color) *Builder {
	return b.add(Primitive{Kind: Sphere, At: at, Radius: r, Color: c})
}

func (b *Builder) Line(from, to Vec3, c Color) *Builder {
	return b.add(Primitive{Kind: Line, At: from, To: to, Color: c})
}

func (b *Builder) Arrow(from, to Vec3, c Color) *Builder {
	return b.add(Primitive{Kind: Arrow, At: from, To: to, Radius: DefaultHead, Color: c})
}

func (b *Builder) Label(at Vec3, text string, size float64, c Color) *Builder {
	return b.add(Primitive{Kind: Label, At: at, Text: text, Radius: size, Color: c})
}

// Count returns how many primitives of kind k the scene holds.
func (s *Scene) Count(k Kind) int {
	n := 0
	for _, p := range s.Prims {
		if p.Kind == k {
			n++
		}
	}
	return n
}

// Labels returns the text of every label in draw order.
func (s *Scene) Labels() []string {
	var out []string
	for _, p := range s.Prims {
		if p.Kind == Label {
			out = append(out, p.Text)
		}
	}
	return out
}

// Bounds returns the axis-aligned extent of the scene.
func (s *Scene) Bounds() (min, max Vec3) {
	if len(s.Prims) == 0 {
		return Vec3{}, Vec3{}
	}
	inf := math.Inf(1)
	min = Vec3{inf, inf, inf}
	max = Vec3{-inf, -inf, -inf}
	grow := func(p Vec3) {
		min = Vec3{math.Min(min.X, p.X), math.Min(min.Y, p.Y), math.Min(min.Z, p.Z)}
		max = Vec3{math.Max(max.X, p.X), math.Max(max.Y, p.Y), math.Max(max.Z, p.Z)}
	}
	for _, p := range s.Prims {
		switch p.Kind {
		case Box:
			h := p.Size.Scale(0.5)
			grow(p.At.Sub(h))
			grow(p.At.Add(h))
		case Sphere:
			r := Vec3{p.Radius, p.Radius, p.Radius}
			grow(p.At.Sub(r))
			grow(p.At.Add(r))
		case Line, Arrow:
			grow(p.At)
			grow(p.To)
		default:
			grow(p.At)
		}
	}
	return min, max
}

// Center is the midpoint of Bounds.
func (s *Scene) Center() Vec3 {
	lo, hi := s.Bounds()
	return lo.Lerp(hi, 0.5)
}
