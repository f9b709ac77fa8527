package scene

import "math"

// DefaultHead is the arrow head length used by Builder.Arrow.
const DefaultHead = 0.18

// Row spaces n points along +X starting at origin.
func Row(n int, origin Vec3, spacing float64) []Vec3 {
	out := make([]Vec3, n)
	for i := range out {
		out[i] = origin.Add(Vec3{X: float64(i) * spacing})
	}
	return out
}

// Column spaces n points along +Y starting at origin.
func Column(n int, origin Vec3, spacing float64) []Vec3 {
	out := make([]Vec3, n)
	for i := range out {
		out[i] = origin.Add(Vec3{Y: float64(i) * spacing})
	}
	return out
}

// HeapLayout places the nodes of an array-backed binary tree. Children of
// node i are 2i+1 (left) and 2i+2 (right); the horizontal offset halves at
// every level.
func HeapLayout(n int, root Vec3, xOffset, dy float64) (pos []Vec3, links [][2]Vec3) {
	pos = make([]Vec3, n)
	var place func(i int, at Vec3, off float64)
	place = func(i int, at Vec3, off float64) {
		if i >= n {
			return
		}
		pos[i] = at
		if l := 2*i + 1; l < n {
			child := Vec3{at.X - off, at.Y - dy, at.Z}
			links = append(links, [2]Vec3{at, child})
			place(l, child, off/2)
		}
		if r := 2*i + 2; r < n {
			child := Vec3{at.X + off, at.Y - dy, at.Z}
			links = append(links, [2]Vec3{at, child})
			place(r, child, off/2)
		}
	}
	place(0, root, xOffset)
	return pos, links
}

// Ring places n points clockwise on a circle in the XY plane, the first at
// the top.
func Ring(n int, radius float64) []Vec3 {
	if n <= 0 {
		return nil
	}
	out := make([]Vec3, n)
	for i := range out {
		a := float64(i)/float64(n)*2*math.Pi - math.Pi/2
		out[i] = Vec3{radius * math.Cos(a), -radius * math.Sin(a), 0}
	}
	return out
}

// Bucket is a toy hash: the sum of the key's character codes mod n.
func Bucket(key string, n int) int {
	if n <= 0 {
		return 0
	}
	sum := 0
	for _, r := range key {
		sum += int(r)
	}
	return sum % n
}

// ArrowHead returns where the shaft of an arrow ends and its unit
// direction. A zero-length arrow points up.
func ArrowHead(from, to Vec3, head float64) (shaftEnd, dir Vec3) {
	d := to.Sub(from)
	l := d.Length()
	if l == 0 {
		return from, Vec3{0, 1, 0}
	}
	dir = d.Scale(1 / l)
	if head > l {
		head = l
	}
	return from.Add(dir.Scale(l - head)), dir
}
