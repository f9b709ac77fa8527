package scene

import (
	"math"
	"testing"
)

func near(a, b Vec3) bool {
	return a.Sub(b).Length() < 1e-9
}

func TestHeapLayout(t *testing.T) {
	pos, links := HeapLayout(4, V(0, 2, 0), 4, 1.5)
	want := []Vec3{
		{0, 2, 0},
		{-4, 0.5, 0},
		{4, 0.5, 0},
		{-6, -1, 0},
	}
	for i, w := range want {
		if !near(pos[i], w) {
			t.Errorf("pos[%d] = %v, want %v", i, pos[i], w)
		}
	}
	if len(links) != 3 {
		t.Fatalf("links = %d, want 3", len(links))
	}
	if !near(links[1][0], want[1]) || !near(links[1][1], want[3]) {
		t.Errorf("second link = %v", links[1])
	}
}

func TestHeapLayout_Empty(t *testing.T) {
	pos, links := HeapLayout(0, V(0, 0, 0), 4, 1.5)
	if len(pos) != 0 || len(links) != 0 {
		t.Errorf("got %v %v", pos, links)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want int
	}{
		{"Blue", 8, 0},
		{"Yellow", 8, 4},
		{"", 8, 0},
		{"a", 0, 0},
	}
	for _, tt := range tests {
		for run := 0; run < 3; run++ {
			if got := Bucket(tt.key, tt.n); got != tt.want {
				t.Errorf("Bucket(%q, %d) = %d, want %d", tt.key, tt.n, got, tt.want)
			}
		}
	}
}

func TestArrowHead(t *testing.T) {
	end, dir := ArrowHead(V(0, 0, 0), V(0, 2, 0), 0.5)
	if !near(end, V(0, 1.5, 0)) || !near(dir, V(0, 1, 0)) {
		t.Errorf("end=%v dir=%v", end, dir)
	}
	end, dir = ArrowHead(V(1, 1, 1), V(1, 1, 1), 0.2)
	if !near(end, V(1, 1, 1)) || !near(dir, V(0, 1, 0)) {
		t.Errorf("degenerate: end=%v dir=%v", end, dir)
	}
}

func TestRow(t *testing.T) {
	pts := Row(3, V(-1, 0, 0), 1.2)
	if !near(pts[2], V(1.4, 0, 0)) {
		t.Errorf("Row[2] = %v", pts[2])
	}
}

func TestRing(t *testing.T) {
	pts := Ring(4, 2)
	want := []Vec3{V(0, 2, 0), V(2, 0, 0), V(0, -2, 0), V(-2, 0, 0)}
	for i, w := range want {
		if !near(pts[i], w) {
			t.Errorf("Ring[%d] = %v, want %v", i, pts[i], w)
		}
	}
	if Ring(0, 2) != nil {
		t.Error("Ring(0) should be empty")
	}
}

func TestBuilderGroupAndBounds(t *testing.T) {
	s := New()
	b := s.Builder()
	g := b.Group(V(1, 1, 0))
	g.Box(V(0, 0, 0), V(2, 2, 2), Active)
	g.Line(V(0, 0, 0), V(1, 0, 0), Base)
	b.Label(V(-3, 0, 0), "x", 0.2, Text)

	if s.Prims[0].At != V(1, 1, 0) {
		t.Errorf("box at %v", s.Prims[0].At)
	}
	if s.Prims[1].To != V(2, 1, 0) {
		t.Errorf("line to %v", s.Prims[1].To)
	}
	lo, hi := s.Bounds()
	if lo.X != -3 || hi.Y != 2 {
		t.Errorf("bounds %v %v", lo, hi)
	}
	if s.Count(Box) != 1 || s.Count(Label) != 1 {
		t.Errorf("counts box=%d label=%d", s.Count(Box), s.Count(Label))
	}
}

func TestVec3(t *testing.T) {
	a := V(1, 0, 0)
	b := V(0, 1, 0)
	if !near(a.Cross(b), V(0, 0, 1)) {
		t.Errorf("cross = %v", a.Cross(b))
	}
	if math.Abs(V(3, 4, 0).Length()-5) > 1e-12 {
		t.Error("length")
	}
	if !near(a.Lerp(b, 0.5), V(0.5, 0.5, 0)) {
		t.Error("lerp")
	}
}
