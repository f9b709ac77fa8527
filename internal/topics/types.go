package topics

import (
	"strconv"
	"strings"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

// Scalar is one typed value. Type is a Rust type name such as "i32".
type Scalar struct {
	Type  string
	Value string
	At    scene.Vec3
}

// CellSize grows with the bit width of an integer type.
func CellSize(typ string) float64 {
	bits, err := strconv.Atoi(strings.TrimLeft(typ, "iuf"))
	if err != nil {
		return 1
	}
	switch {
	case bits <= 8:
		return 0.6
	case bits <= 16:
		return 0.8
	case bits <= 32:
		return 1
	case bits <= 64:
		return 1.3
	}
	return 1.6
}

// DataTypesScene lays out scalar cells, a tuple and an array.
type DataTypesScene struct {
	Scalars []Scalar
	Tuple   []Scalar
	Array   []int
	// ArrayType is the element type of Array.
	ArrayType string
	// Highlight indexes Tuple or Array, whichever is shown, or script.None.
	Highlight int
	Console   []string
}

func drawScalar(b *scene.Builder, s Scalar, lit bool) {
	g := b.Group(s.At)
	switch {
	case s.Type == "bool":
		c := scene.Accent
		if lit {
			c = scene.Active
		}
		g.Box(scene.V(0, 0, 0), scene.V(1.2, 1.2, 0.25), c)
		g.Label(scene.V(0, 0, 0.2), s.Value, 0.28, scene.Text)
	case s.Type == "char":
		g.Box(scene.V(0, 0, 0), scene.V(1, 1, 0.1), scene.Danger)
		g.Label(scene.V(0, 0, 0.1), s.Value, 0.5, scene.Text)
	case strings.HasPrefix(s.Type, "f"):
		r := 0.7
		if s.Type == "f32" {
			r = 0.5
		}
		c := scene.Success
		if lit {
			c = scene.Active
		}
		g.Sphere(scene.V(0, 0, 0), r, c)
		g.Label(scene.V(0, 0, r+0.05), s.Value, 0.25, scene.Text)
		g.Label(scene.V(0, r+0.2, 0), s.Type, 0.15, scene.Muted)
	default:
		size := CellSize(s.Type)
		c := scene.Base
		if lit {
			c = scene.Active
		}
		g.Box(scene.V(0, 0, 0), scene.V(size, size, size), c)
		g.Label(scene.V(0, 0, size/2+0.05), s.Value, 0.25, scene.Text)
		g.Label(scene.V(0, size/2+0.2, 0), s.Type, 0.15, scene.Muted)
	}
}

func (d DataTypesScene) Draw(b *scene.Builder) {
	for _, s := range d.Scalars {
		drawScalar(b, s, false)
	}
	if n := len(d.Tuple); n > 0 {
		b.Box(scene.V(0, -0.1, -0.8), scene.V(float64(n)*1.5+0.5, 2, 0.1), scene.Owner)
		b.Label(scene.V(0, 1.2, -0.75), "Tuple", 0.2, scene.Text)
		for i, el := range d.Tuple {
			el.At = scene.V((float64(i)-float64(n-1)/2)*1.5, 0, 0)
			drawScalar(b, el, i == d.Highlight)
		}
	}
	if n := len(d.Array); n > 0 {
		b.Box(scene.V(0, -0.1, -0.8), scene.V(float64(n)*1.2+0.2, 1.4, 0.1), scene.Danger)
		b.Label(scene.V(0, 0.9, -0.75), "Array<"+d.ArrayType+", "+strconv.Itoa(n)+">", 0.2, scene.Text)
		for i, v := range d.Array {
			at := scene.V((float64(i)-float64(n-1)/2)*1.2, 0, 0)
			drawScalar(b, Scalar{Type: d.ArrayType, Value: strconv.Itoa(v), At: at}, i == d.Highlight)
		}
	}
	for i, line := range d.Console {
		b.Label(scene.V(0, -2.2-float64(i)*0.35, 0), "> "+line, 0.2, scene.Success)
	}
}

func (d DataTypesScene) Values() map[string]float64 {
	v := map[string]float64{
		"scalars": float64(len(d.Scalars)),
		"tuple":   float64(len(d.Tuple)),
		"array":   float64(len(d.Array)),
		"console": float64(len(d.Console)),
	}
	if d.Highlight != script.None {
		v["highlight"] = float64(d.Highlight)
	}
	return v
}

func DataTypes() Topic {
	i8 := Scalar{"i8", "10", scene.V(-3.5, 1, 0)}
	i32 := Scalar{"i32", "-2500", scene.V(0, 1, 0)}
	i64 := Scalar{"i64", "9M", scene.V(3.5, 1, 0)}
	f64 := Scalar{"f64", "3.14", scene.V(0, -1, 0)}
	flag := Scalar{"bool", "true", scene.V(-2.5, -1, 0)}
	letter := Scalar{"char", "λ", scene.V(2.5, -1, 0)}
	tup := []Scalar{{Type: "i32", Value: "500"}, {Type: "f64", Value: "6.4"}, {Type: "bool", Value: "true"}}
	arr := []int{1, 2, 3, 4, 5}

	type D = DataTypesScene
	none := D{Highlight: script.None}
	scalars := func(s ...Scalar) D { return D{Scalars: s, Highlight: script.None} }
	s := &script.Script[DataTypesScene]{
		Title: "Data Types",
		Code: []string{
			"// --- Scalar Types ---",
			"let small_int: i8 = 10;",
			"let integer: i32 = -2_500;",
			"let large_int: i64 = 9_000_000;",
			"let float: f64 = 3.14;",
			"let is_active: bool = true;",
			"let letter: char = 'λ';",
			"",
			"// --- Compound Types ---",
			"let tup = (500, 6.4, true);",
			"let first_val = tup.0;",
			"",
			"let arr: [i32; 5] = [1, 2, 3, 4, 5];",
			"let third_el = arr[2];",
		},
		Sticky: true,
		Fade:   true,
		Steps: []script.Step[DataTypesScene]{
			step("Let's explore Rust's data types. We'll start with Scalar types, which represent a single value.", script.None, none),
			step("An 8-bit signed integer (`i8`). It's the smallest integer type, useful for saving space.", 1, scalars(i8)),
			step("A 32-bit signed integer (`i32`), the default for integers. Notice its larger size.", 2, scalars(i8, i32)),
			step("A 64-bit signed integer (`i64`) for very large numbers. It's visually the largest.", 3, scalars(i8, i32, i64)),
			step("A 64-bit floating-point number (`f64`). Floats are drawn as spheres.", 4, scalars(f64)),
			step("A boolean type (`bool`), which can only be `true` or `false`.", 5, scalars(f64, flag)),
			step("A `char` holds a single Unicode character (4 bytes). Notice it uses single quotes.", 6, scalars(f64, flag, letter)),
			step("Now let's look at Compound types, which can group multiple values.", script.None, none),
			step("A Tuple groups values of different types into one compound value. Its length is fixed.", 9, D{Tuple: tup, Highlight: script.None}),
			step("We can access tuple elements by their index, starting from 0, using dot notation.", 10, D{Tuple: tup, Highlight: 0, Console: []string{"First value is: 500"}}),
			step("Tuples are great for fixed collections of varied data. Next, Arrays.", script.None, none),
			step("An Array stores multiple values of the *same type*. Its length is also fixed.", 12, D{Array: arr, ArrayType: "i32", Highlight: script.None}),
			step("Like tuples, we access array elements by index using square brackets `[]`.", 13, D{Array: arr, ArrayType: "i32", Highlight: 2, Console: []string{"Third element is: 3"}}),
			step("You've completed the tour of Rust's primary data types!", script.None, none),
		},
	}
	return New("data_types", "Data Types", s)
}

// IntRange is the value range of a fixed-width integer type.
type IntRange struct {
	Name     string
	Min, Max int
}

var (
	I8 = IntRange{Name: "i8", Min: -128, Max: 127}
	U8 = IntRange{Name: "u8", Min: 0, Max: 255}
)

func (r IntRange) Count() int { return r.Max - r.Min + 1 }

// Wrap maps v into the range the way two's complement overflow does.
func (r IntRange) Wrap(v int) int {
	n := r.Count()
	return r.Min + ((v-r.Min)%n+n)%n
}

// Slot is the position of v on the ring, 0 being Min.
func (r IntRange) Slot(v int) int { return r.Wrap(v) - r.Min }

// RingScene draws every value of an integer type on a circle with a pointer
// at the current value.
type RingScene struct {
	Range    IntRange
	Pointer  int
	Overflow bool
}

const ringRadius = 2.5

func (s RingScene) Draw(b *scene.Builder) {
	pts := scene.Ring(s.Range.Count(), ringRadius)
	if len(pts) == 0 {
		return
	}
	color := scene.Base
	if s.Range.Min == 0 {
		color = scene.Accent
	}
	for i, p := range pts {
		b.Line(p, pts[(i+1)%len(pts)], color)
	}

	marker := func(v int, c scene.Color, r float64) {
		p := pts[s.Range.Slot(v)]
		b.Sphere(p, r, c)
		b.Label(p.Scale(1.25), strconv.Itoa(v), 0.22, c)
	}
	marker(s.Range.Min, scene.Danger, 0.22)
	marker(s.Range.Max, scene.Success, 0.22)
	if s.Range.Min != 0 {
		marker(0, scene.Text, 0.18)
	}

	at := pts[s.Range.Slot(s.Pointer)]
	pc := scene.Active
	if s.Overflow {
		pc = scene.Danger
		b.Label(scene.V(0, -0.6, 0), "overflow", 0.3, scene.Danger)
	}
	b.Arrow(scene.V(0, 0, 0), at.Scale(0.85), pc)
	b.Sphere(at, 0.28, pc)
	b.Label(scene.V(0, 0, 0), s.Range.Name+" = "+strconv.Itoa(s.Range.Wrap(s.Pointer)), 0.32, scene.Text)
}

func (s RingScene) Values() map[string]float64 {
	return map[string]float64{
		"pointer":  float64(s.Range.Wrap(s.Pointer)),
		"overflow": boolf(s.Overflow),
	}
}

func CyclicNotation() Topic {
	x := func(v int, over bool) RingScene { return RingScene{Range: I8, Pointer: v, Overflow: over} }
	y := func(v int, over bool) RingScene { return RingScene{Range: U8, Pointer: v, Overflow: over} }
	s := &script.Script[RingScene]{
		Title: "Cyclic Notation",
		Code: []string{
			"// i8: -128 to 127",
			"let mut x: i8 = 127;",
			"x = x.wrapping_add(1);",
			`println!("{}", x); // -128 (overflow)`,
			"",
			"// u8: 0 to 255",
			"let mut y: u8 = 255;",
			"y = y.wrapping_add(1);",
			`println!("{}", y); // 0 (overflow)`,
		},
		Steps: []script.Step[RingScene]{
			step("Integer overflow in Rust, drawn as a ring. We start with i8, which ranges from -128 to 127.", 0, x(127, false)),
			step("We assign x = 127, the maximum value for i8.", 1, x(127, false)),
			step("Now we add 1 to x. The value wraps around to -128 (overflow).", 2, x(127+1, true)),
			step("Printing x now shows -128.", 3, x(127+1, false)),
			step("Now let's look at u8, which ranges from 0 to 255.", 5, y(255, false)),
			step("We assign y = 255, the maximum value for u8.", 6, y(255, false)),
			step("Adding 1 to y wraps it around to 0 (overflow).", 7, y(255+1, true)),
			step("Printing y now shows 0.", 8, y(255+1, false)),
		},
	}
	return New("cyclic_notation", "Cyclic Notation", s)
}
