package topics

import (
	"fmt"
	"hash/fnv"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

// Stage is how far a memory cell has been set up.
type Stage int

const (
	Alloc Stage = iota
	Labeled
	Ready
	Valued
)

// Cell is one variable or constant slot.
type Cell struct {
	Name      string
	Stage     Stage
	Value     string
	Mutable   bool
	Highlight bool
	At        scene.Vec3
	Address   string
}

// MemoryScene shows stack cells, compile-time constants and console output.
type MemoryScene struct {
	Cells   []Cell
	Consts  []Cell
	Console []string
}

func (m MemoryScene) Draw(b *scene.Builder) {
	for _, c := range m.Consts {
		g := b.Group(c.At)
		color := scene.Owner
		if c.Highlight {
			color = scene.Active
		}
		g.Box(scene.V(0, 0, 0), scene.V(2, 0.8, 0.1), color)
		g.Label(scene.V(0, 0.5, 0.1), "const", 0.12, scene.Text)
		g.Label(scene.V(0, 0.2, 0.1), c.Name, 0.2, scene.Text)
		if c.Stage == Valued {
			g.Label(scene.V(0, -0.15, 0.1), c.Value, 0.3, scene.Text)
		}
	}
	for _, c := range m.Cells {
		g := b.Group(c.At)
		color := scene.Muted
		switch {
		case c.Highlight:
			color = scene.Active
		case c.Mutable:
			color = scene.Accent
		case c.Stage >= Labeled:
			color = scene.Base
		}
		g.Box(scene.V(0, 0, 0), scene.V(1.2, 1, 1), color)
		title := c.Address
		if c.Stage >= Labeled {
			title = c.Name
		}
		g.Label(scene.V(0, 0.4, 0.6), title, 0.25, scene.Text)
		if c.Stage == Valued || (c.Value != "" && c.Highlight) {
			g.Label(scene.V(0, 0, 0.6), c.Value, 0.3, scene.Text)
		}
		if c.Mutable {
			g.Label(scene.V(0, -0.4, 0.6), "mutable", 0.18, scene.Accent)
		}
		g.Label(scene.V(0, -0.7, 0.6), c.Address, 0.16, scene.Muted)
	}
	for i, line := range m.Console {
		b.Label(scene.V(0, -2.2-float64(i)*0.35, 0), "> "+line, 0.2, scene.Success)
	}
}

func (m MemoryScene) Values() map[string]float64 {
	return map[string]float64{
		"cells":   float64(len(m.Cells)),
		"consts":  float64(len(m.Consts)),
		"console": float64(len(m.Console)),
	}
}

// Address derives a stable pseudo memory address for a variable.
func Address(name string, seed int64) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("0x%05x", (h.Sum32()^uint32(seed))&0xfffff)
}

type cellFactory struct{ seed int64 }

func (f cellFactory) cell(id, name string, st Stage, at scene.Vec3) Cell {
	return Cell{Name: name, Stage: st, At: at, Address: Address(id, f.seed)}
}

func (f cellFactory) value(id, name, v string, at scene.Vec3) Cell {
	c := f.cell(id, name, Valued, at)
	c.Value = v
	return c
}

func mut(c Cell) Cell {
	c.Mutable = true
	return c
}

func lit(c Cell) Cell {
	c.Highlight = true
	return c
}

func withValue(c Cell, v string) Cell {
	c.Value = v
	return c
}

func Variables(seed int64) Topic {
	f := cellFactory{seed}
	xAt, yAt := scene.V(-1, 0, 0), scene.V(1, 0, 0)
	x := f.value("x", "x", "5", xAt)
	y := func(st Stage) Cell { return mut(f.cell("y", "y", st, yAt)) }
	y10 := mut(f.value("y", "y", "10", yAt))
	y15 := mut(f.value("y", "y", "15", yAt))
	c1 := []string{"x = 5"}
	c2 := []string{"x = 5", "y = 10"}
	c3 := []string{"x = 5", "y = 10", "y changed to 15"}

	type M = MemoryScene
	s := &script.Script[MemoryScene]{
		Title: "Variables and Mutability",
		Code: []string{
			"fn main() {",
			"    let x = 5;",
			`    println!("x = {}", x);`,
			"    let mut y = 10;",
			`    println!("y = {}", y);`,
			"    y = 15;",
			`    println!("y changed to {}", y);`,
			"}",
		},
		Sticky: true,
		Steps: []script.Step[MemoryScene]{
			wordStep("Start of the `main` function.", 0, 0, M{}),
			wordStep("Function name.", 0, 1, M{}),
			wordStep("Enter function scope.", 0, 3, M{}),
			wordStep("Declare a new variable.", 1, 0, M{Cells: []Cell{f.cell("x", "x", Alloc, xAt)}}),
			wordStep("Label the memory as `x`.", 1, 1, M{Cells: []Cell{f.cell("x", "x", Labeled, xAt)}}),
			wordStep("Ready to assign a value to `x`.", 1, 2, M{Cells: []Cell{f.cell("x", "x", Ready, xAt)}}),
			wordStep("Assign value 5 to `x`.", 1, 3, M{Cells: []Cell{x}}),
			wordStep("Prepare to print `x`.", 2, 0, M{Cells: []Cell{x}}),
			wordStep("Format string for printing.", 2, 4, M{Cells: []Cell{x}}),
			wordStep("Fetch the value of `x` and print.", 2, 5, M{Cells: []Cell{x}, Console: c1}),
			wordStep("Declare a new variable.", 3, 0, M{Cells: []Cell{x, f.cell("y", "y", Alloc, yAt)}, Console: c1}),
			wordStep("`mut`: this variable is *mutable*.", 3, 1, M{Cells: []Cell{x, y(Alloc)}, Console: c1}),
			wordStep("Label the memory as `y`.", 3, 2, M{Cells: []Cell{x, y(Labeled)}, Console: c1}),
			wordStep("Ready to assign a value to `y`.", 3, 3, M{Cells: []Cell{x, y(Ready)}, Console: c1}),
			wordStep("Assign value 10 to `y`.", 3, 4, M{Cells: []Cell{x, y10}, Console: c1}),
			wordStep("Prepare to print `y`.", 4, 0, M{Cells: []Cell{x, y10}, Console: c1}),
			wordStep("Format string for printing.", 4, 4, M{Cells: []Cell{x, y10}, Console: c1}),
			wordStep("Fetch the value of `y` and print.", 4, 5, M{Cells: []Cell{x, y10}, Console: c2}),
			wordStep("Select `y` for assignment.", 5, 0, M{Cells: []Cell{x, lit(withValue(y(Ready), "10"))}, Console: c2}),
			wordStep("Ready to assign a new value to `y`.", 5, 1, M{Cells: []Cell{x, lit(withValue(y(Ready), "10"))}, Console: c2}),
			wordStep("Assign the new value 15 to `y`.", 5, 2, M{Cells: []Cell{x, y15}, Console: c2}),
			wordStep("Prepare to print `y`.", 6, 0, M{Cells: []Cell{x, y15}, Console: c2}),
			wordStep("Format string for printing.", 6, 5, M{Cells: []Cell{x, y15}, Console: c2}),
			wordStep("Fetch the value of `y` and print.", 6, 6, M{Cells: []Cell{x, y15}, Console: c3}),
			wordStep("End of function.", 7, 0, M{Cells: []Cell{x, y15}, Console: c3}),
		},
	}
	return New("variables", "Variables", s)
}

func Shadowing(seed int64) Topic {
	f := cellFactory{seed}
	at1, at2 := scene.V(0, 0, 0), scene.V(2, 0, 0)
	x1 := f.value("x1", "x", "5", at1)
	x2 := func(st Stage) Cell { return f.cell("x2", "x", st, at2) }
	x26 := f.value("x2", "x", "6", at2)
	out := []string{"x after shadowing = 6"}

	type M = MemoryScene
	s := &script.Script[MemoryScene]{
		Title: "Shadowing",
		Code: []string{
			"fn main() {",
			"    let x = 5;",
			"    let x = x + 1;",
			`    println!("x after shadowing = {}", x);`,
			"}",
		},
		Sticky: true,
		Steps: []script.Step[MemoryScene]{
			wordStep("Start of the `main` function.", 0, 0, M{}),
			wordStep("Function name.", 0, 1, M{}),
			wordStep("Enter function scope.", 0, 3, M{}),
			wordStep("Declare a new variable `x`.", 1, 0, M{Cells: []Cell{f.cell("x1", "x", Alloc, at1)}}),
			wordStep("Label the memory as `x`.", 1, 1, M{Cells: []Cell{f.cell("x1", "x", Labeled, at1)}}),
			wordStep("Ready to assign a value to `x`.", 1, 2, M{Cells: []Cell{f.cell("x1", "x", Ready, at1)}}),
			wordStep("Assign value 5 to `x`.", 1, 3, M{Cells: []Cell{x1}}),
			wordStep("Shadow `x` with a new variable.", 2, 0, M{Cells: []Cell{x1, x2(Alloc)}}),
			wordStep("Label the new memory as `x` (shadowing).", 2, 1, M{Cells: []Cell{x1, x2(Labeled)}}),
			wordStep("Ready to assign a value to the new `x`.", 2, 2, M{Cells: []Cell{x1, x2(Ready)}}),
			wordStep("Fetch the value of the old `x`.", 2, 3, M{Cells: []Cell{lit(x1), x2(Ready)}}),
			wordStep("Prepare to add 1 to it.", 2, 4, M{Cells: []Cell{lit(x1), x2(Ready)}}),
			wordStep("Assign 6 to the new, shadowing `x`.", 2, 5, M{Cells: []Cell{x1, x26}}),
			wordStep("Prepare to print the shadowed `x`.", 3, 0, M{Cells: []Cell{x1, x26}}),
			wordStep("Format string for printing.", 3, 6, M{Cells: []Cell{x1, x26}}),
			wordStep("Fetch the value of the shadowing `x` and print.", 3, 7, M{Cells: []Cell{x1, x26}, Console: out}),
			wordStep("End of function.", 4, 0, M{Cells: []Cell{x1, x26}, Console: out}),
		},
	}
	return New("shadowing", "Shadowing", s)
}

func Constants(seed int64) Topic {
	f := cellFactory{seed}
	cAt, sAt := scene.V(0, 1.5, 0), scene.V(0, -0.5, 0)
	maxPts := func(st Stage) Cell {
		c := Cell{Name: "MAX_POINTS", Stage: st, At: cAt}
		if st == Valued {
			c.Value = "100k"
		}
		return c
	}
	consts := []Cell{maxPts(Valued)}
	score := f.value("score", "score", "50", sAt)
	out := []string{"Max points: 100000"}

	type M = MemoryScene
	s := &script.Script[MemoryScene]{
		Title: "Constants (`const`)",
		Code: []string{
			"const MAX_POINTS: u32 = 100_000;",
			"",
			"fn main() {",
			"    let score = 50;",
			`    println!("Max points: {}", MAX_POINTS);`,
			"}",
		},
		Sticky: true,
		Fade:   true,
		Steps: []script.Step[MemoryScene]{
			wordStep("Start of the program. We first define a constant.", script.None, script.None, M{}),
			wordStep("The `const` keyword declares a constant, not a variable.", 0, 0, M{}),
			wordStep("We name our constant `MAX_POINTS`. Its value is fixed for the entire program.", 0, 1, M{Consts: []Cell{maxPts(Alloc)}}),
			wordStep("Constants must always have an explicit type annotation.", 0, 2, M{Consts: []Cell{maxPts(Alloc)}}),
			wordStep("The type is `u32`, a 32-bit unsigned integer.", 0, 3, M{Consts: []Cell{maxPts(Alloc)}}),
			wordStep("Assign its value. This value must be known at compile time.", 0, 4, M{Consts: []Cell{maxPts(Ready)}}),
			wordStep("The value is 100,000. It is now baked into the program.", 0, 5, M{Consts: consts}),
			wordStep("Now we enter the `main` function where the program runs.", 2, 0, M{Consts: consts}),
			wordStep("Declare a regular variable `score` on the stack.", 3, 0, M{Consts: consts, Cells: []Cell{f.cell("score", "score", Alloc, sAt)}}),
			wordStep("Unlike a constant, this variable has a specific memory address.", 3, 1, M{Consts: consts, Cells: []Cell{f.cell("score", "score", Labeled, sAt)}}),
			wordStep("Assign the value 50 to the `score` variable.", 3, 3, M{Consts: consts, Cells: []Cell{score}}),
			wordStep("Prepare to print to the console.", 4, 0, M{Consts: consts, Cells: []Cell{score}}),
			wordStep("To use the constant, its value is inlined here. No memory lookup is needed.", 4, 6, M{Consts: []Cell{lit(maxPts(Valued))}, Cells: []Cell{score}, Console: out}),
			wordStep("The function ends. The `score` variable is dropped from the stack.", 5, 0, M{Consts: consts, Console: out}),
		},
	}
	return New("constants", "Constants", s)
}
