package topics

import (
	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

type SlotKind int

const (
	// Plain holds its value inline on the stack.
	Plain SlotKind = iota
	// Pointer owns a heap block named by Target.
	Pointer
	// Ref borrows the slot named by Target.
	Ref
	// MutRef borrows the slot named by Target mutably.
	MutRef
)

// Slot is a stack entry.
type Slot struct {
	Name   string
	Value  string
	Kind   SlotKind
	Target string
	// Moved marks a binding whose value has been moved out.
	Moved bool
}

// Block is a heap allocation.
type Block struct {
	ID    string
	Value string
	Freed bool
}

// OwnerScene shows a stack column, a heap column and the pointers between them.
type OwnerScene struct {
	Stack []Slot
	Heap  []Block
}

const (
	stackX = -3.0
	heapX  = 3.0
)

func slotPos(i int) scene.Vec3  { return scene.V(stackX, 1-float64(i)*1.5, 0) }
func blockPos(i int) scene.Vec3 { return scene.V(heapX, 1-float64(i)*1.5, 0) }

func (o OwnerScene) Draw(b *scene.Builder) {
	b.Label(scene.V(stackX, 2, 0), "Stack", 0.4, scene.Text)
	b.Label(scene.V(heapX, 2, 0), "Heap", 0.4, scene.Text)

	heapAt := make(map[string]scene.Vec3, len(o.Heap))
	for i, h := range o.Heap {
		p := blockPos(i)
		heapAt[h.ID] = p
		color := scene.Active
		text := h.ID + ": " + h.Value
		if h.Freed {
			color = scene.Muted
			text = h.ID + ": dropped"
		}
		b.Box(p, scene.V(1.5, 1, 1), color)
		b.Label(p.Add(scene.V(0, 0, 0.6)), text, 0.25, scene.Text)
	}

	slotAt := make(map[string]scene.Vec3, len(o.Stack))
	for i, s := range o.Stack {
		slotAt[s.Name] = slotPos(i)
	}
	for i, s := range o.Stack {
		p := slotPos(i)
		color := scene.Base
		text := s.Name + ": " + s.Value
		switch {
		case s.Moved:
			color = scene.Muted
			text = s.Name + ": moved"
		case s.Kind == Pointer:
			text = s.Name + ": ptr"
		case s.Kind == Ref:
			color = scene.Accent
			text = s.Name + ": &" + s.Target
		case s.Kind == MutRef:
			color = scene.Danger
			text = s.Name + ": &mut " + s.Target
		}
		b.Box(p, scene.V(1.5, 1, 1), color)
		b.Label(p.Add(scene.V(0, 0, 0.6)), text, 0.25, scene.Text)
		if s.Moved {
			continue
		}
		from := p.Add(scene.V(0.75, 0, 0))
		switch s.Kind {
		case Pointer:
			if to, ok := heapAt[s.Target]; ok {
				b.Arrow(from, to.Sub(scene.V(0.75, 0, 0)), scene.Owner)
			}
		case Ref, MutRef:
			if to, ok := slotAt[s.Target]; ok {
				c := scene.Accent
				if s.Kind == MutRef {
					c = scene.Danger
				}
				// References curve out to the right of the stack column.
				mid := from.Lerp(to, 0.5).Add(scene.V(1.2, 0, 0))
				b.Line(from, mid, c)
				b.Arrow(mid, to.Add(scene.V(0.75, 0, 0)), c)
			}
		}
	}
}

func (o OwnerScene) Values() map[string]float64 {
	owners, borrows := 0, 0
	for _, s := range o.Stack {
		if s.Moved {
			continue
		}
		switch s.Kind {
		case Pointer:
			owners++
		case Ref, MutRef:
			borrows++
		}
	}
	live := 0
	for _, h := range o.Heap {
		if !h.Freed {
			live++
		}
	}
	return map[string]float64{
		"stack":   float64(len(o.Stack)),
		"heap":    float64(live),
		"owners":  float64(owners),
		"borrows": float64(borrows),
	}
}

func Ownership() Topic {
	hello := []Block{{ID: "String", Value: "hello"}}
	s1 := Slot{Name: "s1", Kind: Pointer, Target: "String"}
	s1Moved := Slot{Name: "s1", Kind: Pointer, Target: "String", Moved: true}
	s2 := Slot{Name: "s2", Kind: Pointer, Target: "String"}
	moved := OwnerScene{Stack: []Slot{s1Moved, s2}, Heap: hello}

	type O = OwnerScene
	s := &script.Script[OwnerScene]{
		Title: "Ownership",
		Code: []string{
			"// 1. Each value in Rust has an owner.",
			`let s1 = String::from("hello");`,
			"",
			"// 2. There can only be one owner at a time.",
			"let s2 = s1;",
			"",
			"// `s1` is no longer valid here; it was moved to `s2`.",
			`// println!("{}", s1); // This would cause a compile error!`,
			"",
			"// 3. When the owner goes out of scope, the value is dropped.",
		},
		Steps: []script.Step[OwnerScene]{
			step("Let's explore Rust's Ownership rules. Rule 1: each value has a variable that's its owner.", 0, O{}),
			step("We create a String `s1`. The string data is on the heap, and `s1` on the stack is its owner.", 1, O{Stack: []Slot{s1}, Heap: hello}),
			step("Rule 2: there can only be one owner at a time. Let's assign `s1` to `s2`.", 4, O{Stack: []Slot{s1}, Heap: hello}),
			step("Ownership of the heap data is moved from `s1` to `s2`. `s1` is now invalidated.", 4, moved),
			step("Trying to use `s1` now would be a compile-time error, preventing a double-free bug.", 7, moved),
			step("Rule 3: when `s2` goes out of scope, its owned value is automatically dropped (memory is freed).", 9, moved),
		},
	}
	return New("ownership", "Ownership", s)
}

func Borrowing() Topic {
	s1 := Slot{Name: "s1", Kind: Pointer, Target: "s1-data"}
	h1 := Block{ID: "s1-data", Value: "hello"}
	r1 := Slot{Name: "r1", Kind: Ref, Target: "s1"}
	r2 := Slot{Name: "r2", Kind: Ref, Target: "s1"}
	s2 := Slot{Name: "s2", Kind: Pointer, Target: "s2-data"}
	r3 := Slot{Name: "r3", Kind: MutRef, Target: "s2"}
	world := Block{ID: "s2-data", Value: "world"}
	worldBang := Block{ID: "s2-data", Value: "world!"}

	type O = OwnerScene
	s := &script.Script[OwnerScene]{
		Title: "Borrowing and References",
		Code: []string{
			"// Borrowing lets you use a value without taking ownership.",
			`let s1 = String::from("hello");`,
			"",
			"// Immutable references (&T)",
			"let r1 = &s1;",
			"let r2 = &s1;",
			`println!("{} and {}", r1, r2);`,
			"",
			"// Mutable reference (&mut T)",
			`let mut s2 = String::from("world");`,
			"let r3 = &mut s2;",
			`r3.push_str("!");`,
			`println!("{}", r3);`,
			"",
			"// Rule: Can have multiple immutable OR one mutable reference.",
		},
		Steps: []script.Step[OwnerScene]{
			step("Let's learn about Borrowing and References. They let you access data without taking ownership.", 0, O{}),
			step("We create a String `s1`. `s1` is the owner.", 1, O{Stack: []Slot{s1}, Heap: []Block{h1}}),
			step("We can create multiple immutable references (`&`) to `s1`.", 4, O{Stack: []Slot{s1, r1}, Heap: []Block{h1}}),
			step("Both `r1` and `r2` can read the data owned by `s1`.", 5, O{Stack: []Slot{s1, r1, r2}, Heap: []Block{h1}}),
			step("Now for mutable references. We need a mutable variable `s2`.", 9, O{Stack: []Slot{s2}, Heap: []Block{world}}),
			step("We create one mutable reference (`&mut`). This gives us read AND write access.", 10, O{Stack: []Slot{s2, r3}, Heap: []Block{world}}),
			step("We can use the mutable reference to change the data.", 11, O{Stack: []Slot{s2, r3}, Heap: []Block{worldBang}}),
			step("The core rule: in a scope, you can have EITHER multiple immutable references OR ONE single mutable reference.", 14, O{Stack: []Slot{s2, r3}, Heap: []Block{worldBang}}),
		},
	}
	return New("borrowing", "Borrowing", s)
}

func StackHeap() Topic {
	x := Slot{Name: "x", Value: "5"}
	y := Slot{Name: "y", Value: "true"}
	b := Slot{Name: "b", Kind: Pointer, Target: "Box"}
	boxed := []Block{{ID: "Box", Value: "20"}}
	full := OwnerScene{Stack: []Slot{x, y, b}, Heap: boxed}

	type O = OwnerScene
	s := &script.Script[OwnerScene]{
		Title: "The Stack and the Heap",
		Code: []string{
			"// Stack: Fixed-size data, fast access.",
			"let x: i32 = 5;",
			"let y: bool = true;",
			"",
			"// Heap: Growable data, slower access.",
			"let b = Box::new(20);",
			"",
			"// `x` and `y` are on the stack.",
			"// `b` is a pointer on the stack,",
			"// pointing to the value 20 on the heap.",
		},
		Steps: []script.Step[OwnerScene]{
			step("Let's visualize memory in Rust: the Stack and the Heap.", script.None, O{}),
			step("The Stack is for fixed-size data. It's fast. Let's declare an `i32`.", 1, O{Stack: []Slot{x}}),
			step("The value 5 is pushed onto the stack for the variable `x`.", 1, O{Stack: []Slot{x}}),
			step("Let's add a boolean. It also has a known, fixed size.", 2, O{Stack: []Slot{x, y}}),
			step("The Heap is for data that can grow or change size. Let's create a `Box`.", 5, full),
			step("The value 20 is stored on the heap. A pointer to it is stored on the stack for `b`.", 5, full),
			step("Stack memory is freed automatically when it goes out of scope. Heap memory is freed when its owner (`b`) goes out of scope.", 9, full),
		},
	}
	return New("stack_heap", "Stack & Heap", s)
}
