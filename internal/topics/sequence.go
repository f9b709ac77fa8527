package topics

import (
	"strconv"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

// Shape picks how a SeqScene lays out its items.
type Shape int

const (
	ShapeArray Shape = iota
	ShapeVec
	ShapeStack
	ShapeQueue
	ShapeList
)

// SeqScene draws a linear collection: arrays, slices, vectors, stacks,
// queues and linked lists.
type SeqScene struct {
	Shape Shape
	Items []int
	// Highlight is the index read by the step, or script.None.
	Highlight int
	// Span is a half-open [start, end) view; end <= start means no view.
	SpanStart, SpanEnd int
	Len, Cap           int
	// Pop is the value removed by the step when Popped is set.
	Pop    int
	Popped bool
}

func (s SeqScene) hasSpan() bool { return s.SpanEnd > s.SpanStart }

func (s SeqScene) positions() []scene.Vec3 {
	n := len(s.Items)
	switch s.Shape {
	case ShapeStack:
		return scene.Column(n, scene.V(0, -1.5, 0), 1.1)
	case ShapeList:
		return scene.Row(n, scene.V(-2, 0, 0), 2)
	default:
		return scene.Row(n, scene.V(-float64(max(n, 5)-1)*0.6, 0.5, 0), 1.2)
	}
}

func (s SeqScene) Draw(b *scene.Builder) {
	pos := s.positions()
	last := len(s.Items) - 1
	for i, p := range pos {
		c := scene.Base
		switch {
		case i == s.Highlight:
			c = scene.Active
		case s.hasSpan() && i >= s.SpanStart && i < s.SpanEnd:
			c = scene.Accent
		case s.Shape == ShapeStack && i == last:
			c = scene.Active
		case s.Shape == ShapeQueue && i == 0:
			c = scene.Active
		}
		if s.Shape == ShapeList {
			b.Sphere(p, 0.5, c)
			if i < last {
				b.Arrow(p.Add(scene.V(0.55, 0, 0)), pos[i+1].Sub(scene.V(0.55, 0, 0)), scene.Text)
			}
		} else {
			b.Box(p, scene.V(1, 1, 1), c)
		}
		b.Label(p.Add(scene.V(0, 0, 0.6)), strconv.Itoa(s.Items[i]), 0.4, scene.Text)
		if s.Shape == ShapeArray || s.Shape == ShapeVec {
			b.Label(p.Add(scene.V(0, -0.8, 0)), "["+strconv.Itoa(i)+"]", 0.2, scene.Muted)
		}
	}

	switch s.Shape {
	case ShapeStack:
		if last >= 0 {
			b.Label(pos[last].Add(scene.V(1.2, 0, 0)), "top", 0.25, scene.Muted)
		}
	case ShapeQueue:
		if last >= 0 {
			b.Label(pos[0].Add(scene.V(0, 0.9, 0)), "front", 0.25, scene.Muted)
			b.Label(pos[last].Add(scene.V(0, 0.9, 0)), "back", 0.25, scene.Muted)
		}
	case ShapeList:
		if last >= 0 {
			b.Label(pos[0].Add(scene.V(0, 0.9, 0)), "head", 0.25, scene.Muted)
		}
	case ShapeVec:
		b.Label(scene.V(0, 2, 0), "len = "+strconv.Itoa(s.Len)+", cap = "+strconv.Itoa(s.Cap), 0.3, scene.Text)
		for i := len(s.Items); i < s.Cap; i++ {
			p := scene.V(-float64(max(len(s.Items), 5)-1)*0.6+float64(i)*1.2, 0.5, 0)
			b.Box(p, scene.V(1, 1, 1), scene.Muted)
		}
	}

	if s.hasSpan() && s.SpanStart >= 0 && s.SpanStart < len(pos) {
		from := pos[s.SpanStart].Add(scene.V(0, -2, 0))
		b.Arrow(from, pos[s.SpanStart].Add(scene.V(0, -0.6, 0)), scene.Accent)
		b.Label(from.Add(scene.V(0, -0.3, 0)), "ptr, len = "+strconv.Itoa(s.SpanEnd-s.SpanStart), 0.22, scene.Accent)
	}

	if s.Popped {
		at := scene.V(2.5, 0, 0)
		if s.Shape == ShapeQueue || s.Shape == ShapeList {
			at = scene.V(-4, 0.5, 0)
		}
		b.Box(at, scene.V(1, 1, 1), scene.Danger)
		b.Label(at.Add(scene.V(0, 0, 0.6)), strconv.Itoa(s.Pop), 0.4, scene.Text)
		b.Label(at.Add(scene.V(0, 0.9, 0)), "popped", 0.22, scene.Danger)
	}
}

func (s SeqScene) Values() map[string]float64 {
	v := map[string]float64{"len": float64(len(s.Items))}
	if s.Highlight != script.None {
		v["highlight"] = float64(s.Highlight)
	}
	if s.Shape == ShapeVec {
		v["cap"] = float64(s.Cap)
	}
	if s.Popped {
		v["pop"] = float64(s.Pop)
	}
	if len(s.Items) > 0 {
		v["top"] = float64(s.Items[len(s.Items)-1])
	}
	return v
}

func seq(shape Shape, items ...int) SeqScene {
	return SeqScene{Shape: shape, Items: items, Highlight: script.None}
}

func (s SeqScene) at(i int) SeqScene            { s.Highlight = i; return s }
func (s SeqScene) span(start, end int) SeqScene { s.SpanStart, s.SpanEnd = start, end; return s }
func (s SeqScene) popped(v int) SeqScene        { s.Pop, s.Popped = v, true; return s }
func (s SeqScene) sized(n, c int) SeqScene      { s.Len, s.Cap = n, c; return s }

func Arrays() Topic {
	arr := seq(ShapeArray, 10, 20, 30, 40, 50)
	s := &script.Script[SeqScene]{
		Title: "Arrays",
		Code: []string{
			"// Arrays have a fixed length and elements of the same type.",
			"let arr: [i32; 5] = [10, 20, 30, 40, 50];",
			"",
			"// Accessing elements by index (starts at 0)",
			"let first = arr[0]; // 10",
			"let second = arr[1]; // 20",
			"",
			"// Slicing an array",
			"let slice = &arr[1..3]; // &[20, 30]",
			"",
			"// Arrays are stored on the stack.",
			"// Accessing an index out of bounds will cause a panic.",
			"// let wrong = arr[5]; // This would panic!",
		},
		Steps: []script.Step[SeqScene]{
			step("Let's explore Rust's arrays. Arrays have a fixed size and all elements must have the same type.", 0, arr),
			step("Here, we declare an array of 5 integers. Its type is `[i32; 5]`.", 1, arr),
			step("Elements are accessed by their index, starting from 0. `arr[0]` gives us the first element.", 4, arr.at(0)),
			step("`arr[1]` gives us the second element.", 5, arr.at(1)),
			step("You can create a 'slice' to get a view into a portion of the array without copying.", 8, arr.span(1, 3)),
			step("Arrays are allocated on the stack. Accessing an out-of-bounds index causes a panic at runtime.", 12, arr),
		},
	}
	return New("arrays", "Arrays", s)
}

func Slices() Topic {
	a := seq(ShapeArray, 1, 2, 3, 4, 5)
	s := &script.Script[SeqScene]{
		Title: "Slices",
		Code: []string{
			"// A slice is a view into a block of memory.",
			"let a = [1, 2, 3, 4, 5];",
			"",
			"// Slices have a pointer to the data and a length.",
			"let slice_of_a = &a[1..3];",
			"",
			"// This creates a slice containing [2, 3].",
			"// It does not copy the data.",
		},
		Steps: []script.Step[SeqScene]{
			step("Let's look at Slices. A slice lets you reference a contiguous sequence of elements in a collection rather than the whole collection.", 0, seq(ShapeArray)),
			step("We start with an array `a` containing 5 elements.", 1, a),
			step("We create a slice of `a` from index 1 (inclusive) to 3 (exclusive).", 4, a.span(1, 3)),
			step("The slice itself is a fat pointer: it stores a pointer to the start of the data (`a[1]`) and the length of the slice (2).", 4, a.span(1, 3)),
			step("Slices provide safe, efficient access to a portion of data without copying.", 7, a.span(1, 3)),
		},
	}
	return New("slices", "Slices", s)
}

func Vectors() Topic {
	v := func(items ...int) SeqScene {
		c := 0
		if len(items) > 0 {
			c = 4
		}
		return seq(ShapeVec, items...).sized(len(items), c)
	}
	s := &script.Script[SeqScene]{
		Title: "Vectors",
		Code: []string{
			"// Vectors are like re-sizable arrays, stored on the heap.",
			"let mut vec = Vec::new();",
			"",
			"// `push` adds an element to the end.",
			"vec.push(10);",
			"vec.push(20);",
			"vec.push(30);",
			"",
			"// Access elements by index, just like arrays.",
			"let second = vec[1]; // 20",
			"",
			"// `pop` removes the last element and returns it.",
			"let last = vec.pop(); // Some(30)",
			"",
			"// Length vs. Capacity: Length is # of elements, Capacity is allocated space.",
		},
		Steps: []script.Step[SeqScene]{
			step("Next up: Vectors. Unlike arrays, vectors are growable and stored on the heap.", 0, v()),
			step("We create a new, empty vector using `Vec::new()`.", 1, v()),
			step("We use `push` to add an element. The vector allocates memory.", 4, v(10)),
			step("Pushing another element. Still within capacity.", 5, v(10, 20)),
			step("...and another one.", 6, v(10, 20, 30)),
			step("Accessing elements is the same as with arrays.", 9, v(10, 20, 30).at(1)),
			step("`pop` removes the last element. The length decreases, but capacity remains.", 12, v(10, 20).popped(30)),
			step("Length is the number of items. Capacity is the space allocated. It grows automatically when needed.", 14, v(10, 20)),
		},
	}
	return New("vectors", "Vectors", s)
}

func Stacks() Topic {
	st := func(items ...int) SeqScene { return seq(ShapeStack, items...) }
	s := &script.Script[SeqScene]{
		Title: "Stacks (LIFO)",
		Code: []string{
			"// A stack follows the Last-In, First-Out (LIFO) principle.",
			"// A `Vec` can be used as a stack.",
			"let mut stack = Vec::new();",
			"",
			"// `push` adds an element to the top.",
			"stack.push(1);",
			"stack.push(2);",
			"stack.push(3);",
			"",
			"// `pop` removes the top element.",
			"let top = stack.pop(); // Some(3)",
		},
		Steps: []script.Step[SeqScene]{
			step("Now for Stacks. Think of a stack of plates: you add to the top and remove from the top (LIFO).", 0, st()),
			step("We'll use a `Vec` to act as our stack. It's initially empty.", 2, st()),
			step("We `push` 1 onto the stack. It becomes the bottom element.", 5, st(1)),
			step("Pushing 2. It goes on top of 1.", 6, st(1, 2)),
			step("Pushing 3. It becomes the new top.", 7, st(1, 2, 3)),
			step("`pop` removes the top element (3) and returns it.", 10, st(1, 2).popped(3)),
		},
	}
	return New("stacks", "Stacks", s)
}

func Queues() Topic {
	q := func(items ...int) SeqScene { return seq(ShapeQueue, items...) }
	s := &script.Script[SeqScene]{
		Title: "Queues (FIFO)",
		Code: []string{
			"// A queue follows the First-In, First-Out (FIFO) principle.",
			"use std::collections::VecDeque;",
			"let mut queue = VecDeque::new();",
			"",
			"// `push_back` adds an element to the end (enqueue).",
			"queue.push_back(1);",
			"queue.push_back(2);",
			"queue.push_back(3);",
			"",
			"// `pop_front` removes the first element (dequeue).",
			"let first = queue.pop_front(); // Some(1)",
		},
		Steps: []script.Step[SeqScene]{
			step("Let's cover Queues. They follow a First-In, First-Out (FIFO) rule, like a line at a store.", 0, q()),
			step("We use a `VecDeque` (a double-ended queue) for efficiency. It's initially empty.", 2, q()),
			step("`push_back(1)` enqueues 1. It goes to the back of the line.", 5, q(1)),
			step("`push_back(2)` enqueues 2 behind 1.", 6, q(1, 2)),
			step("`push_back(3)` enqueues 3 at the very back.", 7, q(1, 2, 3)),
			step("`pop_front()` dequeues the front element (1) and returns it.", 10, q(2, 3).popped(1)),
		},
	}
	return New("queues", "Queues", s)
}

func LinkedLists() Topic {
	l := func(items ...int) SeqScene { return seq(ShapeList, items...) }
	s := &script.Script[SeqScene]{
		Title: "Linked Lists",
		Code: []string{
			"// A singly linked list is a sequence of nodes.",
			"// Each node contains a value and a pointer to the next node.",
			"use std::collections::LinkedList;",
			"",
			"let mut list = LinkedList::new();",
			"",
			"// `push_front` adds an element to the beginning.",
			"list.push_front(3);",
			"list.push_front(2);",
			"list.push_front(1);",
			"",
			"// `pop_front` removes the first element.",
			"let first = list.pop_front(); // Some(1)",
		},
		Steps: []script.Step[SeqScene]{
			step("Let's look at a Linked List. It's a chain of nodes, each pointing to the next.", 0, l()),
			step("We create a new, empty LinkedList.", 4, l()),
			step("`push_front(3)` adds 3 to the front. It becomes the new head.", 7, l(3)),
			step("`push_front(2)` adds 2. It points to the old head (3).", 8, l(2, 3)),
			step("`push_front(1)` adds 1, which is now the head.", 9, l(1, 2, 3)),
			step("`pop_front()` removes the head (1) and returns it.", 12, l(2, 3).popped(1)),
		},
	}
	return New("linked_lists", "Linked Lists", s)
}
