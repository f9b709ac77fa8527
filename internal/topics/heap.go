package topics

import (
	"strconv"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

// HeapScene is an array-backed max-heap drawn as a tree.
type HeapScene struct {
	Items  []int
	Pop    int
	Popped bool
}

// IsMaxHeap reports whether every parent is >= its children.
func (h HeapScene) IsMaxHeap() bool {
	for i := 1; i < len(h.Items); i++ {
		if h.Items[(i-1)/2] < h.Items[i] {
			return false
		}
	}
	return true
}

func (h HeapScene) Draw(b *scene.Builder) {
	pos, links := scene.HeapLayout(len(h.Items), scene.V(0, 2, 0), 4, 1.5)
	for _, l := range links {
		b.Line(l[0], l[1], scene.Text)
	}
	for i, p := range pos {
		c := scene.Base
		if i == 0 {
			c = scene.Active
		}
		b.Box(p, scene.V(1, 1, 1), c)
		b.Label(p.Add(scene.V(0, 0, 0.6)), strconv.Itoa(h.Items[i]), 0.4, scene.Text)
	}
	if h.Popped {
		b.Label(scene.V(0, 4, 0), "Popped: "+strconv.Itoa(h.Pop), 0.4, scene.Danger)
	}
}

func (h HeapScene) Values() map[string]float64 {
	v := map[string]float64{"size": float64(len(h.Items))}
	if len(h.Items) > 0 {
		v["root"] = float64(h.Items[0])
	}
	if h.Popped {
		v["pop"] = float64(h.Pop)
	}
	return v
}

func BinaryHeaps() Topic {
	hp := func(items ...int) HeapScene { return HeapScene{Items: items} }
	s := &script.Script[HeapScene]{
		Title: "Binary Heaps",
		Code: []string{
			"// A BinaryHeap is a max-heap priority queue.",
			"use std::collections::BinaryHeap;",
			"let mut heap = BinaryHeap::new();",
			"",
			"// `push` adds an element, maintaining the heap property.",
			"heap.push(1);",
			"heap.push(4);",
			"heap.push(2);",
			"heap.push(5);",
			"",
			"// `pop` removes the largest element.",
			"let largest = heap.pop(); // Some(5)",
		},
		Steps: []script.Step[HeapScene]{
			step("Finally, the Binary Heap. It's a priority queue that always keeps the largest element at the top.", 0, hp()),
			step("We create a new, empty BinaryHeap.", 2, hp()),
			step("Pushing 1. It becomes the root.", 5, hp(1)),
			step("Pushing 4. It's larger than 1, so it becomes the new root.", 6, hp(4, 1)),
			step("Pushing 2. It finds its correct spot below 4.", 7, hp(4, 1, 2)),
			step("Pushing 5. It bubbles up to become the new root.", 8, hp(5, 4, 2, 1)),
			step("`pop` always removes the largest element, which is the root (5).", 11, HeapScene{Items: []int{4, 1, 2}, Pop: 5, Popped: true}),
		},
	}
	return New("binary_heaps", "Binary Heaps", s)
}
