package topics

import (
	"fmt"
	"strconv"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

// BranchScene is an if/else flow diagram.
type BranchScene struct {
	Value  string
	Cond   string
	Then   string
	Else   string
	Branch string // "if", "else" or empty
}

func (s BranchScene) Draw(b *scene.Builder) {
	b.Box(scene.V(0, 2, 0), scene.V(1.2, 0.7, 0.2), scene.Base)
	b.Label(scene.V(0, 2, 0.25), s.Value, 0.22, scene.Text)
	b.Box(scene.V(0, 0.8, 0), scene.V(2, 0.7, 0.2), scene.Active)
	b.Label(scene.V(0, 0.8, 0.25), s.Cond, 0.22, scene.Text)
	b.Arrow(scene.V(0, 1.65, 0), scene.V(0, 1.15, 0), scene.Text)

	arm := func(x float64, text string, taken bool, on scene.Color) {
		c := scene.Muted
		if taken {
			c = on
		}
		b.Arrow(scene.V(0, 0.45, 0), scene.V(x, -0.5, 0), c)
		b.Box(scene.V(x, -1.2, 0), scene.V(2, 0.7, 0.2), c)
		b.Label(scene.V(x, -1.2, 0.25), text, 0.22, scene.Text)
	}
	arm(-1.5, s.Then, s.Branch == "if", scene.Success)
	arm(1.5, s.Else, s.Branch == "else", scene.Danger)
}

func (s BranchScene) Values() map[string]float64 {
	return map[string]float64{
		"if":   boolf(s.Branch == "if"),
		"else": boolf(s.Branch == "else"),
	}
}

// CounterScene is a loop counter with an optional back-edge arrow.
type CounterScene struct {
	Name    string
	Count   int
	Looping bool
}

func (s CounterScene) Draw(b *scene.Builder) {
	b.Box(scene.V(0, 2, 0), scene.V(1.2, 0.7, 0.2), scene.Base)
	b.Label(scene.V(0, 2, 0.25), fmt.Sprintf("%s = %d", s.Name, s.Count), 0.22, scene.Text)
	if s.Looping {
		b.Arrow(scene.V(0, 1.2, 0), scene.V(0, 2.7, 0), scene.Active)
	}
}

func (s CounterScene) Values() map[string]float64 {
	return map[string]float64{
		s.Name: float64(s.Count),
		"loop": boolf(s.Looping),
	}
}

// IterScene is a for loop walking an array.
type IterScene struct {
	Items   []int
	Index   int // script.None when the iterator is not on an element
	Looping bool
}

func (s IterScene) Draw(b *scene.Builder) {
	for i, p := range scene.Row(len(s.Items), scene.V(-1.5, 1, 0), 1.5) {
		c := scene.Base
		if i == s.Index {
			c = scene.Active
		}
		b.Box(p, scene.V(1, 1, 1), c)
		b.Label(p.Add(scene.V(0, 0, 0.6)), strconv.Itoa(s.Items[i]), 0.4, scene.Text)
	}
	if s.Index != script.None && s.Index < len(s.Items) {
		at := scene.V(-1.5+float64(s.Index)*1.5, -0.8, 0)
		b.Arrow(at, at.Add(scene.V(0, 1.2, 0)), scene.Accent)
		b.Label(at.Add(scene.V(0, -0.4, 0)), "val = "+strconv.Itoa(s.Items[s.Index]), 0.22, scene.Text)
	}
	if s.Looping {
		b.Label(scene.V(0, 2.3, 0), "iterating", 0.2, scene.Muted)
	}
}

func (s IterScene) Values() map[string]float64 {
	v := map[string]float64{"loop": boolf(s.Looping)}
	if s.Index != script.None && s.Index < len(s.Items) {
		v["idx"] = float64(s.Index)
		v["val"] = float64(s.Items[s.Index])
	}
	return v
}

// MatchScene checks a value against match arms top to bottom.
type MatchScene struct {
	Value   int
	Arms    []string
	Checked int // arm under test, script.None for none
	Matched int // arm that matched, script.None for none
}

func (s MatchScene) Draw(b *scene.Builder) {
	b.Box(scene.V(-2.5, 1.5, 0), scene.V(1.4, 0.7, 0.2), scene.Base)
	b.Label(scene.V(-2.5, 1.5, 0.25), "num = "+strconv.Itoa(s.Value), 0.22, scene.Text)
	for i, p := range scene.Column(len(s.Arms), scene.V(1, 1.5, 0), -0.9) {
		c := scene.Muted
		switch {
		case i == s.Matched:
			c = scene.Success
		case i == s.Checked:
			c = scene.Danger
		}
		b.Box(p, scene.V(2.4, 0.7, 0.2), c)
		b.Label(p.Add(scene.V(0, 0, 0.25)), s.Arms[i], 0.2, scene.Text)
	}
	if i := s.Checked; i != script.None && i < len(s.Arms) {
		b.Arrow(scene.V(-1.8, 1.5, 0), scene.V(-0.2, 1.5-float64(i)*0.9, 0), scene.Active)
	}
}

func (s MatchScene) Values() map[string]float64 {
	return map[string]float64{
		"num":     float64(s.Value),
		"checked": float64(s.Checked),
		"matched": float64(s.Matched),
	}
}

func IfElse() Topic {
	base := BranchScene{
		Value: "x = 5",
		Cond:  "x < 10?",
		Then:  `println!("x is less than 10")`,
		Else:  `println!("x is 10 or more")`,
	}
	with := func(branch string) BranchScene {
		s := base
		s.Branch = branch
		return s
	}
	s := &script.Script[BranchScene]{
		Title: "If / If-Else Control Flow",
		Code: []string{
			"let x = 5;",
			"if x < 10 {",
			`    println!("x is less than 10");`,
			"} else {",
			`    println!("x is 10 or more");`,
			"}",
		},
		Steps: []script.Step[BranchScene]{
			step("We start with x = 5.", 0, with("")),
			step(`Check if x < 10. This is true, so we take the "if" branch.`, 1, with("if")),
			step("The code inside the if block runs.", 2, with("if")),
			step("The else block is skipped.", 3, with("if")),
		},
	}
	return New("if_else", "If/Else", s)
}

func Loop() Topic {
	c := func(n int, looping bool) CounterScene { return CounterScene{Name: "count", Count: n, Looping: looping} }
	s := &script.Script[CounterScene]{
		Title: "loop Control Flow",
		Code: []string{
			"let mut count = 0;",
			"loop {",
			`    println!("count: {}", count);`,
			"    count += 1;",
			"    if count == 3 {",
			"        break;",
			"    }",
			"}",
		},
		Steps: []script.Step[CounterScene]{
			step("We start with count = 0.", 0, c(0, false)),
			step("Enter the loop. Print count.", 2, c(0, true)),
			step("Increment count.", 3, c(1, true)),
			step("Print count.", 2, c(1, true)),
			step("Increment count.", 3, c(2, true)),
			step("Print count.", 2, c(2, true)),
			step("Increment count.", 3, c(3, true)),
			step("count == 3, break the loop.", 4, c(3, false)),
		},
	}
	return New("loop", "Loop", s)
}

func WhileLoop() Topic {
	n := func(v int, looping bool) CounterScene { return CounterScene{Name: "n", Count: v, Looping: looping} }
	s := &script.Script[CounterScene]{
		Title: "while Control Flow",
		Code: []string{
			"let mut n = 3;",
			"while n != 0 {",
			`    println!("n = {}", n);`,
			"    n -= 1;",
			"}",
			`println!("LIFTOFF!!!");`,
		},
		Steps: []script.Step[CounterScene]{
			step("We start with n = 3.", 0, n(3, false)),
			step("Check if n != 0. It is, so enter the loop.", 1, n(3, true)),
			step("Print n.", 2, n(3, true)),
			step("Decrement n.", 3, n(2, true)),
			step("Check if n != 0. It is, so continue.", 1, n(2, true)),
			step("Print n.", 2, n(2, true)),
			step("Decrement n.", 3, n(1, true)),
			step("Check if n != 0. It is, so continue.", 1, n(1, true)),
			step("Print n.", 2, n(1, true)),
			step("Decrement n.", 3, n(0, true)),
			step("Check if n != 0. It is not, exit the loop.", 1, n(0, false)),
			step("Print LIFTOFF!!!", 5, n(0, false)),
		},
	}
	return New("while_loop", "While Loop", s)
}

func ForLoop() Topic {
	arr := []int{10, 20, 30}
	at := func(i int, looping bool) IterScene { return IterScene{Items: arr, Index: i, Looping: looping} }
	s := &script.Script[IterScene]{
		Title: "for Control Flow",
		Code: []string{
			"let arr = [10, 20, 30];",
			"for val in arr.iter() {",
			`    println!("val: {}", val);`,
			"}",
		},
		Steps: []script.Step[IterScene]{
			step("We start with an array arr = [10, 20, 30].", 0, at(script.None, false)),
			step("Enter the for loop. The iterator points to the first value.", 1, at(0, true)),
			step("Print the value.", 2, at(0, true)),
			step("Move to the next value.", 1, at(1, true)),
			step("Print the value.", 2, at(1, true)),
			step("Move to the next value.", 1, at(2, true)),
			step("Print the value.", 2, at(2, true)),
			step("End of the loop.", 3, at(script.None, false)),
		},
	}
	return New("for_loop", "For Loop", s)
}

func Match() Topic {
	arms := []string{`1 => "one"`, `2 => "two"`, `3 => "three"`, `_ => "other"`}
	m := func(checked, matched int) MatchScene {
		return MatchScene{Value: 2, Arms: arms, Checked: checked, Matched: matched}
	}
	none := script.None
	s := &script.Script[MatchScene]{
		Title: "match Control Flow",
		Code: []string{
			"let num = 2;",
			"match num {",
			`    1 => println!("one"),`,
			`    2 => println!("two"),`,
			`    3 => println!("three"),`,
			`    _ => println!("other"),`,
			"}",
		},
		Steps: []script.Step[MatchScene]{
			step("We start with num = 2.", 0, m(none, none)),
			step("Enter the match statement.", 1, m(none, none)),
			step("Check first arm: 1 => ... (no match)", 2, m(0, none)),
			step("Check second arm: 2 => ... (match!)", 3, m(1, 1)),
			step(`Print "two".`, 3, m(1, 1)),
			step("Done with match.", 6, m(none, 1)),
		},
	}
	return New("match", "Match", s)
}
