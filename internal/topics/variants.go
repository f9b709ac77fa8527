package topics

import (
	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

// Card is a labelled block in a VariantScene.
type Card struct {
	Label  string
	Detail string
	At     scene.Vec3
	Color  scene.Color
}

// Link joins two cards by index.
type Link struct {
	From, To int
	Label    string
}

// VariantScene shows enum variants and type relationships as cards.
type VariantScene struct {
	Cards []Card
	Links []Link
}

func (v VariantScene) Draw(b *scene.Builder) {
	for _, c := range v.Cards {
		b.Box(c.At, scene.V(2.2, 0.9, 0.3), c.Color)
		b.Label(c.At.Add(scene.V(0, 0.1, 0.2)), c.Label, 0.26, scene.Text)
		if c.Detail != "" {
			b.Label(c.At.Add(scene.V(0, -0.25, 0.2)), c.Detail, 0.16, scene.Text)
		}
	}
	for _, l := range v.Links {
		if l.From < 0 || l.From >= len(v.Cards) || l.To < 0 || l.To >= len(v.Cards) {
			continue
		}
		from, to := v.Cards[l.From].At, v.Cards[l.To].At
		dir := to.Sub(from).Normalize().Scale(0.6)
		b.Arrow(from.Add(dir), to.Sub(dir), scene.Accent)
		if l.Label != "" {
			b.Label(from.Lerp(to, 0.5).Add(scene.V(0, 0.3, 0)), l.Label, 0.18, scene.Accent)
		}
	}
}

func (v VariantScene) Values() map[string]float64 {
	return map[string]float64{
		"cards": float64(len(v.Cards)),
		"links": float64(len(v.Links)),
	}
}

func OptionResult() Topic {
	var (
		some = Card{"Some(5)", "Option<i32>", scene.V(-2, 1.2, 0), scene.Success}
		none = Card{"None", "Option<i32>", scene.V(2, 1.2, 0), scene.Muted}
		ok   = Card{"Ok(10)", "Result<i32, _>", scene.V(-2, -1, 0), scene.Success}
		err  = Card{`Err("error!")`, "Result<i32, &str>", scene.V(2, -1, 0), scene.Danger}
	)
	cards := func(cs ...Card) VariantScene { return VariantScene{Cards: cs} }
	s := &script.Script[VariantScene]{
		Title: "Option and Result",
		Code: []string{
			"// Option<T> is for values that may or may not be present.",
			"let some_num = Some(5);",
			"let no_num: Option<i32> = None;",
			"",
			"// Result<T, E> is for operations that may succeed or fail.",
			"let ok = Result::Ok(10);",
			`let err: Result<i32, &str> = Result::Err("error!");`,
		},
		Steps: []script.Step[VariantScene]{
			step("Let's explore Option and Result enums for error handling.", 0, cards()),
			step("Option can be Some(value) or None.", 1, cards(some)),
			step("None means no value is present.", 2, cards(some, none)),
			step("Result can be Ok(value) for success...", 5, cards(some, none, ok)),
			step("...or Err(error) for failure.", 6, cards(some, none, ok, err)),
		},
	}
	return New("option_result", "Option/Result", s)
}

func TraitsImpl() Topic {
	var (
		trait  = Card{"trait Greet", "fn greet(&self) -> String", scene.V(-2.5, 1.5, 0), scene.Accent}
		person = Card{"struct Person", "name: String", scene.V(2.5, 1.5, 0), scene.Base}
		impl   = Card{"impl Greet for Person", "", scene.V(0, -0.2, 0), scene.Owner}
		call   = Card{"p.greet()", `"Hello, Alice!"`, scene.V(0, -2, 0), scene.Success}
	)
	s := &script.Script[VariantScene]{
		Title: "Traits and impl",
		Code: []string{
			"trait Greet {",
			"    fn greet(&self) -> String;",
			"}",
			"",
			"struct Person { name: String }",
			"",
			"impl Greet for Person {",
			"    fn greet(&self) -> String {",
			`        format!("Hello, {}!", self.name)`,
			"    }",
			"}",
			"",
			`let p = Person { name: "Alice".to_string() };`,
			`println!("{}", p.greet());`,
		},
		Steps: []script.Step[VariantScene]{
			step("Let's see how traits are defined and implemented.", 0, VariantScene{Cards: []Card{trait}}),
			step("Define a trait with a method.", 1, VariantScene{Cards: []Card{trait}}),
			step("Define a struct.", 4, VariantScene{Cards: []Card{trait, person}}),
			step("Implement the trait for the struct.", 6, VariantScene{
				Cards: []Card{trait, person, impl},
				Links: []Link{{2, 0, "implements"}, {2, 1, "for"}},
			}),
			step("Call the trait method on the struct.", 13, VariantScene{
				Cards: []Card{trait, person, impl, call},
				Links: []Link{{2, 0, "implements"}, {2, 1, "for"}, {3, 2, "dispatch"}},
			}),
		},
	}
	return New("traits_impl", "Traits/Impl", s)
}
