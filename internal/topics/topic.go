// Package topics holds the built-in lesson scripts and the registry the
// shells pick them from.
package topics

import (
	"math"
	"sort"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
)

// Topic is one playable lesson.
type Topic interface {
	Key() string
	Name() string
	Title() string
	Code() []string
	Len() int
	// Fades reports whether the topic wants a fade between steps.
	Fades() bool
	Frame(i int) Frame
}

// Frame is everything a shell needs to draw one step.
type Frame struct {
	Index  int
	Total  int
	Text   string
	Cursor script.Cursor
	Scene  *scene.Scene
	// Values are numeric observables of the step, keyed by name.
	Values map[string]float64
}

// Drawer is implemented by every scene family.
type Drawer interface {
	Draw(b *scene.Builder)
	Values() map[string]float64
}

type topic[S Drawer] struct {
	key, name string
	s         *script.Script[S]
}

// New wraps a script as a Topic.
func New[S Drawer](key, name string, s *script.Script[S]) Topic {
	return &topic[S]{key: key, name: name, s: s}
}

func (t *topic[S]) Key() string    { return t.key }
func (t *topic[S]) Name() string   { return t.name }
func (t *topic[S]) Title() string  { return t.s.Title }
func (t *topic[S]) Code() []string { return t.s.Code }
func (t *topic[S]) Len() int       { return t.s.Len() }
func (t *topic[S]) Fades() bool    { return t.s.Fade }

func (t *topic[S]) Validate() error { return t.s.Validate() }

func (t *topic[S]) Frame(i int) Frame {
	if i < 0 {
		i = 0
	}
	if i >= t.s.Len() {
		i = t.s.Len() - 1
	}
	st := t.s.Step(i)
	sc := scene.New()
	st.Scene.Draw(sc.Builder())
	return Frame{
		Index:  i,
		Total:  t.s.Len(),
		Text:   st.Text,
		Cursor: t.s.Cursor(i),
		Scene:  sc,
		Values: st.Scene.Values(),
	}
}

// Validate checks a topic's script when the topic supports it.
func Validate(t Topic) error {
	if v, ok := t.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

// Series collects every observable of t across its steps.
func Series(t Topic) ([]string, map[string][]float64) {
	frames := make([]Frame, t.Len())
	for i := range frames {
		frames[i] = t.Frame(i)
	}
	return FrameSeries(frames)
}

// FrameSeries returns the sorted observable names of frames and one value
// per frame for each. A frame that does not emit a name holds NaN there.
func FrameSeries(frames []Frame) ([]string, map[string][]float64) {
	series := map[string][]float64{}
	for i, f := range frames {
		for n, v := range f.Values {
			vals, ok := series[n]
			if !ok {
				vals = make([]float64, len(frames))
				for j := range vals {
					vals[j] = math.NaN()
				}
				series[n] = vals
			}
			vals[i] = v
		}
	}
	names := make([]string, 0, len(series))
	for n := range series {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, series
}

// step is shorthand for building script steps.
func step[S any](text string, line int, sc S) script.Step[S] {
	return script.Step[S]{Text: text, Line: line, Word: script.None, Scene: sc}
}

func wordStep[S any](text string, line, word int, sc S) script.Step[S] {
	return script.Step[S]{Text: text, Line: line, Word: word, Scene: sc}
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
