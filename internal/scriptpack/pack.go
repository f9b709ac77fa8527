// Package scriptpack loads extra topics from yaml files.
package scriptpack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/stepviz/internal/script"
	"github.com/san-kum/stepviz/internal/topics"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownKind = errors.New("scriptpack: unknown kind")
	ErrNoSteps     = errors.New("scriptpack: no steps")
	ErrMissingKey  = errors.New("scriptpack: missing key")
	ErrSceneRange  = errors.New("scriptpack: scene index out of range")
)

// Kinds a pack may declare.
const (
	KindSequence = "sequence"
	KindHash     = "hash"
	KindHeap     = "heap"
	KindFlow     = "flow"
)

// Pack is the yaml form of one topic.
type Pack struct {
	Key    string   `yaml:"key"`
	Name   string   `yaml:"name"`
	Title  string   `yaml:"title"`
	Kind   string   `yaml:"kind"`
	Shape  string   `yaml:"shape"` // sequence only: array, vec, stack, queue, list
	Sticky bool     `yaml:"sticky"`
	Fade   bool     `yaml:"fade"`
	Code   []string `yaml:"code"`
	Steps  []Step   `yaml:"steps"`
}

// Step is one yaml step. Fields outside the pack's kind are ignored.
type Step struct {
	Text string `yaml:"text"`
	Line *int   `yaml:"line"`
	Word *int   `yaml:"word"`

	// sequence and heap
	Items  []int `yaml:"items"`
	Active *int  `yaml:"active"`
	Span   []int `yaml:"span"`
	Pop    *int  `yaml:"pop"`

	// hash
	Entries   []Entry `yaml:"entries"`
	Highlight string  `yaml:"highlight"`

	// flow
	Counter string `yaml:"counter"`
	Count   int    `yaml:"count"`
	Loop    bool   `yaml:"loop"`
}

type Entry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

var shapes = map[string]topics.Shape{
	"":      topics.ShapeArray,
	"array": topics.ShapeArray,
	"vec":   topics.ShapeVec,
	"stack": topics.ShapeStack,
	"queue": topics.ShapeQueue,
	"list":  topics.ShapeList,
}

// Parse decodes and builds a topic from yaml bytes.
func Parse(data []byte) (topics.Topic, error) {
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p.Topic()
}

func Load(path string) (topics.Topic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadDir loads every *.yaml and *.yml file in dir in name order. Files
// that fail are skipped; their errors are joined into the returned error.
func LoadDir(dir string) ([]topics.Topic, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !isPackFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var (
		out  []topics.Topic
		errs []error
	)
	for _, name := range names {
		t, err := Load(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, t)
	}
	return out, errors.Join(errs...)
}

func isPackFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Installer registers pack topics and remembers which directory installed
// each key. A later Sync of the same directory replaces or drops only those
// keys, so a pack can never take over a built-in or another directory's
// topic.
type Installer struct {
	reg   *topics.Registry
	owned map[string][]string
}

func NewInstaller(r *topics.Registry) *Installer {
	return &Installer{reg: r, owned: make(map[string][]string)}
}

// Sync makes the registry hold exactly ts for dir. Keys dir installed
// earlier are replaced, or removed when ts no longer carries them. A key
// registered by anything else fails with topics.ErrDuplicateKey and the
// rest of ts is still installed.
func (in *Installer) Sync(dir string, ts []topics.Topic) error {
	prev := make(map[string]bool, len(in.owned[dir]))
	for _, k := range in.owned[dir] {
		prev[k] = true
	}

	var (
		owned []string
		errs  []error
	)
	seen := make(map[string]bool, len(ts))
	for _, t := range ts {
		t := t
		key := t.Key()
		fn := func() topics.Topic { return t }
		switch {
		case seen[key]:
			errs = append(errs, fmt.Errorf("%w: %s", topics.ErrDuplicateKey, key))
			continue
		case prev[key]:
			in.reg.Replace(key, fn)
		default:
			if err := in.reg.Register(key, fn); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		seen[key] = true
		owned = append(owned, key)
	}
	for _, k := range in.owned[dir] {
		if !seen[k] {
			in.reg.Remove(k)
		}
	}
	in.owned[dir] = owned
	return errors.Join(errs...)
}

// Owned lists the keys dir currently has installed.
func (in *Installer) Owned(dir string) []string {
	return append([]string(nil), in.owned[dir]...)
}

// Topic builds and validates the pack's topic.
func (p Pack) Topic() (topics.Topic, error) {
	if p.Key == "" {
		return nil, ErrMissingKey
	}
	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("%s: %w", p.Key, ErrNoSteps)
	}
	name := p.Name
	if name == "" {
		name = p.Key
	}
	title := p.Title
	if title == "" {
		title = name
	}

	if p.Kind == KindSequence {
		for i, st := range p.Steps {
			if err := checkSeq(st); err != nil {
				return nil, fmt.Errorf("%s: step %d: %w", p.Key, i, err)
			}
		}
	}

	var t topics.Topic
	switch p.Kind {
	case KindSequence:
		shape, ok := shapes[p.Shape]
		if !ok {
			return nil, fmt.Errorf("%s: shape %q: %w", p.Key, p.Shape, ErrUnknownKind)
		}
		t = build(p, name, title, func(s Step) topics.SeqScene { return seqScene(shape, s) })
	case KindHash:
		t = build(p, name, title, hashScene)
	case KindHeap:
		t = build(p, name, title, heapScene)
	case KindFlow:
		t = build(p, name, title, flowScene)
	default:
		return nil, fmt.Errorf("%s: kind %q: %w", p.Key, p.Kind, ErrUnknownKind)
	}
	if err := topics.Validate(t); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Key, err)
	}
	return t, nil
}

func build[S topics.Drawer](p Pack, name, title string, scene func(Step) S) topics.Topic {
	s := &script.Script[S]{
		Title:  title,
		Code:   p.Code,
		Sticky: p.Sticky,
		Fade:   p.Fade,
		Steps:  make([]script.Step[S], len(p.Steps)),
	}
	for i, st := range p.Steps {
		s.Steps[i] = script.Step[S]{
			Text:  st.Text,
			Line:  orNone(st.Line),
			Word:  orNone(st.Word),
			Scene: scene(st),
		}
	}
	return topics.New(p.Key, name, s)
}

func orNone(p *int) int {
	if p == nil {
		return script.None
	}
	return *p
}

// checkSeq rejects active and span indices that fall outside items.
func checkSeq(s Step) error {
	n := len(s.Items)
	if s.Active != nil && (*s.Active < script.None || *s.Active >= n) {
		return fmt.Errorf("active %d of %d items: %w", *s.Active, n, ErrSceneRange)
	}
	switch len(s.Span) {
	case 0:
	case 2:
		if s.Span[0] < 0 || s.Span[0] > s.Span[1] || s.Span[1] > n {
			return fmt.Errorf("span %v of %d items: %w", s.Span, n, ErrSceneRange)
		}
	default:
		return fmt.Errorf("span needs [start, end], got %v: %w", s.Span, ErrSceneRange)
	}
	return nil
}

func seqScene(shape topics.Shape, s Step) topics.SeqScene {
	sc := topics.SeqScene{
		Shape:     shape,
		Items:     s.Items,
		Highlight: orNone(s.Active),
		Len:       len(s.Items),
	}
	if shape == topics.ShapeVec {
		sc.Cap = max(len(s.Items), 4)
	}
	if len(s.Span) == 2 {
		sc.SpanStart, sc.SpanEnd = s.Span[0], s.Span[1]
	}
	if s.Pop != nil {
		sc.Pop, sc.Popped = *s.Pop, true
	}
	return sc
}

func hashScene(s Step) topics.HashScene {
	es := make([]topics.Entry, len(s.Entries))
	for i, e := range s.Entries {
		es[i] = topics.Entry{Key: e.Key, Value: e.Value}
	}
	return topics.HashScene{Entries: es, Highlight: s.Highlight}
}

func heapScene(s Step) topics.HeapScene {
	h := topics.HeapScene{Items: s.Items}
	if s.Pop != nil {
		h.Pop, h.Popped = *s.Pop, true
	}
	return h
}

func flowScene(s Step) topics.CounterScene {
	name := s.Counter
	if name == "" {
		name = "count"
	}
	return topics.CounterScene{Name: name, Count: s.Count, Looping: s.Loop}
}
