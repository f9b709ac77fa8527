package topics

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTopic = errors.New("topics: unknown topic")
	ErrDuplicateKey = errors.New("topics: duplicate topic key")
)

// Registry maps topic keys to factories, in menu order.
type Registry struct {
	keys      []string
	factories map[string]func() Topic
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]func() Topic)}
}

// Default returns a registry with every built-in topic in menu order.
func Default() *Registry { return WithSeed(0) }

// WithSeed is Default with the memory topics' fake addresses derived from
// seed.
func WithSeed(seed int64) *Registry {
	r := NewRegistry()
	for _, t := range builtin(seed) {
		t := t
		r.mustRegister(t.Key(), func() Topic { return t })
	}
	return r
}

func (r *Registry) mustRegister(key string, fn func() Topic) {
	if err := r.Register(key, fn); err != nil {
		panic(err)
	}
}

// Register adds a topic factory under key.
func (r *Registry) Register(key string, fn func() Topic) error {
	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	r.keys = append(r.keys, key)
	r.factories[key] = fn
	return nil
}

// Replace registers fn under key, overwriting an earlier registration.
func (r *Registry) Replace(key string, fn func() Topic) {
	if _, ok := r.factories[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.factories[key] = fn
}

// Remove drops key and reports whether it was registered.
func (r *Registry) Remove(key string) bool {
	if _, ok := r.factories[key]; !ok {
		return false
	}
	delete(r.factories, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Lookup(key string) (Topic, error) {
	fn, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, key)
	}
	return fn(), nil
}

func (r *Registry) Has(key string) bool {
	_, ok := r.factories[key]
	return ok
}

// Keys returns topic keys in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Registry) Len() int { return len(r.keys) }

// All instantiates every topic in registration order.
func (r *Registry) All() []Topic {
	out := make([]Topic, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.factories[k]())
	}
	return out
}

func builtin(seed int64) []Topic {
	return []Topic{
		Variables(seed),
		Shadowing(seed),
		Constants(seed),
		DataTypes(),
		CyclicNotation(),
		IfElse(),
		Loop(),
		WhileLoop(),
		ForLoop(),
		Match(),
		Ownership(),
		Borrowing(),
		StackHeap(),
		Arrays(),
		Slices(),
		Vectors(),
		Stacks(),
		Queues(),
		LinkedLists(),
		HashMaps(),
		HashSets(),
		BinaryHeaps(),
		OptionResult(),
		TraitsImpl(),
		ThreadChannels(),
		MessagePassing(),
		MemoryBarriers(),
	}
}
