package scriptpack

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/san-kum/stepviz/internal/script"
	"github.com/san-kum/stepviz/internal/topics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dequeYAML = `
key: deque_demo
name: Deque Demo
kind: sequence
shape: queue
sticky: true
code:
  - "let mut d = VecDeque::new();"
  - "d.push_back(1);"
  - "d.pop_front();"
steps:
  - text: "Empty deque."
    line: 0
  - text: "Push 1."
    line: 1
    word: 2
    items: [1]
    active: 0
  - text: "Still on push."
    items: [1]
  - text: "Pop it."
    line: 2
    items: []
    pop: 1
`

func TestParse_Sequence(t *testing.T) {
	tp, err := Parse([]byte(dequeYAML))
	require.NoError(t, err)

	assert.Equal(t, "deque_demo", tp.Key())
	assert.Equal(t, "Deque Demo", tp.Name())
	assert.Equal(t, 4, tp.Len())

	f := tp.Frame(1)
	assert.Equal(t, script.Cursor{Line: 1, Word: 2}, f.Cursor)
	assert.Equal(t, 1.0, f.Values["len"])

	// sticky: step 2 has no line of its own
	assert.Equal(t, 1, tp.Frame(2).Cursor.Line)
	assert.Equal(t, 1.0, tp.Frame(3).Values["pop"])
}

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		name, yaml, key string
		want            float64
	}{
		{"hash", "key: h\nkind: hash\ncode: [x]\nsteps:\n  - text: a\n    line: 0\n    entries: [{key: Blue, value: '10'}]\n", "bucket.Blue", 0},
		{"heap", "key: p\nkind: heap\ncode: [x]\nsteps:\n  - text: a\n    line: 0\n    items: [5, 3]\n", "root", 5},
		{"flow", "key: f\nkind: flow\ncode: [x]\nsteps:\n  - text: a\n    line: 0\n    counter: n\n    count: 2\n    loop: true\n", "n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tp.Frame(0).Values[tt.key])
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name, yaml string
		want       error
	}{
		{"no key", "kind: heap\nsteps: [{text: a}]\n", ErrMissingKey},
		{"no steps", "key: a\nkind: heap\n", ErrNoSteps},
		{"bad kind", "key: a\nkind: graph\nsteps: [{text: a}]\n", ErrUnknownKind},
		{"bad shape", "key: a\nkind: sequence\nshape: ring\nsteps: [{text: a}]\n", ErrUnknownKind},
		{"line out of range", "key: a\nkind: heap\ncode: [x]\nsteps: [{text: a, line: 4}]\n", script.ErrCursorRange},
		{"word out of range", "key: a\nkind: heap\ncode: [x]\nsteps: [{text: a, line: 0, word: 3}]\n", script.ErrCursorRange},
		{"negative span", "key: a\nkind: sequence\nsteps: [{text: a, items: [1, 2, 3], span: [-1, 2]}]\n", ErrSceneRange},
		{"span past end", "key: a\nkind: sequence\nsteps: [{text: a, items: [1, 2, 3], span: [1, 4]}]\n", ErrSceneRange},
		{"reversed span", "key: a\nkind: sequence\nsteps: [{text: a, items: [1, 2, 3], span: [2, 1]}]\n", ErrSceneRange},
		{"span of one", "key: a\nkind: sequence\nsteps: [{text: a, items: [1, 2, 3], span: [1]}]\n", ErrSceneRange},
		{"active past end", "key: a\nkind: sequence\nsteps: [{text: a, items: [1, 2, 3], active: 3}]\n", ErrSceneRange},
		{"active below none", "key: a\nkind: sequence\nsteps: [{text: a, items: [1], active: -2}]\n", ErrSceneRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_SceneRangesRender(t *testing.T) {
	tp, err := Parse([]byte("key: a\nkind: sequence\nsteps:\n  - {text: a, items: [1, 2, 3], span: [0, 3], active: 2}\n  - {text: b, items: [], active: -1}\n"))
	require.NoError(t, err)
	for i := 0; i < tp.Len(); i++ {
		assert.NotPanics(t, func() { tp.Frame(i) })
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(dequeYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte("key: first\nkind: heap\nsteps: [{text: hi}]\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.yaml"), []byte("kind: heap\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	ts, err := LoadDir(dir)
	assert.ErrorIs(t, err, ErrMissingKey)
	require.Len(t, ts, 2)
	assert.Equal(t, "first", ts[0].Key())
	assert.Equal(t, "deque_demo", ts[1].Key())
}

func parse(t *testing.T, yaml string) topics.Topic {
	t.Helper()
	tp, err := Parse([]byte(yaml))
	require.NoError(t, err)
	return tp
}

func TestInstallerSync(t *testing.T) {
	r := topics.Default()
	in := NewInstaller(r)
	builtins := r.Len()

	hijack := parse(t, "key: loop\nname: Hijack\nkind: flow\nsteps: [{text: mine}]\n")
	mine := parse(t, "key: mine\nkind: flow\nsteps: [{text: v1}]\n")

	err := in.Sync("packs", []topics.Topic{hijack, mine})
	assert.ErrorIs(t, err, topics.ErrDuplicateKey)
	assert.Equal(t, []string{"mine"}, in.Owned("packs"))

	// a reload of the same directory still cannot take over a built-in
	err = in.Sync("packs", []topics.Topic{hijack, mine})
	assert.ErrorIs(t, err, topics.ErrDuplicateKey)
	loop, err := r.Lookup("loop")
	require.NoError(t, err)
	assert.Equal(t, "Loop", loop.Name())

	// but it replaces its own topics
	v2 := parse(t, "key: mine\nkind: flow\nsteps: [{text: v2}]\n")
	require.NoError(t, in.Sync("packs", []topics.Topic{v2}))
	got, err := r.Lookup("mine")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Frame(0).Text)
	assert.Equal(t, builtins+1, r.Len())

	// another directory cannot take it either
	assert.ErrorIs(t, in.Sync("other", []topics.Topic{v2}), topics.ErrDuplicateKey)

	// and topics whose files are gone are dropped
	require.NoError(t, in.Sync("packs", nil))
	assert.False(t, r.Has("mine"))
	assert.Empty(t, in.Owned("packs"))
	assert.Equal(t, builtins, r.Len())
}

func TestInstallerSync_SameKeyTwice(t *testing.T) {
	in := NewInstaller(topics.NewRegistry())
	a := parse(t, "key: a\nkind: flow\nsteps: [{text: one}]\n")
	err := in.Sync("d", []topics.Topic{a, a})
	assert.ErrorIs(t, err, topics.ErrDuplicateKey)
	assert.Equal(t, []string{"a"}, in.Owned("d"))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	old := Debounce
	Debounce = 20 * time.Millisecond
	t.Cleanup(func() { Debounce = old })

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, func() { calls.Add(1) }) }()

	// let the watcher register before writing
	time.Sleep(50 * time.Millisecond)
	path := filepath.Join(dir, "p.yaml")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(dequeYAML), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
