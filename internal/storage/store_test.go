package storage

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/stepviz/internal/topics"
	"github.com/san-kum/stepviz/internal/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	require.NoError(t, s.Init())
	clock := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestSaveTopic(t *testing.T) {
	s := newStore(t)
	tp := topics.Stacks()

	id, err := s.SaveTopic(tp, Options{Theme: viz.ThemeBlueprint, Width: 30, Height: 10, Scale: 2})
	require.NoError(t, err)
	dir := filepath.Join(s.Dir(), id)

	meta, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "stacks", meta.Topic)
	assert.Equal(t, 6, meta.Steps)
	assert.Equal(t, "blueprint", meta.Theme)

	data, err := os.ReadFile(filepath.Join(dir, "steps.json"))
	require.NoError(t, err)
	var steps []StepRecord
	require.NoError(t, json.Unmarshal(data, &steps))
	require.Len(t, steps, 6)
	assert.Equal(t, 3.0, steps[5].Values["pop"])
	assert.Equal(t, 10, steps[5].Line)

	for i := 0; i < 6; i++ {
		assert.FileExists(t, filepath.Join(dir, "frames", "step_0"+string(rune('0'+i))+".svg"))
	}
	assert.FileExists(t, filepath.Join(dir, "trace_len.svg"))

	names, rows, err := s.LoadValues(id)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	col := map[string]int{}
	for i, n := range names {
		col[n] = i
	}
	require.Contains(t, col, "len")
	assert.Equal(t, 3.0, rows[4][col["len"]])
	assert.Equal(t, 2.0, rows[5][col["len"]])

	// pop only exists on the step that pops; earlier steps read back as gaps
	require.Contains(t, col, "pop")
	assert.True(t, math.IsNaN(rows[0][col["pop"]]))
	assert.Equal(t, 3.0, rows[5][col["pop"]])
}

func TestSaveTopic_Formats(t *testing.T) {
	s := newStore(t)
	id, err := s.SaveTopic(topics.Loop(), Options{Formats: []string{FormatCSV}})
	require.NoError(t, err)
	dir := filepath.Join(s.Dir(), id)

	assert.FileExists(t, filepath.Join(dir, "steps.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "steps.json"))
	assert.NoDirExists(t, filepath.Join(dir, "frames"))
}

func TestList(t *testing.T) {
	s := newStore(t)
	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = s.SaveTopic(topics.Loop(), Options{Formats: []string{FormatJSON}})
	require.NoError(t, err)
	_, err = s.SaveTopic(topics.Match(), Options{Formats: []string{FormatJSON}})
	require.NoError(t, err)

	runs, err = s.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "loop", runs[0].Topic)
	assert.Equal(t, "match", runs[1].Topic)
}

func TestList_MissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}
