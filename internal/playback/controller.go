package playback

import "errors"

var ErrEmptyScript = errors.New("playback: script has no steps")

// Controller owns the playback position of one topic.
type Controller struct {
	pos int
	n   int
}

func New(n int) (*Controller, error) {
	if n <= 0 {
		return nil, ErrEmptyScript
	}
	return &Controller{n: n}, nil
}

func (c *Controller) Position() int { return c.pos }
func (c *Controller) Len() int      { return c.n }
func (c *Controller) Last() int     { return c.n - 1 }
func (c *Controller) AtStart() bool { return c.pos == 0 }
func (c *Controller) AtEnd() bool   { return c.pos == c.n-1 }

// Next advances one step. It reports whether the position changed.
func (c *Controller) Next() bool {
	if c.pos >= c.n-1 {
		return false
	}
	c.pos++
	return true
}

// Prev rewinds one step. It reports whether the position changed.
func (c *Controller) Prev() bool {
	if c.pos <= 0 {
		return false
	}
	c.pos--
	return true
}

func (c *Controller) Reset() { c.pos = 0 }

// Seek moves to i, clamped into [0, Last()].
func (c *Controller) Seek(i int) {
	c.pos = c.clamp(i)
}

// Progress is the position as a fraction of the last index.
func (c *Controller) Progress() float64 {
	if c.n <= 1 {
		return 0
	}
	return float64(c.pos) / float64(c.n-1)
}

func (c *Controller) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > c.n-1 {
		return c.n - 1
	}
	return i
}
