package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/stepviz/internal/scene"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille grid. Every cell remembers the ink of the last
// stroke that touched it, and may carry an overlay rune for labels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]scene.Color
	Overlay       [][]rune

	// Pen is the ink used by Set and DrawLine.
	Pen scene.Color
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Ink:     make([][]scene.Color, h),
		Overlay: make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]scene.Color, w)
		c.Overlay[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set sets the dot at (x, y) in sub-pixel coordinates with the current pen.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Ink[row][col] = c.Pen
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Dot reports whether the dot at (x, y) is set.
func (c *Canvas) Dot(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = scene.Base
			c.Overlay[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Text writes s into the overlay starting at cell (col, row). Runes that
// fall outside the canvas are dropped.
func (c *Canvas) Text(col, row int, s string, ink scene.Color) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= 0 && col < c.Width {
			c.Overlay[row][col] = r
			c.Ink[row][col] = ink
		}
		col++
	}
}

// Cell returns the rune shown at (col, row) and its ink.
func (c *Canvas) Cell(col, row int) (rune, scene.Color) {
	if r := c.Overlay[row][col]; r != 0 {
		return r, c.Ink[row][col]
	}
	return c.Grid[row][col], c.Ink[row][col]
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col := range c.Grid[row] {
			r, _ := c.Cell(col, row)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render colours each run of same-ink cells with the theme.
func (c *Canvas) Render(th Theme) string {
	styles := map[scene.Color]lipgloss.Style{}
	style := func(ink scene.Color) lipgloss.Style {
		s, ok := styles[ink]
		if !ok {
			s = lipgloss.NewStyle().Foreground(th.Ink(ink))
			styles[ink] = s
		}
		return s
	}

	var b strings.Builder
	var run strings.Builder
	for row := range c.Grid {
		cur := scene.Color(-1)
		for col := range c.Grid[row] {
			r, ink := c.Cell(col, row)
			if r == blank {
				ink = scene.Base
			}
			if ink != cur && run.Len() > 0 {
				b.WriteString(style(cur).Render(run.String()))
				run.Reset()
			}
			cur = ink
			run.WriteRune(r)
		}
		if run.Len() > 0 {
			b.WriteString(style(cur).Render(run.String()))
			run.Reset()
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
