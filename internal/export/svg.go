package export

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/viz"
)

// Braille dot-to-bit mapping
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// SVG converts a braille canvas to SVG: one circle per dot, grouped by ink,
// and overlay labels as text.
func SVG(canvas *viz.Canvas, th viz.Theme, scale float64) string {
	if canvas == nil {
		return ""
	}
	if scale <= 0 {
		scale = 4
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, th.Background)

	dots := map[scene.Color][]string{}
	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			if canvas.Overlay[row][col] != 0 {
				continue
			}
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			ink := canvas.Ink[row][col]

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						dots[ink] = append(dots[ink], fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	inks := make([]scene.Color, 0, len(dots))
	for ink := range dots {
		inks = append(inks, ink)
	}
	sort.Slice(inks, func(i, j int) bool { return inks[i] < inks[j] })
	for _, ink := range inks {
		fmt.Fprintf(&sb, "<g fill=\"%s\">\n", th.Ink(ink))
		for _, d := range dots[ink] {
			sb.WriteString(d + "\n")
		}
		sb.WriteString("</g>\n")
	}

	for _, l := range overlayRuns(canvas) {
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.1f" fill="%s">%s</text>
`, float64(l.col)*scale*2, float64(l.row)*scale*4+scale*3, scale*3, th.Ink(l.ink), html.EscapeString(l.text))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

type textRun struct {
	col, row int
	text     string
	ink      scene.Color
}

// overlayRuns joins adjacent overlay cells of the same ink into runs.
func overlayRuns(c *viz.Canvas) []textRun {
	var out []textRun
	for row := 0; row < c.Height; row++ {
		var cur *textRun
		for col := 0; col < c.Width; col++ {
			r := c.Overlay[row][col]
			if r == 0 {
				cur = nil
				continue
			}
			ink := c.Ink[row][col]
			if cur == nil || cur.ink != ink {
				out = append(out, textRun{col: col, row: row, ink: ink})
				cur = &out[len(out)-1]
			}
			cur.text += string(r)
		}
	}
	return out
}

// TraceSVG plots one observable across the steps of a topic.
func TraceSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		minY = min(minY, v)
		maxY = max(maxY, v)
	}
	if math.IsInf(minY, 1) {
		return ""
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`,
		width, height, width, height, strokeColor)

	// Steps are discrete, so the path holds each value until the next step.
	// A NaN step lifts the pen.
	prevY, down, started := 0.0, false, false
	for i, v := range values {
		if math.IsNaN(v) {
			down = false
			continue
		}
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if !down {
			if started {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			started = true
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f L%.1f,%.1f", x, prevY, x, y)
		}
		prevY, down = y, true
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
