package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/stepviz/internal/scene"
)

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Theme Theme

	// Glass panel effect with subtle border
	Panel lipgloss.Style
	// Panel for the focused pane
	PanelFocus lipgloss.Style
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Subtle     lipgloss.Style
	KeyHint    lipgloss.Style
	Header     lipgloss.Style
	Error      lipgloss.Style

	MetricValue lipgloss.Style
	MetricLabel lipgloss.Style

	SparkHigh, SparkMid, SparkLow lipgloss.Style
}

func NewStyles(th Theme) Styles {
	return Styles{
		Theme: th,
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Faint).
			Padding(0, 1),
		PanelFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Title).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Subtitle),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Title).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Title).
			Padding(0, 1),
		Subtle: lipgloss.NewStyle().Foreground(th.Faint),
		KeyHint: lipgloss.NewStyle().
			Foreground(th.Faint).
			Italic(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(th.Faint),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Alert),
		MetricValue: lipgloss.NewStyle().
			Foreground(th.Subtitle).
			Bold(true),
		MetricLabel: lipgloss.NewStyle().Foreground(th.Faint),
		SparkHigh:   lipgloss.NewStyle().Foreground(th.Ink(scene.Success)),
		SparkMid:    lipgloss.NewStyle().Foreground(th.Ink(scene.Owner)),
		SparkLow:    lipgloss.NewStyle().Foreground(th.Alert),
	}
}

// Button renders a menu entry, boxed when selected.
func (s Styles) Button(label string, selected bool, width int) string {
	if selected {
		return s.Selected.Width(width).Render(label)
	}
	return s.Panel.Width(width).Foreground(s.Theme.Text).Render(label)
}

// GradientText creates a gradient effect on text using color interpolation
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	if len(text) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	runes := []rune(text)
	n := len(runes)
	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b)))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

// ProgressBar renders fraction (0..1) of width cells.
func (s Styles) ProgressBar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return s.Title.Render(strings.Repeat("━", filled)) +
		s.Subtle.Render(strings.Repeat("─", width-filled))
}

// SparklineChart renders a mini sparkline from values; mark indexes the
// value drawn in the title colour, -1 for none.
func (s Styles) SparklineChart(values []float64, width, mark int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		if math.IsNaN(v) {
			// no value at this step
			result.WriteString(" ")
			continue
		}
		norm := (v - lo) / rng
		idx := max(0, min(len(chars)-1, int(norm*float64(len(chars)-1))))
		c := string(chars[idx])
		switch {
		case i*step == mark:
			result.WriteString(s.Title.Render(c))
		case norm > 0.7:
			result.WriteString(s.SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(s.SparkMid.Render(c))
		default:
			result.WriteString(s.SparkLow.Render(c))
		}
	}
	return result.String()
}

// Separator is a decorative rule.
func (s Styles) Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return s.Subtle.Render(left + " ◆ " + right)
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = max(0, min(255, v))
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
