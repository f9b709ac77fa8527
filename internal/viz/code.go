package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/stepviz/internal/scene"
	"github.com/san-kum/stepviz/internal/script"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodePanel renders code with a line-number gutter. The cursor line is
// highlighted and, when the cursor names a word, that token is picked out
// on top of the line highlight.
func CodePanel(code []string, cur script.Cursor, th Theme) string {
	gutter := lipgloss.NewStyle().Foreground(th.Faint)
	plain := lipgloss.NewStyle().Foreground(th.Text)
	active := lipgloss.NewStyle().Foreground(th.Text).Background(th.Background).Bold(true)
	word := lipgloss.NewStyle().Foreground(th.Background).Background(th.Ink(scene.Active)).Bold(true)
	marker := lipgloss.NewStyle().Foreground(th.Ink(scene.Active))

	width := len(fmt.Sprint(len(code)))
	var b strings.Builder
	for i, line := range code {
		num := gutter.Render(fmt.Sprintf("%*d ", width, i+1))
		if i != cur.Line {
			b.WriteString("  " + num + plain.Render(line) + "\n")
			continue
		}
		b.WriteString(marker.Render("▸ ") + num)
		if !cur.HasWord() {
			b.WriteString(active.Render(line) + "\n")
			continue
		}
		b.WriteString(highlightWord(line, cur.Word, active, word) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func highlightWord(line string, w int, base, hl lipgloss.Style) string {
	spans := script.TokenSpans(line)
	if w < 0 || w >= len(spans) {
		return base.Render(line)
	}
	sp := spans[w]
	var b strings.Builder
	if sp[0] > 0 {
		b.WriteString(base.Render(line[:sp[0]]))
	}
	b.WriteString(hl.Render(line[sp[0]:sp[1]]))
	if sp[1] < len(line) {
		b.WriteString(base.Render(line[sp[1]:]))
	}
	return b.String()
}

var md = goldmark.New()

// Prose renders explanation text. Backtick spans and emphasis are styled;
// everything else passes through as plain text.
func Prose(src string, th Theme) string {
	plain := lipgloss.NewStyle().Foreground(th.Text)
	code := lipgloss.NewStyle().Foreground(th.Ink(scene.Active))
	em := lipgloss.NewStyle().Foreground(th.Text).Italic(true)
	strong := lipgloss.NewStyle().Foreground(th.Text).Bold(true)

	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *ast.Paragraph:
			if !entering && n.NextSibling() != nil {
				b.WriteString("\n\n")
			}
		case *ast.CodeSpan:
			if entering {
				var raw strings.Builder
				for c := n.FirstChild(); c != nil; c = c.NextSibling() {
					if t, ok := c.(*ast.Text); ok {
						raw.Write(t.Segment.Value(source))
					}
				}
				b.WriteString(code.Render(raw.String()))
				return ast.WalkSkipChildren, nil
			}
		case *ast.Text:
			if !entering {
				return ast.WalkContinue, nil
			}
			style := plain
			if e, ok := n.Parent().(*ast.Emphasis); ok {
				style = em
				if e.Level >= 2 {
					style = strong
				}
			}
			b.WriteString(style.Render(string(n.Segment.Value(source))))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteString(" ")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return plain.Render(src)
	}
	return b.String()
}

// PlainProse strips markdown markup from src.
func PlainProse(src string) string {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))
	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, ok := n.(*ast.Paragraph); ok && n.NextSibling() != nil {
				b.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteString(" ")
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
