package script

import (
	"errors"
	"fmt"
	"regexp"
)

// None marks an absent line or word index.
const None = -1

var (
	ErrEmpty       = errors.New("script: no steps")
	ErrCursorRange = errors.New("script: cursor out of range")
)

// Step is one immutable entry of a script.
type Step[S any] struct {
	Text  string
	Line  int
	Word  int
	Scene S
}

// Cursor is a resolved code highlight.
type Cursor struct {
	Line, Word int
}

// NoCursor highlights nothing.
var NoCursor = Cursor{None, None}

func (c Cursor) HasLine() bool { return c.Line != None }
func (c Cursor) HasWord() bool { return c.Line != None && c.Word != None }

type Script[S any] struct {
	Title string
	Code  []string
	Steps []Step[S]
	// Sticky keeps the last defined line highlighted on steps that define none.
	Sticky bool
	// Fade hides the explanation briefly between steps.
	Fade bool
}

func (s *Script[S]) Len() int { return len(s.Steps) }

// Step returns the step at i, clamped into the script bounds.
func (s *Script[S]) Step(i int) Step[S] {
	return s.Steps[s.clamp(i)]
}

func (s *Script[S]) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(s.Steps) {
		return len(s.Steps) - 1
	}
	return i
}

// Cursor resolves the code highlight for step i.
func (s *Script[S]) Cursor(i int) Cursor {
	if len(s.Steps) == 0 {
		return NoCursor
	}
	i = s.clamp(i)
	if !s.Sticky {
		st := s.Steps[i]
		if st.Line == None {
			return NoCursor
		}
		return Cursor{st.Line, st.Word}
	}
	for j := i; j >= 0; j-- {
		if st := s.Steps[j]; st.Line != None {
			return Cursor{st.Line, st.Word}
		}
	}
	return NoCursor
}

// Validate checks that the script has steps and every cursor points into the code.
func (s *Script[S]) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmpty
	}
	for i, st := range s.Steps {
		if st.Line == None {
			if st.Word != None {
				return fmt.Errorf("step %d: word %d without line: %w", i, st.Word, ErrCursorRange)
			}
			continue
		}
		if st.Line < 0 || st.Line >= len(s.Code) {
			return fmt.Errorf("step %d: line %d of %d: %w", i, st.Line, len(s.Code), ErrCursorRange)
		}
		if st.Word == None {
			continue
		}
		if n := len(Tokens(s.Code[st.Line])); st.Word < 0 || st.Word >= n {
			return fmt.Errorf("step %d: word %d of %d on line %d: %w", i, st.Word, n, st.Line, ErrCursorRange)
		}
	}
	return nil
}

var tokenRe = regexp.MustCompile(`\w+|[^\w\s]+`)

// Tokens splits a code line into word and punctuation runs.
func Tokens(line string) []string {
	return tokenRe.FindAllString(line, -1)
}

// TokenSpans returns the byte range of every token of line, in the same
// order as Tokens.
func TokenSpans(line string) [][2]int {
	idx := tokenRe.FindAllStringIndex(line, -1)
	out := make([][2]int, len(idx))
	for i, m := range idx {
		out[i] = [2]int{m[0], m[1]}
	}
	return out
}
