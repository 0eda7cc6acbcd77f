// Package rewrite owns the translator's text buffer and the debounce and
// dispatch loop that replaces the sentence being typed with its formal
// rewrite.
package rewrite

import (
	"unicode/utf8"
)

const DefaultMaxLength = 300

// Edit is a proposed new buffer value together with the insertion point
// (in runes) the edit leaves the cursor at.
type Edit struct {
	Text   string
	Cursor int
}

// AppendEdit builds the edit for typing s at the end of buffer.
func AppendEdit(buffer string, s string) Edit {
	text := buffer + s
	return Edit{Text: text, Cursor: utf8.RuneCountInString(text)}
}

// BackspaceEdit removes the last rune of buffer.
func BackspaceEdit(buffer string) Edit {
	if buffer == "" {
		return Edit{}
	}
	_, size := utf8.DecodeLastRuneInString(buffer)
	text := buffer[:len(buffer)-size]
	return Edit{Text: text, Cursor: utf8.RuneCountInString(text)}
}

// MoveEdit is an edit that only moves the cursor by delta runes.
func MoveEdit(buffer string, delta int) Edit {
	n := utf8.RuneCountInString(buffer)
	c := n + delta
	if c < 0 {
		c = 0
	}
	return Edit{Text: buffer, Cursor: c}
}

// State is everything the surface needs to render.
type State struct {
	Buffer  string
	Loading bool
}

// Surface is the single owner of the buffer. The cursor is always pinned to
// the end of the buffer and the buffer never grows past MaxLength through a
// user edit.
type Surface struct {
	maxLength int
	state     State
}

func NewSurface(maxLength int) *Surface {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Surface{maxLength: maxLength}
}

func (s *Surface) State() State {
	return s.state
}

func (s *Surface) Buffer() string {
	return s.state.Buffer
}

func (s *Surface) Loading() bool {
	return s.state.Loading
}

func (s *Surface) MaxLength() int {
	return s.maxLength
}

// Len is the buffer length in runes.
func (s *Surface) Len() int {
	return utf8.RuneCountInString(s.state.Buffer)
}

// Apply accepts e only if it keeps the buffer within MaxLength and leaves the
// cursor at the end of the text. A rejected edit leaves the buffer untouched;
// the caller is expected to put the cursor back at the end.
func (s *Surface) Apply(e Edit) bool {
	n := utf8.RuneCountInString(e.Text)
	if n > s.maxLength {
		return false
	}
	if e.Cursor != n {
		return false
	}
	s.state.Buffer = e.Text
	return true
}

func (s *Surface) replace(text string) {
	s.state.Buffer = text
}

func (s *Surface) setLoading(loading bool) {
	s.state.Loading = loading
}
