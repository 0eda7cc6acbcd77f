// Package segment splits a text buffer into sentences so that only the
// sentence currently being typed is sent off for rewriting.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segments is the ordered list of sentence fragments of a buffer.
type Segments []string

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Split breaks buffer on every run of whitespace that directly follows a
// terminal punctuation mark. Whitespace that does not follow '.', '!' or '?'
// stays inside its fragment, so the last fragment keeps any trailing spaces
// the user typed.
func Split(buffer string) Segments {
	ret := Segments{}
	start := 0
	prev := rune(-1)

	for i := 0; i < len(buffer); {
		r, size := utf8.DecodeRuneInString(buffer[i:])
		if unicode.IsSpace(r) && isTerminal(prev) {
			end := i
			for i < len(buffer) {
				r, size = utf8.DecodeRuneInString(buffer[i:])
				if !unicode.IsSpace(r) {
					break
				}
				i += size
			}
			ret = append(ret, buffer[start:end])
			start = i
			prev = -1
			continue
		}
		prev = r
		i += size
	}

	return append(ret, buffer[start:])
}

// Current is the trimmed last fragment, the sentence still being edited.
func (s Segments) Current() string {
	if len(s) == 0 {
		return ""
	}
	return strings.TrimSpace(s[len(s)-1])
}

// StablePrefix joins every fragment before the current one with single spaces.
func (s Segments) StablePrefix() string {
	if len(s) <= 1 {
		return ""
	}
	return strings.Join(s[:len(s)-1], " ")
}

// Dispatchable reports whether there is a non-blank current sentence.
func (s Segments) Dispatchable() bool {
	return s.Current() != ""
}

// EndsWithTerminal reports whether the very last character of text is a
// terminal punctuation mark. Trailing whitespace is not skipped.
func EndsWithTerminal(text string) bool {
	r, _ := utf8.DecodeLastRuneInString(text)
	return isTerminal(r)
}
