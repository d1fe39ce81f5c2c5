// Package word finds the word being composed at the caret.
//
// Offsets are rune offsets into the plain text of the editing surface.
package word

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a run of word characters ending at the caret, or an explicitly
// selected word.
type Span struct {
	Text   string
	Start  int
	Length int
}

// End returns the offset just past the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// IsWordRune reports whether r belongs to the word class [A-Za-zÀ-ſ].
func IsWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 0x00C0 && r <= 0x017F:
		return true
	}
	return false
}

// Detect returns the maximal run of word runes that ends at caret.
// It returns nil when the caret is preceded by anything else (space,
// punctuation, start of the document) or lies outside the text.
func Detect(text string, caret int) *Span {
	if caret <= 0 {
		return nil
	}
	runes := []rune(text)
	if caret > len(runes) {
		return nil
	}

	start := caret
	for start > 0 && IsWordRune(runes[start-1]) {
		start--
	}
	if start == caret {
		return nil
	}

	return &Span{
		Text:   string(runes[start:caret]),
		Start:  start,
		Length: caret - start,
	}
}

// DetectAt is Detect for a selection reported by the surface. Only a
// collapsed caret (length 0) is considered.
func DetectAt(text string, index, length int) *Span {
	if length != 0 {
		return nil
	}
	return Detect(text, index)
}

// DetectFromSelection builds a span from an explicit whole-word selection
// such as a double-click. The offsets are the selection bounds given by the
// caller; only surrounding whitespace is trimmed off.
func DetectFromSelection(selected string, start int) *Span {
	if start < 0 {
		return nil
	}
	lead := len(selected) - len(strings.TrimLeftFunc(selected, unicode.IsSpace))
	trimmed := strings.TrimSpace(selected)
	if trimmed == "" {
		return nil
	}

	return &Span{
		Text:   trimmed,
		Start:  start + utf8.RuneCountInString(selected[:lead]),
		Length: utf8.RuneCountInString(trimmed),
	}
}
