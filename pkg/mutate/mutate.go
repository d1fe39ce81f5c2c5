// Package mutate commits an accepted suggestion into the editing surface.
package mutate

import (
	"unicode/utf8"

	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/bastiangx/wordassist/pkg/word"
	"github.com/cockroachdb/errors"
)

// ErrMutationConflict means the buffer no longer holds the span the
// suggestion was computed for. The buffer is left untouched.
var ErrMutationConflict = errors.New("mutation conflict")

// Target is the part of a surface a commit needs.
type Target interface {
	Len() int
	Text(offset, length int) string
	Replace(offset, length int, text string, caret int) error
}

// Mutator replaces a word span with a suggestion.
type Mutator struct {
	// TrailingSpace appends a single space after the inserted word.
	TrailingSpace bool
}

// Commit swaps span for suggestion and moves the caret past the inserted
// text, as one edit. If the buffer changed under span it returns an error
// marked with ErrMutationConflict.
func (m Mutator) Commit(target Target, suggestion string, span word.Span) error {
	if suggestion == "" {
		return errors.New("empty suggestion")
	}
	if span.Start < 0 || span.Length < 0 || span.End() > target.Len() {
		return errors.Mark(
			errors.Newf("span [%d, %d) outside document of %d", span.Start, span.End(), target.Len()),
			ErrMutationConflict)
	}
	if current := target.Text(span.Start, span.Length); current != span.Text {
		return errors.Mark(
			errors.Newf("span [%d, %d) holds %q, expected %q", span.Start, span.End(), current, span.Text),
			ErrMutationConflict)
	}

	if span.End() < target.Len() {
		if next := []rune(target.Text(span.End(), 1)); len(next) == 1 && word.IsWordRune(next[0]) {
			return errors.Mark(
				errors.Newf("word at %d runs past %q", span.Start, span.Text),
				ErrMutationConflict)
		}
	}

	insert := suggestion
	if m.TrailingSpace {
		insert += " "
	}
	caret := span.Start + utf8.RuneCountInString(insert)

	if err := target.Replace(span.Start, span.Length, insert, caret); err != nil {
		if errors.Is(err, surface.ErrOutOfRange) {
			return errors.Mark(err, ErrMutationConflict)
		}
		return errors.Wrap(err, "replace span")
	}
	return nil
}
