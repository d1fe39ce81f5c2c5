package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SuggestionFilter drops repeated words from a candidate list. Words are
// compared case-insensitively after NFC composition.
type SuggestionFilter struct {
	seenWords map[string]bool
}

// NewSuggestionFilter creates a filter that also rejects the given words.
func NewSuggestionFilter(exclude ...string) *SuggestionFilter {
	f := &SuggestionFilter{seenWords: make(map[string]bool, len(exclude))}
	for _, w := range exclude {
		f.seenWords[foldWord(w)] = true
	}
	return f
}

// ShouldInclude reports whether word is new, and remembers it.
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	key := foldWord(word)
	if f.seenWords[key] {
		return false
	}
	f.seenWords[key] = true
	return true
}

func foldWord(w string) string {
	return strings.ToLower(norm.NFC.String(w))
}
