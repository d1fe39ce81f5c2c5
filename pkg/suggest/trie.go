package suggest

import (
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/unicode/norm"
)

// NormalizeWord trims w, composes it to NFC and lower-cases it, so that a
// decomposed "é" and "é" index the same way.
func NormalizeWord(w string) string {
	return strings.ToLower(composed(w))
}

func composed(w string) string {
	return norm.NFC.String(strings.TrimSpace(w))
}

type match struct {
	word     string
	position int
}

// SearchTrie returns the words under lowerPrefix ordered by the position
// stored as their item, at most limit of them (limit <= 0 means all).
func SearchTrie(trie *patricia.Trie, lowerPrefix string, limit int) []string {
	if trie == nil {
		return nil
	}

	var matches []match
	err := trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		position, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for word %s", item, p)
			return nil
		}
		matches = append(matches, match{word: string(p), position: position})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].position < matches[j].position
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	words := make([]string, len(matches))
	for i, m := range matches {
		words[i] = m.word
	}
	return words
}

// CapitalPositions records which runes of s are upper case.
func CapitalPositions(s string) []bool {
	runes := []rune(s)
	positions := make([]bool, len(runes))
	for i, r := range runes {
		positions[i] = unicode.IsUpper(r)
	}
	return positions
}

// ApplyCapitalization upper-cases the runes of w at the positions marked in
// capitalPositions.
func ApplyCapitalization(w string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return w
	}

	wordRunes := []rune(w)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] {
			wordRunes[i] = unicode.ToUpper(wordRunes[i])
		}
	}
	return string(wordRunes)
}
