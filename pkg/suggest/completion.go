package suggest

import (
	"context"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

// LocalDictionary suggests dictionary words that start with the query,
// case-insensitively, in the order the dictionary declares them.
type LocalDictionary struct {
	trie      *patricia.Trie
	words     []string
	matchCase bool
	mu        sync.RWMutex
}

// LocalOption configures a LocalDictionary.
type LocalOption func(*LocalDictionary)

// WithMatchCase makes suggestions copy the capitalisation of the query,
// so "Ma" suggests "Manao" instead of "manao".
func WithMatchCase() LocalOption {
	return func(d *LocalDictionary) {
		d.matchCase = true
	}
}

// NewLocalDictionary indexes words. Entries are normalised with
// NormalizeWord; blanks are dropped and duplicates keep their first position.
func NewLocalDictionary(words []string, opts ...LocalOption) *LocalDictionary {
	d := &LocalDictionary{}
	for _, opt := range opts {
		opt(d)
	}
	d.trie, d.words = buildIndex(words)
	return d
}

func buildIndex(words []string) (*patricia.Trie, []string) {
	trie := patricia.NewTrie()
	kept := make([]string, 0, len(words))
	for _, w := range words {
		w = NormalizeWord(w)
		if w == "" {
			continue
		}
		if trie.Get(patricia.Prefix(w)) != nil {
			continue
		}
		trie.Insert(patricia.Prefix(w), len(kept))
		kept = append(kept, w)
	}
	return trie, kept
}

// Replace swaps the word list, e.g. after the dictionary file changed.
func (d *LocalDictionary) Replace(words []string) {
	trie, kept := buildIndex(words)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.trie = trie
	d.words = kept
}

// Len returns the number of distinct words.
func (d *LocalDictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.words)
}

// Words returns a copy of the normalised word list in declared order.
func (d *LocalDictionary) Words() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}

func (d *LocalDictionary) Source() Source {
	return SourceLocal
}

// Query is Complete; the lookup never blocks, so ctx is unused.
func (d *LocalDictionary) Query(_ context.Context, text string, topK int) []Candidate {
	return d.Complete(text, topK)
}

// Complete returns at most limit unscored candidates starting with prefix.
// An empty prefix or a non-positive limit yields no candidates.
func (d *LocalDictionary) Complete(prefix string, limit int) []Candidate {
	lowerPrefix := NormalizeWord(prefix)
	if lowerPrefix == "" || limit <= 0 {
		return []Candidate{}
	}

	d.mu.RLock()
	words := SearchTrie(d.trie, lowerPrefix, limit)
	d.mu.RUnlock()

	var capitals []bool
	if d.matchCase {
		capitals = CapitalPositions(composed(prefix))
	}

	candidates := make([]Candidate, len(words))
	for i, w := range words {
		candidates[i] = Candidate{Word: ApplyCapitalization(w, capitals)}
	}
	return candidates
}
