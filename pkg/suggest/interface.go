// Package suggest maps the word being typed to ranked candidate words.
//
// Two providers share one contract: LocalDictionary does case-insensitive
// prefix matching over a fixed word list, RemoteSimilarity asks a word
// similarity service over HTTP. Neither returns errors from Query; a failed
// lookup is an empty result plus a report to the configured FailureReporter.
package suggest

import (
	"context"

	"github.com/bastiangx/wordassist/pkg/word"
	"github.com/cockroachdb/errors"
)

// DefaultTopK is the number of candidates shown in the overlay.
const DefaultTopK = 5

// ErrProviderFailure marks a failed remote lookup (transport, timeout,
// non-2xx status, malformed body).
var ErrProviderFailure = errors.New("suggestion provider failure")

// Source tells which provider produced a set.
type Source int

const (
	SourceLocal Source = iota
	SourceRemote
)

func (s Source) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceRemote:
		return "remote"
	}
	return "unknown"
}

// Candidate is one suggested word. Local candidates have no score.
type Candidate struct {
	Word  string
	Score *float64
}

// Scored builds a candidate with a score.
func Scored(w string, score float64) Candidate {
	return Candidate{Word: w, Score: &score}
}

// Words returns the words of cs in order.
func Words(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Word
	}
	return out
}

// Set is the outcome of one query.
type Set struct {
	Query      word.Span
	Source     Source
	Candidates []Candidate
	RequestID  uint64
}

// Len returns the number of candidates.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candidates)
}

// Provider maps a prefix or whole word to at most topK ranked candidates.
type Provider interface {
	Source() Source
	Query(ctx context.Context, text string, topK int) []Candidate
}

// FailureReporter receives provider failures for diagnostics.
type FailureReporter interface {
	ProviderFailure(err error)
}
