package session

import (
	"github.com/bastiangx/wordassist/pkg/eventloop"
	"github.com/bastiangx/wordassist/pkg/mutate"
	"github.com/bastiangx/wordassist/pkg/position"
	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/charmbracelet/log"
)

// Option configures a Session.
type Option func(*Session)

// WithLocal sets the prefix provider.
func WithLocal(p suggest.Provider) Option {
	return func(s *Session) {
		s.local = p
	}
}

// WithRemote sets the similarity provider. Queries run on their own
// goroutine when a poster is configured.
func WithRemote(p suggest.Provider) Option {
	return func(s *Session) {
		s.remote = p
	}
}

func WithMode(m Mode) Option {
	return func(s *Session) {
		s.mode = m
	}
}

// WithTopK sets how many candidates are requested. Values below 1 keep the
// default.
func WithTopK(k int) Option {
	return func(s *Session) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithPoster sets how remote results get back onto the loop goroutine.
// Without one, remote queries block the caller.
func WithPoster(p eventloop.Poster) Option {
	return func(s *Session) {
		s.poster = p
	}
}

func WithMutator(m mutate.Mutator) Option {
	return func(s *Session) {
		s.mutator = m
	}
}

// WithCalculator replaces the anchor calculator built from the surface.
func WithCalculator(c *position.Calculator) Option {
	return func(s *Session) {
		if c != nil {
			s.calc = c
		}
	}
}

func WithReporter(r Reporter) Option {
	return func(s *Session) {
		if r != nil {
			s.reporter = r
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithRenderer(r Renderer) Option {
	return func(s *Session) {
		s.renderer = r
	}
}

// WithTriggerKey sets the key that asks the similarity service for the
// word at the caret in hybrid mode.
func WithTriggerKey(k surface.Key) Option {
	return func(s *Session) {
		if k != "" {
			s.triggerKey = k
		}
	}
}
