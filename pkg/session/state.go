package session

import (
	"strings"

	"github.com/bastiangx/wordassist/pkg/position"
	"github.com/bastiangx/wordassist/pkg/suggest"
)

// Mode selects which provider answers which event.
type Mode int

const (
	// ModeLocal answers text changes and selections from the local dictionary.
	ModeLocal Mode = iota
	// ModeRemote sends text changes and selections to the similarity service.
	ModeRemote
	// ModeHybrid completes locally while typing and asks the similarity
	// service on explicit selection or the trigger key.
	ModeHybrid
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "remote"
	case ModeHybrid:
		return "hybrid"
	}
	return "unknown"
}

// ParseMode maps a config name to a Mode.
func ParseMode(name string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "local":
		return ModeLocal, true
	case "remote":
		return ModeRemote, true
	case "hybrid":
		return ModeHybrid, true
	}
	return ModeHybrid, false
}

// State is what the overlay shows. When Visible is false Suggestions is nil.
type State struct {
	Visible     bool
	ActiveIndex int
	Suggestions *suggest.Set
	Anchor      position.Point
}

// Active returns the highlighted candidate.
func (s State) Active() (suggest.Candidate, bool) {
	if !s.Visible || s.Suggestions == nil || s.ActiveIndex >= len(s.Suggestions.Candidates) {
		return suggest.Candidate{}, false
	}
	return s.Suggestions.Candidates[s.ActiveIndex], true
}

func (s State) clone() State {
	if s.Suggestions == nil {
		return s
	}
	set := *s.Suggestions
	set.Candidates = append([]suggest.Candidate(nil), set.Candidates...)
	s.Suggestions = &set
	return s
}

// Renderer draws the overlay. It is called on the loop goroutine after every
// change of the observable state.
type Renderer interface {
	Render(State)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(State)

func (f RendererFunc) Render(s State) {
	f(s)
}
