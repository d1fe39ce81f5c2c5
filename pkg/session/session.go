// Package session runs the suggestion state machine: it listens to an
// editable surface, asks the configured providers for candidates, keeps the
// overlay state and commits the chosen candidate.
//
// A Session is not synchronised. Every method, and every surface event it
// subscribes to, must run on one goroutine (usually an eventloop.Loop).
package session

import (
	"context"
	"time"

	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/pkg/eventloop"
	"github.com/bastiangx/wordassist/pkg/mutate"
	"github.com/bastiangx/wordassist/pkg/position"
	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/bastiangx/wordassist/pkg/word"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// fetcher is implemented by providers that can report why a lookup failed.
type fetcher interface {
	Fetch(ctx context.Context, text string, topK int) ([]suggest.Candidate, error)
}

// Session is one autocomplete session bound to one surface.
type Session struct {
	surface    surface.Surface
	local      suggest.Provider
	remote     suggest.Provider
	mode       Mode
	topK       int
	poster     eventloop.Poster
	mutator    mutate.Mutator
	calc       *position.Calculator
	reporter   Reporter
	logger     *log.Logger
	renderer   Renderer
	triggerKey surface.Key

	state      State
	latest     uint64
	committing bool

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
}

// New creates an idle session for srf. Call Attach to start listening.
func New(srf surface.Surface, opts ...Option) *Session {
	s := &Session{
		surface:    srf,
		mode:       ModeLocal,
		topK:       suggest.DefaultTopK,
		mutator:    mutate.Mutator{TrailingSpace: true},
		calc:       position.New(srf),
		logger:     logger.New("session"),
		triggerKey: surface.KeyCtrlSpace,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = NewLogReporter(s.logger)
	}
	return s
}

// Attach subscribes to the surface. Calling it twice is a no-op.
func (s *Session) Attach() {
	if s.unsubscribe != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.unsubscribe = s.surface.Subscribe(s)
	s.logger.Debugf("attached in %s mode", s.mode)
}

// Close drops the subscription, abandons in-flight lookups and hides the
// overlay.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.reset()
}

// State returns a copy of the overlay state.
func (s *Session) State() State {
	return s.state.clone()
}

func (s *Session) Mode() Mode {
	return s.mode
}

// LatestRequest returns the id of the most recently issued query.
func (s *Session) LatestRequest() uint64 {
	return s.latest
}

// TextChanged re-detects the word at the caret and queries for it. The
// change produced by the session's own commit is skipped.
func (s *Session) TextChanged(c surface.Change) {
	if s.committing {
		return
	}
	span := s.wordAtCaret()
	if span == nil {
		s.reset()
		return
	}
	if s.mode == ModeRemote {
		s.queryRemote(*span)
		return
	}
	s.queryLocal(*span)
}

// KeyDown handles navigation while the overlay is showing and the trigger
// key in hybrid mode. It reports whether the key was consumed.
func (s *Session) KeyDown(k surface.Key) bool {
	if k == s.triggerKey && s.mode == ModeHybrid {
		return s.TriggerRemote()
	}
	if !s.state.Visible {
		return false
	}

	n := len(s.state.Suggestions.Candidates)
	switch k {
	case surface.KeyArrowDown:
		s.setActive((s.state.ActiveIndex + 1) % n)
	case surface.KeyArrowUp:
		s.setActive((s.state.ActiveIndex - 1 + n) % n)
	case surface.KeyEnter, surface.KeyTab:
		s.commit(s.state.ActiveIndex)
	case surface.KeyEscape:
		s.Dismiss()
	default:
		return false
	}
	return true
}

// Blur hides the overlay; late responses are ignored.
func (s *Session) Blur() {
	s.reset()
}

// Dismiss hides the overlay on request.
func (s *Session) Dismiss() {
	s.reset()
}

// Hover highlights candidate i. Out-of-range indexes are ignored.
func (s *Session) Hover(i int) bool {
	if !s.inRange(i) {
		return false
	}
	s.setActive(i)
	return true
}

// Press commits candidate i. A true result means the host must suppress
// its default handling of the pointer event.
func (s *Session) Press(i int) bool {
	if !s.inRange(i) {
		return false
	}
	s.commit(i)
	return true
}

// SelectWord queries for an explicitly selected word, e.g. after a double
// click. The similarity service answers in remote and hybrid mode.
func (s *Session) SelectWord(start, length int) bool {
	span := word.DetectFromSelection(s.surface.Text(start, length), start)
	if span == nil {
		s.reset()
		return false
	}
	if s.mode == ModeLocal {
		s.queryLocal(*span)
	} else {
		s.queryRemote(*span)
	}
	return true
}

// TriggerRemote asks the similarity service about the word at the caret.
// It reports whether a query was issued.
func (s *Session) TriggerRemote() bool {
	span := s.wordAtCaret()
	if span == nil {
		return false
	}
	s.queryRemote(*span)
	return true
}

func (s *Session) wordAtCaret() *word.Span {
	sel, ok := s.surface.Selection()
	if !ok {
		return nil
	}
	return word.DetectAt(s.surface.Text(0, s.surface.Len()), sel.Index, sel.Length)
}

func (s *Session) nextRequest() uint64 {
	s.latest++
	return s.latest
}

func (s *Session) queryContext() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func (s *Session) queryLocal(span word.Span) {
	id := s.nextRequest()
	var candidates []suggest.Candidate
	if s.local != nil {
		candidates = s.local.Query(s.queryContext(), span.Text, s.topK)
	}
	s.show(&suggest.Set{
		Query:      span,
		Source:     suggest.SourceLocal,
		Candidates: candidates,
		RequestID:  id,
	})
}

func (s *Session) queryRemote(span word.Span) {
	id := s.nextRequest()
	if s.remote == nil {
		s.show(&suggest.Set{Query: span, Source: suggest.SourceRemote, RequestID: id})
		return
	}

	ctx, remote, topK := s.queryContext(), s.remote, s.topK
	if s.poster == nil {
		start := time.Now()
		candidates, err := lookup(ctx, remote, span.Text, topK)
		s.finishRemote(id, span, candidates, err, time.Since(start))
		return
	}

	// the open overlay belongs to an older word until the answer lands
	s.hide()
	go func() {
		start := time.Now()
		candidates, err := lookup(ctx, remote, span.Text, topK)
		elapsed := time.Since(start)
		if !s.poster.Post(func() {
			s.finishRemote(id, span, candidates, err, elapsed)
		}) {
			log.Debug("loop stopped, dropping remote response", "request", id)
		}
	}()
}

func lookup(ctx context.Context, p suggest.Provider, text string, topK int) ([]suggest.Candidate, error) {
	if f, ok := p.(fetcher); ok {
		return f.Fetch(ctx, text, topK)
	}
	return p.Query(ctx, text, topK), nil
}

func (s *Session) finishRemote(id uint64, span word.Span, candidates []suggest.Candidate, err error, elapsed time.Duration) {
	if id != s.latest {
		s.logger.Debug("discarding stale response", "request", id, "latest", s.latest, "word", span.Text)
		return
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.reporter.ProviderFailure(err)
		}
		candidates = nil
	}
	s.logger.Debugf("Took [ %v ] for remote '%s'", elapsed, span.Text)
	s.show(&suggest.Set{
		Query:      span,
		Source:     suggest.SourceRemote,
		Candidates: candidates,
		RequestID:  id,
	})
}

// show opens the overlay at candidate 0, or goes idle for an empty set.
func (s *Session) show(set *suggest.Set) {
	if set.Len() == 0 {
		s.hide()
		return
	}
	s.state = State{
		Visible:     true,
		ActiveIndex: 0,
		Suggestions: set,
		Anchor:      s.calc.AnchorFor(set.Query.Start, set.Query.Length),
	}
	s.render()
}

func (s *Session) setActive(i int) {
	if s.state.ActiveIndex == i {
		return
	}
	s.state.ActiveIndex = i
	s.render()
}

func (s *Session) inRange(i int) bool {
	return s.state.Visible && i >= 0 && i < s.state.Suggestions.Len()
}

func (s *Session) commit(i int) {
	set := s.state.Suggestions
	candidate := set.Candidates[i]

	s.committing = true
	err := s.mutator.Commit(s.surface, candidate.Word, set.Query)
	s.committing = false

	s.reset()
	if err != nil {
		s.reporter.MutationConflict(err)
		return
	}
	s.logger.Debug("committed", "word", candidate.Word, "source", set.Source, "request", set.RequestID)
}

// reset goes idle and makes every in-flight response stale.
func (s *Session) reset() {
	s.nextRequest()
	s.hide()
}

func (s *Session) hide() {
	if !s.state.Visible && s.state.Suggestions == nil {
		return
	}
	s.state = State{}
	s.render()
}

func (s *Session) render() {
	if s.renderer != nil {
		s.renderer.Render(s.State())
	}
}
