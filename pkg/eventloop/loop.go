// Package eventloop runs callbacks one at a time on a single goroutine.
//
// The autocomplete session is not synchronised; everything that touches it
// (surface events, key input, network completions) is funnelled through a
// Loop.
package eventloop

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Poster schedules fn to run on the loop goroutine.
type Poster interface {
	Post(fn func()) bool
}

// Loop is a FIFO of callbacks drained by Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// New creates a loop with room for size pending callbacks.
func New(size int) *Loop {
	if size < 1 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and returns false once
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Run drains the queue until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.queue:
			l.run(fn)
		}
	}
}

// Stop ends Run. Pending callbacks are dropped.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("event loop callback panicked: %v", r)
		}
	}()
	fn()
}

// Inline runs callbacks immediately on the caller's goroutine. It suits
// tests and hosts that are already single-threaded.
type Inline struct{}

func (Inline) Post(fn func()) bool {
	fn()
	return true
}

// Queue collects callbacks until Drain is called; tests use it to decide
// when asynchronous results arrive.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

func (q *Queue) Post(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, fn)
	return true
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs the queued callbacks in order, including ones queued while
// draining, and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()
		fn()
		n++
	}
}

// RunAt runs only the i-th queued callback, leaving the rest queued.
func (q *Queue) RunAt(i int) bool {
	q.mu.Lock()
	if i < 0 || i >= len(q.pending) {
		q.mu.Unlock()
		return false
	}
	fn := q.pending[i]
	q.pending = append(q.pending[:i:i], q.pending[i+1:]...)
	q.mu.Unlock()
	fn()
	return true
}
