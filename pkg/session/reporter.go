package session

import (
	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/charmbracelet/log"
)

// Reporter receives the recoverable failures of a session. Neither call may
// block: both run on the loop goroutine.
type Reporter interface {
	// ProviderFailure is a failed remote lookup. The session has already
	// fallen back to no suggestions.
	ProviderFailure(err error)
	// MutationConflict is a commit whose span no longer matched the buffer.
	// The buffer was left untouched and the session is idle.
	MutationConflict(err error)
}

// LogReporter writes failures to a charm logger.
type LogReporter struct {
	Logger *log.Logger
}

// NewLogReporter creates a reporter writing to l, or to a logger under the
// "session" prefix when l is nil.
func NewLogReporter(l *log.Logger) *LogReporter {
	if l == nil {
		l = logger.New("session")
	}
	return &LogReporter{Logger: l}
}

func (r *LogReporter) ProviderFailure(err error) {
	r.Logger.Error("suggestion provider failed", "err", err)
}

func (r *LogReporter) MutationConflict(err error) {
	r.Logger.Warn("commit skipped, buffer changed under the suggestion", "err", err)
}
