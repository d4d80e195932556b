package track

import (
	"errors"
	"sync"
)

// ErrSourceClosed is returned when reading from a source that has been
// closed or exhausted.
var ErrSourceClosed = errors.New("tracking source closed")

// Source delivers raw device reports to the frame loop. Implementations
// run their own capture goroutine where needed and close the channel when
// no more reports will arrive.
type Source interface {
	// Reports returns the channel raw device frames arrive on.
	Reports() <-chan Report

	// Close stops the source and releases its resources.
	Close() error
}

// ScriptSource replays a fixed sequence of reports, used by tests and for
// offline replay of recorded tracking sessions.
type ScriptSource struct {
	ch chan Report
}

// NewScriptSource creates a source that delivers the given reports in
// order and then closes its channel.
func NewScriptSource(reports []Report) *ScriptSource {
	ch := make(chan Report, len(reports))
	for _, r := range reports {
		ch <- r
	}
	close(ch)
	return &ScriptSource{ch: ch}
}

// Reports returns the replay channel.
func (s *ScriptSource) Reports() <-chan Report {
	return s.ch
}

// Close is a no-op for a script source.
func (s *ScriptSource) Close() error {
	return nil
}

// PushSource is a source fed externally, one report at a time. The server's
// WebSocket frame-ingest handler pushes into one of these.
type PushSource struct {
	mu     sync.Mutex
	ch     chan Report
	closed bool
}

// NewPushSource creates a PushSource with a small delivery buffer.
func NewPushSource() *PushSource {
	return &PushSource{
		ch: make(chan Report, 8),
	}
}

// Push delivers one report to the frame loop. Reports pushed after Close,
// or while the loop is more than a buffer's worth behind, are dropped:
// stale tracking frames are worthless.
func (s *PushSource) Push(r Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- r:
	default:
	}
}

// Reports returns the delivery channel.
func (s *PushSource) Reports() <-chan Report {
	return s.ch
}

// Close stops the source. Pending reports are discarded.
func (s *PushSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.closed = true
	close(s.ch)
	return nil
}
