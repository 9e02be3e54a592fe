package replay

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/observability"
	"github.com/matzehuels/railpath/pkg/pathfind"
)

// Session owns one network, the most recent search result and the replay
// cursor over its trace.
//
// All methods are safe for concurrent use. Renderer calls happen while the
// session lock is held, so a Renderer must not call back into the session.
type Session struct {
	Logger *log.Logger

	mu      sync.Mutex
	network network.Network
	result  *pathfind.Result
	cursor  *Cursor
}

// NewSession creates a session for n. If logger is nil, log.Default() is used.
func NewSession(n network.Network, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{Logger: logger, network: n}
}

// Network returns the network the session searches.
func (s *Session) Network() network.Network { return s.network }

// Result returns the last search result, or nil if there is none.
func (s *Session) Result() *pathfind.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Busy reports whether a replay is in progress: a trace exists and not
// every event has been applied.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy()
}

func (s *Session) busy() bool {
	return s.cursor != nil && !s.cursor.Done()
}

// Progress returns the replay position and the trace length.
func (s *Session) Progress() (pos, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == nil {
		return 0, 0
	}
	return s.cursor.Pos(), s.cursor.Len()
}

// Search runs a new query and positions the cursor at its first event.
//
// It fails with INVALID_INPUT when either endpoint is blank, SAME_ENDPOINTS
// when they are equal, and REPLAY_IN_PROGRESS while a previous trace is
// still being replayed. Unknown cities surface as *pathfind.UnknownNodeError.
func (s *Session) Search(ctx context.Context, start, end string) (*pathfind.Result, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "select both a start and a destination city")
	}
	if start == end {
		return nil, errors.New(errors.ErrCodeSameEndpoints, "start and destination are both %s", start)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy() {
		return nil, errors.New(errors.ErrCodeReplayInProgress,
			"replay in progress (%d of %d steps)", s.cursor.Pos(), s.cursor.Len())
	}

	hooks := observability.Search()
	hooks.OnSearchStart(ctx, s.network.Name, start, end)
	began := time.Now()
	res, err := pathfind.FindShortestPath(s.network.Graph, start, end)
	elapsed := time.Since(began)
	if err != nil {
		hooks.OnSearchComplete(ctx, s.network.Name, start, end, 0, elapsed, err)
		return nil, err
	}
	hooks.OnSearchComplete(ctx, s.network.Name, start, end, len(res.Trace), elapsed, nil)

	s.result = res
	s.cursor = NewCursor(res.Trace)
	s.Logger.Debug("route computed",
		"network", s.network.Name,
		"from", start,
		"to", end,
		"distance", res.Distance,
		"steps", len(res.Trace))
	return res, nil
}

// Step applies the next trace event to r. It returns false when there is
// no trace or the trace is exhausted.
func (s *Session) Step(ctx context.Context, r Renderer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == nil {
		return false
	}
	ev, ok := s.cursor.Next()
	if !ok {
		return false
	}
	Apply(r, ev)

	hooks := observability.Replay()
	hooks.OnStep(ctx, string(ev.Kind), s.cursor.Pos(), s.cursor.Len())
	if s.cursor.Done() {
		hooks.OnReplayDone(ctx, s.cursor.Len())
		s.Logger.Debug("replay finished", "steps", s.cursor.Len())
	}
	return true
}

// Seek resets r and re-applies the first n events, leaving the cursor at n.
// n is clamped to the trace length.
func (s *Session) Seek(r Renderer, n int) error {
	if n < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "seek position %d is negative", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == nil {
		return errors.New(errors.ErrCodeNotFound, "no route has been searched")
	}
	r.Reset()
	r.ClearSummary()
	s.cursor.Rewind()
	for range n {
		ev, ok := s.cursor.Next()
		if !ok {
			break
		}
		Apply(r, ev)
	}
	return nil
}

// Reset discards the result and cursor and clears r. r may be nil.
func (s *Session) Reset(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
	s.cursor = nil
	if r != nil {
		r.Reset()
		r.ClearSummary()
	}
}
