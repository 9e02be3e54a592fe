package replay

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
	"github.com/matzehuels/railpath/pkg/observability"
	"github.com/matzehuels/railpath/pkg/pathfind"
)

// recorder logs every renderer call as a string.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) HighlightNode(id string)        { r.add("node %s", id) }
func (r *recorder) HighlightEdge(from, to string)  { r.add("edge %s %s", from, to) }
func (r *recorder) HighlightPath(path []string)    { r.add("path %v", path) }
func (r *recorder) ShowSummary(s pathfind.Summary) { r.add("summary %s", s) }
func (r *recorder) ClearSummary()                  { r.add("clear") }
func (r *recorder) Reset()                         { r.add("reset") }

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func squareNetwork() network.Network {
	return network.Network{
		Name: "square",
		Graph: network.Graph{
			"A": {"B": 1, "C": 1},
			"B": {"A": 1, "D": 1},
			"C": {"A": 1, "D": 1},
			"D": {"B": 1, "C": 1},
		},
	}
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

var squareCalls = []string{
	"node A",
	"edge A B",
	"edge A C",
	"node B",
	"edge B D",
	"node C",
	"edge C D",
	"node D",
	"path [A B D]",
	"summary 2 km: A → B → D",
}

func TestCursor(t *testing.T) {
	trace := []pathfind.Event{pathfind.VisitNode("A"), pathfind.PathFound("A", []string{"A"}, 0)}
	c := NewCursor(trace)

	if c.Len() != 2 || c.Pos() != 0 || c.Done() || c.Remaining() != 2 {
		t.Fatalf("fresh cursor: len=%d pos=%d done=%v remaining=%d", c.Len(), c.Pos(), c.Done(), c.Remaining())
	}
	ev, ok := c.Next()
	if !ok || ev.Kind != pathfind.KindVisitNode {
		t.Fatalf("Next() = %v, %v", ev, ok)
	}
	if got := len(c.Consumed()); got != 1 {
		t.Errorf("len(Consumed()) = %d, want 1", got)
	}
	c.Next()
	if !c.Done() || c.Remaining() != 0 {
		t.Errorf("after two Next: done=%v remaining=%d", c.Done(), c.Remaining())
	}
	if _, ok := c.Next(); ok {
		t.Error("Next() on exhausted cursor returned true")
	}
	c.Rewind()
	if c.Pos() != 0 || c.Done() {
		t.Errorf("after Rewind: pos=%d done=%v", c.Pos(), c.Done())
	}

	var zero Cursor
	if !zero.Done() {
		t.Error("zero Cursor should be done")
	}
}

func TestApply_UnreachableShowsNoPath(t *testing.T) {
	rec := &recorder{}
	Apply(rec, pathfind.PathFound("C", nil, pathfind.Unreachable))
	want := []string{"summary no path"}
	if got := rec.Calls(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestSession_SearchPolicy(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		code       errors.Code
	}{
		{"empty start", "", "D", errors.ErrCodeInvalidInput},
		{"blank end", "A", "  ", errors.ErrCodeInvalidInput},
		{"same endpoints", "A", "A", errors.ErrCodeSameEndpoints},
		{"unknown city", "A", "Z", errors.ErrCodeUnknownNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(squareNetwork(), quietLogger())
			_, err := s.Search(context.Background(), tt.start, tt.end)
			if !errors.Is(err, tt.code) {
				t.Errorf("Search(%q, %q) error = %v, want code %s", tt.start, tt.end, err, tt.code)
			}
			if s.Result() != nil {
				t.Error("failed search stored a result")
			}
		})
	}
}

func TestSession_StepThroughTrace(t *testing.T) {
	ctx := context.Background()
	s := NewSession(squareNetwork(), quietLogger())
	res, err := s.Search(ctx, "A", "D")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !s.Busy() {
		t.Fatal("session should be busy after a search")
	}

	_, err = s.Search(ctx, "B", "C")
	if !errors.Is(err, errors.ErrCodeReplayInProgress) {
		t.Errorf("second Search error = %v, want REPLAY_IN_PROGRESS", err)
	}

	rec := &recorder{}
	steps := 0
	for s.Step(ctx, rec) {
		steps++
	}
	if steps != len(res.Trace) {
		t.Errorf("steps = %d, want %d", steps, len(res.Trace))
	}
	if got := rec.Calls(); !slices.Equal(got, squareCalls) {
		t.Errorf("calls = %v\nwant %v", got, squareCalls)
	}
	if s.Busy() {
		t.Error("session still busy after the last step")
	}
	if pos, total := s.Progress(); pos != total || total != 9 {
		t.Errorf("Progress() = %d, %d; want 9, 9", pos, total)
	}

	if _, err := s.Search(ctx, "B", "C"); err != nil {
		t.Errorf("Search after replay: %v", err)
	}
}

func TestSession_Seek(t *testing.T) {
	s := NewSession(squareNetwork(), quietLogger())
	rec := &recorder{}
	if err := s.Seek(rec, 1); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Seek before Search error = %v, want NOT_FOUND", err)
	}
	if _, err := s.Search(context.Background(), "A", "D"); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if err := s.Seek(rec, 4); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	want := append([]string{"reset", "clear"}, squareCalls[:4]...)
	if got := rec.Calls(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if pos, _ := s.Progress(); pos != 4 {
		t.Errorf("pos = %d, want 4", pos)
	}

	rec2 := &recorder{}
	if err := s.Seek(rec2, 100); err != nil {
		t.Fatalf("Seek past end: %v", err)
	}
	if s.Busy() {
		t.Error("seeking past the end should finish the replay")
	}
	if err := s.Seek(rec2, -1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Seek(-1) error = %v, want INVALID_INPUT", err)
	}
}

func TestSession_Reset(t *testing.T) {
	ctx := context.Background()
	s := NewSession(squareNetwork(), quietLogger())
	if _, err := s.Search(ctx, "A", "D"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	rec := &recorder{}
	s.Step(ctx, rec)
	s.Reset(rec)

	if s.Busy() || s.Result() != nil {
		t.Error("Reset should clear the result and cursor")
	}
	if s.Step(ctx, rec) {
		t.Error("Step after Reset returned true")
	}
	want := []string{"node A", "reset", "clear"}
	if got := rec.Calls(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	s.Reset(nil)
}

func TestPlay(t *testing.T) {
	s := NewSession(squareNetwork(), quietLogger())
	if _, err := s.Search(context.Background(), "A", "D"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	rec := &recorder{}
	if err := Play(context.Background(), s, rec, time.Millisecond); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := rec.Calls(); !slices.Equal(got, squareCalls) {
		t.Errorf("calls = %v, want %v", got, squareCalls)
	}
}

func TestPlay_Cancelled(t *testing.T) {
	s := NewSession(network.China(), quietLogger())
	if _, err := s.Search(context.Background(), "哈尔滨", "广州"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Play(ctx, s, Discard, time.Hour)
	if err != context.DeadlineExceeded {
		t.Fatalf("Play error = %v, want deadline exceeded", err)
	}
	if pos, _ := s.Progress(); pos != 1 {
		t.Errorf("pos = %d, want 1 (first event is applied immediately)", pos)
	}
	if !s.Busy() {
		t.Error("cancelled replay should leave the session busy")
	}
}

type countingReplayHooks struct {
	observability.NoopReplayHooks
	mu    sync.Mutex
	steps int
	done  int
}

func (h *countingReplayHooks) OnStep(context.Context, string, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.steps++
}

func (h *countingReplayHooks) OnReplayDone(context.Context, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done++
}

type countingSearchHooks struct {
	observability.NoopSearchHooks
	errs []error
}

func (h *countingSearchHooks) OnSearchComplete(_ context.Context, _, _, _ string, _ int, _ time.Duration, err error) {
	h.errs = append(h.errs, err)
}

func TestSession_Hooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	rh := &countingReplayHooks{}
	sh := &countingSearchHooks{}
	observability.SetReplayHooks(rh)
	observability.SetSearchHooks(sh)

	ctx := context.Background()
	s := NewSession(squareNetwork(), quietLogger())
	if _, err := s.Search(ctx, "A", "Z"); err == nil {
		t.Fatal("Search to unknown city succeeded")
	}
	if _, err := s.Search(ctx, "A", "D"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	for s.Step(ctx, Discard) {
	}

	if rh.steps != 9 || rh.done != 1 {
		t.Errorf("replay hooks: steps=%d done=%d, want 9 and 1", rh.steps, rh.done)
	}
	if len(sh.errs) != 2 || sh.errs[0] == nil || sh.errs[1] != nil {
		t.Errorf("search hooks errs = %v, want [error <nil>]", sh.errs)
	}
}
