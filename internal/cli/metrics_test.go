package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/railpath/pkg/observability"
)

// countingSearch records how many completions it was forwarded.
type countingSearch struct {
	observability.NoopSearchHooks
	completed int
}

func (c *countingSearch) OnSearchComplete(context.Context, string, string, string, int, time.Duration, error) {
	c.completed++
}

func TestMetricsChainsPreviousHooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	prev := &countingSearch{}
	observability.SetSearchHooks(prev)

	m := newMetrics()
	m.register()
	if observability.Search() != m {
		t.Fatal("metrics not registered as search hooks")
	}

	observability.Search().OnSearchComplete(context.Background(), "compact", "北京", "深圳", 20, time.Millisecond, nil)
	if prev.completed != 1 {
		t.Errorf("previous hooks saw %d completions, want 1", prev.completed)
	}
	if got := testutil.ToFloat64(m.searches.WithLabelValues("compact", "ok")); got != 1 {
		t.Errorf("searches_total{ok} = %v, want 1", got)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := newMetrics()
	ctx := context.Background()

	m.OnSearchComplete(ctx, "china", "北京", "东京", 0, 0, context.Canceled)
	m.OnStep(ctx, "visit_node", 1, 3)
	m.OnStep(ctx, "visit_edge", 2, 3)
	m.OnStep(ctx, "path_found", 3, 3)
	m.OnReplayDone(ctx, 3)
	m.OnRenderComplete(ctx, "svg", 1024, time.Millisecond, nil)
	m.OnRequest(ctx, http.MethodGet, "/healthz")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"search errors", testutil.ToFloat64(m.searches.WithLabelValues("china", "error")), 1},
		{"visit_node", testutil.ToFloat64(m.replaySteps.WithLabelValues("visit_node")), 1},
		{"path_found", testutil.ToFloat64(m.replaySteps.WithLabelValues("path_found")), 1},
		{"replays done", testutil.ToFloat64(m.replaysDone), 1},
		{"svg renders", testutil.ToFloat64(m.renders.WithLabelValues("svg", "ok")), 1},
		{"in flight", testutil.ToFloat64(m.inFlight), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestServerMetricsEndpoint(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	m := newMetrics()
	m.register()
	ts := newTestServerWith(t, func(s *Server) { s.metrics = m })

	doJSON(t, http.MethodPost, ts.URL+"/api/v1/routes", `{"from": "北京", "to": "深圳"}`, &RouteResponse{})
	var created SessionResponse
	doJSON(t, http.MethodPost, ts.URL+"/api/v1/sessions/", `{"from": "北京", "to": "深圳"}`, &created)
	doJSON(t, http.MethodPost, ts.URL+"/api/v1/sessions/"+created.ID+"/step?n=2", "", &StepResponse{})

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	body := buf.String()

	for _, want := range []string{
		`railpath_searches_total{network="compact",outcome="ok"} 1`,
		`railpath_replay_events_total{kind="visit_node"}`,
		`route="/api/v1/sessions/{id}/step"`,
		`railpath_http_requests_in_flight`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
	if strings.Contains(body, created.ID) {
		t.Error("session IDs must not appear as label values")
	}
}

func TestServerWithoutMetrics(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
