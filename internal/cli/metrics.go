package cli

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/railpath/pkg/observability"
)

const metricsNamespace = "railpath"

// metrics exports observability events as Prometheus series. Each hook
// forwards to the hooks that were registered before it, so --verbose
// logging keeps working while the server is instrumented.
type metrics struct {
	registry *prometheus.Registry

	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchSteps    prometheus.Histogram
	replaySteps    *prometheus.CounterVec
	replaysDone    prometheus.Counter
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	inFlight       prometheus.Gauge

	nextSearch observability.SearchHooks
	nextReplay observability.ReplayHooks
	nextRender observability.RenderHooks
	nextHTTP   observability.HTTPHooks
}

// newMetrics creates collectors on a private registry.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "searches_total",
			Help:      "Shortest-path queries by network and outcome.",
		}, []string{"network", "outcome"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent computing a shortest path.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"network"}),
		searchSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "search_trace_events",
			Help:      "Number of events in each search trace.",
			Buckets:   prometheus.LinearBuckets(10, 20, 10),
		}),
		replaySteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "replay_events_total",
			Help:      "Trace events applied during replay, by kind.",
		}, []string{"kind"}),
		replaysDone: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "replays_completed_total",
			Help:      "Replays that reached the end of their trace.",
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "renders_total",
			Help:      "Frame renders by format and outcome.",
		}, []string{"format", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a frame.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		nextSearch: observability.NoopSearchHooks{},
		nextReplay: observability.NoopReplayHooks{},
		nextRender: observability.NoopRenderHooks{},
		nextHTTP:   observability.NoopHTTPHooks{},
	}
	m.registry.MustRegister(
		m.searches, m.searchDuration, m.searchSteps,
		m.replaySteps, m.replaysDone,
		m.renders, m.renderDuration,
		m.requests, m.requestLatency, m.inFlight,
		collectors.NewGoCollector(),
	)
	return m
}

// register installs m for every hook category, chaining to the hooks
// already registered.
func (m *metrics) register() {
	m.nextSearch = observability.Search()
	m.nextReplay = observability.Replay()
	m.nextRender = observability.Render()
	m.nextHTTP = observability.HTTP()
	observability.SetSearchHooks(m)
	observability.SetReplayHooks(m)
	observability.SetRenderHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *metrics) OnSearchStart(ctx context.Context, net, start, end string) {
	m.nextSearch.OnSearchStart(ctx, net, start, end)
}

func (m *metrics) OnSearchComplete(ctx context.Context, net, start, end string, steps int, d time.Duration, err error) {
	m.searches.WithLabelValues(net, outcome(err)).Inc()
	if err == nil {
		m.searchDuration.WithLabelValues(net).Observe(d.Seconds())
		m.searchSteps.Observe(float64(steps))
	}
	m.nextSearch.OnSearchComplete(ctx, net, start, end, steps, d, err)
}

func (m *metrics) OnStep(ctx context.Context, kind string, pos, total int) {
	m.replaySteps.WithLabelValues(kind).Inc()
	m.nextReplay.OnStep(ctx, kind, pos, total)
}

func (m *metrics) OnReplayDone(ctx context.Context, total int) {
	m.replaysDone.Inc()
	m.nextReplay.OnReplayDone(ctx, total)
}

func (m *metrics) OnRenderStart(ctx context.Context, format string) {
	m.nextRender.OnRenderStart(ctx, format)
}

func (m *metrics) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	m.renders.WithLabelValues(format, outcome(err)).Inc()
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	m.nextRender.OnRenderComplete(ctx, format, size, d, err)
}

func (m *metrics) OnRequest(ctx context.Context, method, path string) {
	m.inFlight.Inc()
	m.nextHTTP.OnRequest(ctx, method, path)
}

// OnResponse labels by route pattern rather than raw path so session IDs do
// not create a series each.
func (m *metrics) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	m.inFlight.Dec()
	route := routePattern(ctx)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
	m.nextHTTP.OnResponse(ctx, method, path, status, d)
}

// routePattern returns the chi route pattern matched for the request in ctx,
// or "unmatched" when no route matched.
func routePattern(ctx context.Context) string {
	if rc := chi.RouteContext(ctx); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
