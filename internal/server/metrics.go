package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/seqsee/pkg/observability"
)

// Metric label names.
const (
	LabelResult = "result"
	LabelFormat = "format"
	LabelKind   = "kind"
	LabelEvent  = "event"
	LabelMethod = "method"
	LabelRoute  = "route"
	LabelStatus = "status"
	LabelCode   = "code"
)

// Metrics records pipeline, cache and HTTP events as Prometheus metrics. It
// implements the observability hook interfaces; call [Metrics.Install] to
// receive events.
type Metrics struct {
	prepareTotal    *prometheus.CounterVec
	prepareDuration prometheus.Histogram
	chartNodes      prometheus.Histogram
	renderTotal     *prometheus.CounterVec
	renderDuration  prometheus.Histogram
	cacheEvents     *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpInFlight    prometheus.Gauge
	httpDuration    *prometheus.HistogramVec
	httpErrors      *prometheus.CounterVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		prepareTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seqsee_prepare_total",
			Help: "Charts prepared, by result.",
		}, []string{LabelResult}),
		prepareDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seqsee_prepare_duration_seconds",
			Help:    "Time spent preparing one chart, including cache lookups.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		chartNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seqsee_chart_nodes",
			Help:    "Number of nodes per prepared chart.",
			Buckets: prometheus.ExponentialBuckets(8, 4, 6),
		}),
		renderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seqsee_render_total",
			Help: "Render calls, by format and result.",
		}, []string{LabelFormat, LabelResult}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seqsee_render_duration_seconds",
			Help:    "Time spent rendering all requested formats of a document.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seqsee_cache_events_total",
			Help: "Cache lookups and writes, by key kind and event.",
		}, []string{LabelKind, LabelEvent}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seqsee_cache_written_bytes_total",
			Help: "Bytes written to the cache, by key kind.",
		}, []string{LabelKind}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seqsee_http_requests_total",
			Help: "HTTP requests served, by method, route and status.",
		}, []string{LabelMethod, LabelRoute, LabelStatus}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seqsee_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seqsee_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{LabelMethod, LabelRoute}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seqsee_http_errors_total",
			Help: "Failed HTTP requests, by route and error code.",
		}, []string{LabelRoute, LabelCode}),
	}
	reg.MustRegister(
		m.prepareTotal, m.prepareDuration, m.chartNodes,
		m.renderTotal, m.renderDuration,
		m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpInFlight, m.httpDuration, m.httpErrors,
	)
	return m
}

// Install makes m the process-wide receiver of pipeline, cache and HTTP
// events.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (m *Metrics) OnPrepareStart(context.Context, string, int) {}

func (m *Metrics) OnPrepareComplete(_ context.Context, _ string, nodeCount, _ int, d time.Duration, err error) {
	m.prepareTotal.WithLabelValues(result(err)).Inc()
	m.prepareDuration.Observe(d.Seconds())
	if err == nil {
		m.chartNodes.Observe(float64(nodeCount))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		m.renderTotal.WithLabelValues(f, result(err)).Inc()
	}
	m.renderDuration.Observe(d.Seconds())
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.cacheEvents.WithLabelValues(kind, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.cacheEvents.WithLabelValues(kind, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind string, size int) {
	m.cacheEvents.WithLabelValues(kind, "set").Inc()
	m.cacheBytes.WithLabelValues(kind).Add(float64(size))
}

// =============================================================================
// HTTP Hooks
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, route, code string) {
	m.httpErrors.WithLabelValues(route, code).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
