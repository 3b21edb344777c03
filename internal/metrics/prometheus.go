package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "usuarios"

// PrometheusRecorder implements Recorder on a dedicated Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	rateLimited   prometheus.Counter
	connsOpened   prometheus.Counter
	connsClosed   prometheus.Counter
	dbFailures    *prometheus.CounterVec
	queryDuration prometheus.Histogram
}

// NewPrometheus creates a recorder with its own registry, including the
// Go runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and method.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the IP rate limiter.",
		}),
		connsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_connections_opened_total",
			Help:      "Database connections opened.",
		}),
		connsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_connections_closed_total",
			Help:      "Database connections closed.",
		}),
		dbFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_failures_total",
				Help:      "Database failures by kind (connection, query).",
			},
			[]string{"kind"},
		),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Latency of the usuarios query including row decoding.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.httpRequests,
		p.httpDuration,
		p.rateLimited,
		p.connsOpened,
		p.connsClosed,
		p.dbFailures,
		p.queryDuration,
	)

	return p
}

// Gatherer returns the registry backing this recorder.
func (p *PrometheusRecorder) Gatherer() prometheus.Gatherer {
	return p.registry
}

// ObserveHTTPRequest records one served request.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// IncRateLimited increments the rate limited counter.
func (p *PrometheusRecorder) IncRateLimited() {
	p.rateLimited.Inc()
}

// IncDBConnectionOpened increments the opened connections counter.
func (p *PrometheusRecorder) IncDBConnectionOpened() {
	p.connsOpened.Inc()
}

// IncDBConnectionClosed increments the closed connections counter.
func (p *PrometheusRecorder) IncDBConnectionClosed() {
	p.connsClosed.Inc()
}

// IncDBFailure increments the failure counter for kind.
func (p *PrometheusRecorder) IncDBFailure(kind string) {
	p.dbFailures.WithLabelValues(kind).Inc()
}

// ObserveQueryDuration records query duration.
func (p *PrometheusRecorder) ObserveQueryDuration(duration time.Duration) {
	p.queryDuration.Observe(duration.Seconds())
}
