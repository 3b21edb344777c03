package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes metrics in Prometheus exposition format.
type MetricsHandler struct {
	exposer http.Handler
}

// NewMetricsHandler creates a new MetricsHandler. A nil gatherer makes
// the endpoint answer 503.
func NewMetricsHandler(gatherer prometheus.Gatherer) *MetricsHandler {
	if gatherer == nil {
		return &MetricsHandler{}
	}
	return &MetricsHandler{
		exposer: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
}

// Metrics serves the registry.
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.exposer == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	h.exposer.ServeHTTP(w, r)
}
