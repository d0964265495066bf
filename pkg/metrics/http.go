package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics records request counts and latencies for the API surface.
type HTTPMetrics struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics builds a registry with process collectors plus the HTTP instruments.
func NewHTTPMetrics() *HTTPMetrics {
	registry := prometheus.NewRegistry()

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Count of HTTP requests handled.",
	}, []string{"method", "route", "status"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Number of HTTP requests currently being served.",
	})
	registry.MustRegister(duration, requests, inflight)

	return &HTTPMetrics{
		registry: registry,
		duration: duration,
		requests: requests,
		inflight: inflight,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (h *HTTPMetrics) Handler() http.Handler {
	if h == nil || h.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished request.
func (h *HTTPMetrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	h.duration.WithLabelValues(method, normalizeRoute(route), status).Observe(duration.Seconds())
	h.requests.WithLabelValues(method, normalizeRoute(route), status).Inc()
}

// TrackInFlight increments the in-flight gauge and returns a release func.
func (h *HTTPMetrics) TrackInFlight() func() {
	if h == nil || h.inflight == nil {
		return func() {}
	}
	h.inflight.Inc()
	return func() { h.inflight.Dec() }
}

func normalizeRoute(route string) string {
	if route == "" {
		return "unmatched"
	}
	return route
}
