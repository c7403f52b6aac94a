package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeSuccess is the outcome label for successful calls. Failures use the
// failure kind, e.g. "Timeout".
const OutcomeSuccess = "success"

// Recorder holds the Prometheus collectors for pega-mcp. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	tokenRefreshes   *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder on its own registry, with Go runtime and
// process collectors included.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tokenRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pega_mcp_token_refresh_total",
				Help: "Total number of OAuth token requests by outcome",
			},
			[]string{"outcome"},
		),
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pega_mcp_upstream_requests_total",
				Help: "Total number of Pega API operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pega_mcp_upstream_request_duration_seconds",
				Help:    "Duration of Pega API operations in seconds, including authentication",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	r.registry.MustRegister(
		r.tokenRefreshes,
		r.upstreamRequests,
		r.upstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// TokenRefresh counts one token request.
func (r *Recorder) TokenRefresh(outcome string) {
	if r == nil {
		return
	}
	r.tokenRefreshes.WithLabelValues(outcome).Inc()
}

// UpstreamRequest counts one operation and observes its duration.
func (r *Recorder) UpstreamRequest(operation, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(operation, outcome).Inc()
	r.upstreamDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
