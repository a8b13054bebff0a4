// Package metrics exposes Prometheus instrumentation for the account
// service. All recorders are safe to call on a nil receiver so services
// can run without metrics wired.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "accounts"

// Outcome label values not derived from an error code.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AuthMetrics records authentication and account operation outcomes.
type AuthMetrics struct {
	operations   *prometheus.CounterVec
	hashDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewAuthMetrics creates the collectors and registers them with reg.
func NewAuthMetrics(reg prometheus.Registerer) (*AuthMetrics, error) {
	m := &AuthMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Account operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		hashDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "password_hash_duration_seconds",
			Help:      "Time spent hashing or verifying passwords.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.hashDuration, m.httpRequests, m.httpDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveOperation counts one completed operation.
func (m *AuthMetrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveHash records the duration of a hash ("hash") or compare ("verify").
func (m *AuthMetrics) ObserveHash(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.hashDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveHTTP records one served request.
func (m *AuthMetrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, statusLabel(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
