// Package metrics provides Prometheus metrics for the backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ribackend_upstream_calls_total",
			Help: "Total number of upstream Drive listing calls",
		},
		[]string{"operation", "status"},
	)

	upstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ribackend_upstream_call_duration_seconds",
			Help:    "Upstream Drive call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	mailRelayTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ribackend_mail_relay_total",
			Help: "Total number of mail relay attempts",
		},
		[]string{"kind", "status"},
	)
)

// ObserveUpstreamCall records one upstream listing call.
func ObserveUpstreamCall(operation string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	upstreamCallsTotal.WithLabelValues(operation, status).Inc()
	upstreamCallDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveMailRelay records one relay attempt ("contact" or "newsletter").
func ObserveMailRelay(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	mailRelayTotal.WithLabelValues(kind, status).Inc()
}
