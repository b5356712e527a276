// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VotesCast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpulse_votes_cast_total",
			Help: "Votes received by the ledger, by feedback type and outcome",
		},
		[]string{"type", "outcome"}, // outcome: stored, invalid, error
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpulse_auth_failures_total",
			Help: "Rejected requests and logins, by reason",
		},
		[]string{"reason"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpulse_provider_requests_total",
			Help: "Content provider calls, by section and outcome",
		},
		[]string{"section", "outcome"}, // outcome: ok, error, timeout, panic, disabled
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinpulse_provider_duration_seconds",
			Help:    "Content provider call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"section"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coinpulse_circuit_breaker_state",
			Help: "Provider circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"section"},
	)
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coinpulse_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coinpulse_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
