// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "explain"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	AnalysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "calls_total",
			Help:      "Model calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "call_duration_seconds",
			Help:      "Model call duration in seconds",
			Buckets:   []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)
)

func ObserveAnalysis(provider, outcome string, d time.Duration) {
	AnalysisTotal.WithLabelValues(provider, outcome).Inc()
	AnalysisDuration.WithLabelValues(provider).Observe(d.Seconds())
}
