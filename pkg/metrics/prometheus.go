package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	statementsSynced *prometheus.CounterVec
	forecastsTotal   *prometheus.CounterVec
	fitFailures      *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		statementsSynced: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincast_statements_synced_total",
				Help: "Total number of statements fetched and persisted",
			},
			[]string{"ticker", "kind"},
		),
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincast_forecasts_total",
				Help: "Total number of completed forecasts",
			},
			[]string{"family"},
		),
		fitFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincast_fit_failures_total",
				Help: "Total number of curve fits that failed to converge",
			},
			[]string{"family"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordStatementSynced records one statement sync.
func (r *Recorder) RecordStatementSynced(ticker, kind string) {
	r.statementsSynced.WithLabelValues(ticker, kind).Inc()
}

// RecordForecast records one completed forecast.
func (r *Recorder) RecordForecast(family string) {
	r.forecastsTotal.WithLabelValues(family).Inc()
}

// RecordFitFailure records a fit that failed to converge.
func (r *Recorder) RecordFitFailure(family string) {
	r.fitFailures.WithLabelValues(family).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
