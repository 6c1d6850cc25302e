package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fitsTotal     *prometheus.CounterVec
	fitDuration   *prometheus.HistogramVec
	analysisTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tslab_model_fits_total",
				Help: "Total number of model fit attempts",
			},
			[]string{"model_type", "status"},
		),
		fitDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tslab_model_fit_duration_seconds",
				Help:    "Duration of model fit-and-forecast runs in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"model_type"},
		),
		analysisTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tslab_analysis_calls_total",
				Help: "Total number of analysis diagnostic calls",
			},
			[]string{"kind"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tslab_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tslab_cache_lookups_total",
				Help: "Cache lookups by scope and outcome",
			},
			[]string{"scope", "outcome"},
		),
	}
}

// RecordFit records a fit attempt outcome.
func (r *Recorder) RecordFit(modelType, status string) {
	r.fitsTotal.WithLabelValues(modelType, status).Inc()
}

// RecordFitDuration records how long a fit-and-forecast run took.
func (r *Recorder) RecordFitDuration(modelType string, seconds float64) {
	r.fitDuration.WithLabelValues(modelType).Observe(seconds)
}

// RecordAnalysis records one diagnostic call.
func (r *Recorder) RecordAnalysis(kind string) {
	r.analysisTotal.WithLabelValues(kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func (r *Recorder) RecordCacheLookup(scope string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(scope, outcome).Inc()
}
