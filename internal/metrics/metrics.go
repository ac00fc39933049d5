package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

var (
	AnalysesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonet_analyses_total",
			Help: "Total number of analysis requests processed",
		}, []string{"outcome", "source"},
	)
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resonet_analysis_duration_seconds",
			Help:    "End-to-end analysis time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"source"},
	)
	WorkerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonet_worker_failures_total",
			Help: "Inference worker failures by kind",
		}, []string{"kind"},
	)
	CurrentAnalyses = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonet_current_analyses",
			Help: "Number of analyses currently in flight",
		},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonet_http_requests_total",
			Help: "HTTP requests processed",
		}, []string{"path", "method", "status"},
	)
)

// Register installs all collectors exactly once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(AnalysesProcessed, AnalysisDuration, WorkerFailures, CurrentAnalyses, HTTPRequests)
	})
}
