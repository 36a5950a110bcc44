package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Per-email pipeline outcomes
	EmailsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_emails_processed_total",
			Help: "Total number of emails run through the grading pipeline",
		},
		[]string{"status"}, // graded, skipped, failed
	)

	GradesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homework_grades_stored_total",
			Help: "Total number of grade records written to the store",
		},
	)

	GraderLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homework_grader_latency_seconds",
			Help:    "LLM grading call latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~100s
		},
	)
)

// RecordProcessed counts one pipeline outcome
func RecordProcessed(status string) {
	EmailsProcessed.WithLabelValues(status).Inc()
}

// RecordGraderLatency records one LLM grading call duration
func RecordGraderLatency(duration time.Duration) {
	GraderLatency.Observe(duration.Seconds())
}

// Serve exposes /metrics on the given address. Blocks; run in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
