// Package metrics exposes Prometheus counters for optimization runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spboyer/siteselect/internal/models"
)

// StatusError labels runs that ended in an error rather than a summary.
const StatusError = "error"

// Recorder holds the run metrics on a private registry. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rejected prometheus.Counter
}

// NewRecorder registers the run metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "siteselect",
			Name:      "runs_total",
			Help:      "Optimization runs by request mode and outcome.",
		}, []string{"mode", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "siteselect",
			Name:      "run_duration_seconds",
			Help:      "Time spent waiting on the optimization backend.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"mode"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "siteselect",
			Name:      "runs_rejected_total",
			Help:      "Runs refused because another run was outstanding.",
		}),
	}
	r.registry.MustRegister(r.runs, r.duration, r.rejected)
	return r
}

// ObserveRun records a finished run.
func (r *Recorder) ObserveRun(mode models.Mode, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(string(mode), status).Inc()
	r.duration.WithLabelValues(string(mode)).Observe(d.Seconds())
}

// ObserveRejected records a run refused by the single-run guard.
func (r *Recorder) ObserveRejected() {
	if r == nil {
		return
	}
	r.rejected.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
