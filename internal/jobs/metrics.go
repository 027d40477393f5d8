package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for batch runs.
type Metrics struct {
	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job metrics against the provided registerer. When the
// registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker provides lifecycle instrumentation helpers for a single run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track spawns a tracker for the given job name.
func (m *Metrics) Track(job string) *Tracker {
	if m == nil {
		return &Tracker{job: job, start: time.Now()}
	}
	return &Tracker{metrics: m, job: job, start: time.Now()}
}

// End finalises the tracker, recording duration, success/failure counts and
// returning the provided error untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
		t.metrics.failures.WithLabelValues(t.job).Inc()
	}
	t.metrics.runs.WithLabelValues(t.job, status).Inc()
	t.metrics.duration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	return err
}

// AddRowOutcomes records how many rows a run confirmed updated and how many
// the database reported back as failed.
func (m *Metrics) AddRowOutcomes(successes, fails int) {
	if m == nil {
		return
	}
	if successes > 0 {
		m.rows.WithLabelValues("success").Add(float64(successes))
	}
	if fails > 0 {
		m.rows.WithLabelValues("fail").Add(float64(fails))
	}
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stmtdelivery_runs_total",
		Help: "Total batch runs partitioned by job name and status.",
	}, []string{"job", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stmtdelivery_run_failures_total",
		Help: "Total fatal failures observed for batch runs.",
	}, []string{"job"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stmtdelivery_run_duration_seconds",
		Help:    "Duration in seconds of batch runs.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stmtdelivery_rows_total",
		Help: "Row-level update outcomes grouped by result.",
	}, []string{"result"})
	registerer.MustRegister(runs, failures, duration, rows)
	return &Metrics{runs: runs, failures: failures, duration: duration, rows: rows}
}
