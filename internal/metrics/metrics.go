// Package metrics holds the Prometheus collectors for roster imports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"padron/internal/padron"
)

// Import records pipeline activity.
type Import struct {
	registry *prometheus.Registry

	uploads       *prometheus.CounterVec
	rowsRead      prometheus.Counter
	lookupBatches *prometheus.CounterVec
	records       *prometheus.CounterVec
	commitLatency *prometheus.HistogramVec
	running       prometheus.Gauge
}

// NewImport registers the import collectors, plus the Go and process
// collectors, on a fresh registry.
func NewImport() *Import {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Import{
		registry: reg,
		uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "padron",
			Name:      "uploads_total",
			Help:      "Roster uploads by result.",
		}, []string{"result"}),
		rowsRead: f.NewCounter(prometheus.CounterOpts{
			Namespace: "padron",
			Name:      "rows_read_total",
			Help:      "Data rows read from uploaded rosters.",
		}),
		lookupBatches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "padron",
			Name:      "lookup_batches_total",
			Help:      "Identifier lookup batches by result.",
		}, []string{"result"}),
		records: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "padron",
			Name:      "records_total",
			Help:      "Committed records by mode and outcome.",
		}, []string{"mode", "outcome"}),
		commitLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "padron",
			Name:      "commit_duration_seconds",
			Help:      "Duration of commit runs.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"mode"}),
		running: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "padron",
			Name:      "imports_running",
			Help:      "Commits currently in progress.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Import) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Import) Registry() *prometheus.Registry { return m.registry }

// Upload counts an upload attempt and the rows it produced.
func (m *Import) Upload(ok bool, rows int) {
	if !ok {
		m.uploads.WithLabelValues("error").Inc()
		return
	}
	m.uploads.WithLabelValues("ok").Inc()
	m.rowsRead.Add(float64(rows))
}

// LookupBatches counts identifier lookup batches.
func (m *Import) LookupBatches(n int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.lookupBatches.WithLabelValues(result).Add(float64(n))
}

// CommitStarted marks a commit as running and returns the function that
// records its outcome.
func (m *Import) CommitStarted(mode padron.Mode) func(padron.ImportOutcome) {
	start := time.Now()
	m.running.Inc()
	return func(out padron.ImportOutcome) {
		m.running.Dec()
		m.commitLatency.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
		m.records.WithLabelValues(string(mode), "created").Add(float64(out.Created))
		m.records.WithLabelValues(string(mode), "updated").Add(float64(out.Updated))
		m.records.WithLabelValues(string(mode), "failed").Add(float64(len(out.Errors)))
	}
}
