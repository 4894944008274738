package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics records outcomes of catalog spreadsheet imports.
type ImportMetrics struct {
	duration *prometheus.HistogramVec
	rows     *prometheus.CounterVec
}

// NewImportMetrics registers the import metrics on the provided registerer.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_import_duration_seconds",
		Help:    "Duration of catalog imports in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"filename"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_import_rows_total",
		Help: "Catalog import rows processed, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, rows)
	return &ImportMetrics{
		duration: duration,
		rows:     rows,
	}
}

// ObserveImport records the duration of one import run.
func (m *ImportMetrics) ObserveImport(filename string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(filename)).Observe(duration.Seconds())
}

// AddRows increments the row counter for the given outcome.
func (m *ImportMetrics) AddRows(outcome string, count int) {
	if m == nil || m.rows == nil || count <= 0 {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(outcome)).Add(float64(count))
}
