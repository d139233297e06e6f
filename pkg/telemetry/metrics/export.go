package metrics

import (
	"time"

	"cytosight/csvexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ExportMetrics tracks export runs.
//
// Metrics:
//   - csvexport_exports_total: Export runs by kind and outcome
//   - csvexport_rows_written_total: Data lines written by kind
//   - csvexport_export_duration_seconds: Export duration histogram
//   - csvexport_sidecar_skipped_total: Properties files that could not be written
//   - csvexport_degraded_side_channels_total: Side channels dropped for size mismatch
type ExportMetrics struct {
	exportsTotal   *prometheus.CounterVec
	rowsWritten    *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	sidecarSkipped prometheus.Counter
	degradedTotal  *prometheus.CounterVec
}

// NewExportMetrics creates and registers export metrics with the provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "exports_total",
				Help:      "Total number of export runs",
			},
			[]string{"kind", "outcome"},
		),

		rowsWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rows_written_total",
				Help:      "Total number of data lines written",
			},
			[]string{"kind"},
		),

		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "export_duration_seconds",
				Help:      "Duration of export runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"kind"},
		),

		sidecarSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "sidecar_skipped_total",
				Help:      "Total number of properties files skipped because they were not writable",
			},
		),

		degradedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "degraded_side_channels_total",
				Help:      "Total number of side channels dropped because their size matched neither rows nor columns",
			},
			[]string{"channel"},
		),
	}

	registry.MustRegister(
		em.exportsTotal,
		em.rowsWritten,
		em.exportDuration,
		em.sidecarSkipped,
		em.degradedTotal,
	)

	return em
}

// RecordExport records one export run. Rows are counted for every outcome
// since cancelled and failed runs may have written some.
func (em *ExportMetrics) RecordExport(kind, outcome string, duration time.Duration, rows int) {
	em.exportsTotal.WithLabelValues(kind, outcome).Inc()
	em.exportDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if rows > 0 {
		em.rowsWritten.WithLabelValues(kind).Add(float64(rows))
	}
}

// RecordSidecarSkipped records a skipped properties file.
func (em *ExportMetrics) RecordSidecarSkipped() {
	em.sidecarSkipped.Inc()
}

// RecordDegraded records a dropped side channel.
func (em *ExportMetrics) RecordDegraded(channel string) {
	em.degradedTotal.WithLabelValues(channel).Inc()
}
