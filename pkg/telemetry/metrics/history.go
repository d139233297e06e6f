package metrics

import (
	"time"

	"cytosight/csvexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// HistoryMetrics tracks the run history store.
//
// Metrics:
//   - csvexport_history_operations_total: Store operations by operation and status
//   - csvexport_history_pruned_total: Runs removed by retention
//   - csvexport_history_prune_duration_seconds: Retention prune duration
type HistoryMetrics struct {
	operationsTotal *prometheus.CounterVec
	prunedTotal     prometheus.Counter
	pruneDuration   prometheus.Histogram
}

// NewHistoryMetrics creates and registers history metrics with the provided registry.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "history_operations_total",
				Help:      "Total number of run history store operations",
			},
			[]string{"operation", "status"},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "history_pruned_total",
				Help:      "Total number of runs removed by retention",
			},
		),

		pruneDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "history_prune_duration_seconds",
				Help:      "Duration of retention prunes in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
			},
		),
	}

	registry.MustRegister(
		hm.operationsTotal,
		hm.prunedTotal,
		hm.pruneDuration,
	)

	return hm
}

// RecordOperation records a store operation.
func (hm *HistoryMetrics) RecordOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	hm.operationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordPrune records a completed prune.
func (hm *HistoryMetrics) RecordPrune(deleted int64, duration time.Duration) {
	if deleted > 0 {
		hm.prunedTotal.Add(float64(deleted))
	}
	hm.pruneDuration.Observe(duration.Seconds())
}
