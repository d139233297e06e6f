package metrics

import (
	"cytosight/csvexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// WatchMetrics tracks watch mode.
//
// Metrics:
//   - csvexport_watch_reloads_total: Source document reloads by result
//   - csvexport_watch_datasets: Datasets currently kept exported
type WatchMetrics struct {
	reloadsTotal *prometheus.CounterVec
	watched      prometheus.Gauge
}

// NewWatchMetrics creates and registers watch metrics with the provided registry.
func NewWatchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "watch_reloads_total",
				Help:      "Total number of source document reloads",
			},
			[]string{"result"},
		),

		watched: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "watch_datasets",
				Help:      "Number of datasets kept exported by watch mode",
			},
		),
	}

	registry.MustRegister(wm.reloadsTotal, wm.watched)

	return wm
}

// RecordReload records a reload.
func (wm *WatchMetrics) RecordReload(result string) {
	wm.reloadsTotal.WithLabelValues(result).Inc()
}

// SetWatched sets the watched dataset gauge.
func (wm *WatchMetrics) SetWatched(n int) {
	wm.watched.Set(float64(n))
}
