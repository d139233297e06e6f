// Package metrics provides Prometheus metrics for export runs.
//
// # Overview
//
// The Collector records every export run it observes, plus run history
// store activity and watch mode reloads.
//
// # Metrics Categories
//
//   - Export Metrics: runs by kind and outcome, rows written, duration,
//     skipped properties files, degraded side channels
//   - History Metrics: store operations, pruned runs, prune duration
//   - Watch Metrics: document reloads, watched datasets
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	exporter := export.New(export.Options{
//		Observers: []export.Observer{collector},
//	})
//
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Degraded channel labels for individual properties are capped; once the
// cap is reached further property names are counted as "property:other".
package metrics
