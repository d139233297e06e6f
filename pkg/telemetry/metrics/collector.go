package metrics

import (
	"context"
	"strings"
	"sync"
	"time"

	"cytosight/csvexport/pkg/config"
	"cytosight/csvexport/pkg/export"

	"github.com/prometheus/client_golang/prometheus"
)

// otherChannel replaces degraded channel labels once the cardinality limit
// is reached.
const otherChannel = "property:other"

// Collector owns every Prometheus metric emitted by csvexport. It
// implements export.Observer so it can be attached directly to an
// Exporter.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	exportMetrics  *ExportMetrics
	historyMetrics *HistoryMetrics
	watchMetrics   *WatchMetrics

	// Property names are free text; cap how many become label values.
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector registered on registry. If registry is
// nil a fresh one is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "csvexport"}
//	collector := metrics.NewCollector(cfg, nil)
//	exporter := export.New(export.Options{Observers: []export.Observer{collector}})
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.exportMetrics = NewExportMetrics(cfg, registry)
	c.historyMetrics = NewHistoryMetrics(cfg, registry)
	c.watchMetrics = NewWatchMetrics(cfg, registry)

	return c
}

// ExportFinished records a completed export run.
func (c *Collector) ExportFinished(_ context.Context, r *export.Result) {
	if !c.config.Enabled {
		return
	}

	kind := string(r.Kind)
	c.exportMetrics.RecordExport(kind, string(r.Outcome), r.Duration(), r.Rows)

	if r.SidecarSkipped {
		c.exportMetrics.RecordSidecarSkipped()
	}
	for _, channel := range r.Degraded {
		if strings.HasPrefix(channel, export.DegradedPropertyPrefix) && !c.cardinalityLimiter.Allow(channel) {
			channel = otherChannel
		}
		c.exportMetrics.RecordDegraded(channel)
	}
}

// RecordHistoryWrite records a history store operation outcome.
//
// Parameters:
//   - operation: "record", "list", "prune"
//   - err: nil on success
func (c *Collector) RecordHistoryWrite(operation string, err error) {
	if !c.config.Enabled {
		return
	}

	c.historyMetrics.RecordOperation(operation, err)
}

// RecordPrune records a completed retention prune.
func (c *Collector) RecordPrune(deleted int64, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.historyMetrics.RecordPrune(deleted, duration)
}

// RecordReload records a watch mode reload of a source document.
//
// Parameters:
//   - result: "success" or "error"
func (c *Collector) RecordReload(result string) {
	if !c.config.Enabled {
		return
	}

	c.watchMetrics.RecordReload(result)
}

// SetWatchedDatasets updates the number of datasets watch mode keeps
// exported.
func (c *Collector) SetWatchedDatasets(n int) {
	if !c.config.Enabled {
		return
	}

	c.watchMetrics.SetWatched(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet is already tracked or still fits under
// the limit, tracking it in the latter case.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
