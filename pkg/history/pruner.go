package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cytosight/csvexport/pkg/config"
	"cytosight/csvexport/pkg/telemetry/logging"
)

// PruneObserver is told about every completed prune. metrics.Collector
// implements it.
type PruneObserver interface {
	RecordPrune(deleted int64, duration time.Duration)
}

// Pruner enforces run retention.
type Pruner struct {
	store    Store
	config   config.RetentionConfig
	logger   *slog.Logger
	observer PruneObserver
	now      func() time.Time
}

// NewPruner creates a Pruner. observer may be nil.
func NewPruner(store Store, cfg config.RetentionConfig, logger *slog.Logger, observer PruneObserver) *Pruner {
	return &Pruner{
		store:    store,
		config:   cfg,
		logger:   logging.Component(logger, "history.retention"),
		observer: observer,
		now:      time.Now,
	}
}

// Prune deletes runs older than the retention period, then the oldest
// runs beyond MaxRecords. Either phase is skipped when its limit is zero.
// It returns the total number of runs deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	start := p.now()
	var total int64

	if p.config.Days > 0 {
		cutoff := start.AddDate(0, 0, -p.config.Days)
		deleted, err := p.store.DeleteBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
		p.logger.Debug("pruned runs by age",
			"deleted_count", deleted,
			"cutoff_time", cutoff,
			"retention_days", p.config.Days,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.store.Trim(ctx, p.config.MaxRecords)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
		p.logger.Debug("pruned runs by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	if p.observer != nil {
		p.observer.RecordPrune(total, p.now().Sub(start))
	}
	if total > 0 {
		p.logger.Info("history pruning completed",
			"total_deleted", total,
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	}
	return total, nil
}
