package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cytosight/csvexport/pkg/cli"
	"cytosight/csvexport/pkg/config"
	"cytosight/csvexport/pkg/export"
	"cytosight/csvexport/pkg/history"
	"cytosight/csvexport/pkg/telemetry/logging"
	"cytosight/csvexport/pkg/telemetry/metrics"
)

// app holds the components shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	collector *metrics.Collector
	store     history.Store
	exporter  *export.Exporter
}

// loadConfig returns the process-wide configuration, loading it from
// --config on first use.
func loadConfig() (*config.Config, error) {
	if cfg := config.GetConfig(); cfg != nil {
		return cfg, nil
	}
	if err := config.Initialize(cfgFile); err != nil {
		if errs := cli.ConfigErrors(err); len(errs) > 0 {
			return nil, errs[0]
		}
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	if cfg == nil {
		return nil, cli.NewConfigError("", "configuration not initialized")
	}
	return cfg, nil
}

// newApp wires logging, metrics, the history store and the exporter from
// cfg. Callers must Close the app.
func newApp(cfg *config.Config) (*app, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	a := &app{
		cfg:       cfg,
		logger:    logger.Slog(),
		collector: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
	}
	observers := []export.Observer{a.collector, &stateObserver{path: cfg.Export.StateFile, logger: a.logger}}

	if cfg.History.Enabled {
		a.store, err = history.NewStore(&cfg.History, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		observers = append(observers, history.NewRecorder(a.store, a.logger, a.collector))
	}

	a.exporter = export.New(export.Options{
		LastDirectory: cfg.ResolveLastDirectory(),
		Logger:        a.logger,
		Observers:     observers,
	})
	return a, nil
}

// openHistory returns the store, failing when history is disabled.
func (a *app) openHistory() (history.Store, error) {
	if a.store == nil {
		return nil, cli.NewConfigError("history.enabled", "run history is disabled")
	}
	return a.store, nil
}

// newPruner builds the retention pruner for the open store.
func (a *app) newPruner() *history.Pruner {
	return history.NewPruner(a.store, a.cfg.History.Retention, a.logger, a.collector)
}

// startScheduler runs retention pruning on the configured schedule until
// ctx is done. It is a no-op when history is disabled.
func (a *app) startScheduler(ctx context.Context) (*history.Scheduler, error) {
	if a.store == nil {
		return nil, nil
	}
	s := history.NewScheduler(a.newPruner(), a.cfg.History.Retention.PruneSchedule, a.logger)
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the history store.
func (a *app) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// stateObserver persists the directory of every written export so the
// next run suggests the same place.
type stateObserver struct {
	path   string
	logger *slog.Logger
}

func (s *stateObserver) ExportFinished(ctx context.Context, r *export.Result) {
	if s.path == "" || r.Outcome != export.OutcomeWritten || r.Directory == "" {
		return
	}
	st := &config.State{LastDirectory: r.Directory, UpdatedAt: time.Now().UTC()}
	if err := config.SaveState(s.path, st); err != nil {
		s.logger.WarnContext(ctx, "failed to persist last directory", "path", s.path, "error", err)
	}
}
