package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"cytosight/csvexport/pkg/cli"
	"cytosight/csvexport/pkg/telemetry/health"
	"cytosight/csvexport/pkg/watch"

	"github.com/spf13/cobra"
)

var watchFlags struct {
	outDir      string
	noMetrics   bool
	metricsAddr string
}

var watchCmd = &cobra.Command{
	Use:   "watch DOCUMENT [DATASET...]",
	Short: "Re-export datasets whenever their document changes",
	Long: `Export the selected datasets (all when none are named) into --out-dir, then
export them again every time DOCUMENT is saved.

While watching, Prometheus metrics are served at
telemetry.metrics.listen_address + telemetry.metrics.path next to the
/health, /ready and /version probes, and the history retention policy runs
on history.retention.prune_schedule.

Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.outDir, "out-dir", "", "output directory (default: last used directory)")
	watchCmd.Flags().BoolVar(&watchFlags.noMetrics, "no-metrics", false, "do not serve metrics")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-listen", "", "override metrics listen address")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	outDir := watchFlags.outDir
	if outDir == "" {
		outDir = a.exporter.LastDirectory()
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return cli.NewCommandError("watch", outDir, err)
		}
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	reexporter := &watch.Reexporter{
		Document:        args[0],
		Names:           args[1:],
		OutDir:          outDir,
		MaxLineageDepth: cfg.Export.MaxLineageDepth,
		Exporter:        a.exporter,
		Observer:        a.collector,
		Logger:          a.logger,
	}

	fw, err := watch.NewFileWatcher(watch.Config{
		Path:       args[0],
		Debounce:   cfg.Watch.Debounce,
		Extensions: cfg.Watch.Extensions,
		SkipHidden: true,
	}, a.logger)
	if err != nil {
		return cli.NewCommandError("watch", args[0], err)
	}
	defer fw.Stop()

	if scheduler, err := a.startScheduler(ctx); err != nil {
		return cli.NewCommandError("watch", "", err)
	} else if scheduler != nil {
		defer scheduler.Stop()
	}

	if cfg.Telemetry.Metrics.Enabled && !watchFlags.noMetrics {
		addr := cfg.Telemetry.Metrics.ListenAddress
		if watchFlags.metricsAddr != "" {
			addr = watchFlags.metricsAddr
		}
		shutdown := serveMetrics(ctx, a, addr, newChecker(a, args[0], fw))
		defer shutdown()
	}

	if results, err := reexporter.Run(ctx); err != nil {
		a.logger.Warn("initial export incomplete", "error", err)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d datasets to %s\n", len(results), outDir)
	}

	return fw.Watch(ctx, func(ctx context.Context, _ string) error {
		_, err := reexporter.Run(ctx)
		return err
	})
}

// newChecker registers readiness checks for the watched document, the
// watcher and the history store.
func newChecker(a *app, document string, fw *watch.FileWatcher) *health.Checker {
	checker := health.New(2 * time.Second)
	checker.RegisterCheck("document", func(context.Context) error {
		_, err := os.Stat(document)
		return err
	})
	checker.RegisterCheck("watcher", func(context.Context) error {
		if !fw.IsRunning() {
			return errors.New("watcher is not running")
		}
		return nil
	})
	if a.store != nil {
		checker.RegisterCheck("history", func(ctx context.Context) error {
			_, err := a.store.Count(ctx, nil)
			return err
		})
	}
	return checker
}

// serveMetrics starts the metrics and probe endpoints and returns a
// function that shuts them down.
func serveMetrics(ctx context.Context, a *app, addr string, checker *health.Checker) func() {
	mux := a.collector.Mux(a.cfg.Telemetry.Metrics.Path)
	checker.Mount(mux, Version, GitCommit, BuildDate)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("serving metrics", "address", addr, "path", a.cfg.Telemetry.Metrics.Path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}
}
