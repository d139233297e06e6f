package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"cytosight/csvexport/pkg/dataset"
	"cytosight/csvexport/pkg/telemetry/logging"
)

// DefaultExtension is appended to the dataset name by SuggestPath.
const DefaultExtension = ".csv"

// Observer is notified after every export, whatever the outcome.
type Observer interface {
	ExportFinished(ctx context.Context, result *Result)
}

// Options configures an Exporter.
type Options struct {
	// LastDirectory seeds SuggestPath. It is updated after every written
	// export.
	LastDirectory string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Observers receive every Result.
	Observers []Observer

	// Now overrides the clock for tests.
	Now func() time.Time
}

// Exporter writes datasets to delimited text files.
type Exporter struct {
	logger    *slog.Logger
	observers []Observer
	now       func() time.Time

	mu            sync.Mutex
	lastDirectory string
}

// New creates an Exporter.
func New(opts Options) *Exporter {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Exporter{
		logger:        logging.Component(opts.Logger, "export"),
		observers:     opts.Observers,
		now:           now,
		lastDirectory: opts.LastDirectory,
	}
}

// LastDirectory returns the directory of the most recent written export,
// or the configured starting directory.
func (e *Exporter) LastDirectory() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastDirectory
}

// SuggestPath proposes a target for ds: its name with DefaultExtension in
// the last directory.
func (e *Exporter) SuggestPath(ds dataset.Dataset) string {
	return filepath.Join(e.LastDirectory(), ds.Name()+DefaultExtension)
}

// Export writes the dataset held by h to path. An empty path means the
// caller declined to choose a target; nothing is written. The returned
// Result is never nil. The error is non-nil for failure outcomes only.
func (e *Exporter) Export(ctx context.Context, h *dataset.Handle, path string, task Task) (*Result, error) {
	if task == nil {
		task = NopTask{}
	}
	ds := h.Dataset

	r := &Result{
		ID:        uuid.NewString(),
		Dataset:   ds.Name(),
		Kind:      ds.Kind(),
		Path:      path,
		StartedAt: e.now(),
	}
	ctx = logging.WithExportID(ctx, r.ID)
	ctx = logging.WithDataset(ctx, r.Dataset)
	ctx = logging.WithKind(ctx, string(r.Kind))
	log := logging.FromContext(ctx, e.logger)

	err := e.run(ctx, log, h, path, task, r)

	r.FinishedAt = e.now()
	if err != nil {
		r.Error = err.Error()
	}
	e.logResult(ctx, log, r, err)
	for _, o := range e.observers {
		o.ExportFinished(ctx, r)
	}
	return r, err
}

func (e *Exporter) run(ctx context.Context, log *slog.Logger, h *dataset.Handle, path string, task Task, r *Result) error {
	if path == "" {
		r.Outcome = OutcomeNothingToWrite
		return nil
	}

	release, err := dataset.Acquire(h.Dataset)
	defer release()
	if err != nil {
		r.Outcome = OutcomeBusy
		return NewExportError("lock", path, r.Kind, err)
	}

	task.SetRunning()
	task.SetProgressDescription(fmt.Sprintf("Exporting %s", r.Dataset))

	var props *PointTable
	var render func(context.Context, io.Writer) (Stats, error)
	switch src := h.Dataset.(type) {
	case dataset.PointSource:
		table := e.pointTable(ctx, log, h, src, task, r)
		render = table.Render
		if table.HasProperties() {
			props = table
		}
	case dataset.ClusterSource:
		table := e.clusterTable(h, src, task)
		render = table.Render
	default:
		r.Outcome = OutcomeFailed
		return NewExportError("render", path, r.Kind, fmt.Errorf("unsupported dataset type %T", h.Dataset))
	}

	f, err := createTarget(path)
	if err != nil {
		r.Outcome = OutcomeOpenFailed
		return NewExportError("open", path, r.Kind, unwritable(err))
	}

	stats, err := render(ctx, f)
	closeErr := f.Close()
	r.Rows = stats.Rows
	r.Columns = stats.Columns
	r.RowLabels = stats.RowLabels
	r.Unassigned = stats.Unassigned

	if err == nil {
		err = closeErr
	}
	if err != nil {
		r.Outcome = OutcomeFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			r.Outcome = OutcomeCancelled
		}
		if rmErr := os.Remove(path); rmErr != nil {
			log.WarnContext(ctx, "failed to remove partial file", "path", path, "error", rmErr)
		}
		return NewExportError("write", path, r.Kind, err)
	}

	if h.Dataset.Kind() == dataset.KindClusters {
		labels, found := ResolveRowLabels(h.Lineage)
		if found && !stats.RowLabels {
			e.degrade(ctx, log, r, DegradedRowLabels, "row labels do not match cluster slots",
				"labels", len(labels), "slots", stats.Rows+stats.Unassigned)
		}
	}

	if props != nil {
		e.writeProperties(ctx, log, props, path, r)
	}

	r.Outcome = OutcomeWritten
	if dir, err := filepath.Abs(filepath.Dir(path)); err == nil {
		r.Directory = dir
		e.mu.Lock()
		e.lastDirectory = dir
		e.mu.Unlock()
	}
	return nil
}

// pointTable resolves side channels for a point dataset. A "Sample Names"
// property on the dataset itself that fits the row count wins over
// inherited labels.
func (e *Exporter) pointTable(ctx context.Context, log *slog.Logger, h *dataset.Handle, src dataset.PointSource, task Task, r *Result) *PointTable {
	rows, dims := src.RowCount(), src.DimensionCount()
	labels, found := ResolveRowLabels(h.Lineage)
	c := ClassifyProperties(h.Dataset, rows, dims)
	if c.RowLabels != nil {
		labels, found = c.RowLabels, true
	}

	if found && len(labels) != rows {
		e.degrade(ctx, log, r, DegradedRowLabels, "row labels do not match row count",
			"labels", len(labels), "rows", rows)
	}
	for _, name := range c.Dropped {
		if name == dataset.SampleNamesProperty {
			// Reported as row_labels above when it matters.
			continue
		}
		e.degrade(ctx, log, r, DegradedPropertyPrefix+name, "property fits neither rows nor columns",
			"property", name)
	}

	return &PointTable{
		Source:    src,
		RowLabels: labels,
		PerColumn: c.PerColumn,
		Task:      task,
	}
}

func (e *Exporter) clusterTable(h *dataset.Handle, src dataset.ClusterSource, task Task) *ClusterTable {
	labels, _ := ResolveRowLabels(h.Lineage)
	return &ClusterTable{
		Clusters:  src.Clusters(),
		RowLabels: labels,
		Task:      task,
	}
}

// writeProperties writes the sidecar. Failures never fail the export.
func (e *Exporter) writeProperties(ctx context.Context, log *slog.Logger, table *PointTable, path string, r *Result) {
	propsPath := PropertiesPath(path)
	f, err := createTarget(propsPath)
	if err != nil {
		r.SidecarSkipped = true
		log.WarnContext(ctx, "properties file not writable, skipping",
			"path", propsPath, "error", unwritable(err))
		return
	}

	err = table.RenderProperties(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		r.SidecarSkipped = true
		log.WarnContext(ctx, "failed to write properties file", "path", propsPath, "error", err)
		return
	}
	r.PropertiesPath = propsPath
}

func (e *Exporter) degrade(ctx context.Context, log *slog.Logger, r *Result, channel, msg string, args ...any) {
	r.Degraded = append(r.Degraded, channel)
	log.DebugContext(ctx, msg, args...)
}

func (e *Exporter) logResult(ctx context.Context, log *slog.Logger, r *Result, err error) {
	switch r.Outcome {
	case OutcomeWritten:
		log.InfoContext(ctx, "export finished",
			"path", r.Path,
			"rows", r.Rows,
			"columns", r.Columns,
			"sidecar_skipped", r.SidecarSkipped,
			"duration", r.Duration(),
		)
	case OutcomeNothingToWrite:
		log.InfoContext(ctx, "no target chosen, nothing written")
	case OutcomeCancelled:
		log.InfoContext(ctx, "export cancelled", "rows", r.Rows)
	default:
		log.ErrorContext(ctx, "export failed", "outcome", r.Outcome, "error", err)
	}
}
