package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"cytosight/csvexport/pkg/dataset"
	"cytosight/csvexport/pkg/export"
	"cytosight/csvexport/pkg/telemetry/logging"
)

// Reload results passed to ReloadObserver.RecordReload.
const (
	ReloadSuccess = "success"
	ReloadError   = "error"
)

// ReloadObserver is told about every reload. metrics.Collector implements
// it.
type ReloadObserver interface {
	RecordReload(result string)
	SetWatchedDatasets(n int)
}

// Reexporter reloads a dataset document and exports the selected
// datasets into a directory.
type Reexporter struct {
	// Document is the dataset document to load.
	Document string

	// Names selects datasets. Empty exports every dataset in the document.
	Names []string

	// OutDir receives one <name>.csv per dataset.
	OutDir string

	// MaxLineageDepth bounds lineage resolution.
	MaxLineageDepth int

	Exporter *export.Exporter
	Observer ReloadObserver
	Logger   *slog.Logger
}

// Run loads the document once and exports each selected dataset. A
// dataset that fails does not stop the others; the returned error joins
// every failure.
func (r *Reexporter) Run(ctx context.Context) ([]*export.Result, error) {
	log := logging.Component(r.Logger, "watch.reexport")
	ctx = logging.WithSource(ctx, r.Document)

	store, err := dataset.LoadFile(r.Document, r.MaxLineageDepth)
	if err != nil {
		r.record(ReloadError)
		return nil, fmt.Errorf("reload %s: %w", r.Document, err)
	}

	names := r.Names
	if len(names) == 0 {
		names = store.Names()
	}
	if r.Observer != nil {
		r.Observer.SetWatchedDatasets(len(names))
	}

	var results []*export.Result
	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		h, err := store.Open(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path := filepath.Join(r.OutDir, name+export.DefaultExtension)
		res, err := r.Exporter.Export(ctx, h, path, nil)
		results = append(results, res)
		if err != nil {
			errs = append(errs, err)
		}
	}

	err = errors.Join(errs...)
	if err != nil {
		r.record(ReloadError)
		log.WarnContext(ctx, "re-export finished with errors", "document", r.Document, "error", err)
		return results, err
	}
	r.record(ReloadSuccess)
	log.InfoContext(ctx, "re-export finished", "document", r.Document, "datasets", len(results))
	return results, nil
}

func (r *Reexporter) record(result string) {
	if r.Observer != nil {
		r.Observer.RecordReload(result)
	}
}
