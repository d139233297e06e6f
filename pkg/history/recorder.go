package history

import (
	"context"
	"log/slog"
	"time"

	"cytosight/csvexport/pkg/export"
	"cytosight/csvexport/pkg/telemetry/logging"
)

// DefaultWriteTimeout bounds a single Record call made by a Recorder.
const DefaultWriteTimeout = 5 * time.Second

// OperationObserver is told about every store operation the history
// package performs. metrics.Collector implements it.
type OperationObserver interface {
	RecordHistoryWrite(operation string, err error)
}

// Recorder records every export result in a Store. It implements
// export.Observer.
type Recorder struct {
	store        Store
	logger       *slog.Logger
	observer     OperationObserver
	writeTimeout time.Duration
}

// NewRecorder creates a Recorder. observer may be nil.
func NewRecorder(store Store, logger *slog.Logger, observer OperationObserver) *Recorder {
	return &Recorder{
		store:        store,
		logger:       logging.Component(logger, "history.recorder"),
		observer:     observer,
		writeTimeout: DefaultWriteTimeout,
	}
}

// ExportFinished records r. Cancelled exports are recorded too, so the
// write does not inherit the caller's cancellation. Errors are logged and
// never reach the exporter.
func (rec *Recorder) ExportFinished(ctx context.Context, r *export.Result) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rec.writeTimeout)
	defer cancel()

	err := rec.store.Record(ctx, FromResult(r))
	if rec.observer != nil {
		rec.observer.RecordHistoryWrite("record", err)
	}
	if err != nil {
		rec.logger.ErrorContext(ctx, "failed to record export run",
			"export_id", r.ID,
			"error", err,
		)
		return
	}
	rec.logger.DebugContext(ctx, "export run recorded", "export_id", r.ID)
}

var _ export.Observer = (*Recorder)(nil)
