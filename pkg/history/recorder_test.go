package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"cytosight/csvexport/pkg/dataset"
	"cytosight/csvexport/pkg/export"
)

type opRecorder struct {
	ops  []string
	errs []error
}

func (o *opRecorder) RecordHistoryWrite(op string, err error) {
	o.ops = append(o.ops, op)
	o.errs = append(o.errs, err)
}

func TestRecorder_ExportFinished(t *testing.T) {
	store := NewMemoryStore()
	obs := &opRecorder{}
	rec := NewRecorder(store, nil, obs)

	result := &export.Result{
		ID:             "run-1",
		Dataset:        "cells",
		Kind:           dataset.KindPoints,
		Outcome:        export.OutcomeWritten,
		Path:           "/out/cells.csv",
		PropertiesPath: "/out/cells_properties.csv",
		Rows:           25,
		Columns:        3,
		Degraded:       []string{"property:batch"},
		StartedAt:      base,
		FinishedAt:     base.Add(2 * time.Second),
	}

	// Cancelled exports still get recorded.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.ExportFinished(ctx, result)

	run, err := store.Get(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if run.Kind != "points" || run.Outcome != "written" || run.Rows != 25 {
		t.Errorf("run = %+v", run)
	}
	if run.Duration() != 2*time.Second {
		t.Errorf("Duration() = %v, want 2s", run.Duration())
	}
	if len(obs.ops) != 1 || obs.ops[0] != "record" || obs.errs[0] != nil {
		t.Errorf("observer = %+v, want one successful record", obs)
	}

	// The run owns its slice.
	result.Degraded[0] = "mutated"
	if run, _ := store.Get(context.Background(), "run-1"); run.Degraded[0] != "property:batch" {
		t.Errorf("Degraded aliased the result: %v", run.Degraded)
	}
}

func TestRecorder_StoreFailureIsReported(t *testing.T) {
	boom := errors.New("locked")
	obs := &opRecorder{}
	rec := NewRecorder(&failingStore{MemoryStore: NewMemoryStore(), err: boom}, nil, obs)

	rec.ExportFinished(context.Background(), &export.Result{ID: "x", Kind: dataset.KindClusters})

	if len(obs.errs) != 1 || !errors.Is(obs.errs[0], boom) {
		t.Errorf("observer errors = %v, want %v", obs.errs, boom)
	}
}
