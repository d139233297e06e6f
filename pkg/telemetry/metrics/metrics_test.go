package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cytosight/csvexport/pkg/config"
	"cytosight/csvexport/pkg/dataset"
	"cytosight/csvexport/pkg/export"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		DurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func testResult(kind dataset.Kind, outcome export.Outcome, rows int) *export.Result {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &export.Result{
		ID:         "run",
		Dataset:    "cells",
		Kind:       kind,
		Outcome:    outcome,
		Rows:       rows,
		StartedAt:  start,
		FinishedAt: start.Add(200 * time.Millisecond),
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	NewCollector(cfg, nil)

	if cfg.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("Namespace = %q, want %q", cfg.Namespace, config.DefaultMetricsNamespace)
	}
	if len(cfg.DurationBuckets) == 0 {
		t.Error("expected default duration buckets")
	}
}

func TestCollector_ExportFinished(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	ctx := context.Background()

	collector.ExportFinished(ctx, testResult(dataset.KindPoints, export.OutcomeWritten, 120))
	collector.ExportFinished(ctx, testResult(dataset.KindPoints, export.OutcomeCancelled, 10))
	collector.ExportFinished(ctx, testResult(dataset.KindClusters, export.OutcomeWritten, 5))

	em := collector.exportMetrics
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"points written", testutil.ToFloat64(em.exportsTotal.WithLabelValues("points", "written")), 1},
		{"points cancelled", testutil.ToFloat64(em.exportsTotal.WithLabelValues("points", "cancelled")), 1},
		{"clusters written", testutil.ToFloat64(em.exportsTotal.WithLabelValues("clusters", "written")), 1},
		{"points rows", testutil.ToFloat64(em.rowsWritten.WithLabelValues("points")), 130},
		{"clusters rows", testutil.ToFloat64(em.rowsWritten.WithLabelValues("clusters")), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(em.exportDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestCollector_SidecarAndDegraded(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	r := testResult(dataset.KindPoints, export.OutcomeWritten, 2)
	r.SidecarSkipped = true
	r.Degraded = []string{export.DegradedRowLabels, "property:gain"}
	collector.ExportFinished(context.Background(), r)

	em := collector.exportMetrics
	if got := testutil.ToFloat64(em.sidecarSkipped); got != 1 {
		t.Errorf("sidecar skipped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(em.degradedTotal.WithLabelValues("row_labels")); got != 1 {
		t.Errorf("row_labels degraded = %v, want 1", got)
	}
	if got := testutil.ToFloat64(em.degradedTotal.WithLabelValues("property:gain")); got != 1 {
		t.Errorf("property:gain degraded = %v, want 1", got)
	}
}

func TestCollector_DegradedCardinalityCap(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.cardinalityLimiter = NewCardinalityLimiter(2)

	r := testResult(dataset.KindPoints, export.OutcomeWritten, 1)
	r.Degraded = []string{"property:a", "property:b", "property:c", "property:d", export.DegradedRowLabels}
	collector.ExportFinished(context.Background(), r)

	em := collector.exportMetrics
	if got := testutil.ToFloat64(em.degradedTotal.WithLabelValues(otherChannel)); got != 2 {
		t.Errorf("other = %v, want 2", got)
	}
	if got := testutil.ToFloat64(em.degradedTotal.WithLabelValues("row_labels")); got != 1 {
		t.Errorf("row_labels is never capped, got %v", got)
	}
}

func TestCollector_HistoryAndWatch(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordHistoryWrite("record", nil)
	collector.RecordHistoryWrite("record", errors.New("disk full"))
	collector.RecordPrune(3, 20*time.Millisecond)
	collector.RecordReload("success")
	collector.RecordReload("error")
	collector.SetWatchedDatasets(4)

	hm := collector.historyMetrics
	if got := testutil.ToFloat64(hm.operationsTotal.WithLabelValues("record", "success")); got != 1 {
		t.Errorf("record success = %v", got)
	}
	if got := testutil.ToFloat64(hm.operationsTotal.WithLabelValues("record", "error")); got != 1 {
		t.Errorf("record error = %v", got)
	}
	if got := testutil.ToFloat64(hm.prunedTotal); got != 3 {
		t.Errorf("pruned = %v, want 3", got)
	}

	wm := collector.watchMetrics
	if got := testutil.ToFloat64(wm.reloadsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("reload errors = %v", got)
	}
	if got := testutil.ToFloat64(wm.watched); got != 4 {
		t.Errorf("watched = %v, want 4", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.ExportFinished(context.Background(), testResult(dataset.KindPoints, export.OutcomeWritten, 10))
	collector.RecordPrune(5, time.Second)
	collector.SetWatchedDatasets(2)

	if got := testutil.ToFloat64(collector.exportMetrics.exportsTotal.WithLabelValues("points", "written")); got != 0 {
		t.Errorf("disabled collector recorded exports: %v", got)
	}
	if got := testutil.ToFloat64(collector.historyMetrics.prunedTotal); got != 0 {
		t.Errorf("disabled collector recorded prunes: %v", got)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	for _, label := range []string{"a", "b", "c"} {
		if !limiter.Allow(label) {
			t.Errorf("Allow(%q) = false before limit", label)
		}
	}
	if limiter.Allow("d") {
		t.Error("Allow(d) = true past limit")
	}
	if !limiter.Allow("a") {
		t.Error("Allow(a) = false for tracked label")
	}
	if limiter.Count() != 3 {
		t.Errorf("Count() = %d, want 3", limiter.Count())
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.ExportFinished(context.Background(), testResult(dataset.KindPoints, export.OutcomeWritten, 7))

	server := httptest.NewServer(collector.Mux("/metrics"))
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}
	for _, want := range []string{"test_exports_total", `outcome="written"`, "test_rows_written_total"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := testResult(dataset.KindPoints, export.OutcomeWritten, 1)
			r.Degraded = []string{fmt.Sprintf("property:p%d", i%5)}
			collector.ExportFinished(context.Background(), r)
		}(i)
	}
	wg.Wait()

	if got := testutil.ToFloat64(collector.exportMetrics.exportsTotal.WithLabelValues("points", "written")); got != 20 {
		t.Errorf("exports = %v, want 20", got)
	}
	if got := collector.cardinalityLimiter.Count(); got != 5 {
		t.Errorf("tracked channels = %d, want 5", got)
	}
}
