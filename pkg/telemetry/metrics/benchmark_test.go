package metrics

import (
	"context"
	"testing"

	"cytosight/csvexport/pkg/dataset"
	"cytosight/csvexport/pkg/export"

	"github.com/prometheus/client_golang/prometheus"
)

// Benchmark_Collector_ExportFinished benchmarks export recording
func Benchmark_Collector_ExportFinished(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	r := testResult(dataset.KindPoints, export.OutcomeWritten, 1000)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.ExportFinished(ctx, r)
	}
}

// Benchmark_Collector_ExportFinished_Parallel benchmarks parallel export recording
func Benchmark_Collector_ExportFinished_Parallel(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	r := testResult(dataset.KindClusters, export.OutcomeWritten, 1000)
	r.Degraded = []string{"property:gain"}
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			collector.ExportFinished(ctx, r)
		}
	})
}

// Benchmark_CardinalityLimiter_Allow benchmarks the tracked-label fast path
func Benchmark_CardinalityLimiter_Allow(b *testing.B) {
	limiter := NewCardinalityLimiter(100)
	limiter.Allow("property:gain")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("property:gain")
	}
}
