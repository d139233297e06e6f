// Package health serves liveness and readiness probes for long-running
// csvexport processes such as the watch command.
//
// /health answers as long as the process serves requests. /ready runs
// every registered check concurrently, each bounded by the checker's
// timeout, and answers 503 when any of them fails:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("history", func(ctx context.Context) error {
//		_, err := store.Count(ctx, nil)
//		return err
//	})
//	checker.Mount(mux, "1.0.0", "abc123", "2026-01-01")
package health
