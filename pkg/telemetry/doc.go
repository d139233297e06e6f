// Package telemetry groups the observability packages of csvexport.
//
//   - logging: slog-based structured logging with export context fields
//   - metrics: Prometheus collectors for exports, history and watch reloads
//   - health: liveness and readiness probes for the watch server
package telemetry
