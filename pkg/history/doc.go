// Package history records export runs and enforces their retention.
//
// A Recorder observes an export.Exporter and writes one Run per export to
// a Store. Two SQLite backends are available through database/sql: the cgo
// driver github.com/mattn/go-sqlite3 ("sqlite3") and the pure Go
// modernc.org/sqlite ("sqlite"). MemoryStore serves tests and runs that do
// not need persistence.
//
// Pruner deletes runs by age and by count; Scheduler runs it on a cron
// schedule.
package history
