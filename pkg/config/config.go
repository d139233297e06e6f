package config

import "time"

// Config is the root configuration structure for csvexport.
// It contains the export defaults, run history storage, watch mode and
// telemetry settings.
type Config struct {
	// Export contains settings applied to every export run.
	Export ExportConfig `yaml:"export"`

	// History contains configuration for the export run history store
	// including driver selection and retention.
	History HistoryConfig `yaml:"history"`

	// Watch contains configuration for re-exporting datasets when their
	// source document changes.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ExportConfig contains settings for export runs.
type ExportConfig struct {
	// LastDirectory is the directory suggested for the next export when no
	// persisted state overrides it.
	// Default: "" (current directory)
	LastDirectory string `yaml:"last_directory"`

	// MaxLineageDepth bounds how many ancestors are collected when a
	// dataset is opened.
	// Default: 64
	MaxLineageDepth int `yaml:"max_lineage_depth"`

	// StateFile is where the last export directory is persisted between
	// runs. Empty disables persistence.
	// Default: "" (disabled)
	StateFile string `yaml:"state_file"`
}

// HistoryConfig contains configuration for the export run history store.
type HistoryConfig struct {
	// Enabled controls whether export runs are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the storage backend.
	// Options: "sqlite3" (cgo driver), "sqlite" (pure Go driver), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file path. Ignored for the memory driver.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// Retention controls automatic pruning of old runs.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains run history retention settings.
type RetentionConfig struct {
	// Days is how many days of runs to keep. Zero keeps runs forever.
	// Default: 90
	Days int `yaml:"days"`

	// MaxRecords caps the number of stored runs. Zero means no cap.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a standard five-field cron expression.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// WatchConfig contains configuration for watch mode.
type WatchConfig struct {
	// Debounce delays re-export until the source document has been quiet
	// for this long.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`

	// Extensions lists the document extensions that trigger a re-export.
	// Default: [".yaml", ".yml", ".json"]
	Extensions []string `yaml:"extensions"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served in watch
	// mode.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where watch mode serves the metrics endpoint.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "csvexport"
	Namespace string `yaml:"namespace"`

	// DurationBuckets defines histogram buckets for export duration (seconds).
	// Default: [0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}
