package config

import (
	"reflect"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name  string
		input Config
		check func(*testing.T, *Config)
	}{
		{
			name:  "empty config gets all defaults",
			input: Config{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Export.MaxLineageDepth != DefaultMaxLineageDepth {
					t.Errorf("expected max lineage depth %d, got %d", DefaultMaxLineageDepth, cfg.Export.MaxLineageDepth)
				}
				if cfg.History.Driver != DefaultHistoryDriver {
					t.Errorf("expected driver %q, got %q", DefaultHistoryDriver, cfg.History.Driver)
				}
				if cfg.History.Path != DefaultHistoryPath {
					t.Errorf("expected history path %q, got %q", DefaultHistoryPath, cfg.History.Path)
				}
				if cfg.History.Retention.PruneSchedule != DefaultRetentionSchedule {
					t.Errorf("expected schedule %q, got %q", DefaultRetentionSchedule, cfg.History.Retention.PruneSchedule)
				}
				if cfg.Watch.Debounce != DefaultWatchDebounce {
					t.Errorf("expected debounce %v, got %v", DefaultWatchDebounce, cfg.Watch.Debounce)
				}
				if !reflect.DeepEqual(cfg.Watch.Extensions, DefaultWatchExtensions) {
					t.Errorf("expected extensions %v, got %v", DefaultWatchExtensions, cfg.Watch.Extensions)
				}
				if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
					t.Errorf("expected logging level %q, got %q", DefaultLoggingLevel, cfg.Telemetry.Logging.Level)
				}
				if cfg.Telemetry.Metrics.Path != DefaultPrometheusPath {
					t.Errorf("expected prometheus path %q, got %q", DefaultPrometheusPath, cfg.Telemetry.Metrics.Path)
				}
			},
		},
		{
			name: "existing values are preserved",
			input: Config{
				Export:  ExportConfig{MaxLineageDepth: 3},
				History: HistoryConfig{Driver: DriverMemory, BusyTimeout: time.Second},
				Watch:   WatchConfig{Debounce: time.Second, Extensions: []string{".json"}},
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Export.MaxLineageDepth != 3 {
					t.Errorf("expected max lineage depth 3, got %d", cfg.Export.MaxLineageDepth)
				}
				if cfg.History.Driver != DriverMemory || cfg.History.BusyTimeout != time.Second {
					t.Errorf("history values overwritten: %+v", cfg.History)
				}
				if cfg.Watch.Debounce != time.Second || !reflect.DeepEqual(cfg.Watch.Extensions, []string{".json"}) {
					t.Errorf("watch values overwritten: %+v", cfg.Watch)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			ApplyDefaults(&cfg)
			tt.check(t, &cfg)
		})
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := Default()
	again := Default()
	ApplyDefaults(again)
	if !reflect.DeepEqual(cfg, again) {
		t.Errorf("ApplyDefaults changed an already-defaulted config")
	}
}

func TestDefault_TrueBooleans(t *testing.T) {
	cfg := Default()
	if !cfg.History.WALMode {
		t.Error("expected WAL mode on by default")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics on by default")
	}
	if cfg.History.Enabled {
		t.Error("expected history off by default")
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestDefault_SlicesAreCopies(t *testing.T) {
	cfg := Default()
	cfg.Watch.Extensions[0] = ".txt"
	if DefaultWatchExtensions[0] == ".txt" {
		t.Error("Default shares the extension slice with the package default")
	}
}
