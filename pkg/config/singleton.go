package config

import "sync"

var (
	mu      sync.RWMutex
	current *Config
	once    sync.Once
)

// Initialize loads the process-wide configuration from path, or from
// defaults and environment alone when path is empty. Later calls are
// no-ops that return nil.
func Initialize(path string) error {
	var err error
	once.Do(func() {
		var cfg *Config
		if cfg, err = LoadConfigWithEnvOverrides(path); err == nil {
			SetConfig(cfg)
		}
	})
	return err
}

// GetConfig returns the process-wide configuration, nil until Initialize
// or SetConfig succeeds.
func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetConfig replaces the process-wide configuration. Commands use it in
// tests to bypass Initialize.
func SetConfig(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	current = cfg
}
