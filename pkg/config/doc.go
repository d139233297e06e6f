// Package config provides configuration management for csvexport.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides, plus the small state file
// that remembers the last export directory between runs.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("csvexport.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("csvexport.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CSVEXPORT_SECTION_FIELD.
// For example:
//
//   - CSVEXPORT_HISTORY_DRIVER overrides history.driver
//   - CSVEXPORT_HISTORY_RETENTION_DAYS overrides history.retention.days
//   - CSVEXPORT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Process-wide configuration
//
//	if err := config.Initialize(path); err != nil {
//	    return err
//	}
//	cfg := config.GetConfig()
//
// For testing, prefer passing explicit Config instances.
package config
