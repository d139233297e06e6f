package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// State is the small amount of data persisted between runs.
type State struct {
	// LastDirectory is the directory of the most recent written export.
	LastDirectory string `yaml:"last_directory"`

	// UpdatedAt records when the state was last saved.
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// LoadState reads persisted state. A missing file yields an empty State.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %q: %w", path, err)
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state file %q: %w", path, err)
	}
	return &st, nil
}

// SaveState writes st to path, creating parent directories as needed. The
// file is replaced atomically.
func SaveState(path string, st *State) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write state file %q: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write state file %q: %w", path, err)
	}
	return nil
}

// ResolveLastDirectory returns the persisted directory when state is
// available, falling back to the configured one.
func (c *Config) ResolveLastDirectory() string {
	if c.Export.StateFile != "" {
		if st, err := LoadState(c.Export.StateFile); err == nil && st.LastDirectory != "" {
			return st.LastDirectory
		}
	}
	return c.Export.LastDirectory
}
