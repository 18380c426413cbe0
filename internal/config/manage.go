package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Manager guards the process-wide settings behind a read-write lock so that
// a save on one request never exposes a half-written value to another.
// The backing file is replaced wholesale on every save; last write wins.
type Manager struct {
	path string

	mu        sync.RWMutex
	settings  Settings
	persisted bool
}

// NewManager loads settings from path if the file exists, otherwise starts
// from defaults. Environment overrides are applied on top in both cases.
func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path, settings: Defaults()}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: nothing persisted yet.
	case err != nil:
		return nil, fmt.Errorf("reading settings file: %w", err)
	default:
		if err := json.Unmarshal(data, &m.settings); err != nil {
			return nil, fmt.Errorf("parsing settings file %s: %w", path, err)
		}
		m.persisted = true
	}

	applyEnvOverrides(&m.settings)
	return m, nil
}

// Current returns a snapshot of the active settings.
func (m *Manager) Current() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Persisted reports whether a settings file has ever been written.
func (m *Manager) Persisted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.persisted
}

// Save replaces the active settings and rewrites the backing file.
func (m *Manager) Save(s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	m.settings = s
	m.persisted = true
	return nil
}
