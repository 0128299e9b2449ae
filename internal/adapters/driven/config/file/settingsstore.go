// Package file provides file-based configuration persistence using TOML.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/askbase/askbase-cli/internal/core/domain"
)

// SettingsStore persists the typed engine settings in a TOML file within the
// askbase config directory. API keys never live here; they come from the
// environment.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a new TOML-based settings store.
// If configDir is empty, defaults to ~/.askbase/settings.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".askbase")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "settings.toml"),
	}, nil
}

// Load reads settings from disk. A missing file yields the defaults; keys
// absent from the file keep their default values.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading settings file: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("parsing settings file: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("invalid settings file: %w", err)
	}
	return settings, nil
}

// Save validates and persists settings to disk with restricted permissions.
func (s *SettingsStore) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// Path returns the settings file location.
func (s *SettingsStore) Path() string {
	return s.filePath
}
