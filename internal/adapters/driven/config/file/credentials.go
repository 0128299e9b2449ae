package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Credentials holds API keys for remote backends. Environment variables take
// precedence over this file at service construction.
type Credentials struct {
	OpenAIKey string `toml:"openai_api_key"`
	GroqKey   string `toml:"groq_api_key"`
}

// CredentialsStore persists API keys in a mode 0600 TOML file, separate from
// the settings so the settings file stays safe to share.
type CredentialsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewCredentialsStore creates a credentials store.
// If configDir is empty, defaults to ~/.askbase/credentials.toml.
func NewCredentialsStore(configDir string) (*CredentialsStore, error) {
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

	return &CredentialsStore{
		filePath: filepath.Join(configDir, "credentials.toml"),
	}, nil
}

// Load reads stored credentials. A missing file yields empty credentials.
func (s *CredentialsStore) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var creds Credentials
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, fmt.Errorf("reading credentials file: %w", err)
	}
	if err := toml.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials file: %w", err)
	}
	return creds, nil
}

// Save persists credentials with restricted permissions.
func (s *CredentialsStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	return nil
}

// Path returns the credentials file location.
func (s *CredentialsStore) Path() string {
	return s.filePath
}
