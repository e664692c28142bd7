package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dfma-ops/checkin-api/internal/models"
)

// SettingsStore persists the admin toggles (currently just the traffic
// mode) between process restarts.
type SettingsStore struct {
	path     string
	defaults models.KioskSettings
	mu       sync.Mutex
}

// NewSettingsStore returns a store backed by the given file, falling back
// to defaults when the file does not exist yet.
func NewSettingsStore(path string, defaults models.KioskSettings) *SettingsStore {
	return &SettingsStore{path: path, defaults: defaults}
}

// Load returns the persisted settings or the defaults.
func (s *SettingsStore) Load() (models.KioskSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.defaults, nil
		}
		return s.defaults, fmt.Errorf("read settings: %w", err)
	}
	settings := s.defaults
	if err := json.Unmarshal(raw, &settings); err != nil {
		return s.defaults, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// Save persists the settings immediately.
func (s *SettingsStore) Save(settings models.KioskSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prepare settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
