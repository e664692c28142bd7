package service

import (
	"go.uber.org/zap"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
)

type settingsStore interface {
	Load() (models.KioskSettings, error)
	Save(settings models.KioskSettings) error
}

// SettingsService exposes the admin toggles. The traffic mode is resolved
// here into a per-call write policy; the attendance engine itself never
// reads ambient state.
type SettingsService struct {
	store  settingsStore
	logger *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(store settingsStore, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{store: store, logger: logger}
}

// Get returns the current settings.
func (s *SettingsService) Get() (models.KioskSettings, error) {
	settings, err := s.store.Load()
	if err != nil {
		return settings, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load settings")
	}
	return settings, nil
}

// SetHighTraffic toggles the write mode and persists it immediately.
func (s *SettingsService) SetHighTraffic(enabled bool) (models.KioskSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return settings, err
	}
	settings.HighTraffic = enabled
	if err := s.store.Save(settings); err != nil {
		return settings, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist settings")
	}
	s.logger.Info("traffic mode updated", zap.Bool("high_traffic", enabled))
	return settings, nil
}

// Policy resolves the current write policy for a commit. Load failures
// fall back to local-only, the safe mode.
func (s *SettingsService) Policy() models.WritePolicy {
	settings, err := s.store.Load()
	if err != nil {
		s.logger.Warn("settings load failed, defaulting to local-only writes", zap.Error(err))
		return models.PolicyLocalOnly
	}
	return settings.Policy()
}
