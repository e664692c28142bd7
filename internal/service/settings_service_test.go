package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfma-ops/checkin-api/internal/models"
)

type settingsStoreStub struct {
	settings models.KioskSettings
	loadErr  error
	saveErr  error
}

func (s *settingsStoreStub) Load() (models.KioskSettings, error) {
	if s.loadErr != nil {
		return models.KioskSettings{}, s.loadErr
	}
	return s.settings, nil
}

func (s *settingsStoreStub) Save(settings models.KioskSettings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.settings = settings
	return nil
}

func TestSetHighTraffic(t *testing.T) {
	store := &settingsStoreStub{settings: models.KioskSettings{HighTraffic: true}}
	svc := NewSettingsService(store, nil)

	settings, err := svc.SetHighTraffic(false)
	require.NoError(t, err)
	assert.False(t, settings.HighTraffic)
	assert.False(t, store.settings.HighTraffic)
}

func TestPolicyMapping(t *testing.T) {
	store := &settingsStoreStub{settings: models.KioskSettings{HighTraffic: true}}
	svc := NewSettingsService(store, nil)
	assert.Equal(t, models.PolicyLocalOnly, svc.Policy())

	store.settings.HighTraffic = false
	assert.Equal(t, models.PolicyMirror, svc.Policy())
}

func TestPolicyDefaultsToLocalOnlyOnLoadFailure(t *testing.T) {
	store := &settingsStoreStub{loadErr: errors.New("corrupt file")}
	svc := NewSettingsService(store, nil)

	assert.Equal(t, models.PolicyLocalOnly, svc.Policy())
}
