package services

import (
	"fmt"

	"github.com/folio-archive/folio/internal/config"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Settings returns the resolved typed settings.
func (s *SettingsService) Settings() config.Settings {
	return config.Load(s.configStore)
}

// List returns every recognised setting with its effective value,
// defaults included.
func (s *SettingsService) List() []driving.Setting {
	entries := s.Settings().Entries()
	out := make([]driving.Setting, 0, len(entries))
	for _, e := range entries {
		out = append(out, driving.Setting{Key: e[0], Value: e[1]})
	}
	return out
}

// Set validates value against the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	parsed, err := config.Parse(key, value)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}
