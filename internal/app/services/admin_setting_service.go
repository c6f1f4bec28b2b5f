package services

import (
	"context"

	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/logger"
)

// AdminSettingService manages the system-wide toggles
type AdminSettingService struct {
	settings SettingStore
}

// NewAdminSettingService creates a new admin setting service
func NewAdminSettingService(settings SettingStore) *AdminSettingService {
	return &AdminSettingService{settings: settings}
}

// GetExperienceCounting reports whether students may record experiences
func (s *AdminSettingService) GetExperienceCounting(ctx context.Context) (bool, error) {
	setting, err := s.settings.Get(ctx)
	if err != nil {
		return false, err
	}
	return setting.IsExperienceCountingEnabled, nil
}

// ToggleExperienceCounting flips the toggle and returns the new value
func (s *AdminSettingService) ToggleExperienceCounting(ctx context.Context) (bool, error) {
	setting, err := s.settings.Get(ctx)
	if err != nil {
		return false, err
	}

	enabled := !setting.IsExperienceCountingEnabled
	if err := s.settings.SetExperienceCounting(ctx, enabled); err != nil {
		return false, err
	}

	logger.Info().Bool("enabled", enabled).Msg("Experience counting toggled")
	return enabled, nil
}
