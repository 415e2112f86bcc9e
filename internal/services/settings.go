package services

import (
	"context"
	"fmt"

	"missingpet-backend/internal/models"
)

// SettingsRepository is the storage surface the settings service needs
type SettingsRepository interface {
	GetByName(ctx context.Context, name string) (*models.Settings, error)
}

// SettingsService serves the client compatibility record configured
// as the actual one.
type SettingsService struct {
	repo       SettingsRepository
	actualName string
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo SettingsRepository, actualName string) *SettingsService {
	return &SettingsService{repo: repo, actualName: actualName}
}

// Get returns the actual settings record, or ErrNotFound when none
// has been configured yet.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.GetByName(ctx, s.actualName)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if settings == nil {
		return nil, ErrNotFound
	}
	return settings, nil
}
