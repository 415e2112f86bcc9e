package repository

import (
	"context"
	"errors"
	"fmt"

	"missingpet-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository handles database operations for app settings
type SettingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetByName retrieves the settings record with the given name.
// A missing record returns (nil, nil), not an error.
func (r *SettingsRepository) GetByName(ctx context.Context, name string) (*models.Settings, error) {
	query := `
		SELECT settings_name, actual_app_version, min_app_version
		FROM app_settings
		WHERE settings_name = $1
	`
	var s models.Settings
	err := r.db.QueryRow(ctx, query, name).Scan(&s.Name, &s.ActualAppVersion, &s.MinAppVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}
