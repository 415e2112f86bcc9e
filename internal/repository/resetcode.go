package repository

import (
	"context"
	"errors"
	"fmt"

	"missingpet-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetCodeRepository handles database operations for password-reset codes
type ResetCodeRepository struct {
	db *pgxpool.Pool
}

// NewResetCodeRepository creates a new reset-code repository
func NewResetCodeRepository(db *pgxpool.Pool) *ResetCodeRepository {
	return &ResetCodeRepository{db: db}
}

// Create creates a new reset code
func (r *ResetCodeRepository) Create(ctx context.Context, code *models.PasswordResetCode) error {
	query := `
		INSERT INTO password_reset_codes (id, user_id, code, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, code.ID, code.UserID, code.Code, code.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create reset code: %w", err)
	}
	return nil
}

// GetByUserID retrieves the user's current reset code. Issuing removes
// prior codes, so at most one row exists per user; the latest-expiring
// one is returned regardless.
func (r *ResetCodeRepository) GetByUserID(ctx context.Context, userID string) (*models.PasswordResetCode, error) {
	query := `
		SELECT id, user_id, code, expires_at
		FROM password_reset_codes
		WHERE user_id = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`
	var code models.PasswordResetCode
	err := r.db.QueryRow(ctx, query, userID).Scan(&code.ID, &code.UserID, &code.Code, &code.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reset code %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reset code: %w", err)
	}
	return &code, nil
}

// DeleteByUserID removes all reset codes belonging to a user
func (r *ResetCodeRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM password_reset_codes WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete reset codes: %w", err)
	}
	return nil
}
