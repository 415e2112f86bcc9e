package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"missingpet-backend/internal/models"
	"missingpet-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ResetCodeRepository is the storage surface the reset service needs
type ResetCodeRepository interface {
	Create(ctx context.Context, code *models.PasswordResetCode) error
	GetByUserID(ctx context.Context, userID string) (*models.PasswordResetCode, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// Mailer delivers a reset code to the account owner
type Mailer interface {
	SendResetCode(ctx context.Context, email, nickname string, code int64) error
}

// ResetService handles the password-reset code lifecycle
type ResetService struct {
	codes           ResetCodeRepository
	users           UserRepository
	mailer          Mailer
	codeLength      int
	lifetimeSeconds int64
	now             func() time.Time
}

// NewResetService creates a new password-reset service
func NewResetService(codes ResetCodeRepository, users UserRepository, mailer Mailer, codeLength int, lifetimeSeconds int64) *ResetService {
	return &ResetService{
		codes:           codes,
		users:           users,
		mailer:          mailer,
		codeLength:      codeLength,
		lifetimeSeconds: lifetimeSeconds,
		now:             time.Now,
	}
}

// GenerateCode returns a uniformly random confirmation code with
// exactly length digits, so never with a leading zero.
func GenerateCode(length int) (int64, error) {
	if length < 1 || length > 18 {
		return 0, fmt.Errorf("invalid code length %d", length)
	}
	lower := int64(1)
	for i := 1; i < length; i++ {
		lower *= 10
	}
	upper := lower*10 - 1
	n, err := rand.Int(rand.Reader, big.NewInt(upper-lower+1))
	if err != nil {
		return 0, fmt.Errorf("failed to generate code: %w", err)
	}
	return lower + n.Int64(), nil
}

// Request issues a fresh reset code for the account with the given
// email and mails it out. Any prior codes for that account stop being
// valid. An unknown email is not reported to the caller.
func (s *ResetService) Request(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	code, err := s.issue(ctx, user)
	if err != nil {
		return err
	}

	if err := s.mailer.SendResetCode(ctx, user.Email, user.Nickname, code.Code); err != nil {
		return fmt.Errorf("failed to deliver reset code: %w", err)
	}
	return nil
}

// issue persists a new code for the user, replacing outstanding ones
func (s *ResetService) issue(ctx context.Context, user *models.User) (*models.PasswordResetCode, error) {
	value, err := GenerateCode(s.codeLength)
	if err != nil {
		return nil, err
	}

	if err := s.codes.DeleteByUserID(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to invalidate prior codes: %w", err)
	}

	code := &models.PasswordResetCode{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Code:      value,
		ExpiresAt: s.now().Unix() + s.lifetimeSeconds,
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to store reset code: %w", err)
	}
	return code, nil
}

// Confirm validates a submitted code and, on success, sets the new
// password and consumes the code. Unknown account, wrong code and
// expired code all surface as the same ErrResetInvalid.
func (s *ResetService) Confirm(ctx context.Context, email string, submitted int64, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ValidationError{"new_password": fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetInvalid
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	stored, err := s.codes.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetInvalid
		}
		return fmt.Errorf("failed to get reset code: %w", err)
	}

	if !codeValid(stored, submitted, s.now()) {
		return ErrResetInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// single use: a confirmed code cannot be replayed
	if err := s.codes.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to consume reset code: %w", err)
	}
	return nil
}

// codeValid reports whether the stored code matches the submitted
// value and has not expired at the given instant.
func codeValid(stored *models.PasswordResetCode, submitted int64, now time.Time) bool {
	return stored.Code == submitted && now.Unix() < stored.ExpiresAt
}
