package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"missingpet-backend/internal/models"
	"missingpet-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxNicknameLength = 64
	minPasswordLength = 8
)

// UserRepository is the storage surface the user service needs
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// UserService handles registration and authentication
type UserService struct {
	users         UserRepository
	jwtSecret     string
	tokenLifetime time.Duration
	now           func() time.Time
}

// NewUserService creates a new user service
func NewUserService(users UserRepository, jwtSecret string, tokenLifetime time.Duration) *UserService {
	return &UserService{
		users:         users,
		jwtSecret:     jwtSecret,
		tokenLifetime: tokenLifetime,
		now:           time.Now,
	}
}

// Register creates a new account. Email, nickname and password are all
// required; the password is stored as a bcrypt hash, never in plaintext.
func (s *UserService) Register(ctx context.Context, email, nickname, password string) (*models.User, error) {
	fields := ValidationError{}
	if email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "invalid email address"
	}
	if nickname == "" {
		fields["nickname"] = "nickname is required"
	} else if len(nickname) > maxNicknameLength {
		fields["nickname"] = fmt.Sprintf("nickname must be at most %d characters", maxNicknameLength)
	}
	if password == "" {
		fields["password"] = "password is required"
	} else if len(password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if len(fields) > 0 {
		return nil, fields
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies email+password and returns a signed bearer
// token. Every failure surfaces as ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateJWT(user.ID)
}

// GetByID retrieves account information for a user
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     s.now().Add(s.tokenLifetime).Unix(),
		"iat":     s.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
