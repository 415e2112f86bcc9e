package handlers

import (
	"encoding/json"
	"net/http"

	"missingpet-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication and password-reset HTTP requests
type AuthHandler struct {
	userService  *services.UserService
	resetService *services.ResetService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService, resetService *services.ResetService) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		resetService: resetService,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		respondServiceError(w, err, "Failed to authenticate")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// PasswordResetRequest represents the request body for a reset request
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordReset handles POST /api/v1/auth/password-reset. It responds
// 204 whether or not the email is registered, so the endpoint cannot
// be used to probe for accounts.
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		respondError(w, "email is required", http.StatusBadRequest)
		return
	}

	if err := h.resetService.Request(ctx, req.Email); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to issue reset code")
		respondError(w, "Failed to issue reset code", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PasswordResetConfirmRequest represents the request body for a reset
// confirmation
type PasswordResetConfirmRequest struct {
	Email       string `json:"email"`
	Code        int64  `json:"code"`
	NewPassword string `json:"new_password"`
}

// PasswordResetConfirm handles POST /api/v1/auth/password-reset/confirm
func (h *AuthHandler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.resetService.Confirm(ctx, req.Email, req.Code, req.NewPassword); err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Password reset confirmation failed")
		respondServiceError(w, err, "Failed to reset password")
		return
	}

	log.Info().Str("email", req.Email).Msg("Password reset completed")

	w.WriteHeader(http.StatusNoContent)
}
