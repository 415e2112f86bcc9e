package handlers

import (
	"encoding/json"
	"net/http"

	"missingpet-backend/internal/middleware"
	"missingpet-backend/internal/models"
	"missingpet-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// UserInfoResponse carries account information: id, email and nickname
type UserInfoResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

func userInfo(u *models.User) UserInfoResponse {
	return UserInfoResponse{ID: u.ID, Email: u.Email, Nickname: u.Nickname}
}

// Register handles POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(ctx, req.Email, req.Nickname, req.Password)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		respondServiceError(w, err, "Failed to register user")
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("User registered")

	respondJSON(w, http.StatusCreated, userInfo(user))
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get user")
		respondServiceError(w, err, "Failed to get user")
		return
	}

	respondJSON(w, http.StatusOK, userInfo(user))
}
