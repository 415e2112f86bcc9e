package handlers

import (
	"net/http"

	"missingpet-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// SettingsHandler handles app-settings HTTP requests
type SettingsHandler struct {
	service *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.service.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get settings")
		respondServiceError(w, err, "Failed to get settings")
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
