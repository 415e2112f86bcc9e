package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"missingpet-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondServiceError maps a service error to an HTTP response
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var fields services.ValidationError
	switch {
	case errors.As(err, &fields):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
	case errors.Is(err, services.ErrNotFound):
		respondError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, services.ErrEmailTaken):
		respondError(w, "Email already registered", http.StatusConflict)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, services.ErrResetInvalid):
		respondError(w, "Password reset failed", http.StatusBadRequest)
	default:
		respondError(w, fallback, http.StatusInternalServerError)
	}
}

// parsePage reads the 1-based page number from the query string.
// Anything unusable falls back to the first page.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
