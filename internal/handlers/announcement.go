package handlers

import (
	"net/http"
	"strconv"

	"missingpet-backend/internal/middleware"
	"missingpet-backend/internal/models"
	"missingpet-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// multipart form memory limit; the photo itself is capped separately
const maxFormSize = services.MaxPhotoSize + 1<<20

// AnnouncementHandler handles announcement-related HTTP requests
type AnnouncementHandler struct {
	service *services.AnnouncementService
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(service *services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
	}
}

// List handles GET /api/v1/announcements
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := h.service.List(ctx, parsePage(r))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list announcements")
		respondError(w, "Failed to list announcements", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// ListForUser handles GET /api/v1/announcements/user/{user_id}
func (h *AnnouncementHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	page, err := h.service.ListForUser(ctx, userID, parsePage(r))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list user announcements")
		respondError(w, "Failed to list announcements", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// Feed handles GET /api/v1/announcements/feed/{user_id}
func (h *AnnouncementHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	page, err := h.service.Feed(ctx, userID, parsePage(r))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list feed")
		respondError(w, "Failed to list announcements", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// Map handles GET /api/v1/announcements/map
func (h *AnnouncementHandler) Map(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	points, err := h.service.Map(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list map points")
		respondError(w, "Failed to list map points", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// MapForUser handles GET /api/v1/announcements/map/{user_id}
func (h *AnnouncementHandler) MapForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "user_id")

	points, err := h.service.MapExcluding(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list map points")
		respondError(w, "Failed to list map points", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// Get handles GET /api/v1/announcements/{id}
func (h *AnnouncementHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	a, err := h.service.Get(ctx, id)
	if err != nil {
		respondServiceError(w, err, "Failed to get announcement")
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// Create handles POST /api/v1/announcements. The owner of the created
// record is always the authenticated caller; the form carries no owner
// field and one would be ignored if sent.
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	in, photo, ok := parseAnnouncementForm(w, r)
	if !ok {
		return
	}

	a, err := h.service.Create(ctx, userID, in, photo)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create announcement")
		respondServiceError(w, err, "Failed to create announcement")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("announcement_id", a.ID).
		Msg("Announcement created")

	respondJSON(w, http.StatusCreated, a)
}

// Update handles PUT /api/v1/announcements/{id}
func (h *AnnouncementHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	id := chi.URLParam(r, "id")

	in, photo, ok := parseAnnouncementForm(w, r)
	if !ok {
		return
	}

	a, err := h.service.Update(ctx, userID, id, in, photo)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("announcement_id", id).Msg("Failed to update announcement")
		respondServiceError(w, err, "Failed to update announcement")
		return
	}

	respondJSON(w, http.StatusOK, a)
}

// Delete handles DELETE /api/v1/announcements/{id}
func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(ctx, userID, id); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("announcement_id", id).Msg("Failed to delete announcement")
		respondServiceError(w, err, "Failed to delete announcement")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("announcement_id", id).
		Msg("Announcement deleted")

	w.WriteHeader(http.StatusNoContent)
}

// parseAnnouncementForm reads the multipart announcement form. It
// responds with 400 itself and returns ok=false when the form cannot
// be parsed; field-value validation is left to the service.
func parseAnnouncementForm(w http.ResponseWriter, r *http.Request) (services.AnnouncementInput, *services.PhotoUpload, bool) {
	var in services.AnnouncementInput

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return in, nil, false
	}

	fields := map[string]string{}
	announcementType, err := strconv.Atoi(r.FormValue("announcement_type"))
	if err != nil {
		fields["announcement_type"] = "announcement_type must be an integer"
	}
	animalType, err := strconv.Atoi(r.FormValue("animal_type"))
	if err != nil {
		fields["animal_type"] = "animal_type must be an integer"
	}
	latitude, err := strconv.ParseFloat(r.FormValue("latitude"), 64)
	if err != nil {
		fields["latitude"] = "latitude must be a number"
	}
	longitude, err := strconv.ParseFloat(r.FormValue("longitude"), 64)
	if err != nil {
		fields["longitude"] = "longitude must be a number"
	}
	if len(fields) > 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
		return in, nil, false
	}

	in = services.AnnouncementInput{
		Description:        r.FormValue("description"),
		AnnouncementType:   models.AnnouncementType(announcementType),
		AnimalType:         models.AnimalType(animalType),
		Address:            r.FormValue("address"),
		Latitude:           latitude,
		Longitude:          longitude,
		ContactPhoneNumber: r.FormValue("contact_phone_number"),
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		// photo is optional here; Create requires it in the service
		return in, nil, true
	}
	photo := &services.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return in, photo, true
}
