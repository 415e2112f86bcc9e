package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"missingpet-backend/internal/models"
	"missingpet-backend/internal/repository"
	"missingpet-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnnouncementRepo struct {
	items []*models.Announcement
}

func (f *stubAnnouncementRepo) Create(_ context.Context, a *models.Announcement) error {
	c := *a
	f.items = append(f.items, &c)
	return nil
}

func (f *stubAnnouncementRepo) GetByID(_ context.Context, id string) (*models.Announcement, error) {
	for _, a := range f.items {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, fmt.Errorf("announcement %w", repository.ErrNotFound)
}

func (f *stubAnnouncementRepo) Update(_ context.Context, a *models.Announcement) error {
	for i, existing := range f.items {
		if existing.ID == a.ID {
			c := *a
			f.items[i] = &c
			return nil
		}
	}
	return fmt.Errorf("announcement %w", repository.ErrNotFound)
}

func (f *stubAnnouncementRepo) Delete(_ context.Context, id string) error {
	for i, a := range f.items {
		if a.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("announcement %w", repository.ErrNotFound)
}

func (f *stubAnnouncementRepo) partition(filter repository.OwnerFilter) []*models.Announcement {
	var out []*models.Announcement
	for _, a := range f.items {
		switch {
		case filter.UserID == "":
			out = append(out, a)
		case filter.Exclude && a.UserID != filter.UserID:
			out = append(out, a)
		case !filter.Exclude && a.UserID == filter.UserID:
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *stubAnnouncementRepo) List(_ context.Context, filter repository.OwnerFilter, limit, offset int) ([]*models.Announcement, int, error) {
	all := f.partition(filter)
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *stubAnnouncementRepo) ListMap(_ context.Context, filter repository.OwnerFilter) ([]models.MapPoint, error) {
	var points []models.MapPoint
	for _, a := range f.partition(filter) {
		points = append(points, models.MapPoint{
			ID:               a.ID,
			Latitude:         a.Latitude,
			Longitude:        a.Longitude,
			AnnouncementType: a.AnnouncementType,
			AnimalType:       a.AnimalType,
		})
	}
	return points, nil
}

func seedStub(repo *stubAnnouncementRepo, id, owner string, createdAt time.Time) {
	repo.items = append(repo.items, &models.Announcement{
		ID:                 id,
		UserID:             owner,
		Description:        "seen near the park",
		Photo:              "https://photos.test/" + id + ".jpg",
		AnnouncementType:   models.AnnouncementTypeFound,
		AnimalType:         models.AnimalTypeCat,
		Address:            "Main street 1",
		Latitude:           56.95,
		Longitude:          24.10,
		ContactPhoneNumber: "+3712000000",
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	})
}

func newAnnouncementRouter(repo *stubAnnouncementRepo, pageSize int) http.Handler {
	svc := services.NewAnnouncementService(repo, nil, pageSize)
	h := NewAnnouncementHandler(svc)

	r := chi.NewRouter()
	r.Get("/announcements", h.List)
	r.Get("/announcements/user/{user_id}", h.ListForUser)
	r.Get("/announcements/feed/{user_id}", h.Feed)
	r.Get("/announcements/map", h.Map)
	r.Get("/announcements/map/{user_id}", h.MapForUser)
	r.Get("/announcements/{id}", h.Get)
	return r
}

func doGet(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListAnnouncements_ResponseShape(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	base := time.Unix(1_700_000_000, 0)
	seedStub(repo, "a1", "user-a", base.Add(1*time.Minute))
	seedStub(repo, "a2", "user-a", base.Add(2*time.Minute))
	seedStub(repo, "b1", "user-b", base.Add(3*time.Minute))
	handler := newAnnouncementRouter(repo, 2)

	rec := doGet(t, handler, "/announcements")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items       []map[string]any `json:"items"`
		Page        int              `json:"page"`
		Total       int              `json:"total"`
		HasNext     bool             `json:"has_next"`
		HasPrevious bool             `json:"has_previous"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Items, 2)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 3, body.Total)
	assert.True(t, body.HasNext)
	assert.False(t, body.HasPrevious)
	// newest first
	assert.Equal(t, "b1", body.Items[0]["id"])
}

func TestListAnnouncements_PageParam(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	base := time.Unix(1_700_000_000, 0)
	seedStub(repo, "a1", "user-a", base.Add(1*time.Minute))
	seedStub(repo, "a2", "user-a", base.Add(2*time.Minute))
	seedStub(repo, "a3", "user-a", base.Add(3*time.Minute))
	handler := newAnnouncementRouter(repo, 2)

	rec := doGet(t, handler, "/announcements?page=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items   []map[string]any `json:"items"`
		Page    int              `json:"page"`
		HasNext bool             `json:"has_next"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Page)
	assert.Len(t, body.Items, 1)
	assert.False(t, body.HasNext)

	// unusable page values fall back to the first page
	for _, q := range []string{"?page=0", "?page=-2", "?page=abc", ""} {
		rec := doGet(t, handler, "/announcements"+q)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Page, "query %q", q)
	}
}

func TestFeed_ExcludesRequestedUser(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	base := time.Unix(1_700_000_000, 0)
	seedStub(repo, "a1", "user-a", base.Add(1*time.Minute))
	seedStub(repo, "b1", "user-b", base.Add(2*time.Minute))
	handler := newAnnouncementRouter(repo, 10)

	rec := doGet(t, handler, "/announcements/feed/user-a")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "b1", body.Items[0]["id"])
}

func TestMap_ReducedProjection(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	seedStub(repo, "a1", "user-a", time.Unix(1_700_000_000, 0))
	handler := newAnnouncementRouter(repo, 10)

	rec := doGet(t, handler, "/announcements/map")
	require.Equal(t, http.StatusOK, rec.Code)

	var points []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 1)

	// only the point fields, no description/photo/contact payload
	assert.ElementsMatch(t,
		[]string{"id", "latitude", "longitude", "announcement_type", "animal_type"},
		keys(points[0]))
}

func TestMapForUser_EmptyArray(t *testing.T) {
	repo := &stubAnnouncementRepo{}
	seedStub(repo, "a1", "user-a", time.Unix(1_700_000_000, 0))
	handler := newAnnouncementRouter(repo, 10)

	rec := doGet(t, handler, "/announcements/map/user-a")
	require.Equal(t, http.StatusOK, rec.Code)
	// JSON array even when the partition is empty
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetAnnouncement_NotFound(t *testing.T) {
	handler := newAnnouncementRouter(&stubAnnouncementRepo{}, 10)

	rec := doGet(t, handler, "/announcements/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not found", body.Error)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
