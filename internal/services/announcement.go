package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"missingpet-backend/internal/models"
	"missingpet-backend/internal/pagination"
	"missingpet-backend/internal/repository"

	"github.com/google/uuid"
)

const (
	maxDescriptionLength = 5000
	maxAddressLength     = 1000
	maxPhoneLength       = 12
)

// AnnouncementRepository is the storage surface the announcement
// service needs. OwnerFilter selects the partition.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter repository.OwnerFilter, limit, offset int) ([]*models.Announcement, int, error)
	ListMap(ctx context.Context, filter repository.OwnerFilter) ([]models.MapPoint, error)
}

// AnnouncementInput carries the client-supplied announcement fields.
// It never carries an owner: the owner is always the authenticated
// caller, whatever the request payload says.
type AnnouncementInput struct {
	Description        string
	AnnouncementType   models.AnnouncementType
	AnimalType         models.AnimalType
	Address            string
	Latitude           float64
	Longitude          float64
	ContactPhoneNumber string
}

func (in *AnnouncementInput) validate() ValidationError {
	fields := ValidationError{}
	if in.Description == "" {
		fields["description"] = "description is required"
	} else if len(in.Description) > maxDescriptionLength {
		fields["description"] = fmt.Sprintf("description must be at most %d characters", maxDescriptionLength)
	}
	if !in.AnnouncementType.Valid() {
		fields["announcement_type"] = "announcement_type must be 1 (lost) or 2 (found)"
	}
	if !in.AnimalType.Valid() {
		fields["animal_type"] = "animal_type must be 1 (dog), 2 (cat) or 3 (other)"
	}
	if in.Address == "" {
		fields["address"] = "address is required"
	} else if len(in.Address) > maxAddressLength {
		fields["address"] = fmt.Sprintf("address must be at most %d characters", maxAddressLength)
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		fields["latitude"] = "latitude must be between -90 and 90"
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		fields["longitude"] = "longitude must be between -180 and 180"
	}
	if in.ContactPhoneNumber == "" {
		fields["contact_phone_number"] = "contact_phone_number is required"
	} else if len(in.ContactPhoneNumber) > maxPhoneLength {
		fields["contact_phone_number"] = fmt.Sprintf("contact_phone_number must be at most %d characters", maxPhoneLength)
	}
	return fields
}

// AnnouncementService handles announcement business logic
type AnnouncementService struct {
	repo     AnnouncementRepository
	storage  PhotoStorage
	pageSize int
	now      func() time.Time
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(repo AnnouncementRepository, storage PhotoStorage, pageSize int) *AnnouncementService {
	return &AnnouncementService{
		repo:     repo,
		storage:  storage,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Create validates the input, uploads the photo and persists a new
// announcement owned by ownerID.
func (s *AnnouncementService) Create(ctx context.Context, ownerID string, in AnnouncementInput, photo *PhotoUpload) (*models.Announcement, error) {
	fields := in.validate()
	if photo == nil {
		fields["photo"] = "photo is required"
	} else if err := photo.check(); err != "" {
		fields["photo"] = err
	}
	if len(fields) > 0 {
		return nil, fields
	}

	photoURL, err := s.storage.Upload(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	now := s.now()
	a := &models.Announcement{
		ID:                 uuid.New().String(),
		UserID:             ownerID,
		Description:        in.Description,
		Photo:              photoURL,
		AnnouncementType:   in.AnnouncementType,
		AnimalType:         in.AnimalType,
		Address:            in.Address,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		ContactPhoneNumber: in.ContactPhoneNumber,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	return a, nil
}

// Update rewrites an announcement's fields. Only the owner may update;
// the photo is replaced only when a new one is supplied.
func (s *AnnouncementService) Update(ctx context.Context, callerID, id string, in AnnouncementInput, photo *PhotoUpload) (*models.Announcement, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != callerID {
		return nil, ErrForbidden
	}

	fields := in.validate()
	if photo != nil {
		if errMsg := photo.check(); errMsg != "" {
			fields["photo"] = errMsg
		}
	}
	if len(fields) > 0 {
		return nil, fields
	}

	if photo != nil {
		photoURL, err := s.storage.Upload(ctx, photo)
		if err != nil {
			return nil, fmt.Errorf("failed to upload photo: %w", err)
		}
		a.Photo = photoURL
	}

	a.Description = in.Description
	a.AnnouncementType = in.AnnouncementType
	a.AnimalType = in.AnimalType
	a.Address = in.Address
	a.Latitude = in.Latitude
	a.Longitude = in.Longitude
	a.ContactPhoneNumber = in.ContactPhoneNumber
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	return a, nil
}

// Delete removes an announcement. Only the owner may delete.
func (s *AnnouncementService) Delete(ctx context.Context, callerID, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if a.UserID != callerID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return nil
}

// Get retrieves a single announcement
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	return a, nil
}

// List returns a page of all announcements, newest first
func (s *AnnouncementService) List(ctx context.Context, page int) (pagination.Page[*models.Announcement], error) {
	return s.list(ctx, repository.OwnerFilter{}, page)
}

// ListForUser returns a page of the announcements owned by userID.
// A user with no announcements gets an empty page, not an error.
func (s *AnnouncementService) ListForUser(ctx context.Context, userID string, page int) (pagination.Page[*models.Announcement], error) {
	return s.list(ctx, repository.OwnerFilter{UserID: userID}, page)
}

// Feed returns a page of everyone else's announcements: the complement
// of ListForUser within List.
func (s *AnnouncementService) Feed(ctx context.Context, userID string, page int) (pagination.Page[*models.Announcement], error) {
	return s.list(ctx, repository.OwnerFilter{UserID: userID, Exclude: true}, page)
}

func (s *AnnouncementService) list(ctx context.Context, filter repository.OwnerFilter, page int) (pagination.Page[*models.Announcement], error) {
	page = pagination.Clamp(page)
	limit, offset := pagination.Window(page, s.pageSize)
	items, total, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return pagination.Page[*models.Announcement]{}, fmt.Errorf("failed to list announcements: %w", err)
	}
	return pagination.New(items, page, s.pageSize, total), nil
}

// Map returns the map projection of all announcements
func (s *AnnouncementService) Map(ctx context.Context) ([]models.MapPoint, error) {
	return s.listMap(ctx, repository.OwnerFilter{})
}

// MapExcluding returns the map projection of the feed partition for
// userID, leaving the user's own announcements out.
func (s *AnnouncementService) MapExcluding(ctx context.Context, userID string) ([]models.MapPoint, error) {
	return s.listMap(ctx, repository.OwnerFilter{UserID: userID, Exclude: true})
}

func (s *AnnouncementService) listMap(ctx context.Context, filter repository.OwnerFilter) ([]models.MapPoint, error) {
	points, err := s.repo.ListMap(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list map points: %w", err)
	}
	if points == nil {
		points = []models.MapPoint{}
	}
	return points, nil
}
