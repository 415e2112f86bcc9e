package repository

import (
	"context"
	"errors"
	"fmt"

	"missingpet-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnerFilter selects an ownership partition of the announcements.
// The zero value selects everything; UserID with Exclude=false selects
// the user's own announcements, with Exclude=true the feed (everyone
// else's). Both listing and map views are served by the same filter.
type OwnerFilter struct {
	UserID  string
	Exclude bool
}

// clause renders the filter as a WHERE fragment with $1 bound to the
// user id, or an empty string for the unfiltered partition.
func (f OwnerFilter) clause() (string, []any) {
	if f.UserID == "" {
		return "", nil
	}
	op := "="
	if f.Exclude {
		op = "<>"
	}
	return fmt.Sprintf("WHERE user_id %s $1", op), []any{f.UserID}
}

// AnnouncementRepository handles database operations for announcements
type AnnouncementRepository struct {
	db *pgxpool.Pool
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// Create creates a new announcement
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (id, user_id, description, photo, announcement_type,
			animal_type, address, latitude, longitude, contact_phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.UserID, a.Description, a.Photo, a.AnnouncementType,
		a.AnimalType, a.Address, a.Latitude, a.Longitude, a.ContactPhoneNumber,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

// GetByID retrieves an announcement by ID
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := `
		SELECT id, user_id, description, photo, announcement_type, animal_type,
			address, latitude, longitude, contact_phone_number, created_at, updated_at
		FROM announcements
		WHERE id = $1
	`
	var a models.Announcement
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.Description, &a.Photo, &a.AnnouncementType, &a.AnimalType,
		&a.Address, &a.Latitude, &a.Longitude, &a.ContactPhoneNumber, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("announcement %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	return &a, nil
}

// Update rewrites the mutable fields of an announcement
func (r *AnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	query := `
		UPDATE announcements
		SET description = $1, photo = $2, announcement_type = $3, animal_type = $4,
			address = $5, latitude = $6, longitude = $7, contact_phone_number = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.Exec(ctx, query,
		a.Description, a.Photo, a.AnnouncementType, a.AnimalType,
		a.Address, a.Latitude, a.Longitude, a.ContactPhoneNumber, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("announcement %w", ErrNotFound)
	}
	return nil
}

// Delete deletes an announcement by ID
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM announcements WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("announcement %w", ErrNotFound)
	}
	return nil
}

// List retrieves one partition of the announcements, newest first,
// with LIMIT/OFFSET windowing, plus the partition's total count.
// An unknown user id yields an empty partition, not an error.
func (r *AnnouncementRepository) List(ctx context.Context, filter OwnerFilter, limit, offset int) ([]*models.Announcement, int, error) {
	where, args := filter.clause()

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM announcements %s`, where)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count announcements: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, description, photo, announcement_type, animal_type,
			address, latitude, longitude, contact_phone_number, created_at, updated_at
		FROM announcements
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		err := rows.Scan(
			&a.ID, &a.UserID, &a.Description, &a.Photo, &a.AnnouncementType, &a.AnimalType,
			&a.Address, &a.Latitude, &a.Longitude, &a.ContactPhoneNumber, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating announcements: %w", err)
	}

	return announcements, total, nil
}

// ListMap retrieves the map projection of one partition: coordinates
// and type fields only. Ordering matches List so results stay stable.
func (r *AnnouncementRepository) ListMap(ctx context.Context, filter OwnerFilter) ([]models.MapPoint, error) {
	where, args := filter.clause()

	query := fmt.Sprintf(`
		SELECT id, latitude, longitude, announcement_type, animal_type
		FROM announcements
		%s
		ORDER BY created_at DESC, id
	`, where)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list map points: %w", err)
	}
	defer rows.Close()

	var points []models.MapPoint
	for rows.Next() {
		var p models.MapPoint
		if err := rows.Scan(&p.ID, &p.Latitude, &p.Longitude, &p.AnnouncementType, &p.AnimalType); err != nil {
			return nil, fmt.Errorf("failed to scan map point: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating map points: %w", err)
	}

	return points, nil
}
