package models

import "time"

// AnnouncementType says whether a pet was lost or found
type AnnouncementType int

const (
	AnnouncementTypeLost  AnnouncementType = 1
	AnnouncementTypeFound AnnouncementType = 2
)

// Valid reports whether the value is a known announcement type
func (t AnnouncementType) Valid() bool {
	return t == AnnouncementTypeLost || t == AnnouncementTypeFound
}

// AnimalType says what kind of animal the announcement is about
type AnimalType int

const (
	AnimalTypeDog   AnimalType = 1
	AnimalTypeCat   AnimalType = 2
	AnimalTypeOther AnimalType = 3
)

// Valid reports whether the value is a known animal type
func (t AnimalType) Valid() bool {
	return t == AnimalTypeDog || t == AnimalTypeCat || t == AnimalTypeOther
}

// User represents a registered account. Email is the login identity.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"-"`
	IsActive     bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Announcement represents one lost/found pet report
type Announcement struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"user_id"`
	Description        string           `json:"description"`
	Photo              string           `json:"photo"`
	AnnouncementType   AnnouncementType `json:"announcement_type"`
	AnimalType         AnimalType       `json:"animal_type"`
	Address            string           `json:"address"`
	Latitude           float64          `json:"latitude"`
	Longitude          float64          `json:"longitude"`
	ContactPhoneNumber string           `json:"contact_phone_number"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// MapPoint is the reduced announcement projection used by the map views
type MapPoint struct {
	ID               string           `json:"id"`
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	AnnouncementType AnnouncementType `json:"announcement_type"`
	AnimalType       AnimalType       `json:"animal_type"`
}

// PasswordResetCode is one outstanding password-reset attempt.
// ExpiresAt is an absolute unix timestamp; the code is valid only
// while the current time is strictly before it.
type PasswordResetCode struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Code      int64  `json:"code"`
	ExpiresAt int64  `json:"expires_at"`
}

// Settings holds client compatibility versions, keyed by a unique name
type Settings struct {
	Name             string `json:"settings_name"`
	ActualAppVersion string `json:"actual_app_version"`
	MinAppVersion    string `json:"min_app_version"`
}
