// Package store persists migrated talent accounts and profiles. Rows carry the
// legacy WordPress user id so re-runs and rollbacks can find them again.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by finders when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by creates that violate a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
)

// Fixed values written by the migration.
const (
	RoleTalent         = "TALENT"
	ValidationApproved = "APPROVED"
	SubscriptionNone   = "NONE"
)

// Account is a row in talent_accounts.
type Account struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	IsActive          bool      `json:"isActive"`
	MustResetPassword bool      `json:"mustResetPassword"`
	LegacyID          string    `json:"legacyId"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Profile is a row in talent_profiles, owned by one account.
type Profile struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	LegacyID string `json:"legacyId"`

	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Gender      string     `json:"gender"`
	AgeRangeMin int        `json:"ageRangeMin"`
	AgeRangeMax int        `json:"ageRangeMax"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	BirthPlace  *string    `json:"birthPlace,omitempty"`

	Height            *int    `json:"height,omitempty"`
	Physique          *string `json:"physique,omitempty"`
	EthnicAppearance  *string `json:"ethnicAppearance,omitempty"`
	HairColor         *string `json:"hairColor,omitempty"`
	HairLength        *string `json:"hairLength,omitempty"`
	BeardType         *string `json:"beardType,omitempty"`
	EyeColor          *string `json:"eyeColor,omitempty"`
	HasTattoos        bool    `json:"hasTattoos"`
	TattooDescription *string `json:"tattooDescription,omitempty"`
	HasScars          bool    `json:"hasScars"`
	ScarDescription   *string `json:"scarDescription,omitempty"`

	Languages         []string `json:"languages"`
	Accents           []string `json:"accents"`
	AthleticSkills    []string `json:"athleticSkills"`
	Instruments       []string `json:"instruments"`
	PerformanceSkills []string `json:"performanceSkills"`
	DanceStyles       []string `json:"danceStyles"`

	Photos               []string `json:"photos"`
	PrimaryPhoto         *string  `json:"primaryPhoto,omitempty"`
	VideoURLs            []string `json:"videoUrls"`
	ShowreelURL          *string  `json:"showreelUrl,omitempty"`
	PresentationVideoURL *string  `json:"presentationVideoUrl,omitempty"`
	HasShowreel          bool     `json:"hasShowreel"`

	IsAvailable       bool     `json:"isAvailable"`
	AvailabilityTypes []string `json:"availabilityTypes"`
	DailyRate         *int     `json:"dailyRate,omitempty"`
	RateNegotiable    bool     `json:"rateNegotiable"`

	Phone       *string           `json:"phone,omitempty"`
	IMDBURL     *string           `json:"imdbUrl,omitempty"`
	Portfolio   []string          `json:"portfolio"`
	SocialMedia map[string]string `json:"socialMedia,omitempty"`

	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`

	ValidationStatus   string     `json:"validationStatus"`
	ValidatedAt        *time.Time `json:"validatedAt,omitempty"`
	IsPublic           bool       `json:"isPublic"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Store is the relational target of the migration. Finders return
// ErrNotFound; creates return ErrDuplicate on unique violations. Deletes
// report whether a row existed.
type Store interface {
	FindAccountByLegacyID(ctx context.Context, legacyID string) (*Account, error)
	FindAccountByEmail(ctx context.Context, email string) (*Account, error)
	CreateAccount(ctx context.Context, a *Account) error
	DeleteAccountByLegacyID(ctx context.Context, legacyID string) (bool, error)

	FindProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	FindProfileByLegacyID(ctx context.Context, legacyID string) (*Profile, error)
	CreateProfile(ctx context.Context, p *Profile) error
	UpdateProfilePhotos(ctx context.Context, profileID string, photos []string, primary *string) error
	DeleteProfileByLegacyID(ctx context.Context, legacyID string) (bool, error)

	// CountByLegacyIDs counts accounts and profiles carrying any of the ids.
	CountByLegacyIDs(ctx context.Context, legacyIDs []string) (accounts, profiles int, err error)

	Close() error
}
