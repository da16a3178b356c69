// Package wpexport reads a legacy WordPress JSON export and turns each user
// and its meta rows into a flat ParsedProfile.
package wpexport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nawsaafa/talents-acting-sub000/internal/fieldmap"
)

// ID is a legacy identifier. WordPress exporters emit IDs as either JSON
// strings or numbers; both decode to the same string form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("legacy id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Text is a meta value. Values exported from wp_usermeta are usually
// strings, but some exporters emit numbers or booleans unquoted.
type Text string

// UnmarshalJSON accepts any JSON scalar and keeps its textual form.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		*t = Text(data)
	default:
		if b, err := strconv.ParseBool(string(data)); err == nil {
			*t = Text(strconv.FormatBool(b))
			return nil
		}
		*t = Text(data)
	}
	return nil
}

// User is a row from wp_users.
type User struct {
	ID             ID     `json:"ID"`
	Email          string `json:"user_email"`
	DisplayName    string `json:"display_name"`
	UserRegistered string `json:"user_registered"`
	Login          string `json:"user_login,omitempty"`
}

// UserMeta is a row from wp_usermeta.
type UserMeta struct {
	UserID    ID     `json:"user_id"`
	MetaKey   string `json:"meta_key"`
	MetaValue Text   `json:"meta_value"`
}

// Attachment is a media library post owned by a user.
type Attachment struct {
	PostAuthor ID     `json:"post_author"`
	GUID       string `json:"guid,omitempty"`
	MimeType   string `json:"post_mime_type,omitempty"`
	Title      string `json:"post_title,omitempty"`
}

// Export is the root of the legacy export document.
type Export struct {
	Users       []User       `json:"users"`
	UserMeta    []UserMeta   `json:"usermeta"`
	Attachments []Attachment `json:"attachments,omitempty"`
	SiteURL     string       `json:"site_url,omitempty"`
	ExportDate  string       `json:"export_date,omitempty"`
}

// ParsedProfile is one legacy user flattened into semantic fields. Every
// member other than UserID is optional.
type ParsedProfile struct {
	// Identity
	UserID         string `json:"userId"`
	Email          string `json:"email,omitempty"`
	DisplayName    string `json:"displayName,omitempty"`
	UserRegistered string `json:"userRegistered,omitempty"`

	// Demographic
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	Gender     *string `json:"gender,omitempty"`
	AgeMin     *int    `json:"ageMin,omitempty"`
	AgeMax     *int    `json:"ageMax,omitempty"`
	BirthDate  *string `json:"birthDate,omitempty"`
	BirthPlace *string `json:"birthPlace,omitempty"`

	// Physical
	Height            *int    `json:"height,omitempty"`
	Physique          *string `json:"physique,omitempty"`
	EthnicAppearance  *string `json:"ethnicAppearance,omitempty"`
	HairColor         *string `json:"hairColor,omitempty"`
	HairLength        *string `json:"hairLength,omitempty"`
	BeardType         *string `json:"beardType,omitempty"`
	EyeColor          *string `json:"eyeColor,omitempty"`
	HasTattoos        *bool   `json:"hasTattoos,omitempty"`
	TattooDescription *string `json:"tattooDescription,omitempty"`
	HasScars          *bool   `json:"hasScars,omitempty"`
	ScarDescription   *string `json:"scarDescription,omitempty"`

	// Skills
	Languages         []string `json:"languages,omitempty"`
	Accents           []string `json:"accents,omitempty"`
	AthleticSkills    []string `json:"athleticSkills,omitempty"`
	Instruments       []string `json:"instruments,omitempty"`
	PerformanceSkills []string `json:"performanceSkills,omitempty"`
	DanceStyles       []string `json:"danceStyles,omitempty"`

	// Media
	Photos               []string `json:"photos,omitempty"`
	VideoURLs            []string `json:"videoUrls,omitempty"`
	ShowreelURL          *string  `json:"showreelUrl,omitempty"`
	PresentationVideoURL *string  `json:"presentationVideoUrl,omitempty"`

	// Availability
	IsAvailable       *bool    `json:"isAvailable,omitempty"`
	AvailabilityTypes []string `json:"availabilityTypes,omitempty"`
	DailyRate         *int     `json:"dailyRate,omitempty"`
	RateNegotiable    *bool    `json:"rateNegotiable,omitempty"`

	// Contact
	Phone       *string           `json:"phone,omitempty"`
	IMDBURL     *string           `json:"imdbUrl,omitempty"`
	Portfolio   []string          `json:"portfolio,omitempty"`
	SocialMedia map[string]string `json:"socialMedia,omitempty"`

	// Free text
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
}

// List returns the list-valued field named by field, or nil when the field is
// not a list field.
func (p *ParsedProfile) List(field string) []string {
	switch field {
	case fieldmap.FieldLanguages:
		return p.Languages
	case fieldmap.FieldAccents:
		return p.Accents
	case fieldmap.FieldAthleticSkills:
		return p.AthleticSkills
	case fieldmap.FieldInstruments:
		return p.Instruments
	case fieldmap.FieldPerformanceSkills:
		return p.PerformanceSkills
	case fieldmap.FieldDanceStyles:
		return p.DanceStyles
	case fieldmap.FieldPhotos:
		return p.Photos
	case fieldmap.FieldVideoURLs:
		return p.VideoURLs
	case fieldmap.FieldPortfolio:
		return p.Portfolio
	case fieldmap.FieldAvailabilityTypes:
		return p.AvailabilityTypes
	}
	return nil
}
