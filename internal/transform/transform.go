// Package transform turns parsed legacy profiles into account and profile
// records for the target store.
package transform

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/nawsaafa/talents-acting-sub000/internal/fieldmap"
	"github.com/nawsaafa/talents-acting-sub000/internal/store"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpexport"
)

// Default age range used when the legacy profile carries none.
const (
	DefaultAgeMin = 18
	DefaultAgeMax = 25
)

// DefaultPhoneRegion is used to parse phone numbers without a country code.
const DefaultPhoneRegion = "FR"

// AccountDraft is an account ready to be hashed and inserted. Password is
// plaintext until the user migrator hashes it.
type AccountDraft struct {
	Email             string    `json:"email"`
	Password          string    `json:"-"`
	Role              string    `json:"role"`
	IsActive          bool      `json:"isActive"`
	MustResetPassword bool      `json:"mustResetPassword"`
	LegacyID          string    `json:"legacyId"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Transformed is the pair of target records derived from one legacy profile,
// plus the non-fatal warnings raised while deriving them.
type Transformed struct {
	Account  AccountDraft  `json:"account"`
	Profile  store.Profile `json:"profile"`
	LegacyID string        `json:"legacyId"`
	Warnings []string      `json:"warnings"`
}

// Options configures a Transformer. Zero values select the defaults.
type Options struct {
	Now         func() time.Time
	Rand        io.Reader
	PhoneRegion string
	Logger      *slog.Logger
}

// Transformer converts parsed profiles. It holds no per-profile state.
type Transformer struct {
	now         func() time.Time
	rand        io.Reader
	phoneRegion string
	logger      *slog.Logger
}

// New creates a Transformer.
func New(opts Options) *Transformer {
	t := &Transformer{
		now:         opts.Now,
		rand:        opts.Rand,
		phoneRegion: strings.ToUpper(opts.PhoneRegion),
		logger:      opts.Logger,
	}
	if t.now == nil {
		t.now = func() time.Time { return time.Now().UTC() }
	}
	if t.rand == nil {
		t.rand = rand.Reader
	}
	if t.phoneRegion == "" {
		t.phoneRegion = DefaultPhoneRegion
	}
	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}
	return t
}

var defaultTransformer = New(Options{})

// TransformProfile converts p with the default options.
func TransformProfile(p wpexport.ParsedProfile) (*Transformed, error) {
	return defaultTransformer.TransformProfile(p)
}

// TransformAll converts every profile with the default options.
func TransformAll(profiles []wpexport.ParsedProfile) []Transformed {
	return defaultTransformer.TransformAll(profiles)
}

// TransformAll converts every profile, logging and skipping any profile that
// fails. It never returns an error; the output may be shorter than the input.
func (t *Transformer) TransformAll(profiles []wpexport.ParsedProfile) []Transformed {
	out := make([]Transformed, 0, len(profiles))
	for _, p := range profiles {
		tp, err := t.safeTransform(p)
		if err != nil {
			t.logger.Error("transform failed, skipping profile", "legacy_id", p.UserID, "error", err)
			continue
		}
		for _, w := range tp.Warnings {
			t.logger.Debug("transform warning", "legacy_id", p.UserID, "warning", w)
		}
		out = append(out, *tp)
	}
	return out
}

func (t *Transformer) safeTransform(p wpexport.ParsedProfile) (tp *Transformed, err error) {
	defer func() {
		if r := recover(); r != nil {
			tp, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return t.TransformProfile(p)
}

// TransformProfile converts one parsed profile.
func (t *Transformer) TransformProfile(p wpexport.ParsedProfile) (*Transformed, error) {
	password, err := generatePassword(t.rand)
	if err != nil {
		return nil, err
	}

	now := t.now()
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	createdAt := now
	if d := fieldmap.ParseDate(p.UserRegistered); d != nil {
		createdAt = *d
	}

	account := AccountDraft{
		Email:             strings.ToLower(strings.TrimSpace(p.Email)),
		Password:          password,
		Role:              store.RoleTalent,
		IsActive:          true,
		MustResetPassword: true,
		LegacyID:          p.UserID,
		CreatedAt:         createdAt,
	}

	validatedAt := now
	prof := store.Profile{
		LegacyID:             p.UserID,
		FirstName:            Transliterate(strings.TrimSpace(deref(p.FirstName))),
		LastName:             Transliterate(strings.TrimSpace(deref(p.LastName))),
		BirthPlace:           TransliterateToASCII(p.BirthPlace),
		Height:               p.Height,
		EthnicAppearance:     TransliterateToASCII(p.EthnicAppearance),
		HasTattoos:           derefBool(p.HasTattoos, false),
		TattooDescription:    TransliterateToASCII(p.TattooDescription),
		HasScars:             derefBool(p.HasScars, false),
		ScarDescription:      TransliterateToASCII(p.ScarDescription),
		ShowreelURL:          p.ShowreelURL,
		PresentationVideoURL: p.PresentationVideoURL,
		HasShowreel:          p.ShowreelURL != nil && strings.TrimSpace(*p.ShowreelURL) != "",
		IsAvailable:          derefBool(p.IsAvailable, true),
		DailyRate:            p.DailyRate,
		RateNegotiable:       derefBool(p.RateNegotiable, false),
		IMDBURL:              p.IMDBURL,
		SocialMedia:          p.SocialMedia,
		Bio:                  TransliterateToASCII(p.Bio),
		Location:             TransliterateToASCII(p.Location),
		ValidationStatus:     store.ValidationApproved,
		ValidatedAt:          &validatedAt,
		IsPublic:             true,
		SubscriptionStatus:   store.SubscriptionNone,
		CreatedAt:            createdAt,
	}

	// Gender
	if p.Gender == nil {
		prof.Gender = fieldmap.GenderOther
		warn("Missing gender, defaulting to %s", fieldmap.GenderOther)
	} else if g, ok := fieldmap.MapGender(*p.Gender); ok {
		prof.Gender = g
	} else {
		prof.Gender = fieldmap.GenderOther
		warn("Unknown gender value %q, defaulting to %s", *p.Gender, fieldmap.GenderOther)
	}

	// Optional enums: omitted when unmapped.
	enum := func(field string, v *string, fn func(string) (string, bool)) *string {
		if v == nil {
			return nil
		}
		if mapped, ok := fn(*v); ok {
			return &mapped
		}
		warn("Unknown %s value %q, omitted", field, *v)
		return nil
	}
	prof.Physique = enum(fieldmap.FieldPhysique, p.Physique, fieldmap.MapPhysique)
	prof.HairColor = enum(fieldmap.FieldHairColor, p.HairColor, fieldmap.MapHairColor)
	prof.EyeColor = enum(fieldmap.FieldEyeColor, p.EyeColor, fieldmap.MapEyeColor)
	prof.HairLength = enum(fieldmap.FieldHairLength, p.HairLength, fieldmap.MapHairLength)
	prof.BeardType = enum(fieldmap.FieldBeardType, p.BeardType, fieldmap.MapBeardType)

	for _, v := range p.AvailabilityTypes {
		if mapped, ok := fieldmap.MapAvailabilityType(v); ok {
			prof.AvailabilityTypes = append(prof.AvailabilityTypes, mapped)
		} else {
			warn("Unknown availability type %q, dropped", v)
		}
	}

	// Ages
	switch {
	case p.AgeMin != nil && p.AgeMax != nil:
		prof.AgeRangeMin, prof.AgeRangeMax = *p.AgeMin, *p.AgeMax
	case p.AgeMin != nil:
		prof.AgeRangeMin, prof.AgeRangeMax = *p.AgeMin, *p.AgeMin
	case p.AgeMax != nil:
		prof.AgeRangeMin, prof.AgeRangeMax = DefaultAgeMin, *p.AgeMax
	default:
		prof.AgeRangeMin, prof.AgeRangeMax = DefaultAgeMin, DefaultAgeMax
	}

	if p.BirthDate != nil {
		prof.DateOfBirth = fieldmap.ParseDate(*p.BirthDate)
		if prof.DateOfBirth == nil {
			warn("Unparseable birth date %q, omitted", *p.BirthDate)
		}
	}

	// Lists
	truncate := func(field string, list []string) []string {
		limit, ok := fieldmap.MaxLen(field)
		if !ok || len(list) <= limit {
			return list
		}
		warn("%s truncated from %d to %d items", field, len(list), limit)
		return list[:limit:limit]
	}
	prof.Languages = truncate(fieldmap.FieldLanguages, p.Languages)
	prof.Accents = truncate(fieldmap.FieldAccents, p.Accents)
	prof.AthleticSkills = truncate(fieldmap.FieldAthleticSkills, p.AthleticSkills)
	prof.Instruments = truncate(fieldmap.FieldInstruments, p.Instruments)
	prof.PerformanceSkills = truncate(fieldmap.FieldPerformanceSkills, p.PerformanceSkills)
	prof.DanceStyles = truncate(fieldmap.FieldDanceStyles, p.DanceStyles)
	prof.Photos = truncate(fieldmap.FieldPhotos, p.Photos)
	prof.VideoURLs = truncate(fieldmap.FieldVideoURLs, p.VideoURLs)
	prof.Portfolio = truncate(fieldmap.FieldPortfolio, p.Portfolio)
	prof.AvailabilityTypes = truncate(fieldmap.FieldAvailabilityTypes, prof.AvailabilityTypes)

	if len(prof.Photos) > 0 {
		primary := prof.Photos[0]
		prof.PrimaryPhoto = &primary
	}

	if p.Phone != nil {
		phone, err := t.normalizePhone(*p.Phone)
		if err != nil {
			warn("Phone number %q could not be normalized, kept as is", *p.Phone)
			phone = strings.TrimSpace(*p.Phone)
		}
		prof.Phone = &phone
	}

	return &Transformed{
		Account:  account,
		Profile:  prof,
		LegacyID: p.UserID,
		Warnings: warnings,
	}, nil
}

// normalizePhone formats a phone number as E.164, reading numbers without a
// country code in the transformer's default region.
func (t *Transformer) normalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), t.phoneRegion)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// ValidateTransformed is the structural gate applied before writing. It
// returns one message per problem; an empty result means the record may be
// written.
func ValidateTransformed(t Transformed) []string {
	var errs []string
	if strings.TrimSpace(t.Account.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(t.Profile.FirstName) == "" {
		errs = append(errs, "firstName is required")
	}
	if strings.TrimSpace(t.Profile.LastName) == "" {
		errs = append(errs, "lastName is required")
	}
	if t.Profile.Gender == "" {
		errs = append(errs, "gender is required")
	}
	if t.Profile.AgeRangeMin < 1 {
		errs = append(errs, "ageRangeMin must be at least 1")
	}
	if t.Profile.AgeRangeMax < 1 {
		errs = append(errs, "ageRangeMax must be at least 1")
	}
	if t.Profile.AgeRangeMin > t.Profile.AgeRangeMax {
		errs = append(errs, "ageRangeMin greater than ageRangeMax")
	}
	return errs
}
