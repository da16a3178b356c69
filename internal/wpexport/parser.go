package wpexport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/nawsaafa/talents-acting-sub000/internal/fieldmap"
	"github.com/spf13/afero"
)

// ErrInvalidExport is returned when the export document does not have the
// expected shape.
var ErrInvalidExport = errors.New("invalid export")

// ParseExportFile reads and decodes an export file from the OS filesystem.
func ParseExportFile(path string) (*Export, error) {
	return ParseExportFS(afero.NewOsFs(), path)
}

// ParseExportFS reads and decodes an export file from fs.
func ParseExportFS(fs afero.Fs, path string) (*Export, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	return ParseExport(bytes.NewReader(data))
}

// ParseExport decodes an export document. It fails when the input is not
// JSON or when users or usermeta is missing or not a list.
func ParseExport(r io.Reader) (*Export, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("parsing export JSON: %w", err)
	}
	for _, key := range []string{"users", "usermeta"} {
		raw, ok := shape[key]
		if !ok || !isJSONArray(raw) {
			return nil, fmt.Errorf("%w: %q must be a list", ErrInvalidExport, key)
		}
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing export JSON: %w", err)
	}
	return &export, nil
}

func isJSONArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// GroupMeta groups meta rows by owning user. When a user has the same key
// twice, the later row wins.
func GroupMeta(meta []UserMeta) map[string]map[string]string {
	grouped := make(map[string]map[string]string)
	for _, m := range meta {
		uid := string(m.UserID)
		attrs, ok := grouped[uid]
		if !ok {
			attrs = make(map[string]string)
			grouped[uid] = attrs
		}
		attrs[m.MetaKey] = string(m.MetaValue)
	}
	return grouped
}

// ParseProfiles produces exactly one ParsedProfile per export user, in export
// order. Meta rows for unknown users are ignored.
func ParseProfiles(export *Export) []ParsedProfile {
	grouped := GroupMeta(export.UserMeta)
	photos := attachmentPhotos(export.Attachments)

	profiles := make([]ParsedProfile, 0, len(export.Users))
	for _, u := range export.Users {
		uid := string(u.ID)
		p := ParseUser(u, grouped[uid])
		for _, url := range photos[uid] {
			if !contains(p.Photos, url) {
				p.Photos = append(p.Photos, url)
			}
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// ParseUser builds a profile from a user row and its meta map. attrs may be nil.
func ParseUser(u User, attrs map[string]string) ParsedProfile {
	p := ParsedProfile{
		UserID:         string(u.ID),
		Email:          strings.TrimSpace(u.Email),
		DisplayName:    u.DisplayName,
		UserRegistered: u.UserRegistered,
	}

	first, last := splitDisplayName(u.DisplayName)
	if first != "" {
		p.FirstName = &first
	}
	if last != "" {
		p.LastName = &last
	}

	get := func(field string) (string, bool) {
		return fieldmap.LookupMeta(attrs, field)
	}
	str := func(field string) *string {
		v, ok := get(field)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		v = strings.TrimSpace(v)
		return &v
	}
	num := func(field string) *int {
		if v, ok := get(field); ok {
			return fieldmap.ParseInt(v)
		}
		return nil
	}
	flag := func(field string) *bool {
		if v, ok := get(field); ok {
			return fieldmap.ParseBool(v)
		}
		return nil
	}
	list := func(field string) []string {
		if v, ok := get(field); ok {
			return fieldmap.ParseArray(v)
		}
		return nil
	}

	if v := str(fieldmap.FieldFirstName); v != nil {
		p.FirstName = v
	}
	if v := str(fieldmap.FieldLastName); v != nil {
		p.LastName = v
	}
	p.Gender = str(fieldmap.FieldGender)
	p.AgeMin = num(fieldmap.FieldAgeMin)
	p.AgeMax = num(fieldmap.FieldAgeMax)
	p.BirthDate = str(fieldmap.FieldBirthDate)
	p.BirthPlace = str(fieldmap.FieldBirthPlace)

	p.Height = num(fieldmap.FieldHeight)
	p.Physique = str(fieldmap.FieldPhysique)
	p.EthnicAppearance = str(fieldmap.FieldEthnicAppearance)
	p.HairColor = str(fieldmap.FieldHairColor)
	p.HairLength = str(fieldmap.FieldHairLength)
	p.BeardType = str(fieldmap.FieldBeardType)
	p.EyeColor = str(fieldmap.FieldEyeColor)
	p.HasTattoos = flag(fieldmap.FieldHasTattoos)
	p.TattooDescription = str(fieldmap.FieldTattooDescription)
	p.HasScars = flag(fieldmap.FieldHasScars)
	p.ScarDescription = str(fieldmap.FieldScarDescription)

	p.Languages = list(fieldmap.FieldLanguages)
	p.Accents = list(fieldmap.FieldAccents)
	p.AthleticSkills = list(fieldmap.FieldAthleticSkills)
	p.Instruments = list(fieldmap.FieldInstruments)
	p.PerformanceSkills = list(fieldmap.FieldPerformanceSkills)
	p.DanceStyles = list(fieldmap.FieldDanceStyles)

	p.Photos = list(fieldmap.FieldPhotos)
	p.VideoURLs = list(fieldmap.FieldVideoURLs)
	p.ShowreelURL = str(fieldmap.FieldShowreelURL)
	p.PresentationVideoURL = str(fieldmap.FieldPresentationVideoURL)

	p.IsAvailable = flag(fieldmap.FieldIsAvailable)
	p.AvailabilityTypes = list(fieldmap.FieldAvailabilityTypes)
	p.DailyRate = num(fieldmap.FieldDailyRate)
	p.RateNegotiable = flag(fieldmap.FieldRateNegotiable)

	p.Phone = str(fieldmap.FieldPhone)
	p.IMDBURL = str(fieldmap.FieldIMDBURL)
	p.Portfolio = list(fieldmap.FieldPortfolio)
	if v, ok := get(fieldmap.FieldSocialMedia); ok {
		p.SocialMedia = fieldmap.ParseObject(v)
	}

	p.Bio = str(fieldmap.FieldBio)
	p.Location = str(fieldmap.FieldLocation)
	return p
}

// LegacyIDs returns every user's legacy key in export order.
func LegacyIDs(export *Export) []string {
	ids := make([]string, 0, len(export.Users))
	for _, u := range export.Users {
		ids = append(ids, string(u.ID))
	}
	return ids
}

// splitDisplayName splits on whitespace: the first token is the first name
// and the remaining tokens, joined by one space, are the last name.
func splitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// attachmentPhotos collects image attachment URLs per owning user.
func attachmentPhotos(attachments []Attachment) map[string][]string {
	out := make(map[string][]string)
	for _, a := range attachments {
		if a.GUID == "" {
			continue
		}
		isImage := strings.HasPrefix(a.MimeType, "image/")
		if a.MimeType == "" {
			isImage = imageExts[strings.ToLower(path.Ext(a.GUID))]
		}
		if !isImage {
			continue
		}
		uid := string(a.PostAuthor)
		out[uid] = append(out[uid], a.GUID)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
