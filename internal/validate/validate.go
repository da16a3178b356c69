// Package validate checks parsed legacy profiles before they are transformed.
// Errors mark a profile invalid; warnings are informational only.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nawsaafa/talents-acting-sub000/internal/fieldmap"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpexport"
)

// Severity classifies an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding.
type Issue struct {
	Type     Severity `json:"type"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	LegacyID string   `json:"legacyId"`
	Value    any      `json:"value,omitempty"`
}

// Result is the outcome of validating one profile.
type Result struct {
	IsValid  bool    `json:"isValid"`
	LegacyID string  `json:"legacyId"`
	Issues   []Issue `json:"issues"`
}

// Errors returns the error-severity issues.
func (r Result) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the warning-severity issues.
func (r Result) Warnings() []Issue { return r.filter(SeverityWarning) }

func (r Result) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Type == sev {
			out = append(out, i)
		}
	}
	return out
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Messages shared with callers and tests.
const (
	MsgRequired       = "Required field is missing"
	MsgUnknownGender  = "Unknown gender value"
	MsgInvalidEmail   = "Invalid email format"
	MsgAgeOutOfRange  = "Age is outside the allowed range"
	MsgAgeRange       = "Minimum age is greater than maximum age"
	MsgHeightRange    = "Height is outside the allowed range"
	MsgNonASCII       = "Contains non-ASCII characters (will be transliterated)"
	MsgInvalidIMDB    = "Invalid IMDB URL"
	MsgInvalidReel    = "Invalid showreel URL"
	MsgInvalidPresent = "Invalid presentation video URL"
)

type validator struct {
	p      *wpexport.ParsedProfile
	issues []Issue
}

func (v *validator) add(sev Severity, field, msg string, value any) {
	v.issues = append(v.issues, Issue{
		Type:     sev,
		Field:    field,
		Message:  msg,
		LegacyID: v.p.UserID,
		Value:    value,
	})
}

// ValidateProfile checks one profile. Every rule runs; none short-circuits.
func ValidateProfile(p wpexport.ParsedProfile) Result {
	v := &validator{p: &p}
	v.required()
	v.email()
	v.ages()
	v.height()
	v.arrays()
	v.urls()
	v.ascii()

	res := Result{IsValid: true, LegacyID: p.UserID, Issues: v.issues}
	for _, i := range v.issues {
		if i.Type == SeverityError {
			res.IsValid = false
			break
		}
	}
	if res.Issues == nil {
		res.Issues = []Issue{}
	}
	return res
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func (v *validator) required() {
	p := v.p
	if blank(p.FirstName) {
		v.add(SeverityError, fieldmap.FieldFirstName, MsgRequired, nil)
	}
	if blank(p.LastName) {
		v.add(SeverityError, fieldmap.FieldLastName, MsgRequired, nil)
	}
	switch {
	case blank(p.Gender):
		v.add(SeverityError, fieldmap.FieldGender, MsgRequired, nil)
	default:
		if _, ok := fieldmap.MapGender(*p.Gender); !ok {
			v.add(SeverityError, fieldmap.FieldGender, MsgUnknownGender, *p.Gender)
		}
	}
	if p.AgeMin == nil {
		v.add(SeverityError, fieldmap.FieldAgeMin, MsgRequired, nil)
	}
}

func (v *validator) email() {
	e := strings.TrimSpace(v.p.Email)
	if e != "" && !emailPattern.MatchString(e) {
		v.add(SeverityError, "email", MsgInvalidEmail, e)
	}
}

func (v *validator) ages() {
	p := v.p
	if p.AgeMin != nil && !fieldmap.AgeBounds.Contains(*p.AgeMin) {
		v.add(SeverityWarning, fieldmap.FieldAgeMin, MsgAgeOutOfRange, *p.AgeMin)
	}
	if p.AgeMax != nil && !fieldmap.AgeBounds.Contains(*p.AgeMax) {
		v.add(SeverityWarning, fieldmap.FieldAgeMax, MsgAgeOutOfRange, *p.AgeMax)
	}
	if p.AgeMin != nil && p.AgeMax != nil && *p.AgeMin > *p.AgeMax {
		v.add(SeverityWarning, "ageRange", MsgAgeRange, fmt.Sprintf("%d-%d", *p.AgeMin, *p.AgeMax))
	}
}

func (v *validator) height() {
	if h := v.p.Height; h != nil && !fieldmap.HeightBounds.Contains(*h) {
		v.add(SeverityWarning, fieldmap.FieldHeight, MsgHeightRange, *h)
	}
}

func (v *validator) arrays() {
	for _, field := range fieldmap.ArrayFields {
		limit, _ := fieldmap.MaxLen(field)
		if n := len(v.p.List(field)); n > limit {
			v.add(SeverityWarning, field, fmt.Sprintf("Too many items (%d, maximum %d)", n, limit), n)
		}
	}
}

func (v *validator) urls() {
	check := func(field string, s *string, msg string) {
		if blank(s) || ValidURL(*s) {
			return
		}
		v.add(SeverityWarning, field, msg, *s)
	}
	check(fieldmap.FieldIMDBURL, v.p.IMDBURL, MsgInvalidIMDB)
	check(fieldmap.FieldShowreelURL, v.p.ShowreelURL, MsgInvalidReel)
	check(fieldmap.FieldPresentationVideoURL, v.p.PresentationVideoURL, MsgInvalidPresent)
}

func (v *validator) ascii() {
	p := v.p
	fields := []struct {
		name string
		val  *string
	}{
		{fieldmap.FieldFirstName, p.FirstName},
		{fieldmap.FieldLastName, p.LastName},
		{fieldmap.FieldBirthPlace, p.BirthPlace},
		{fieldmap.FieldBio, p.Bio},
		{fieldmap.FieldLocation, p.Location},
	}
	for _, f := range fields {
		if f.val != nil && !isASCII(*f.val) {
			v.add(SeverityWarning, f.name, MsgNonASCII, *f.val)
		}
	}
}

// ValidURL reports whether s parses as an absolute URL with a host.
func ValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
