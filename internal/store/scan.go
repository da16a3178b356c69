package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Column scanners for values whose driver representation differs between
// Postgres and SQLite. SQLite hands back TEXT for timestamps and JSON columns,
// pgx hands back time.Time and decoded JSON.

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(src any) (time.Time, bool, error) {
	var s string
	switch v := src.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return v, true, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return time.Time{}, false, fmt.Errorf("unsupported time value %T", src)
	}
	// time.Time.String appends the monotonic reading.
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unparseable time %q", s)
}

type timestamp struct{ dst *time.Time }

func (c timestamp) Scan(src any) error {
	t, _, err := parseTime(src)
	if err != nil {
		return err
	}
	*c.dst = t
	return nil
}

type optTime struct{ dst **time.Time }

func (c optTime) Scan(src any) error {
	t, ok, err := parseTime(src)
	if err != nil {
		return err
	}
	*c.dst = nil
	if ok {
		*c.dst = &t
	}
	return nil
}

// text scans a nullable column into a plain string; NULL becomes "".
type text struct{ dst *string }

func (c text) Scan(src any) error {
	var ns sql.NullString
	if err := ns.Scan(src); err != nil {
		return err
	}
	*c.dst = ns.String
	return nil
}

type optText struct{ dst **string }

func (c optText) Scan(src any) error {
	var ns sql.NullString
	if err := ns.Scan(src); err != nil {
		return err
	}
	*c.dst = nil
	if ns.Valid {
		v := ns.String
		*c.dst = &v
	}
	return nil
}

type optInt struct{ dst **int }

func (c optInt) Scan(src any) error {
	var ni sql.NullInt64
	if err := ni.Scan(src); err != nil {
		return err
	}
	*c.dst = nil
	if ni.Valid {
		v := int(ni.Int64)
		*c.dst = &v
	}
	return nil
}

// jsonColumn decodes a JSON list or object column into dst.
type jsonColumn struct{ dst any }

func (c jsonColumn) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("re-encoding json column: %w", err)
		}
		data = b
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, c.dst)
}

const accountSelect = `id, email, password_hash, role, is_active, must_reset_password, legacy_id, created_at`

func accountTargets(a *Account) []any {
	return []any{
		&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.MustResetPassword,
		text{&a.LegacyID}, timestamp{&a.CreatedAt},
	}
}

// profileSelect lists the columns in profileColumns order; profileTargets
// must follow the same order.
var profileSelect = func() string {
	cols, _ := profileColumns(&Profile{})
	return strings.Join(cols, ", ")
}()

func profileTargets(p *Profile) []any {
	return []any{
		&p.ID,
		&p.UserID,
		text{&p.LegacyID},
		&p.FirstName,
		&p.LastName,
		&p.Gender,
		&p.AgeRangeMin,
		&p.AgeRangeMax,
		optTime{&p.DateOfBirth},
		optText{&p.BirthPlace},
		optInt{&p.Height},
		optText{&p.Physique},
		optText{&p.EthnicAppearance},
		optText{&p.HairColor},
		optText{&p.HairLength},
		optText{&p.BeardType},
		optText{&p.EyeColor},
		&p.HasTattoos,
		optText{&p.TattooDescription},
		&p.HasScars,
		optText{&p.ScarDescription},
		jsonColumn{&p.Languages},
		jsonColumn{&p.Accents},
		jsonColumn{&p.AthleticSkills},
		jsonColumn{&p.Instruments},
		jsonColumn{&p.PerformanceSkills},
		jsonColumn{&p.DanceStyles},
		jsonColumn{&p.Photos},
		optText{&p.PrimaryPhoto},
		jsonColumn{&p.VideoURLs},
		optText{&p.ShowreelURL},
		optText{&p.PresentationVideoURL},
		&p.HasShowreel,
		&p.IsAvailable,
		jsonColumn{&p.AvailabilityTypes},
		optInt{&p.DailyRate},
		&p.RateNegotiable,
		optText{&p.Phone},
		optText{&p.IMDBURL},
		jsonColumn{&p.Portfolio},
		jsonColumn{&p.SocialMedia},
		optText{&p.Bio},
		optText{&p.Location},
		&p.ValidationStatus,
		optTime{&p.ValidatedAt},
		&p.IsPublic,
		&p.SubscriptionStatus,
		timestamp{&p.CreatedAt},
	}
}
