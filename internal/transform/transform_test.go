package transform

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nawsaafa/talents-acting-sub000/internal/fieldmap"
	"github.com/nawsaafa/talents-acting-sub000/internal/store"
	"github.com/nawsaafa/talents-acting-sub000/internal/testutil"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpexport"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
func boolp(b bool) *bool    { return &b }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTransformer() *Transformer {
	return New(Options{Now: func() time.Time { return fixedNow }, Logger: testutil.DiscardLogger()})
}

func baseProfile() wpexport.ParsedProfile {
	return wpexport.ParsedProfile{
		UserID:         "42",
		Email:          "  Marie.Dupont@Example.COM ",
		UserRegistered: "2019-06-15 08:30:00",
		FirstName:      strp("Amélie"),
		LastName:       strp("Dupont"),
		Gender:         strp("femme"),
		AgeMin:         intp(25),
		AgeMax:         intp(35),
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestTransliterate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"café", "cafe"},
		{"À BIENTÔT", "A BIENTOT"},
		{"Hello 世界", "Hello "},
		{"Œuvre cœur", "OEuvre coeur"},
		{"Straße", "Strasse"},
		{"plain ascii 123", "plain ascii 123"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			testutil.Equal(t, tt.want, Transliterate(tt.in))
		})
	}
}

func TestTransliterateToASCII(t *testing.T) {
	t.Parallel()
	testutil.Nil(t, TransliterateToASCII(nil))
	got := TransliterateToASCII(strp("Évry"))
	testutil.NotNil(t, got)
	testutil.Equal(t, "Evry", *got)
}

func TestGeneratePassword(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for range 20 {
		pw, err := GeneratePassword()
		testutil.NoError(t, err)
		testutil.Equal(t, PasswordLength, len(pw))
		for _, r := range pw {
			testutil.True(t, strings.ContainsRune(PasswordAlphabet, r), "unexpected character %q", r)
		}
		seen[pw] = true
	}
	testutil.True(t, len(seen) > 1, "passwords should differ")
}

func TestGeneratePasswordShortReader(t *testing.T) {
	t.Parallel()
	_, err := generatePassword(bytes.NewReader([]byte{1, 2}))
	testutil.ErrorContains(t, err, "generating password")
}

func TestTransformProfile(t *testing.T) {
	t.Parallel()
	tr := newTestTransformer()

	t.Run("account and policy fields", func(t *testing.T) {
		t.Parallel()
		got, err := tr.TransformProfile(baseProfile())
		testutil.NoError(t, err)

		testutil.Equal(t, "42", got.LegacyID)
		testutil.Equal(t, "marie.dupont@example.com", got.Account.Email)
		testutil.Equal(t, store.RoleTalent, got.Account.Role)
		testutil.True(t, got.Account.IsActive)
		testutil.True(t, got.Account.MustResetPassword)
		testutil.Equal(t, PasswordLength, len(got.Account.Password))
		testutil.Equal(t, time.Date(2019, 6, 15, 8, 30, 0, 0, time.UTC), got.Account.CreatedAt)

		testutil.Equal(t, "Amelie", got.Profile.FirstName)
		testutil.Equal(t, fieldmap.GenderFemale, got.Profile.Gender)
		testutil.Equal(t, store.ValidationApproved, got.Profile.ValidationStatus)
		testutil.Equal(t, store.SubscriptionNone, got.Profile.SubscriptionStatus)
		testutil.True(t, got.Profile.IsPublic)
		testutil.True(t, got.Profile.IsAvailable)
		testutil.NotNil(t, got.Profile.ValidatedAt)
		testutil.Equal(t, fixedNow, *got.Profile.ValidatedAt)
		testutil.SliceLen(t, got.Warnings, 0)
	})

	t.Run("registration date defaults to now", func(t *testing.T) {
		t.Parallel()
		p := baseProfile()
		p.UserRegistered = ""
		got, err := tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.Equal(t, fixedNow, got.Account.CreatedAt)
	})

	t.Run("gender mapping", func(t *testing.T) {
		t.Parallel()
		p := baseProfile()
		p.Gender = strp("homme")
		got, err := tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.Equal(t, fieldmap.GenderMale, got.Profile.Gender)

		p.Gender = strp("martian")
		got, err = tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.Equal(t, fieldmap.GenderOther, got.Profile.Gender)
		testutil.True(t, hasWarning(got.Warnings, "Unknown gender value"))

		p.Gender = nil
		got, err = tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.Equal(t, fieldmap.GenderOther, got.Profile.Gender)
		testutil.True(t, hasWarning(got.Warnings, "Missing gender"))
	})

	t.Run("optional enums omitted when unknown", func(t *testing.T) {
		t.Parallel()
		p := baseProfile()
		p.HairColor = strp("brun")
		p.EyeColor = strp("violet")
		p.AvailabilityTypes = []string{"weekend", "sometimes", "temps plein"}
		got, err := tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.NotNil(t, got.Profile.HairColor)
		testutil.Equal(t, "BROWN", *got.Profile.HairColor)
		testutil.Nil(t, got.Profile.EyeColor)
		testutil.True(t, hasWarning(got.Warnings, "Unknown eyeColor value"))
		testutil.SliceLen(t, got.Profile.AvailabilityTypes, 2)
		testutil.Equal(t, "WEEKENDS", got.Profile.AvailabilityTypes[0])
		testutil.Equal(t, "FULL_TIME", got.Profile.AvailabilityTypes[1])
		testutil.True(t, hasWarning(got.Warnings, `"sometimes"`))
	})

	t.Run("age defaults", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name     string
			min, max *int
			wantMin  int
			wantMax  int
		}{
			{"both", intp(20), intp(30), 20, 30},
			{"min only", intp(30), nil, 30, 30},
			{"max only", nil, intp(40), DefaultAgeMin, 40},
			{"neither", nil, nil, DefaultAgeMin, DefaultAgeMax},
		}
		for _, tt := range tests {
			p := baseProfile()
			p.AgeMin, p.AgeMax = tt.min, tt.max
			got, err := tr.TransformProfile(p)
			testutil.NoError(t, err)
			testutil.Equal(t, tt.wantMin, got.Profile.AgeRangeMin)
			testutil.Equal(t, tt.wantMax, got.Profile.AgeRangeMax)
		}
	})

	t.Run("photos truncated and primary set", func(t *testing.T) {
		t.Parallel()
		p := baseProfile()
		for i := range 25 {
			p.Photos = append(p.Photos, "wp-content/uploads/p"+string(rune('a'+i))+".jpg")
		}
		got, err := tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.SliceLen(t, got.Profile.Photos, 20)
		testutil.NotNil(t, got.Profile.PrimaryPhoto)
		testutil.Equal(t, p.Photos[0], *got.Profile.PrimaryPhoto)
		testutil.True(t, hasWarning(got.Warnings, "photos truncated from 25 to 20 items"))
	})

	t.Run("showreel and free text", func(t *testing.T) {
		t.Parallel()
		p := baseProfile()
		p.ShowreelURL = strp("https://vimeo.com/123")
		p.Bio = strp("Comédienne à Paris")
		p.Location = strp("Île-de-France")
		got, err := tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.True(t, got.Profile.HasShowreel)
		testutil.Equal(t, "Comedienne a Paris", *got.Profile.Bio)
		testutil.Equal(t, "Ile-de-France", *got.Profile.Location)
	})

	t.Run("birth date", func(t *testing.T) {
		t.Parallel()
		p := baseProfile()
		p.BirthDate = strp("1990-03-15")
		got, err := tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.NotNil(t, got.Profile.DateOfBirth)
		testutil.Equal(t, 1990, got.Profile.DateOfBirth.Year())

		p.BirthDate = strp("not a date at all")
		got, err = tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.Nil(t, got.Profile.DateOfBirth)
		testutil.True(t, hasWarning(got.Warnings, "birth date"))
	})

	t.Run("phone normalization", func(t *testing.T) {
		t.Parallel()
		p := baseProfile()
		p.Phone = strp("06 12 34 56 78")
		got, err := tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.Equal(t, "+33612345678", *got.Profile.Phone)

		p.Phone = strp(" 12 ")
		got, err = tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.Equal(t, "12", *got.Profile.Phone)
		testutil.True(t, hasWarning(got.Warnings, "could not be normalized"))
	})

	t.Run("booleans default", func(t *testing.T) {
		t.Parallel()
		p := baseProfile()
		p.IsAvailable = boolp(false)
		p.HasTattoos = boolp(true)
		got, err := tr.TransformProfile(p)
		testutil.NoError(t, err)
		testutil.False(t, got.Profile.IsAvailable)
		testutil.True(t, got.Profile.HasTattoos)
		testutil.False(t, got.Profile.HasScars)
	})
}

func TestTransformAll(t *testing.T) {
	t.Parallel()

	t.Run("every profile converted", func(t *testing.T) {
		t.Parallel()
		second := baseProfile()
		second.UserID = "43"
		second.Email = "other@example.com"
		got := TransformAll([]wpexport.ParsedProfile{baseProfile(), second})
		testutil.SliceLen(t, got, 2)
		testutil.Equal(t, "42", got[0].LegacyID)
		testutil.Equal(t, "43", got[1].LegacyID)
		testutil.NotEqual(t, got[0].Account.Password, got[1].Account.Password)
	})

	t.Run("failures are skipped", func(t *testing.T) {
		t.Parallel()
		tr := New(Options{Rand: bytes.NewReader(nil), Logger: testutil.DiscardLogger()})
		got := tr.TransformAll([]wpexport.ParsedProfile{baseProfile()})
		testutil.SliceLen(t, got, 0)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		testutil.SliceLen(t, TransformAll(nil), 0)
	})
}

func TestValidateTransformed(t *testing.T) {
	t.Parallel()
	got, err := newTestTransformer().TransformProfile(baseProfile())
	testutil.NoError(t, err)
	testutil.SliceLen(t, ValidateTransformed(*got), 0)

	bad := *got
	bad.Account.Email = ""
	bad.Profile.FirstName = " "
	bad.Profile.AgeRangeMin = 50
	bad.Profile.AgeRangeMax = 30
	errs := ValidateTransformed(bad)
	testutil.SliceLen(t, errs, 3)
	testutil.Equal(t, "email is required", errs[0])
	testutil.Equal(t, "firstName is required", errs[1])
	testutil.Equal(t, "ageRangeMin greater than ageRangeMax", errs[2])
}
