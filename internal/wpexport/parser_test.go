package wpexport

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nawsaafa/talents-acting-sub000/internal/testutil"
	"github.com/spf13/afero"
)

const sampleExport = `{
  "site_url": "https://talents.example.com",
  "export_date": "2024-02-01",
  "users": [
    {"ID": "1", "user_email": "jane@example.com", "display_name": "Jane Mary Doe", "user_registered": "2019-05-14 10:22:01"},
    {"ID": 2, "user_email": "bob@example.com", "display_name": "Bob", "user_registered": "2020-01-01 00:00:00"},
    {"ID": "3", "user_email": "", "display_name": "", "user_registered": ""}
  ],
  "usermeta": [
    {"user_id": "1", "meta_key": "gender", "meta_value": "femme"},
    {"user_id": "1", "meta_key": "age_min", "meta_value": "25"},
    {"user_id": "1", "meta_key": "age_max", "meta_value": 35},
    {"user_id": "1", "meta_key": "height", "meta_value": "168 cm"},
    {"user_id": "1", "meta_key": "languages", "meta_value": "French, English,,"},
    {"user_id": "1", "meta_key": "has_tattoos", "meta_value": "oui"},
    {"user_id": "1", "meta_key": "is_available", "meta_value": true},
    {"user_id": "1", "meta_key": "social_media", "meta_value": "{\"instagram\":\"@jane\"}"},
    {"user_id": "1", "meta_key": "photos", "meta_value": "/wp-content/uploads/2019/05/jane.jpg"},
    {"user_id": "1", "meta_key": "bio", "meta_value": "  first  "},
    {"user_id": "1", "meta_key": "bio", "meta_value": "second"},
    {"user_id": 2, "meta_key": "prenom", "meta_value": "Robert"},
    {"user_id": "2", "meta_key": "nom", "meta_value": "Martin"},
    {"user_id": "99", "meta_key": "first_name", "meta_value": "Orphan"}
  ],
  "attachments": [
    {"post_author": "1", "guid": "/wp-content/uploads/2019/05/jane.jpg", "post_mime_type": "image/jpeg"},
    {"post_author": "1", "guid": "https://talents.example.com/wp-content/uploads/2019/06/jane2.png", "post_mime_type": "image/png"},
    {"post_author": "1", "guid": "https://talents.example.com/wp-content/uploads/cv.pdf", "post_mime_type": "application/pdf"},
    {"post_author": "2", "guid": "/wp-content/uploads/bob.webp"}
  ]
}`

func TestParseExport(t *testing.T) {
	t.Parallel()
	export, err := ParseExport(strings.NewReader(sampleExport))
	testutil.NoError(t, err)
	testutil.SliceLen(t, export.Users, 3)
	testutil.SliceLen(t, export.UserMeta, 14)
	testutil.SliceLen(t, export.Attachments, 4)
	testutil.Equal(t, "https://talents.example.com", export.SiteURL)
	testutil.Equal(t, ID("2"), export.Users[1].ID)
	testutil.Equal(t, Text("35"), export.UserMeta[2].MetaValue)
	testutil.Equal(t, Text("true"), export.UserMeta[6].MetaValue)
}

func TestParseExportStructuralErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", "not json", "parsing export JSON"},
		{"array root", "[]", "parsing export JSON"},
		{"missing users", `{"usermeta": []}`, `"users" must be a list`},
		{"users not a list", `{"users": {}, "usermeta": []}`, `"users" must be a list`},
		{"missing usermeta", `{"users": []}`, `"usermeta" must be a list`},
		{"usermeta null", `{"users": [], "usermeta": null}`, `"usermeta" must be a list`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseExport(strings.NewReader(tt.input))
			testutil.ErrorContains(t, err, tt.want)
		})
	}

	_, err := ParseExport(strings.NewReader(`{"users": 1, "usermeta": []}`))
	testutil.True(t, errors.Is(err, ErrInvalidExport), "shape errors wrap ErrInvalidExport")
}

func TestParseExportFile(t *testing.T) {
	t.Parallel()
	t.Run("os file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "export.json")
		testutil.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))
		export, err := ParseExportFile(path)
		testutil.NoError(t, err)
		testutil.SliceLen(t, export.Users, 3)
	})

	t.Run("file not found", func(t *testing.T) {
		t.Parallel()
		_, err := ParseExportFile("/nonexistent/export.json")
		testutil.ErrorContains(t, err, "reading export")
	})

	t.Run("afero memfs", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		testutil.NoError(t, afero.WriteFile(fs, "/in/export.json", []byte(`{"users":[],"usermeta":[]}`), 0644))
		export, err := ParseExportFS(fs, "/in/export.json")
		testutil.NoError(t, err)
		testutil.SliceLen(t, export.Users, 0)
	})
}

func TestGroupMetaLastWriteWins(t *testing.T) {
	t.Parallel()
	grouped := GroupMeta([]UserMeta{
		{UserID: "1", MetaKey: "bio", MetaValue: "first"},
		{UserID: "1", MetaKey: "bio", MetaValue: "second"},
		{UserID: "2", MetaKey: "bio", MetaValue: "other"},
	})
	testutil.MapLen(t, grouped, 2)
	testutil.Equal(t, "second", grouped["1"]["bio"])
	testutil.Equal(t, "other", grouped["2"]["bio"])
}

func TestParseProfiles(t *testing.T) {
	t.Parallel()
	export, err := ParseExport(strings.NewReader(sampleExport))
	testutil.NoError(t, err)

	profiles := ParseProfiles(export)
	testutil.SliceLen(t, profiles, 3)

	t.Run("display name defaults and typed meta", func(t *testing.T) {
		t.Parallel()
		p := profiles[0]
		testutil.Equal(t, "1", p.UserID)
		testutil.Equal(t, "jane@example.com", p.Email)
		testutil.Equal(t, "Jane", *p.FirstName)
		testutil.Equal(t, "Mary Doe", *p.LastName)
		testutil.Equal(t, "femme", *p.Gender)
		testutil.Equal(t, 25, *p.AgeMin)
		testutil.Equal(t, 35, *p.AgeMax)
		testutil.Equal(t, 168, *p.Height)
		testutil.SliceLen(t, p.Languages, 2)
		testutil.True(t, *p.HasTattoos, "oui is truthy")
		testutil.True(t, *p.IsAvailable, "unquoted true is truthy")
		testutil.Equal(t, "@jane", p.SocialMedia["instagram"])
		testutil.Equal(t, "second", *p.Bio)
		testutil.Nil(t, p.HasScars)
		testutil.Nil(t, p.Phone)
	})

	t.Run("image attachments appended once", func(t *testing.T) {
		t.Parallel()
		p := profiles[0]
		testutil.SliceLen(t, p.Photos, 2)
		testutil.Equal(t, "/wp-content/uploads/2019/05/jane.jpg", p.Photos[0])
		testutil.Equal(t, "https://talents.example.com/wp-content/uploads/2019/06/jane2.png", p.Photos[1])

		testutil.SliceLen(t, profiles[1].Photos, 1)
		testutil.Equal(t, "/wp-content/uploads/bob.webp", profiles[1].Photos[0])
	})

	t.Run("meta overrides display name", func(t *testing.T) {
		t.Parallel()
		p := profiles[1]
		testutil.Equal(t, "2", p.UserID)
		testutil.Equal(t, "Robert", *p.FirstName)
		testutil.Equal(t, "Martin", *p.LastName)
	})

	t.Run("empty user still yields a profile", func(t *testing.T) {
		t.Parallel()
		p := profiles[2]
		testutil.Equal(t, "3", p.UserID)
		testutil.Nil(t, p.FirstName)
		testutil.Nil(t, p.LastName)
		testutil.Nil(t, p.Gender)
		testutil.SliceLen(t, p.Photos, 0)
	})
}

func TestSplitDisplayName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name, in, first, last string
	}{
		{"two tokens", "Jane Doe", "Jane", "Doe"},
		{"many tokens", "Jean  Paul   Belmondo", "Jean", "Paul Belmondo"},
		{"single token", "Madonna", "Madonna", ""},
		{"blank", "   ", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			first, last := splitDisplayName(tt.in)
			testutil.Equal(t, tt.first, first)
			testutil.Equal(t, tt.last, last)
		})
	}
}

func TestLegacyIDs(t *testing.T) {
	t.Parallel()
	export, err := ParseExport(strings.NewReader(sampleExport))
	testutil.NoError(t, err)
	ids := LegacyIDs(export)
	testutil.SliceLen(t, ids, 3)
	testutil.Equal(t, "1", ids[0])
	testutil.Equal(t, "2", ids[1])
	testutil.Equal(t, "3", ids[2])
}
