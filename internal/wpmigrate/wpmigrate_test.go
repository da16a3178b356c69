package wpmigrate

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nawsaafa/talents-acting-sub000/internal/media"
	"github.com/nawsaafa/talents-acting-sub000/internal/migrate"
	"github.com/nawsaafa/talents-acting-sub000/internal/store"
	"github.com/nawsaafa/talents-acting-sub000/internal/testutil"
	"github.com/nawsaafa/talents-acting-sub000/internal/transform"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpexport"
)

func strp(s string) *string { return &s }

const siteURL = "https://casting.example.com/wp-content/uploads/"

func sampleProfiles() []wpexport.ParsedProfile {
	return []wpexport.ParsedProfile{
		{
			UserID:    "101",
			Email:     "lea@example.com",
			FirstName: strp("Léa"),
			LastName:  strp("Martin"),
			Gender:    strp("femme"),
			Photos:    []string{siteURL + "2023/05/lea-1.JPG", siteURL + "2023/05/lea-2.png"},
		},
		{
			UserID:    "102",
			Email:     "hugo@example.com",
			FirstName: strp("Hugo"),
			LastName:  strp("Bernard"),
			Gender:    strp("homme"),
			Photos:    []string{siteURL + "2023/06/hugo"},
		},
		{
			UserID:    "103",
			Email:     "sam@example.com",
			FirstName: strp("Sam"),
			LastName:  strp("Petit"),
		},
	}
}

func transformed(t *testing.T, profiles []wpexport.ParsedProfile) []transform.Transformed {
	t.Helper()
	tr := transform.New(transform.Options{
		Now:    func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
		Logger: testutil.DiscardLogger(),
	})
	out := tr.TransformAll(profiles)
	require.Len(t, out, len(profiles))
	return out
}

func openSQLite(t *testing.T) *store.SQLStore {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, store.Config{URL: filepath.Join(t.TempDir(), "talents.db")}, testutil.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

func uploadsFS(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range map[string]string{
		"/uploads/2023/05/lea-1.JPG": "lea one",
		"/uploads/2023/05/lea-2.png": "lea two",
		"/uploads/2023/06/hugo":      "hugo",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return fs
}

func fastOptions() Options {
	return Options{
		BatchSize:    2,
		SkipExisting: true,
		Hasher:       BcryptHasher{Cost: bcrypt.MinCost},
		Logger:       testutil.DiscardLogger(),
	}
}

func outcomes(results []Result) []migrate.Outcome {
	out := make([]migrate.Outcome, len(results))
	for i, r := range results {
		out[i] = r.Outcome
	}
	return out
}

func TestMigrateEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openSQLite(t)
	profiles := sampleProfiles()
	records := transformed(t, profiles)
	dest := media.NewLocalBackendFS(afero.NewMemMapFs(), "/media")

	users := NewUserMigrator(s, fastOptions()).Migrate(ctx, records)
	require.Len(t, users, 3)
	assert.Equal(t, []migrate.Outcome{migrate.Succeeded, migrate.Succeeded, migrate.Succeeded}, outcomes(users))

	acct, err := s.FindAccountByLegacyID(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, users[0].NewID, acct.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(records[0].Account.Password)))

	profs := NewProfileMigrator(s, fastOptions()).Migrate(ctx, records)
	assert.Equal(t, []migrate.Outcome{migrate.Succeeded, migrate.Succeeded, migrate.Succeeded}, outcomes(profs))

	p, err := s.FindProfileByUserID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "101", p.LegacyID)
	require.NotNil(t, p.PrimaryPhoto)
	assert.Equal(t, profiles[0].Photos[0], *p.PrimaryPhoto)

	mm := NewMediaMigrator(dest, MediaOptions{UploadsDir: "/uploads", FS: uploadsFS(t), PathPrefix: "/media/talents"})
	copied := mm.Migrate(ctx, profiles)
	require.Len(t, copied, 3)
	assert.Equal(t, "profile-101-0.JPG", copied[0].NewID)
	assert.Equal(t, "profile-101-1.png", copied[1].NewID)
	assert.Equal(t, "profile-102-0.jpg", copied[2].NewID)
	assert.Equal(t, int64(len("lea one")), copied[0].Bytes)
	assert.Equal(t, 3, TallyMedia(copied).Succeeded)

	updated, failures := RewritePhotoPaths(ctx, s, copied, testutil.DiscardLogger())
	assert.Empty(t, failures)
	assert.Equal(t, 2, updated)
	p, err = s.FindProfileByLegacyID(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, []string{"/media/talents/profile-101-0.JPG", "/media/talents/profile-101-1.png"}, p.Photos)
	assert.Equal(t, "/media/talents/profile-101-0.JPG", *p.PrimaryPhoto)

	t.Run("second run skips everything", func(t *testing.T) {
		again := NewUserMigrator(s, fastOptions()).Migrate(ctx, records)
		assert.Equal(t, 3, Tally(again).Skipped)
		assert.Equal(t, users[1].NewID, again[1].NewID)

		againProfiles := NewProfileMigrator(s, fastOptions()).Migrate(ctx, records)
		assert.Equal(t, 3, Tally(againProfiles).Skipped)

		againMedia := mm.Migrate(ctx, profiles)
		assert.Equal(t, 3, TallyMedia(againMedia).Skipped)

		accounts, profiles, err := s.CountByLegacyIDs(ctx, []string{"101", "102", "103"})
		require.NoError(t, err)
		assert.Equal(t, 3, accounts)
		assert.Equal(t, 3, profiles)
	})

	t.Run("rollback removes everything", func(t *testing.T) {
		dry := NewRollback(s, dest, RollbackOptions{DryRun: true, Logger: testutil.DiscardLogger()}).
			Run(ctx, []string{"101", "102", "103"})
		assert.Equal(t, 3, dry.ProfilesDeleted)
		assert.Equal(t, 3, dry.AccountsDeleted)
		assert.Equal(t, 3, dry.MediaDeleted)
		assert.Contains(t, dry.Summary(), "would delete")

		accounts, _, err := s.CountByLegacyIDs(ctx, []string{"101"})
		require.NoError(t, err)
		assert.Equal(t, 1, accounts, "dry-run rollback deletes nothing")

		res := NewRollback(s, dest, RollbackOptions{Logger: testutil.DiscardLogger()}).
			Run(ctx, []string{"101", "102", "103", "999"})
		assert.Equal(t, 4, res.Requested)
		assert.Equal(t, 3, res.ProfilesDeleted)
		assert.Equal(t, 3, res.AccountsDeleted)
		assert.Equal(t, 3, res.MediaDeleted)
		assert.Empty(t, res.Errors)

		accounts, profiles, err := s.CountByLegacyIDs(ctx, []string{"101", "102", "103"})
		require.NoError(t, err)
		assert.Equal(t, 0, accounts)
		assert.Equal(t, 0, profiles)

		left, err := dest.List(ctx, "profile-")
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}

func TestMigrateDryRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openSQLite(t)
	records := transformed(t, sampleProfiles())
	dry := store.DryRun(s, testutil.DiscardLogger())

	opts := fastOptions()
	opts.DryRun = true
	opts.Hasher = nil

	users := NewUserMigrator(dry, opts).Migrate(ctx, records)
	assert.Equal(t, 3, Tally(users).Succeeded)
	for _, r := range users {
		assert.True(t, strings.HasPrefix(r.NewID, store.DryRunIDPrefix), r.NewID)
	}

	profs := NewProfileMigrator(dry, opts).Migrate(ctx, records)
	assert.Equal(t, 3, Tally(profs).Succeeded, "profiles see the accounts the dry run would create")

	accounts, profiles, err := s.CountByLegacyIDs(ctx, []string{"101", "102", "103"})
	require.NoError(t, err)
	assert.Equal(t, 0, accounts)
	assert.Equal(t, 0, profiles)
}

func TestUserMigratorDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemory()
	profiles := sampleProfiles()
	profiles[1].Email = "LEA@example.com"
	records := transformed(t, profiles)

	opts := fastOptions()
	opts.SkipExisting = false
	results := NewUserMigrator(s, opts).Migrate(ctx, records)
	assert.Equal(t, []migrate.Outcome{migrate.Succeeded, migrate.Skipped, migrate.Succeeded}, outcomes(results))
	assert.True(t, results[1].Success())
	assert.True(t, results[1].Skipped())
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("hasher exploded") }

func TestUserMigratorHashFailure(t *testing.T) {
	t.Parallel()
	opts := fastOptions()
	opts.Hasher = failingHasher{}
	results := NewUserMigrator(store.NewMemory(), opts).Migrate(context.Background(), transformed(t, sampleProfiles()[:1]))
	require.Len(t, results, 1)
	assert.False(t, results[0].Success())
	assert.Contains(t, results[0].Error, "hasher exploded")
}

func TestProfileMigratorMissingAccount(t *testing.T) {
	t.Parallel()
	results := NewProfileMigrator(store.NewMemory(), fastOptions()).Migrate(context.Background(), transformed(t, sampleProfiles()))
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, migrate.Failed, r.Outcome)
		assert.Contains(t, r.Error, "account not found")
	}
}

func TestMediaMigratorMissingSource(t *testing.T) {
	t.Parallel()
	profiles := []wpexport.ParsedProfile{{UserID: "7", Photos: []string{siteURL + "nope.jpg"}}}
	mm := NewMediaMigrator(media.NewLocalBackendFS(afero.NewMemMapFs(), "/media"),
		MediaOptions{UploadsDir: "/uploads", FS: afero.NewMemMapFs()})
	results := mm.Migrate(context.Background(), profiles)
	require.Len(t, results, 1)
	assert.Equal(t, migrate.Failed, results[0].Outcome)
	assert.Contains(t, results[0].Error, "source file not found")
}

func TestRelativePath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"https://site.fr/wp-content/uploads/2023/05/a.jpg", "2023/05/a.jpg"},
		{"https://site.fr/wp-content/uploads/2023/05/a.jpg?ver=2", "2023/05/a.jpg"},
		{"/wp-content/uploads/b.png", "b.png"},
		{"wp-content/uploads/c.gif", "c.gif"},
		{"2020/01/d.jpg", "2020/01/d.jpg"},
		{"/var/www/photos/e.jpg", "var/www/photos/e.jpg"},
		{"http://cdn.site.fr/img/f.jpg", "img/f.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			testutil.Equal(t, tt.want, RelativePath(tt.in))
		})
	}
}

func TestDestinationName(t *testing.T) {
	t.Parallel()
	testutil.Equal(t, "profile-42-0.jpg", DestinationName("42", 0, "https://x.fr/wp-content/uploads/a.jpg"))
	testutil.Equal(t, "profile-42-3.PNG", DestinationName("42", 3, "b.PNG"))
	testutil.Equal(t, "profile-42-2.Jpeg", DestinationName("42", 2, "https://x.fr/wp-content/uploads/2019/05/c.Jpeg"))
	testutil.Equal(t, "profile-42-1.jpg", DestinationName("42", 1, "https://x.fr/wp-content/uploads/noext"))
	testutil.True(t, strings.HasPrefix(DestinationName("42", 9, "x.webp"), MediaPrefix("42")))
}

func TestRemapPhotos(t *testing.T) {
	t.Parallel()
	photos := []string{"a.jpg", "b.jpg", "c.jpg"}
	results := []MediaResult{
		{Result: Result{Outcome: migrate.Succeeded}, Source: "a.jpg", Destination: "/m/profile-1-0.jpg"},
		{Result: Result{Outcome: migrate.Failed}, Source: "b.jpg", Destination: "/m/profile-1-1.jpg"},
		{Result: Result{Outcome: migrate.Skipped}, Source: "c.jpg", Destination: "/m/profile-1-2.jpg"},
	}
	got := RemapPhotos(photos, results)
	assert.Equal(t, []string{"/m/profile-1-0.jpg", "b.jpg", "/m/profile-1-2.jpg"}, got)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, photos, "input untouched")
}

func TestRollbackResultSummary(t *testing.T) {
	t.Parallel()
	r := RollbackResult{Requested: 2, ProfilesDeleted: 1, AccountsDeleted: 2, Errors: []string{"media 9: boom"}}
	out := r.Summary()
	testutil.Contains(t, out, "Rollback Summary")
	testutil.Contains(t, out, "Accounts:    2 deleted")
	testutil.Contains(t, out, "media 9: boom")
	testutil.False(t, strings.Contains(out, "dry run"))
}
