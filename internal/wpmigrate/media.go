package wpmigrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/nawsaafa/talents-acting-sub000/internal/media"
	"github.com/nawsaafa/talents-acting-sub000/internal/migrate"
	"github.com/nawsaafa/talents-acting-sub000/internal/store"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpexport"
)

const uploadsMarker = "wp-content/uploads/"

// DefaultMediaExt is used for sources without a file extension.
const DefaultMediaExt = ".jpg"

// MediaResult is the outcome of copying one photo.
type MediaResult struct {
	Result
	Index int `json:"index"`
	// Source is the photo URL or path as found in the export.
	Source string `json:"source"`
	// SourcePath is the file read from the uploads directory.
	SourcePath string `json:"sourcePath"`
	// Destination is the new path of the photo, including PathPrefix.
	Destination string `json:"destination"`
	Bytes       int64  `json:"bytes"`
}

// MediaOptions controls the media migrator.
type MediaOptions struct {
	// UploadsDir is the root of the legacy wp-content/uploads tree.
	UploadsDir string
	// FS holds UploadsDir. Defaults to the OS filesystem.
	FS afero.Fs
	// PathPrefix is prepended to destination names when photo paths are
	// rewritten, e.g. "/media/talents".
	PathPrefix string
	Logger     *slog.Logger
	Progress   migrate.ProgressReporter
	Phase      migrate.Phase
}

// MediaMigrator copies profile photos from the uploads directory to a backend.
type MediaMigrator struct {
	backend media.Backend
	opts    MediaOptions
}

// NewMediaMigrator creates a MediaMigrator writing to backend.
func NewMediaMigrator(backend media.Backend, opts MediaOptions) *MediaMigrator {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Progress == nil {
		opts.Progress = migrate.NopReporter{}
	}
	return &MediaMigrator{backend: backend, opts: opts}
}

// RelativePath reduces a photo URL or path to its location under the uploads
// directory: the scheme and host are dropped, then everything up to and
// including "wp-content/uploads/".
func RelativePath(source string) string {
	p := strings.TrimSpace(source)
	if u, err := url.Parse(p); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if i := strings.Index(p, uploadsMarker); i >= 0 {
		p = p[i+len(uploadsMarker):]
	}
	return strings.TrimLeft(p, "/")
}

// DestinationName is the backend name of a profile's index-th photo:
// profile-<legacyID>-<index><ext>. The extension is the source's, case kept,
// and defaults to .jpg.
func DestinationName(legacyID string, index int, source string) string {
	ext := path.Ext(RelativePath(source))
	if ext == "" || ext == "." {
		ext = DefaultMediaExt
	}
	return fmt.Sprintf("profile-%s-%d%s", legacyID, index, ext)
}

// MediaPrefix is the name prefix shared by every photo of a profile.
func MediaPrefix(legacyID string) string {
	return "profile-" + legacyID + "-"
}

// Migrate copies every photo of every profile. Missing sources are failures;
// destinations that already exist are skipped.
func (m *MediaMigrator) Migrate(ctx context.Context, profiles []wpexport.ParsedProfile) []MediaResult {
	total := 0
	for _, p := range profiles {
		total += len(p.Photos)
	}
	var results []MediaResult
	for _, p := range profiles {
		for i, photo := range p.Photos {
			results = append(results, m.copyOne(ctx, p.UserID, i, photo))
		}
		m.opts.Progress.Progress(m.opts.Phase, len(results), total)
	}
	return results
}

func (m *MediaMigrator) copyOne(ctx context.Context, legacyID string, index int, source string) MediaResult {
	name := DestinationName(legacyID, index, source)
	res := MediaResult{
		Result:      Result{LegacyID: legacyID},
		Index:       index,
		Source:      source,
		SourcePath:  filepath.Join(m.opts.UploadsDir, filepath.FromSlash(RelativePath(source))),
		Destination: m.destination(name),
	}
	log := m.opts.Logger.With("legacy_id", legacyID, "source", source)
	fail := func(err error) MediaResult {
		log.Warn("media copy failed", "error", err)
		res.Outcome = migrate.Failed
		res.Error = err.Error()
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	info, err := m.opts.FS.Stat(res.SourcePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fail(fmt.Errorf("source file not found: %s", res.SourcePath))
		}
		return fail(fmt.Errorf("reading source: %w", err))
	}
	if info.IsDir() {
		return fail(fmt.Errorf("source is a directory: %s", res.SourcePath))
	}

	exists, err := m.backend.Exists(ctx, name)
	if err != nil {
		return fail(err)
	}
	if exists {
		log.Debug("media exists, skipping", "destination", name)
		res.Outcome = migrate.Skipped
		res.Error = "destination already exists"
		return res
	}

	f, err := m.opts.FS.Open(res.SourcePath)
	if err != nil {
		return fail(fmt.Errorf("opening source: %w", err))
	}
	defer f.Close()
	if err := m.backend.Put(ctx, name, f, info.Size()); err != nil {
		return fail(err)
	}
	log.Debug("media copied", "destination", name, "bytes", info.Size())
	res.Outcome = migrate.Succeeded
	res.NewID = name
	res.Bytes = info.Size()
	return res
}

func (m *MediaMigrator) destination(name string) string {
	if m.opts.PathPrefix == "" {
		return name
	}
	return strings.TrimRight(m.opts.PathPrefix, "/") + "/" + name
}

// TallyMedia counts media outcomes.
func TallyMedia(results []MediaResult) migrate.EntityCounts {
	var c migrate.EntityCounts
	for _, r := range results {
		c.Add(r.Outcome)
	}
	return c
}

// RemapPhotos replaces each photo that was copied (or already present) with
// its destination path. Photos without a usable result keep their original
// URL.
func RemapPhotos(photos []string, results []MediaResult) []string {
	dest := make(map[string]string, len(results))
	for _, r := range results {
		if r.Success() {
			dest[r.Source] = r.Destination
		}
	}
	out := make([]string, len(photos))
	for i, p := range photos {
		if d, ok := dest[p]; ok {
			out[i] = d
		} else {
			out[i] = p
		}
	}
	return out
}

// RewritePhotoPaths points migrated profiles at their copied photos. It
// returns the number of profiles updated; per-profile failures are logged
// and returned as failed results.
func RewritePhotoPaths(ctx context.Context, s store.Store, results []MediaResult, logger *slog.Logger) (int, []Result) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	byLegacy := make(map[string][]MediaResult)
	var order []string
	for _, r := range results {
		if _, ok := byLegacy[r.LegacyID]; !ok {
			order = append(order, r.LegacyID)
		}
		byLegacy[r.LegacyID] = append(byLegacy[r.LegacyID], r)
	}

	updated := 0
	var failures []Result
	for _, legacyID := range order {
		prof, err := s.FindProfileByLegacyID(ctx, legacyID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logger.Warn("photo rewrite lookup failed", "legacy_id", legacyID, "error", err)
				failures = append(failures, failed(legacyID, err))
			}
			continue
		}
		photos := RemapPhotos(prof.Photos, byLegacy[legacyID])
		if slices.Equal(photos, prof.Photos) {
			continue
		}
		var primary *string
		if len(photos) > 0 {
			primary = &photos[0]
		}
		if err := s.UpdateProfilePhotos(ctx, prof.ID, photos, primary); err != nil {
			logger.Warn("photo rewrite failed", "legacy_id", legacyID, "error", err)
			failures = append(failures, failed(legacyID, err))
			continue
		}
		updated++
	}
	return updated, failures
}
