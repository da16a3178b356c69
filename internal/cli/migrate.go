package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/nawsaafa/talents-acting-sub000/internal/config"
	"github.com/nawsaafa/talents-acting-sub000/internal/media"
	"github.com/nawsaafa/talents-acting-sub000/internal/migrate"
	"github.com/nawsaafa/talents-acting-sub000/internal/store"
	"github.com/nawsaafa/talents-acting-sub000/internal/transform"
	"github.com/nawsaafa/talents-acting-sub000/internal/validate"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpexport"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpmigrate"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate users, profiles and photos from a WordPress export",
	Long: `Migrate every talent in a WordPress export to the talents database.

Stages run in order: parse, validate (report only), transform, accounts,
profiles, then photos when a media destination is configured. A record that
fails is reported and the run continues. Records already migrated are skipped,
so an interrupted run can simply be started again.

Accounts get a random password and must reset it on first login.`,
	Example: `talentmigrate migrate -e export.json --dry-run
talentmigrate migrate -e export.json --database-url postgresql://localhost/talents
talentmigrate migrate -e export.json -u ./wp-content/uploads -m ./public/talents --rewrite-photo-paths`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringP("export-file", "e", "", "Path to the WordPress export JSON")
	migrateCmd.Flags().StringP("uploads-dir", "u", "", "Path to the legacy wp-content/uploads directory")
	migrateCmd.Flags().StringP("media-destination", "m", "", "Directory photos are copied to")
	migrateCmd.Flags().BoolP("dry-run", "d", false, "Show what would be migrated without writing anything")
	migrateCmd.Flags().Bool("no-skip-existing", false, "Insert without looking up existing records first")
	migrateCmd.Flags().IntP("batch-size", "b", wpmigrate.DefaultBatchSize, "Records per progress batch")
	migrateCmd.Flags().BoolP("verbose", "v", false, "Debug logging and per-profile validation details")
	migrateCmd.Flags().String("database-url", "", "Target database URL (postgres:// or SQLite path)")
	migrateCmd.Flags().Bool("rewrite-photo-paths", false, "Point migrated profiles at the copied photos")

	migrateCmd.MarkFlagRequired("export-file")
}

// migrateOutput is the --json document.
type migrateOutput struct {
	Analysis *migrate.AnalysisReport `json:"analysis"`
	Report   *migrate.Report         `json:"report"`
	Users    []wpmigrate.Result      `json:"users"`
	Profiles []wpmigrate.Result      `json:"profiles"`
	Media    []wpmigrate.MediaResult `json:"media,omitempty"`
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	exportPath, _ := cmd.Flags().GetString("export-file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	rewrite, _ := cmd.Flags().GetBool("rewrite-photo-paths")
	jsonOut, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	logger, closeLog := newLogger(cfg.Logging, out)
	defer closeLog()
	ctx := cmd.Context()

	if cfg.MediaEnabled() {
		if cfg.Media.UploadsDir == "" {
			return fmt.Errorf("--uploads-dir is required when a media destination is set")
		}
		if _, err := os.Stat(cfg.Media.UploadsDir); err != nil {
			return fmt.Errorf("uploads directory: %w", err)
		}
	}

	src, err := readExport(out, exportPath, jsonOut)
	if err != nil {
		return err
	}
	vreport := validate.ValidateAll(src.Profiles)
	dups := validate.FindDuplicateEmails(src.Profiles)

	s, target, err := openStore(ctx, cfg, dryRun, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	analysis := &migrate.AnalysisReport{
		SourceInfo:      src.sourceInfo(),
		Users:           len(src.Export.Users),
		MetaRows:        len(src.Export.UserMeta),
		Attachments:     len(src.Export.Attachments),
		Photos:          src.photoCount(),
		InvalidProfiles: vreport.InvalidProfiles,
		DuplicateEmails: len(dups),
		Target:          target,
		DryRun:          dryRun,
	}
	for _, d := range dups {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("%s is shared by users %s; later users will be skipped", d.Email, strings.Join(d.LegacyIDs, ", ")))
	}
	if cfg.Media.UploadsDir != "" && !cfg.MediaEnabled() {
		analysis.Warnings = append(analysis.Warnings, "no media destination configured, photos will not be copied")
	}

	var progress migrate.ProgressReporter = migrate.NopReporter{}
	if !jsonOut {
		analysis.PrintReport(out)
		if verbose && (vreport.InvalidProfiles > 0 || vreport.TotalWarnings > 0) {
			fmt.Fprintln(out, validate.Summary(vreport))
		}
		progress = migrate.NewCLIReporter(out)
	}

	report := migrate.NewReport(dryRun, time.Now())
	report.TotalProfiles = len(src.Profiles)
	report.InvalidProfiles = vreport.InvalidProfiles

	p := &pipeline{
		cfg:      cfg,
		store:    s,
		logger:   logger,
		progress: progress,
		report:   report,
		dryRun:   dryRun,
		out:      out,
		quiet:    jsonOut,
		phases:   2,
	}
	var backend media.Backend
	if cfg.MediaEnabled() {
		backend, err = openMedia(ctx, cfg)
		if err != nil {
			return err
		}
		if dryRun {
			backend = media.DryRun(backend, logger)
		}
		p.phases++
	}

	ready := p.prepare(src.Profiles)
	users := p.users(ctx, ready)
	profiles := p.profiles(ctx, ready)
	var mediaResults []wpmigrate.MediaResult
	if backend != nil {
		mediaResults = p.copyMedia(ctx, backend, src.Profiles)
		if rewrite {
			p.rewrite(ctx, mediaResults)
		}
	}
	report.Finish(time.Now())

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(migrateOutput{
			Analysis: analysis,
			Report:   report,
			Users:    users,
			Profiles: profiles,
			Media:    mediaResults,
		})
	}

	report.PrintSummary(out)
	if !dryRun {
		if summary, err := buildValidationSummary(ctx, s, src, target); err != nil {
			logger.Warn("post-migration count failed", "error", err)
		} else {
			summary.PrintSummary(out)
		}
	}
	return nil
}

// pipeline runs the write stages of one migrate invocation and owns the
// report they feed.
type pipeline struct {
	cfg      *config.Config
	store    store.Store
	logger   *slog.Logger
	progress migrate.ProgressReporter
	report   *migrate.Report
	dryRun   bool
	out      io.Writer
	quiet    bool
	phases   int
	phase    int
}

func (p *pipeline) nextPhase(name string) migrate.Phase {
	p.phase++
	return migrate.Phase{Name: name, Index: p.phase, Total: p.phases}
}

func (p *pipeline) options(phase migrate.Phase) wpmigrate.Options {
	opts := wpmigrate.Options{
		BatchSize:    p.cfg.Migration.BatchSize,
		SkipExisting: p.cfg.Migration.SkipExisting,
		DryRun:       p.dryRun,
		Logger:       p.logger,
		Progress:     p.progress,
		Phase:        phase,
	}
	if !p.dryRun {
		opts.Hasher = wpmigrate.BcryptHasher{Cost: p.cfg.Migration.BcryptCost}
	}
	return opts
}

// prepare normalizes every profile and drops the ones that fail the
// structural check. Only the returned records are written.
func (p *pipeline) prepare(profiles []wpexport.ParsedProfile) []transform.Transformed {
	tr := transform.New(transform.Options{
		PhoneRegion: p.cfg.Migration.PhoneRegion,
		Logger:      p.logger,
	})
	transformed := tr.TransformAll(profiles)

	done := make(map[string]bool, len(transformed))
	ready := make([]transform.Transformed, 0, len(transformed))
	for _, t := range transformed {
		done[t.LegacyID] = true
		for _, w := range t.Warnings {
			p.logger.Debug("transform warning", "legacy_id", t.LegacyID, "warning", w)
		}
		if problems := transform.ValidateTransformed(t); len(problems) > 0 {
			msg := strings.Join(problems, "; ")
			p.logger.Debug("profile not migrated", "legacy_id", t.LegacyID, "reason", msg)
			p.progress.Warn(fmt.Sprintf("profile %s not migrated: %s", t.LegacyID, msg))
			p.report.AddError("transform", t.LegacyID, msg)
			continue
		}
		ready = append(ready, t)
	}
	for _, prof := range profiles {
		if !done[prof.UserID] {
			p.report.AddError("transform", prof.UserID, "transform failed")
		}
	}
	return ready
}

func (p *pipeline) recordErrors(stage string, results []wpmigrate.Result) {
	for _, r := range results {
		if r.Outcome == migrate.Failed {
			p.report.AddError(stage, r.LegacyID, r.Error)
		}
	}
}

func (p *pipeline) runPhase(name string, total int, run func(migrate.Phase)) {
	phase := p.nextPhase(name)
	start := time.Now()
	p.progress.StartPhase(phase, total)
	run(phase)
	p.progress.CompletePhase(phase, total, time.Since(start))
}

func (p *pipeline) printStage(name string, c migrate.EntityCounts) {
	if !p.quiet {
		migrate.PrintStage(p.out, name, c)
	}
}

func (p *pipeline) users(ctx context.Context, records []transform.Transformed) []wpmigrate.Result {
	var results []wpmigrate.Result
	p.runPhase("Users", len(records), func(phase migrate.Phase) {
		results = wpmigrate.NewUserMigrator(p.store, p.options(phase)).Migrate(ctx, records)
	})
	p.report.Users = wpmigrate.Tally(results)
	p.recordErrors("user", results)
	p.printStage("Users", p.report.Users)
	return results
}

func (p *pipeline) profiles(ctx context.Context, records []transform.Transformed) []wpmigrate.Result {
	var results []wpmigrate.Result
	p.runPhase("Profiles", len(records), func(phase migrate.Phase) {
		results = wpmigrate.NewProfileMigrator(p.store, p.options(phase)).Migrate(ctx, records)
	})
	p.report.Profiles = wpmigrate.Tally(results)
	p.recordErrors("profile", results)
	p.printStage("Profiles", p.report.Profiles)
	return results
}

func (p *pipeline) copyMedia(ctx context.Context, backend media.Backend, profiles []wpexport.ParsedProfile) []wpmigrate.MediaResult {
	total := 0
	for _, prof := range profiles {
		total += len(prof.Photos)
	}
	var results []wpmigrate.MediaResult
	p.runPhase("Media", total, func(phase migrate.Phase) {
		results = wpmigrate.NewMediaMigrator(backend, wpmigrate.MediaOptions{
			UploadsDir: p.cfg.Media.UploadsDir,
			PathPrefix: p.cfg.Media.PathPrefix,
			Logger:     p.logger,
			Progress:   p.progress,
			Phase:      phase,
		}).Migrate(ctx, profiles)
	})
	p.report.Media = wpmigrate.TallyMedia(results)
	for _, r := range results {
		if r.Outcome == migrate.Failed {
			p.report.AddError("media", r.LegacyID, r.Error)
		}
	}
	p.printStage("Media", p.report.Media)
	return results
}

func (p *pipeline) rewrite(ctx context.Context, results []wpmigrate.MediaResult) {
	updated, failures := wpmigrate.RewritePhotoPaths(ctx, p.store, results, p.logger)
	p.recordErrors("photos", failures)
	if !p.quiet {
		fmt.Fprintf(p.out, "  %-10s %d profiles updated, %d failed\n", "Photos:", updated, len(failures))
	}
}

// buildValidationSummary compares the export with what the store now holds.
func buildValidationSummary(ctx context.Context, s store.Store, src *loadedExport, target string) (*migrate.ValidationSummary, error) {
	ids := wpexport.LegacyIDs(src.Export)
	accounts, profiles, err := s.CountByLegacyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	summary := &migrate.ValidationSummary{
		SourceLabel: "WordPress export",
		TargetLabel: target,
		Rows: []migrate.ValidationRow{
			{Label: "Accounts", SourceCount: len(ids), TargetCount: accounts},
			{Label: "Profiles", SourceCount: len(ids), TargetCount: profiles},
		},
	}
	if accounts < len(ids) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%d legacy users have no account; see the errors above", len(ids)-accounts))
	}
	return summary, nil
}
