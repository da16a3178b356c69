package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/nawsaafa/talents-acting-sub000/internal/cli/ui"
	"github.com/nawsaafa/talents-acting-sub000/internal/config"
	"github.com/nawsaafa/talents-acting-sub000/internal/media"
	"github.com/nawsaafa/talents-acting-sub000/internal/migrate"
	"github.com/nawsaafa/talents-acting-sub000/internal/store"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpexport"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// loadConfig resolves the configuration for cmd. Only flags the user set are
// passed on, so unset flags never shadow file or env values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	flags := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		flags[f.Name] = f.Value.String()
	})
	return config.Load(configPath, flags)
}

// loadedExport is a parsed export plus what the pre-flight report needs.
type loadedExport struct {
	Path     string
	Size     int64
	Export   *wpexport.Export
	Profiles []wpexport.ParsedProfile
}

// readExport parses the export file behind a step spinner.
func readExport(w io.Writer, path string, quiet bool) (*loadedExport, error) {
	if path == "" {
		return nil, fmt.Errorf("--export-file is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("export file: %w", err)
	}

	var sp *ui.StepSpinner
	if !quiet {
		sp = ui.NewStepSpinner(w, !colorEnabled())
		sp.Start("Reading " + filepath.Base(path) + "...")
	}
	export, err := wpexport.ParseExportFile(path)
	if err != nil {
		if sp != nil {
			sp.Fail()
		}
		return nil, err
	}
	if sp != nil {
		sp.Done()
	}

	return &loadedExport{
		Path:     path,
		Size:     info.Size(),
		Export:   export,
		Profiles: wpexport.ParseProfiles(export),
	}, nil
}

// sourceInfo describes the export for the pre-flight report.
func (l *loadedExport) sourceInfo() string {
	s := fmt.Sprintf("%s, %s", filepath.Base(l.Path), migrate.FormatBytes(l.Size))
	if l.Export.ExportDate != "" {
		s += ", exported " + l.Export.ExportDate
	}
	return s
}

func (l *loadedExport) photoCount() int {
	n := 0
	for _, p := range l.Profiles {
		n += len(p.Photos)
	}
	return n
}

// openStore connects to the configured database. A dry run without a
// database URL runs against an empty in-memory store, so every record looks
// new. Dry runs never create the schema.
func openStore(ctx context.Context, cfg *config.Config, dryRun bool, logger *slog.Logger) (store.Store, string, error) {
	if cfg.Database.URL == "" {
		if dryRun {
			return store.DryRun(store.NewMemory(), logger), "in-memory (dry run, no database configured)", nil
		}
		return nil, "", fmt.Errorf("no database configured")
	}

	s, target, err := connectStore(ctx, cfg, logger)
	if err != nil {
		return nil, "", err
	}
	if dryRun {
		return store.DryRun(s, logger), target, nil
	}
	if err := s.EnsureSchema(ctx); err != nil {
		s.Close()
		return nil, "", err
	}
	return s, target, nil
}

// connectStore opens the configured database as is, without creating tables.
func connectStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store.SQLStore, string, error) {
	if cfg.Database.URL == "" {
		return nil, "", fmt.Errorf("no database configured")
	}
	s, err := store.Open(ctx, store.Config{
		URL:            cfg.Database.URL,
		MaxConns:       cfg.Database.MaxConns,
		ConnectTimeout: time.Duration(cfg.Database.ConnectTimeout) * time.Second,
	}, logger)
	if err != nil {
		return nil, "", err
	}
	return s, fmt.Sprintf("%s (%s)", redactURL(cfg.Database.URL), s.Dialect()), nil
}

// openMedia returns the configured media backend, or nil when media is not
// configured.
func openMedia(ctx context.Context, cfg *config.Config) (media.Backend, error) {
	if !cfg.MediaEnabled() {
		return nil, nil
	}
	if cfg.Media.Backend == "s3" {
		b, err := media.NewS3Backend(ctx, media.S3Config{
			Endpoint:  cfg.Media.S3Endpoint,
			Bucket:    cfg.Media.S3Bucket,
			Region:    cfg.Media.S3Region,
			AccessKey: cfg.Media.S3AccessKey,
			SecretKey: cfg.Media.S3SecretKey,
			UseSSL:    cfg.Media.S3UseSSL,
			Prefix:    cfg.Media.S3Prefix,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return media.NewLocalBackend(cfg.Media.DestinationDir), nil
}

// redactURL hides the password of a database URL. SQLite paths pass through.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

// errorHints are the suggestions main prints under a failed command.
var errorHints = []ui.Hint{
	{Contains: "no database configured", Suggestions: []string{
		"pass --database-url, or set TALENTS_DATABASE_URL",
		"use --dry-run to preview without a database",
	}},
	{Contains: "--export-file", Suggestions: []string{"talentmigrate migrate --export-file export.json"}},
	{Contains: "invalid export", Suggestions: []string{"check the file is a WordPress export with \"users\" and \"usermeta\" lists"}},
	{Contains: "connecting to", Suggestions: []string{"check the database is running and the URL is correct"}},
	{Contains: "config validation", Suggestions: []string{"talentmigrate config", "talentmigrate config init --force"}},
	{Contains: ".toml:", Suggestions: []string{"check the TOML syntax, or regenerate it with talentmigrate config init --force"}},
}

// FormatError renders a command error for main, with fix suggestions.
func FormatError(err error) string {
	return ui.FormatErrorHints(err, errorHints)
}
