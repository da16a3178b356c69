package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nawsaafa/talents-acting-sub000/internal/store"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpexport"
	"github.com/nawsaafa/talents-acting-sub000/internal/wpmigrate"
	"github.com/spf13/cobra"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Delete migrated accounts, profiles and photos",
	Long: `Delete everything a migration created for a set of legacy users.

The users come from an export file (every user in it) or from --legacy-ids.
Profiles are deleted first, then accounts, then photos named
profile-<legacy id>-* in the media directory. Users that were never migrated
are ignored. Use --dry-run to list what would be deleted.`,
	Example: `talentmigrate rollback -e export.json --dry-run
talentmigrate rollback --legacy-ids 12,48 -m ./public/talents`,
	Args: cobra.NoArgs,
	RunE: runRollback,
}

func init() {
	rollbackCmd.Flags().StringP("export-file", "e", "", "Path to the WordPress export JSON")
	rollbackCmd.Flags().StringSlice("legacy-ids", nil, "Comma-separated legacy user ids to roll back")
	rollbackCmd.Flags().StringP("media-dir", "m", "", "Directory migrated photos were copied to")
	rollbackCmd.Flags().BoolP("dry-run", "d", false, "Show what would be deleted without deleting anything")
	rollbackCmd.Flags().BoolP("verbose", "v", false, "Debug logging")
	rollbackCmd.Flags().String("database-url", "", "Target database URL (postgres:// or SQLite path)")

	rollbackCmd.MarkFlagsOneRequired("export-file", "legacy-ids")
	rollbackCmd.MarkFlagsMutuallyExclusive("export-file", "legacy-ids")
}

func runRollback(cmd *cobra.Command, _ []string) error {
	exportPath, _ := cmd.Flags().GetString("export-file")
	legacyIDs, _ := cmd.Flags().GetStringSlice("legacy-ids")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	jsonOut, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	logger, closeLog := newLogger(cfg.Logging, out)
	defer closeLog()
	ctx := cmd.Context()

	if exportPath != "" {
		src, err := readExport(out, exportPath, jsonOut)
		if err != nil {
			return err
		}
		legacyIDs = wpexport.LegacyIDs(src.Export)
	}
	ids := make([]string, 0, len(legacyIDs))
	for _, id := range legacyIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no legacy ids to roll back")
	}

	// NewRollback wraps the store itself on a dry run; the schema is only
	// created for a real one.
	var s store.Store
	if dryRun {
		sq, _, err := connectStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		s = sq
	} else {
		sq, _, err := openStore(ctx, cfg, false, logger)
		if err != nil {
			return err
		}
		s = sq
	}
	defer s.Close()

	backend, err := openMedia(ctx, cfg)
	if err != nil {
		return err
	}

	result := wpmigrate.NewRollback(s, backend, wpmigrate.RollbackOptions{
		DryRun: dryRun,
		Logger: logger,
	}).Run(ctx, ids)

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprint(out, result.Summary())
	fmt.Fprintln(out)
	return nil
}
