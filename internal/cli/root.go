package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersion is called from main to inject build-time version info.
func SetVersion(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
}

var rootCmd = &cobra.Command{
	Use:   "talentmigrate",
	Short: "Migrate WordPress talent profiles into the talents database",
	Long: `talentmigrate reads a WordPress user export, validates and normalizes every
talent profile, and writes accounts, profiles and photos to the new platform.
Re-runs are safe: records already migrated are skipped by legacy id.

Check an export without touching the database:
  talentmigrate validate -e export.json

Preview, then run a migration:
  talentmigrate migrate -e export.json --dry-run
  talentmigrate migrate -e export.json -u ./wp-content/uploads -m ./public/talents`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./talentmigrate.toml)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().String("log-file", "", "Also write debug logs as JSON to this file (rotated)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	initHelp()
}

// Execute runs the root command with a context that SIGINT and SIGTERM
// cancel. Rows already written stay written.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
