package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nawsaafa/talents-acting-sub000/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print resolved configuration",
	Long: `Load and print the resolved talentmigrate configuration as TOML.
Shows the result of merging defaults, talentmigrate.toml and TALENTS_*
environment variables. Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented default talentmigrate.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	masked := *cfg
	masked.Database.URL = redactURL(cfg.Database.URL)
	if masked.Media.S3SecretKey != "" {
		masked.Media.S3SecretKey = "********"
	}

	if jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(&masked)
	}

	out, err := masked.ToTOML()
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := config.DefaultPath
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.GenerateDefault(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
