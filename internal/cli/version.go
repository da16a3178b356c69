package cli

import (
	"encoding/json"
	"fmt"

	"github.com/nawsaafa/talents-acting-sub000/internal/cli/ui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print talentmigrate version",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		if jsonOut {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s talentmigrate %s (commit: %s, built: %s)\n", ui.BrandEmoji, buildVersion, buildCommit, buildDate)
		return nil
	},
}
