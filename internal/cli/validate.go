package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nawsaafa/talents-acting-sub000/internal/transform"
	"github.com/nawsaafa/talents-acting-sub000/internal/validate"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a WordPress export without writing anything",
	Long: `Check every profile of a WordPress export and print a report.

Reports duplicate emails, field validation errors and warnings, and profiles
that would be refused at migration time. Nothing is written to the database.
Invalid profiles do not make the command fail.`,
	Example: `talentmigrate validate -e export.json
talentmigrate validate -e export.json -v --report-file report.json`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringP("export-file", "e", "", "Path to the WordPress export JSON")
	validateCmd.Flags().BoolP("verbose", "v", false, "Print transform warnings for every profile")
	validateCmd.Flags().String("report-file", "", "Also write the full report as JSON to this file")

	validateCmd.MarkFlagRequired("export-file")
}

// validateOutput is the --json and --report-file document.
type validateOutput struct {
	Validation      validate.Report           `json:"validation"`
	DuplicateEmails []validate.DuplicateEmail `json:"duplicateEmails"`
	// Refused maps legacy ids to the reasons migrate would not write them.
	Refused map[string][]string `json:"refused"`
	// Warnings maps legacy ids to their transform warnings.
	Warnings map[string][]string `json:"warnings"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	exportPath, _ := cmd.Flags().GetString("export-file")
	verbose, _ := cmd.Flags().GetBool("verbose")
	reportFile, _ := cmd.Flags().GetString("report-file")
	jsonOut, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	logger, closeLog := newLogger(cfg.Logging, out)
	defer closeLog()

	src, err := readExport(out, exportPath, jsonOut)
	if err != nil {
		return err
	}

	result := validateOutput{
		DuplicateEmails: validate.FindDuplicateEmails(src.Profiles),
		Validation:      validate.ValidateAll(src.Profiles),
		Refused:         map[string][]string{},
		Warnings:        map[string][]string{},
	}

	tr := transform.New(transform.Options{PhoneRegion: cfg.Migration.PhoneRegion, Logger: logger})
	for _, t := range tr.TransformAll(src.Profiles) {
		if len(t.Warnings) > 0 {
			result.Warnings[t.LegacyID] = t.Warnings
		}
		if problems := transform.ValidateTransformed(t); len(problems) > 0 {
			result.Refused[t.LegacyID] = problems
		}
	}

	if reportFile != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		if err := os.WriteFile(reportFile, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	c := colorEnabled()
	fmt.Fprintln(out)
	if len(result.DuplicateEmails) > 0 {
		fmt.Fprintf(out, "%s\n", yellow(fmt.Sprintf("Duplicate emails (%d):", len(result.DuplicateEmails)), c))
		for _, d := range result.DuplicateEmails {
			fmt.Fprintf(out, "  %s: users %v\n", d.Email, d.LegacyIDs)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprint(out, validate.Summary(result.Validation))

	if len(result.Refused) > 0 {
		fmt.Fprintf(out, "\n%s\n", yellow(fmt.Sprintf("Refused at migration (%d):", len(result.Refused)), c))
		for _, prof := range src.Profiles {
			if problems, ok := result.Refused[prof.UserID]; ok {
				fmt.Fprintf(out, "  User %s: %v\n", prof.UserID, problems)
			}
		}
	}
	if verbose && len(result.Warnings) > 0 {
		fmt.Fprintf(out, "\nTransform warnings:\n")
		for _, prof := range src.Profiles {
			for _, w := range result.Warnings[prof.UserID] {
				fmt.Fprintf(out, "  User %s: %s\n", prof.UserID, w)
			}
		}
	}
	if reportFile != "" {
		fmt.Fprintf(out, "\n%s\n", dim("Report written to "+reportFile, c))
	}
	fmt.Fprintln(out)
	return nil
}
