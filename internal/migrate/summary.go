package migrate

import (
	"fmt"
	"io"
	"strings"
)

// AnalysisReport summarizes the export before a migration starts.
type AnalysisReport struct {
	SourceInfo      string   `json:"sourceInfo"` // e.g., "export.json, 2.1 MB, exported 2024-02-01"
	Users           int      `json:"users"`
	MetaRows        int      `json:"metaRows"`
	Attachments     int      `json:"attachments"`
	Photos          int      `json:"photos"`
	InvalidProfiles int      `json:"invalidProfiles"`
	DuplicateEmails int      `json:"duplicateEmails"`
	Target          string   `json:"target"`
	DryRun          bool     `json:"dryRun"`
	Warnings        []string `json:"warnings,omitempty"`
}

// PrintReport writes a formatted pre-flight report to w.
func (r *AnalysisReport) PrintReport(w io.Writer) {
	fmt.Fprintln(w)
	title := "  WordPress Talent Migration"
	if r.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w)
	if r.SourceInfo != "" {
		fmt.Fprintf(w, "  Source: %s\n", r.SourceInfo)
	}
	if r.Target != "" {
		fmt.Fprintf(w, "  Target: %s\n", r.Target)
	}
	if r.SourceInfo != "" || r.Target != "" {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  Users:        %d\n", r.Users)
	fmt.Fprintf(w, "  Meta rows:    %d\n", r.MetaRows)
	if r.Attachments > 0 {
		fmt.Fprintf(w, "  Attachments:  %d\n", r.Attachments)
	}
	if r.Photos > 0 {
		fmt.Fprintf(w, "  Photos:       %d\n", r.Photos)
	}
	if r.InvalidProfiles > 0 {
		fmt.Fprintf(w, "  Invalid:      %d\n", r.InvalidProfiles)
	}
	if r.DuplicateEmails > 0 {
		fmt.Fprintf(w, "  Dup. emails:  %d\n", r.DuplicateEmails)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "  Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "    - %s\n", warn)
		}
		fmt.Fprintln(w)
	}
}

// FormatBytes formats a byte count as a human-readable string (B, KB, MB, GB).
func FormatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// ValidationSummary compares source and target counts after migration.
type ValidationSummary struct {
	SourceLabel string
	TargetLabel string
	Rows        []ValidationRow
	Warnings    []string
}

// ValidationRow is a single line in the validation summary.
type ValidationRow struct {
	Label       string
	SourceCount int
	TargetCount int
}

// PrintSummary writes a formatted validation summary to w.
func (v *ValidationSummary) PrintSummary(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Source vs Target")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-28s  %-20s\n", v.SourceLabel, v.TargetLabel)
	fmt.Fprintf(w, "  %-28s  %-20s\n", strings.Repeat("-", 24), strings.Repeat("-", 16))

	allMatch := true
	for _, row := range v.Rows {
		match := "ok"
		if row.SourceCount != row.TargetCount {
			match = "MISMATCH"
			allMatch = false
		}
		fmt.Fprintf(w, "  %-16s %6d  ->  %6d  %s\n",
			row.Label, row.SourceCount, row.TargetCount, match)
	}
	fmt.Fprintln(w)

	if allMatch {
		fmt.Fprintln(w, "  All counts match.")
	}

	if len(v.Warnings) > 0 {
		fmt.Fprintln(w, "  Warnings:")
		for _, warn := range v.Warnings {
			fmt.Fprintf(w, "    - %s\n", warn)
		}
	}
	fmt.Fprintln(w)
}
