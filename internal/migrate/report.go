package migrate

import (
	"fmt"
	"io"
	"time"
)

// Outcome is the result class of one migrated item.
type Outcome int

const (
	Succeeded Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name in JSON reports.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// EntityCounts tallies the outcomes of one entity type.
type EntityCounts struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Add records one outcome.
func (c *EntityCounts) Add(o Outcome) {
	c.Total++
	switch o {
	case Succeeded:
		c.Succeeded++
	case Skipped:
		c.Skipped++
	case Failed:
		c.Failed++
	}
}

// Report is the running tally of one migrate invocation. It is owned by the
// orchestrator; migrators return results and never touch it.
type Report struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	DryRun     bool      `json:"dryRun"`

	// TotalProfiles and InvalidProfiles describe the export itself.
	TotalProfiles   int          `json:"totalProfiles"`
	InvalidProfiles int          `json:"invalidProfiles"`
	Users           EntityCounts `json:"users"`
	Profiles        EntityCounts `json:"profiles"`
	Media           EntityCounts `json:"media"`
	Errors          []string     `json:"errors"`
}

// NewReport starts a report at now.
func NewReport(dryRun bool, now time.Time) *Report {
	return &Report{StartedAt: now, DryRun: dryRun, Errors: []string{}}
}

// AddError appends a formatted per-item error.
func (r *Report) AddError(stage, legacyID, msg string) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s %s: %s", stage, legacyID, msg))
}

// Finish stamps the end time.
func (r *Report) Finish(now time.Time) {
	r.FinishedAt = now
}

// Duration is the wall time between start and finish.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// HasFailures reports whether any item failed.
func (r *Report) HasFailures() bool {
	return r.Users.Failed+r.Profiles.Failed+r.Media.Failed > 0
}

// PrintStage writes the one-line running summary after a stage.
func PrintStage(w io.Writer, name string, c EntityCounts) {
	fmt.Fprintf(w, "  %-10s %d succeeded, %d skipped, %d failed (of %d)\n",
		name+":", c.Succeeded, c.Skipped, c.Failed, c.Total)
}

// PrintSummary writes the final migration summary to w.
func (r *Report) PrintSummary(w io.Writer) {
	fmt.Fprintln(w)
	title := "  Migration Summary"
	if r.DryRun {
		title += " (dry run, nothing was written)"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Profiles in export: %d", r.TotalProfiles)
	if r.InvalidProfiles > 0 {
		fmt.Fprintf(w, " (%d with validation errors)", r.InvalidProfiles)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-10s %9s %9s %9s %9s\n", "", "total", "succeeded", "skipped", "failed")
	for _, row := range []struct {
		name string
		c    EntityCounts
	}{
		{"Users", r.Users},
		{"Profiles", r.Profiles},
		{"Media", r.Media},
	} {
		fmt.Fprintf(w, "  %-10s %9d %9d %9d %9d\n", row.name, row.c.Total, row.c.Succeeded, row.c.Skipped, row.c.Failed)
	}
	fmt.Fprintln(w)
	if d := r.Duration(); d > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(d))
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "  Errors (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "    - %s\n", e)
		}
	}
	fmt.Fprintln(w)
}
