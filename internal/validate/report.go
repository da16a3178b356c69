package validate

import (
	"fmt"
	"strings"

	"github.com/nawsaafa/talents-acting-sub000/internal/wpexport"
)

// Report aggregates the validation results of a whole export.
type Report struct {
	TotalProfiles   int      `json:"totalProfiles"`
	ValidProfiles   int      `json:"validProfiles"`
	InvalidProfiles int      `json:"invalidProfiles"`
	TotalErrors     int      `json:"totalErrors"`
	TotalWarnings   int      `json:"totalWarnings"`
	Results         []Result `json:"results"`
}

// ValidateAll validates every profile in order.
func ValidateAll(profiles []wpexport.ParsedProfile) Report {
	r := Report{
		TotalProfiles: len(profiles),
		Results:       make([]Result, 0, len(profiles)),
	}
	for _, p := range profiles {
		res := ValidateProfile(p)
		if res.IsValid {
			r.ValidProfiles++
		} else {
			r.InvalidProfiles++
		}
		for _, i := range res.Issues {
			if i.Type == SeverityError {
				r.TotalErrors++
			} else {
				r.TotalWarnings++
			}
		}
		r.Results = append(r.Results, res)
	}
	return r
}

// DuplicateEmail is a group of legacy users sharing one email address.
type DuplicateEmail struct {
	Email     string   `json:"email"`
	LegacyIDs []string `json:"legacyIds"`
}

// FindDuplicateEmails groups legacy keys by lower-cased email and returns the
// groups with two or more members, ordered by first occurrence.
func FindDuplicateEmails(profiles []wpexport.ParsedProfile) []DuplicateEmail {
	var order []string
	groups := make(map[string][]string)
	for _, p := range profiles {
		email := strings.ToLower(strings.TrimSpace(p.Email))
		if email == "" {
			continue
		}
		if _, seen := groups[email]; !seen {
			order = append(order, email)
		}
		groups[email] = append(groups[email], p.UserID)
	}

	var dups []DuplicateEmail
	for _, email := range order {
		if ids := groups[email]; len(ids) >= 2 {
			dups = append(dups, DuplicateEmail{Email: email, LegacyIDs: ids})
		}
	}
	return dups
}

// Summary renders the report as text: totals, then the issues of every
// invalid profile, then the issues of every valid profile that has warnings.
func Summary(r Report) string {
	var b strings.Builder
	b.WriteString("Validation Summary\n")
	b.WriteString("==================\n")
	fmt.Fprintf(&b, "Total profiles:   %d\n", r.TotalProfiles)
	fmt.Fprintf(&b, "Valid profiles:   %d\n", r.ValidProfiles)
	fmt.Fprintf(&b, "Invalid profiles: %d\n", r.InvalidProfiles)
	fmt.Fprintf(&b, "Total errors:     %d\n", r.TotalErrors)
	fmt.Fprintf(&b, "Total warnings:   %d\n", r.TotalWarnings)

	var invalid, warned []Result
	for _, res := range r.Results {
		switch {
		case !res.IsValid:
			invalid = append(invalid, res)
		case len(res.Issues) > 0:
			warned = append(warned, res)
		}
	}

	if len(invalid) > 0 {
		b.WriteString("\nInvalid profiles:\n")
		for _, res := range invalid {
			writeIssues(&b, res)
		}
	}
	if len(warned) > 0 {
		b.WriteString("\nProfiles with warnings:\n")
		for _, res := range warned {
			writeIssues(&b, res)
		}
	}
	return b.String()
}

func writeIssues(b *strings.Builder, res Result) {
	fmt.Fprintf(b, "  User %s:\n", res.LegacyID)
	for _, i := range res.Issues {
		tag := "[WARN]"
		if i.Type == SeverityError {
			tag = "[ERROR]"
		}
		fmt.Fprintf(b, "    %s %s: %s\n", tag, i.Field, i.Message)
	}
}
