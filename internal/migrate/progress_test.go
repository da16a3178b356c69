package migrate

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nawsaafa/talents-acting-sub000/internal/testutil"
)

func TestCLIReporter(t *testing.T) {
	t.Run("complete phase output", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewCLIReporter(&buf)

		phase := Phase{Name: "Users", Index: 1, Total: 3}
		r.StartPhase(phase, 10)
		r.Progress(phase, 5, 10)
		r.CompletePhase(phase, 10, 200*time.Millisecond)

		output := buf.String()
		testutil.Contains(t, output, "[1/3]")
		testutil.Contains(t, output, "Users")
		testutil.Contains(t, output, "5/10")
		testutil.Contains(t, output, "10 items")
		testutil.Contains(t, output, "✓")
		testutil.Contains(t, output, "200ms")
	})

	t.Run("zero items shows skipped", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewCLIReporter(&buf)

		phase := Phase{Name: "Media", Index: 3, Total: 3}
		r.StartPhase(phase, 0)
		r.CompletePhase(phase, 0, 5*time.Millisecond)

		testutil.Contains(t, buf.String(), "skipped")
	})

	t.Run("seconds formatting", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewCLIReporter(&buf)

		phase := Phase{Name: "Profiles", Index: 2, Total: 3}
		r.CompletePhase(phase, 5000, 2500*time.Millisecond)

		testutil.Contains(t, buf.String(), "2.5s")
	})

	t.Run("warn output", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewCLIReporter(&buf)

		r.Warn("3 profiles have validation errors")

		output := buf.String()
		testutil.Contains(t, output, "⚠")
		testutil.Contains(t, output, "3 profiles have validation errors")
	})
}

func TestNopReporter(t *testing.T) {
	// NopReporter should not panic on any method call.
	r := NopReporter{}
	phase := Phase{Name: "test", Index: 1, Total: 1}
	r.StartPhase(phase, 10)
	r.Progress(phase, 5, 10)
	r.CompletePhase(phase, 10, time.Second)
	r.Warn("test warning")
}

func TestBatches(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4, 5, 6, 7}
	tests := []struct {
		name  string
		size  int
		sizes []int
	}{
		{"even split", 7, []int{7}},
		{"remainder", 3, []int{3, 3, 1}},
		{"one each", 1, []int{1, 1, 1, 1, 1, 1, 1}},
		{"bigger than input", 50, []int{7}},
		{"zero size", 0, []int{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Batches(items, tt.size)
			testutil.SliceLen(t, got, len(tt.sizes))
			flat := 0
			for i, b := range got {
				testutil.Equal(t, tt.sizes[i], len(b))
				for _, v := range b {
					flat++
					testutil.Equal(t, flat, v)
				}
			}
		})
	}
	testutil.SliceLen(t, Batches([]string(nil), 10), 0)
}

func TestAnalysisReport_PrintReport(t *testing.T) {
	t.Run("full report", func(t *testing.T) {
		var buf bytes.Buffer
		report := &AnalysisReport{
			SourceInfo:      "export.json, 2.1 MB",
			Target:          "sqlite",
			Users:           347,
			MetaRows:        8432,
			Attachments:     120,
			Photos:          904,
			InvalidProfiles: 4,
			DuplicateEmails: 2,
			DryRun:          true,
			Warnings:        []string{"2 emails are shared by several users"},
		}

		report.PrintReport(&buf)
		output := buf.String()

		testutil.Contains(t, output, "(dry run)")
		testutil.Contains(t, output, "Source: export.json, 2.1 MB")
		testutil.Contains(t, output, "Target: sqlite")
		testutil.Contains(t, output, "Users:        347")
		testutil.Contains(t, output, "Meta rows:    8432")
		testutil.Contains(t, output, "Attachments:  120")
		testutil.Contains(t, output, "Photos:       904")
		testutil.Contains(t, output, "Invalid:      4")
		testutil.Contains(t, output, "Dup. emails:  2")
		testutil.Contains(t, output, "Warnings:")
	})

	t.Run("minimal report hides zero fields", func(t *testing.T) {
		var buf bytes.Buffer
		report := &AnalysisReport{Users: 3, MetaRows: 100}

		report.PrintReport(&buf)
		output := buf.String()

		testutil.Contains(t, output, "Users:        3")
		testutil.Contains(t, output, "Meta rows:    100")
		testutil.False(t, strings.Contains(output, "Attachments:"), "should not show Attachments when 0")
		testutil.False(t, strings.Contains(output, "Photos:"), "should not show Photos when 0")
		testutil.False(t, strings.Contains(output, "dry run"), "not a dry run")
	})
}

func TestValidationSummary_PrintSummary(t *testing.T) {
	t.Run("matching counts", func(t *testing.T) {
		var buf bytes.Buffer
		summary := &ValidationSummary{
			SourceLabel: "Source (WordPress)",
			TargetLabel: "Target (database)",
			Rows: []ValidationRow{
				{Label: "Accounts", SourceCount: 12, TargetCount: 12},
				{Label: "Profiles", SourceCount: 12, TargetCount: 12},
			},
		}

		summary.PrintSummary(&buf)
		output := buf.String()

		testutil.Contains(t, output, "Source vs Target")
		testutil.Contains(t, output, "All counts match")
		testutil.Contains(t, output, "Accounts")
	})

	t.Run("mismatched counts", func(t *testing.T) {
		var buf bytes.Buffer
		summary := &ValidationSummary{
			SourceLabel: "Source (WordPress)",
			TargetLabel: "Target (database)",
			Rows: []ValidationRow{
				{Label: "Accounts", SourceCount: 12, TargetCount: 12},
				{Label: "Profiles", SourceCount: 12, TargetCount: 10},
			},
			Warnings: []string{"2 profiles failed"},
		}

		summary.PrintSummary(&buf)
		output := buf.String()

		testutil.Contains(t, output, "MISMATCH")
		testutil.Contains(t, output, "2 profiles failed")
		testutil.False(t, strings.Contains(output, "All counts match"), "mismatch must not claim a match")
	})
}

func TestReport(t *testing.T) {
	start := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	r := NewReport(true, start)
	r.TotalProfiles = 3
	r.InvalidProfiles = 1
	r.Users.Add(Succeeded)
	r.Users.Add(Skipped)
	r.Users.Add(Failed)
	r.Profiles.Add(Succeeded)
	r.AddError("user", "7", "boom")
	r.Finish(start.Add(1500 * time.Millisecond))

	testutil.Equal(t, 3, r.Users.Total)
	testutil.Equal(t, 1, r.Users.Failed)
	testutil.True(t, r.HasFailures())
	testutil.Equal(t, 1500*time.Millisecond, r.Duration())

	var buf bytes.Buffer
	r.PrintSummary(&buf)
	output := buf.String()
	testutil.Contains(t, output, "dry run")
	testutil.Contains(t, output, "Profiles in export: 3 (1 with validation errors)")
	testutil.Contains(t, output, "Duration: 1.5s")
	testutil.Contains(t, output, "user 7: boom")

	buf.Reset()
	PrintStage(&buf, "Users", r.Users)
	testutil.Contains(t, buf.String(), "1 succeeded, 1 skipped, 1 failed (of 3)")
	testutil.Equal(t, "skipped", Skipped.String())
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{89 * 1024 * 1024, "89.0 MB"},
		{int64(2.5 * 1024 * 1024 * 1024), "2.5 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			testutil.Equal(t, tt.expected, FormatBytes(tt.bytes))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{50 * time.Millisecond, "50ms"},
		{999 * time.Millisecond, "999ms"},
		{1 * time.Second, "1.0s"},
		{2500 * time.Millisecond, "2.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			testutil.Equal(t, tt.expected, formatDuration(tt.d))
		})
	}
}
