// Package migrate provides the shared infrastructure of the talent migration:
// progress reporting, batching, the run report and the before/after summaries.
package migrate

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Phase represents a named migration phase (e.g., "Users", "Profiles", "Media").
type Phase struct {
	Name  string
	Index int // 1-based
	Total int
}

// ProgressReporter receives progress updates from a migrator.
type ProgressReporter interface {
	// StartPhase is called when a new migration phase begins.
	StartPhase(phase Phase, totalItems int)
	// Progress is called as items are processed within a phase.
	Progress(phase Phase, completed int, totalItems int)
	// CompletePhase is called when a phase finishes.
	CompletePhase(phase Phase, totalItems int, elapsed time.Duration)
	// Warn reports a non-fatal warning.
	Warn(msg string)
}

// CLIReporter prints progress to a terminal writer.
type CLIReporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewCLIReporter creates a reporter that writes to w.
func NewCLIReporter(w io.Writer) *CLIReporter {
	return &CLIReporter{w: w}
}

func (r *CLIReporter) StartPhase(phase Phase, totalItems int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "  [%d/%d] %-16s", phase.Index, phase.Total, phase.Name)
}

func (r *CLIReporter) Progress(phase Phase, completed int, totalItems int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if totalItems > 0 {
		fmt.Fprintf(r.w, "\r  [%d/%d] %-16s %d/%d",
			phase.Index, phase.Total, phase.Name, completed, totalItems)
	}
}

func (r *CLIReporter) CompletePhase(phase Phase, totalItems int, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	label := fmt.Sprintf("%d items", totalItems)
	if totalItems == 0 {
		label = "skipped"
	}
	fmt.Fprintf(r.w, "\r  [%d/%d] %-16s %-20s ✓ done  (%s)\n",
		phase.Index, phase.Total, phase.Name, label, formatDuration(elapsed))
}

func (r *CLIReporter) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "  ⚠ %s\n", msg)
}

// NopReporter discards all progress updates (used in tests and --json mode).
type NopReporter struct{}

func (NopReporter) StartPhase(Phase, int)                   {}
func (NopReporter) Progress(Phase, int, int)                {}
func (NopReporter) CompletePhase(Phase, int, time.Duration) {}
func (NopReporter) Warn(string)                             {}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Batches splits items into consecutive chunks of at most size elements.
// A size below 1 yields a single chunk.
func Batches[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size < 1 {
		size = len(items)
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
