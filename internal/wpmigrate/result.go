// Package wpmigrate writes transformed WordPress talents into the target
// store: accounts first, then profiles, then media, with a rollback that
// reverses all three by legacy user id.
package wpmigrate

import (
	"log/slog"

	"github.com/nawsaafa/talents-acting-sub000/internal/migrate"
)

// Defaults for Options.
const (
	DefaultBatchSize  = 50
	DefaultBcryptCost = 12
)

// Result is the outcome of migrating one entity.
type Result struct {
	LegacyID string          `json:"legacyId"`
	NewID    string          `json:"newId,omitempty"`
	Outcome  migrate.Outcome `json:"outcome"`
	Error    string          `json:"error,omitempty"`
}

// Success reports whether the entity was written or already present.
func (r Result) Success() bool { return r.Outcome != migrate.Failed }

// Skipped reports whether the entity already existed.
func (r Result) Skipped() bool { return r.Outcome == migrate.Skipped }

func succeeded(legacyID, id string) Result {
	return Result{LegacyID: legacyID, NewID: id, Outcome: migrate.Succeeded}
}

func skipped(legacyID, id, reason string) Result {
	return Result{LegacyID: legacyID, NewID: id, Outcome: migrate.Skipped, Error: reason}
}

func failed(legacyID string, err error) Result {
	return Result{LegacyID: legacyID, Outcome: migrate.Failed, Error: err.Error()}
}

// Tally counts outcomes.
func Tally(results []Result) migrate.EntityCounts {
	var c migrate.EntityCounts
	for _, r := range results {
		c.Add(r.Outcome)
	}
	return c
}

// Options controls the user and profile migrators.
type Options struct {
	// BatchSize is the number of records handled between progress updates.
	BatchSize int
	// SkipExisting looks up each record before inserting it and skips
	// records already present. Without it duplicates are still skipped when
	// the insert hits a unique constraint.
	SkipExisting bool
	DryRun       bool
	// Hasher hashes account passwords. Defaults to bcrypt, or a placeholder
	// in dry-run mode.
	Hasher   Hasher
	Logger   *slog.Logger
	Progress migrate.ProgressReporter
	Phase    migrate.Phase
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Hasher == nil {
		if o.DryRun {
			o.Hasher = PlaceholderHasher{}
		} else {
			o.Hasher = BcryptHasher{Cost: DefaultBcryptCost}
		}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Progress == nil {
		o.Progress = migrate.NopReporter{}
	}
	return o
}
