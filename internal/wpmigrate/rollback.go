package wpmigrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nawsaafa/talents-acting-sub000/internal/media"
	"github.com/nawsaafa/talents-acting-sub000/internal/store"
)

// RollbackOptions controls a rollback.
type RollbackOptions struct {
	DryRun bool
	Logger *slog.Logger
}

// Rollback deletes everything a migration created for a set of legacy ids.
type Rollback struct {
	store   store.Store
	backend media.Backend
	opts    RollbackOptions
}

// RollbackResult counts what was (or in a dry run, would be) deleted.
type RollbackResult struct {
	DryRun          bool     `json:"dryRun"`
	Requested       int      `json:"requested"`
	ProfilesDeleted int      `json:"profilesDeleted"`
	AccountsDeleted int      `json:"accountsDeleted"`
	MediaDeleted    int      `json:"mediaDeleted"`
	Errors          []string `json:"errors"`
}

// NewRollback creates a rollback over s. backend may be nil, in which case
// media is left alone. In dry-run mode both are wrapped so nothing is
// deleted.
func NewRollback(s store.Store, backend media.Backend, opts RollbackOptions) *Rollback {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.DryRun {
		s = store.DryRun(s, opts.Logger)
		if backend != nil {
			backend = media.DryRun(backend, opts.Logger)
		}
	}
	return &Rollback{store: s, backend: backend, opts: opts}
}

// Run deletes profiles, then accounts, then media for each legacy id. Ids
// with nothing to delete are no-ops; errors are collected and the run
// continues.
func (r *Rollback) Run(ctx context.Context, legacyIDs []string) RollbackResult {
	res := RollbackResult{DryRun: r.opts.DryRun, Requested: len(legacyIDs), Errors: []string{}}
	for _, id := range legacyIDs {
		log := r.opts.Logger.With("legacy_id", id)
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}

		ok, err := r.store.DeleteProfileByLegacyID(ctx, id)
		if err != nil {
			log.Warn("deleting profile failed", "error", err)
			res.Errors = append(res.Errors, fmt.Sprintf("profile %s: %v", id, err))
		} else if ok {
			res.ProfilesDeleted++
		}

		ok, err = r.store.DeleteAccountByLegacyID(ctx, id)
		if err != nil {
			log.Warn("deleting account failed", "error", err)
			res.Errors = append(res.Errors, fmt.Sprintf("account %s: %v", id, err))
		} else if ok {
			res.AccountsDeleted++
		}

		if r.backend == nil {
			continue
		}
		names, err := r.backend.List(ctx, MediaPrefix(id))
		if err != nil {
			log.Warn("listing media failed", "error", err)
			res.Errors = append(res.Errors, fmt.Sprintf("media %s: %v", id, err))
			continue
		}
		for _, name := range names {
			if err := r.backend.Delete(ctx, name); err != nil {
				log.Warn("deleting media failed", "name", name, "error", err)
				res.Errors = append(res.Errors, fmt.Sprintf("media %s: %v", name, err))
				continue
			}
			res.MediaDeleted++
		}
	}
	return res
}

// Summary renders the result for the terminal.
func (r RollbackResult) Summary() string {
	var b strings.Builder
	b.WriteString("\n  Rollback Summary")
	if r.DryRun {
		b.WriteString(" (dry run, nothing was deleted)")
	}
	b.WriteString("\n\n")
	verb := "deleted"
	if r.DryRun {
		verb = "would delete"
	}
	fmt.Fprintf(&b, "  Legacy ids:  %d\n", r.Requested)
	fmt.Fprintf(&b, "  Profiles:    %d %s\n", r.ProfilesDeleted, verb)
	fmt.Fprintf(&b, "  Accounts:    %d %s\n", r.AccountsDeleted, verb)
	fmt.Fprintf(&b, "  Media files: %d %s\n", r.MediaDeleted, verb)
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\n  Errors (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "    - %s\n", e)
		}
	}
	return b.String()
}
