package wpmigrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/nawsaafa/talents-acting-sub000/internal/migrate"
	"github.com/nawsaafa/talents-acting-sub000/internal/store"
	"github.com/nawsaafa/talents-acting-sub000/internal/transform"
)

// ErrAccountNotFound is recorded for profiles whose account is missing.
var ErrAccountNotFound = errors.New("account not found")

// ProfileMigrator creates the talent profile linked to each migrated account.
type ProfileMigrator struct {
	store store.Store
	opts  Options
}

// NewProfileMigrator creates a ProfileMigrator writing to s.
func NewProfileMigrator(s store.Store, opts Options) *ProfileMigrator {
	return &ProfileMigrator{store: s, opts: opts.withDefaults()}
}

// Migrate creates profiles in batches and returns one result per record.
func (m *ProfileMigrator) Migrate(ctx context.Context, records []transform.Transformed) []Result {
	results := make([]Result, 0, len(records))
	for _, batch := range migrate.Batches(records, m.opts.BatchSize) {
		for _, rec := range batch {
			results = append(results, m.migrateOne(ctx, rec))
		}
		m.opts.Progress.Progress(m.opts.Phase, len(results), len(records))
	}
	return results
}

func (m *ProfileMigrator) migrateOne(ctx context.Context, rec transform.Transformed) Result {
	log := m.opts.Logger.With("legacy_id", rec.LegacyID)
	if err := ctx.Err(); err != nil {
		return failed(rec.LegacyID, err)
	}

	acct, err := m.findAccount(ctx, rec)
	if err != nil {
		log.Warn("profile has no account", "error", err)
		return failed(rec.LegacyID, err)
	}

	if m.opts.SkipExisting {
		existing, err := m.store.FindProfileByUserID(ctx, acct.ID)
		switch {
		case err == nil:
			log.Debug("profile exists, skipping", "id", existing.ID)
			return skipped(rec.LegacyID, existing.ID, "profile already exists")
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("profile lookup failed", "error", err)
			return failed(rec.LegacyID, err)
		}
	}

	p := rec.Profile
	p.ID = ""
	p.UserID = acct.ID
	p.LegacyID = rec.LegacyID
	if p.PrimaryPhoto == nil && len(p.Photos) > 0 {
		primary := p.Photos[0]
		p.PrimaryPhoto = &primary
	}
	if err := m.store.CreateProfile(ctx, &p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Debug("profile already exists (unique constraint), skipping")
			return skipped(rec.LegacyID, "", "profile already exists")
		}
		log.Warn("creating profile failed", "error", err)
		return failed(rec.LegacyID, err)
	}
	log.Debug("profile created", "id", p.ID, "user_id", acct.ID)
	return succeeded(rec.LegacyID, p.ID)
}

// findAccount resolves the owning account by legacy id, then by email.
func (m *ProfileMigrator) findAccount(ctx context.Context, rec transform.Transformed) (*store.Account, error) {
	acct, err := m.store.FindAccountByLegacyID(ctx, rec.LegacyID)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if rec.Account.Email != "" {
		acct, err = m.store.FindAccountByEmail(ctx, rec.Account.Email)
		if err == nil {
			return acct, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w for legacy user %s", ErrAccountNotFound, rec.LegacyID)
}
