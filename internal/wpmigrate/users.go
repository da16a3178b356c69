package wpmigrate

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nawsaafa/talents-acting-sub000/internal/migrate"
	"github.com/nawsaafa/talents-acting-sub000/internal/store"
	"github.com/nawsaafa/talents-acting-sub000/internal/transform"
)

// Hasher turns a plaintext password into the stored hash.
type Hasher interface {
	Hash(password string) (string, error)
}

// BcryptHasher hashes with bcrypt at the given cost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}

// PlaceholderHash is stored in place of a real hash during dry runs.
const PlaceholderHash = "[dry-run]"

// PlaceholderHasher skips hashing.
type PlaceholderHasher struct{}

func (PlaceholderHasher) Hash(string) (string, error) { return PlaceholderHash, nil }

// UserMigrator creates one account per transformed talent.
type UserMigrator struct {
	store store.Store
	opts  Options
}

// NewUserMigrator creates a UserMigrator writing to s.
func NewUserMigrator(s store.Store, opts Options) *UserMigrator {
	return &UserMigrator{store: s, opts: opts.withDefaults()}
}

// Migrate creates accounts in batches. It returns one result per record, in
// input order. Per-record failures never stop the run.
func (m *UserMigrator) Migrate(ctx context.Context, records []transform.Transformed) []Result {
	results := make([]Result, 0, len(records))
	for _, batch := range migrate.Batches(records, m.opts.BatchSize) {
		for _, rec := range batch {
			results = append(results, m.migrateOne(ctx, rec))
		}
		m.opts.Progress.Progress(m.opts.Phase, len(results), len(records))
	}
	return results
}

func (m *UserMigrator) migrateOne(ctx context.Context, rec transform.Transformed) Result {
	log := m.opts.Logger.With("legacy_id", rec.LegacyID)
	if err := ctx.Err(); err != nil {
		return failed(rec.LegacyID, err)
	}

	if m.opts.SkipExisting {
		existing, err := m.findExisting(ctx, rec.Account)
		if err != nil {
			log.Warn("account lookup failed", "error", err)
			return failed(rec.LegacyID, err)
		}
		if existing != nil {
			log.Debug("account exists, skipping", "id", existing.ID)
			return skipped(rec.LegacyID, existing.ID, "account already exists")
		}
	}

	hash, err := m.opts.Hasher.Hash(rec.Account.Password)
	if err != nil {
		log.Warn("hashing failed", "error", err)
		return failed(rec.LegacyID, err)
	}

	acct := &store.Account{
		Email:             rec.Account.Email,
		PasswordHash:      hash,
		Role:              rec.Account.Role,
		IsActive:          rec.Account.IsActive,
		MustResetPassword: rec.Account.MustResetPassword,
		LegacyID:          rec.LegacyID,
		CreatedAt:         rec.Account.CreatedAt,
	}
	if err := m.store.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Debug("account already exists (unique constraint), skipping")
			return skipped(rec.LegacyID, "", "account already exists")
		}
		log.Warn("creating account failed", "error", err)
		return failed(rec.LegacyID, err)
	}
	log.Debug("account created", "id", acct.ID)
	return succeeded(rec.LegacyID, acct.ID)
}

// findExisting looks an account up by legacy id, then by email.
func (m *UserMigrator) findExisting(ctx context.Context, a transform.AccountDraft) (*store.Account, error) {
	acct, err := m.store.FindAccountByLegacyID(ctx, a.LegacyID)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if a.Email == "" {
		return nil, nil
	}
	acct, err = m.store.FindAccountByEmail(ctx, a.Email)
	if err == nil {
		return acct, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}
