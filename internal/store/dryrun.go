package store

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// DryRunIDPrefix marks ids handed out by a dry-run store.
const DryRunIDPrefix = "dry-run-"

// DryRunStore reads through to an inner store but never writes to it. Creates
// are kept in memory so later stages see the accounts an earlier stage would
// have created; deletes only report whether a row exists.
type DryRunStore struct {
	inner  Store
	logger *slog.Logger

	accounts map[string]*Account // by legacy id
	emails   map[string]*Account // by lower-cased email
	profiles map[string]*Profile // by user id
	seq      int
}

var _ Store = (*DryRunStore)(nil)

// DryRun wraps inner so that no write reaches it.
func DryRun(inner Store, logger *slog.Logger) *DryRunStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DryRunStore{
		inner:    inner,
		logger:   logger,
		accounts: make(map[string]*Account),
		emails:   make(map[string]*Account),
		profiles: make(map[string]*Profile),
	}
}

// absent treats a target without the migration tables as an empty one. A dry
// run never creates the schema, so a fresh database has nothing to find.
func absent(err error) error {
	if isMissingTable(err) {
		return ErrNotFound
	}
	return err
}

func (d *DryRunStore) nextID() string {
	d.seq++
	return DryRunIDPrefix + strconv.Itoa(d.seq)
}

func (d *DryRunStore) FindAccountByLegacyID(ctx context.Context, legacyID string) (*Account, error) {
	if a, ok := d.accounts[legacyID]; ok {
		return a, nil
	}
	a, err := d.inner.FindAccountByLegacyID(ctx, legacyID)
	return a, absent(err)
}

func (d *DryRunStore) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	if a, ok := d.emails[strings.ToLower(strings.TrimSpace(email))]; ok {
		return a, nil
	}
	a, err := d.inner.FindAccountByEmail(ctx, email)
	return a, absent(err)
}

func (d *DryRunStore) CreateAccount(_ context.Context, a *Account) error {
	if _, ok := d.accounts[a.LegacyID]; ok {
		return ErrDuplicate
	}
	if _, ok := d.emails[strings.ToLower(a.Email)]; ok {
		return ErrDuplicate
	}
	a.ID = d.nextID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	d.accounts[a.LegacyID] = &cp
	d.emails[strings.ToLower(a.Email)] = &cp
	d.logger.Info("[dry-run] would create account", "legacy_id", a.LegacyID, "email", a.Email)
	return nil
}

func (d *DryRunStore) DeleteAccountByLegacyID(ctx context.Context, legacyID string) (bool, error) {
	_, err := d.inner.FindAccountByLegacyID(ctx, legacyID)
	return d.reportDelete("account", legacyID, absent(err))
}

func (d *DryRunStore) FindProfileByUserID(ctx context.Context, userID string) (*Profile, error) {
	if p, ok := d.profiles[userID]; ok {
		return p, nil
	}
	if strings.HasPrefix(userID, DryRunIDPrefix) {
		return nil, ErrNotFound
	}
	p, err := d.inner.FindProfileByUserID(ctx, userID)
	return p, absent(err)
}

func (d *DryRunStore) FindProfileByLegacyID(ctx context.Context, legacyID string) (*Profile, error) {
	for _, p := range d.profiles {
		if p.LegacyID == legacyID {
			return p, nil
		}
	}
	p, err := d.inner.FindProfileByLegacyID(ctx, legacyID)
	return p, absent(err)
}

func (d *DryRunStore) CreateProfile(_ context.Context, p *Profile) error {
	if _, ok := d.profiles[p.UserID]; ok {
		return ErrDuplicate
	}
	p.ID = d.nextID()
	cp := *p
	d.profiles[p.UserID] = &cp
	d.logger.Info("[dry-run] would create profile", "legacy_id", p.LegacyID, "user_id", p.UserID)
	return nil
}

func (d *DryRunStore) UpdateProfilePhotos(_ context.Context, profileID string, photos []string, _ *string) error {
	d.logger.Info("[dry-run] would update profile photos", "profile_id", profileID, "photos", len(photos))
	return nil
}

func (d *DryRunStore) DeleteProfileByLegacyID(ctx context.Context, legacyID string) (bool, error) {
	_, err := d.inner.FindProfileByLegacyID(ctx, legacyID)
	return d.reportDelete("profile", legacyID, absent(err))
}

func (d *DryRunStore) reportDelete(entity, legacyID string, findErr error) (bool, error) {
	switch {
	case findErr == nil:
		d.logger.Info("[dry-run] would delete "+entity, "legacy_id", legacyID)
		return true, nil
	case errors.Is(findErr, ErrNotFound):
		return false, nil
	default:
		return false, findErr
	}
}

func (d *DryRunStore) CountByLegacyIDs(ctx context.Context, legacyIDs []string) (int, int, error) {
	accounts, profiles, err := d.inner.CountByLegacyIDs(ctx, legacyIDs)
	if isMissingTable(err) {
		return 0, 0, nil
	}
	return accounts, profiles, err
}

// Close closes the inner store.
func (d *DryRunStore) Close() error { return d.inner.Close() }
