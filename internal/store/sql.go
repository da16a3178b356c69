package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nawsaafa/talents-acting-sub000/internal/migrate"
)

// Dialect identifies the SQL flavour behind a SQLStore.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Config configures Open.
type Config struct {
	URL            string
	MaxConns       int
	ConnectTimeout time.Duration
}

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

var _ Store = (*SQLStore)(nil)

// ParseURL returns the dialect, driver name and DSN for a database URL.
// postgres:// and postgresql:// URLs use pgx. sqlite:// URLs, file: URIs and
// bare paths use SQLite with foreign keys enabled.
func ParseURL(raw string) (Dialect, string, string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "", "", "", errors.New("database url is required")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, "pgx", raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return DialectSQLite, "sqlite", sqliteDSN(strings.TrimPrefix(raw, "sqlite://")), nil
	case strings.Contains(raw, "://"):
		return "", "", "", fmt.Errorf("unsupported database url scheme: %s", raw[:strings.Index(raw, "://")])
	default:
		return DialectSQLite, "sqlite", sqliteDSN(raw), nil
	}
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Open connects to the database, retrying the initial ping with exponential
// backoff until ConnectTimeout elapses.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	dialect, driver, dsn, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	switch {
	case dialect == DialectSQLite:
		// One writer keeps SQLite free of lock contention.
		db.SetMaxOpenConns(1)
	case cfg.MaxConns > 0:
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = timeout

	ping := func() error { return db.PingContext(ctx) }
	notify := func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying", "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	logger.Debug("database connected", "dialect", dialect)
	return &SQLStore{db: db, dialect: dialect, logger: logger}, nil
}

// Dialect reports the SQL flavour of the store.
func (s *SQLStore) Dialect() Dialect { return s.dialect }

// DB exposes the underlying handle.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// EnsureSchema creates the target tables when they do not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	stmts := sqliteSchema
	if s.dialect == DialectPostgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (s *SQLStore) isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

// isMissingTable reports whether err comes from querying a table that does
// not exist yet.
func isMissingTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return strings.Contains(liteErr.Error(), "no such table")
	}
	return false
}

func (s *SQLStore) classify(err error) error {
	if s.isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func (s *SQLStore) findAccount(ctx context.Context, where string, arg any) (*Account, error) {
	q := s.rebind(`SELECT ` + accountSelect + ` FROM talent_accounts WHERE ` + where)
	var a Account
	err := s.db.QueryRowContext(ctx, q, arg).Scan(accountTargets(&a)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}
	return &a, nil
}

func (s *SQLStore) FindAccountByLegacyID(ctx context.Context, legacyID string) (*Account, error) {
	return s.findAccount(ctx, "legacy_id = ?", legacyID)
}

func (s *SQLStore) FindAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return s.findAccount(ctx, "lower(email) = lower(?)", strings.TrimSpace(email))
}

// CreateAccount inserts a, assigning a new id when a.ID is empty.
func (s *SQLStore) CreateAccount(ctx context.Context, a *Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	q := s.rebind(`INSERT INTO talent_accounts
		(id, email, password_hash, role, is_active, must_reset_password, legacy_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, q,
		a.ID, a.Email, a.PasswordHash, a.Role, a.IsActive, a.MustResetPassword, a.LegacyID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting account %s: %w", a.LegacyID, s.classify(err))
	}
	return nil
}

func (s *SQLStore) deleteByLegacyID(ctx context.Context, table, legacyID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM `+table+` WHERE legacy_id = ?`), legacyID)
	if err != nil {
		return false, fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting from %s: %w", table, err)
	}
	return n > 0, nil
}

// DeleteAccountByLegacyID deletes the account; its profile goes with it.
func (s *SQLStore) DeleteAccountByLegacyID(ctx context.Context, legacyID string) (bool, error) {
	return s.deleteByLegacyID(ctx, "talent_accounts", legacyID)
}

func (s *SQLStore) DeleteProfileByLegacyID(ctx context.Context, legacyID string) (bool, error) {
	return s.deleteByLegacyID(ctx, "talent_profiles", legacyID)
}

func (s *SQLStore) findProfile(ctx context.Context, where string, arg any) (*Profile, error) {
	q := s.rebind(`SELECT ` + profileSelect + ` FROM talent_profiles WHERE ` + where)
	var p Profile
	err := s.db.QueryRowContext(ctx, q, arg).Scan(profileTargets(&p)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

func (s *SQLStore) FindProfileByUserID(ctx context.Context, userID string) (*Profile, error) {
	return s.findProfile(ctx, "user_id = ?", userID)
}

func (s *SQLStore) FindProfileByLegacyID(ctx context.Context, legacyID string) (*Profile, error) {
	return s.findProfile(ctx, "legacy_id = ?", legacyID)
}

// CreateProfile inserts p, assigning a new id when p.ID is empty.
func (s *SQLStore) CreateProfile(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cols, vals := profileColumns(p)
	q := s.rebind(fmt.Sprintf(`INSERT INTO talent_profiles (%s) VALUES (%s)`,
		strings.Join(cols, ", "), placeholders(len(cols))))
	if _, err := s.db.ExecContext(ctx, q, vals...); err != nil {
		return fmt.Errorf("inserting profile %s: %w", p.LegacyID, s.classify(err))
	}
	return nil
}

func (s *SQLStore) UpdateProfilePhotos(ctx context.Context, profileID string, photos []string, primary *string) error {
	q := s.rebind(`UPDATE talent_profiles SET photos = ?, primary_photo = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, jsonList(photos), primary, profileID)
	if err != nil {
		return fmt.Errorf("updating profile photos: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByLegacyIDs counts matching rows in batches of 500 ids.
func (s *SQLStore) CountByLegacyIDs(ctx context.Context, legacyIDs []string) (int, int, error) {
	var accounts, profiles int
	for _, batch := range migrate.Batches(legacyIDs, 500) {
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		in := placeholders(len(batch))
		for table, dst := range map[string]*int{"talent_accounts": &accounts, "talent_profiles": &profiles} {
			var n int
			q := s.rebind(`SELECT COUNT(*) FROM ` + table + ` WHERE legacy_id IN (` + in + `)`)
			if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
				return 0, 0, fmt.Errorf("counting %s: %w", table, err)
			}
			*dst += n
		}
	}
	return accounts, profiles, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func jsonList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, _ := json.Marshal(list)
	return string(data)
}

func jsonMap(m map[string]string) string {
	if m == nil {
		return "{}"
	}
	data, _ := json.Marshal(m)
	return string(data)
}

func profileColumns(p *Profile) ([]string, []any) {
	pairs := []struct {
		col string
		val any
	}{
		{"id", p.ID},
		{"user_id", p.UserID},
		{"legacy_id", p.LegacyID},
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"gender", p.Gender},
		{"age_range_min", p.AgeRangeMin},
		{"age_range_max", p.AgeRangeMax},
		{"date_of_birth", p.DateOfBirth},
		{"birth_place", p.BirthPlace},
		{"height", p.Height},
		{"physique", p.Physique},
		{"ethnic_appearance", p.EthnicAppearance},
		{"hair_color", p.HairColor},
		{"hair_length", p.HairLength},
		{"beard_type", p.BeardType},
		{"eye_color", p.EyeColor},
		{"has_tattoos", p.HasTattoos},
		{"tattoo_description", p.TattooDescription},
		{"has_scars", p.HasScars},
		{"scar_description", p.ScarDescription},
		{"languages", jsonList(p.Languages)},
		{"accents", jsonList(p.Accents)},
		{"athletic_skills", jsonList(p.AthleticSkills)},
		{"instruments", jsonList(p.Instruments)},
		{"performance_skills", jsonList(p.PerformanceSkills)},
		{"dance_styles", jsonList(p.DanceStyles)},
		{"photos", jsonList(p.Photos)},
		{"primary_photo", p.PrimaryPhoto},
		{"video_urls", jsonList(p.VideoURLs)},
		{"showreel_url", p.ShowreelURL},
		{"presentation_video_url", p.PresentationVideoURL},
		{"has_showreel", p.HasShowreel},
		{"is_available", p.IsAvailable},
		{"availability_types", jsonList(p.AvailabilityTypes)},
		{"daily_rate", p.DailyRate},
		{"rate_negotiable", p.RateNegotiable},
		{"phone", p.Phone},
		{"imdb_url", p.IMDBURL},
		{"portfolio", jsonList(p.Portfolio)},
		{"social_media", jsonMap(p.SocialMedia)},
		{"bio", p.Bio},
		{"location", p.Location},
		{"validation_status", p.ValidationStatus},
		{"validated_at", p.ValidatedAt},
		{"is_public", p.IsPublic},
		{"subscription_status", p.SubscriptionStatus},
		{"created_at", p.CreatedAt},
	}
	cols := make([]string, len(pairs))
	vals := make([]any, len(pairs))
	for i, pr := range pairs {
		cols[i] = pr.col
		vals[i] = pr.val
	}
	return cols, vals
}
