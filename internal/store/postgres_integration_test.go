//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/nawsaafa/talents-acting-sub000/internal/testutil"
)

func openPostgres(t *testing.T) Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, Config{URL: testutil.PostgresURL(t), MaxConns: 4}, testutil.DiscardLogger())
	testutil.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.DB().ExecContext(ctx, `DROP TABLE IF EXISTS talent_profiles, talent_accounts CASCADE`)
	testutil.NoError(t, err)
	testutil.NoError(t, s.EnsureSchema(ctx))
	testutil.Equal(t, DialectPostgres, s.Dialect())
	return s
}

func TestPostgresStore(t *testing.T) {
	storeContract(t, openPostgres)
}

func TestPostgresEnsureSchemaIdempotent(t *testing.T) {
	s := openPostgres(t).(*SQLStore)
	testutil.NoError(t, s.EnsureSchema(context.Background()))
}
