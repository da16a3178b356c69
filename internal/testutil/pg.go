package testutil

import (
	"os"
	"testing"
)

// PostgresURL returns TEST_DATABASE_URL or skips the test when it is unset.
// Run integration tests through cmd/testpg to get a throwaway server.
func PostgresURL(t testing.TB) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}
