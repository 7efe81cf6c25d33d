package postgres

import (
	"os"
	"testing"
)

// databaseURL returns TEST_DATABASE_URL or skips the test.
func databaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}
