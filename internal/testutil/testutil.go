package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"polingo/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied. Each call gets a fresh, isolated database.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	d, err := db.Open("file::memory:")
	require.NoError(t, err)
	return d
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
