package repository

import (
	"testing"

	"github.com/fitai/fitai/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	// In-memory SQLite vanishes per connection; pin to one
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}
