package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pagatodo/finanzas-bot/internal/database"
	"github.com/stretchr/testify/require"
)

// setupTestDB returns a migrated, clean pool. Skips when
// TEST_DATABASE_URL is not set.
func setupTestDB(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()

	pool := database.TestDB(t)
	ctx := context.Background()

	err := database.RunMigrations(ctx, pool)
	require.NoError(t, err)
	database.CleanupTables(t, pool)

	t.Cleanup(func() {
		database.CleanupTables(t, pool)
	})

	return pool, ctx
}
