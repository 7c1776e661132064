// Package dbtest prepares a real PostgreSQL database for store tests.
// Tests are skipped unless TEST_DATABASE_URL is set.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/inventory-app/internal/database"
	"github.com/matheusmosca/inventory-app/internal/database/migrations"
)

// EnvURL names the variable holding the test database DSN.
const EnvURL = "TEST_DATABASE_URL"

// lockKey serializes test packages that share the database.
const lockKey = 727001

// Pool migrates the schema, empties the inventory tables and returns a pool closed on cleanup.
// The database stays locked for this test until it finishes.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvURL)
	if dsn == "" {
		t.Skipf("%s not set; skipping database test", EnvURL)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	lock, err := pool.Acquire(ctx)
	require.NoError(t, err)
	_, err = lock.Exec(ctx, "SELECT pg_advisory_lock($1)", lockKey)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = lock.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockKey)
		lock.Release()
	})

	m, err := database.OpenMigrator(ctx, dsn, migrations.FS)
	require.NoError(t, err)
	defer m.Close()
	_, err = m.Up(ctx)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, "TRUNCATE inventory_transaction, product RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return pool
}
