package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yourusername/challenge-blueprint/internal/storage"
	"github.com/yourusername/challenge-blueprint/internal/storage/migrations"
	"github.com/yourusername/challenge-blueprint/internal/storage/postgres"
)

// setupTestStore starts a PostgreSQL container, applies the embedded
// migrations and returns a store on it.
func setupTestStore(t *testing.T) *postgres.KVStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("blueprint"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{MaxConnections: 4})
	require.NoError(t, err, "failed to create pool")
	require.NoError(t, migrations.RunPostgresMigrations(ctx, pool))
	// idempotent
	require.NoError(t, migrations.RunPostgresMigrations(ctx, pool))

	store := postgres.NewKVStore(pool)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKVStore_Postgres(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "traderProfile")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("upsert", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "riskStyle", []byte(`"balanced"`)))
		require.NoError(t, store.Set(ctx, "riskStyle", []byte(`"aggressive"`)))
		got, err := store.Get(ctx, "riskStyle")
		require.NoError(t, err)
		assert.Equal(t, `"aggressive"`, string(got))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "goalCalculatorInputs", []byte(`{}`)))
		require.NoError(t, store.Delete(ctx, "goalCalculatorInputs"))
		_, err := store.Get(ctx, "goalCalculatorInputs")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("retention", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "economicCalendarPreferences", []byte(`{}`)))
		deleted, err := store.DeleteOlderThan(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, deleted, int64(1))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
