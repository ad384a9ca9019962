//go:build integration

package strmap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (*PostgresStore, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("strmap_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	store, err := NewPostgresStore(PostgresConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
		QueryTimeout:     30 * time.Second,
	})
	require.NoError(t, err, "failed to create postgres store")

	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	}

	return store, cleanup
}

func TestPostgres_E2E_Store(t *testing.T) {
	store, cleanup := setupPostgresContainer(t)
	defer cleanup()

	testStoreSuite(t, store)
}

func TestPostgres_E2E_MigrationsIdempotent(t *testing.T) {
	store, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.RunMigrations(ctx))
	require.NoError(t, store.RunMigrations(ctx))

	var count int
	err := store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+store.migrationsTableName()).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(store.migrations()), count)
}

func TestPostgres_E2E_Catalog(t *testing.T) {
	store, cleanup := setupPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	catalog := NewCatalog(store)
	require.NoError(t, catalog.Register(ctx, &TemplateDefinition{
		Name:     "order-line",
		Template: "orders/{order:N}/lines/{line}",
		Fields:   map[string]string{"order": "uuid", "line": "int"},
	}))

	rec, ok, err := catalog.Parse(ctx, "order-line", "orders/"+testIDCompact+"/lines/3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Record{"order": testID, "line": 3}, rec)

	names, err := catalog.Resolve(ctx, "orders/"+testIDCompact+"/lines/3")
	require.NoError(t, err)
	assert.Equal(t, []string{"order-line"}, names)
}
