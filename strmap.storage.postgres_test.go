package strmap

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPostgresConfig(t *testing.T) {
	config := DefaultPostgresConfig()

	assert.Equal(t, PostgresDefaultMaxOpenConns, config.MaxOpenConns)
	assert.Equal(t, PostgresDefaultMaxIdleConns, config.MaxIdleConns)
	assert.Equal(t, PostgresDefaultConnMaxLifetime, config.ConnMaxLifetime)
	assert.Equal(t, PostgresDefaultConnMaxIdleTime, config.ConnMaxIdleTime)
	assert.Equal(t, PostgresTablePrefix, config.TablePrefix)
	assert.False(t, config.AutoMigrate)
	assert.Equal(t, PostgresDefaultQueryTimeout, config.QueryTimeout)
}

func TestPostgresConfig_WithDefaults(t *testing.T) {
	config := PostgresConfig{
		ConnectionString: "postgres://localhost/db",
		MaxOpenConns:     3,
		QueryTimeout:     time.Second,
	}.withDefaults()

	assert.Equal(t, 3, config.MaxOpenConns)
	assert.Equal(t, time.Second, config.QueryTimeout)
	assert.Equal(t, PostgresDefaultMaxIdleConns, config.MaxIdleConns)
	assert.Equal(t, PostgresTablePrefix, config.TablePrefix)
	assert.Equal(t, "postgres://localhost/db", config.ConnectionString)
}

func TestPostgresStore_EmptyConnectionString(t *testing.T) {
	_, err := NewPostgresStore(PostgresConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPostgresEmptyConnString)

	_, err = OpenStore(StorageDriverNamePostgres, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPostgresEmptyConnString)
}

func TestPostgresStore_UnreachableServer(t *testing.T) {
	_, err := NewPostgresStore(PostgresConfig{
		ConnectionString: "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
		QueryTimeout:     2 * time.Second,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPostgresConnectionFailed)
}

func TestPostgresStore_TableNames(t *testing.T) {
	store := &PostgresStore{config: PostgresConfig{TablePrefix: "app_"}}
	assert.Equal(t, "app_templates", store.tableName())
	assert.Equal(t, "app_schema_migrations", store.migrationsTableName())

	migrations := store.migrations()
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "app_templates")
}

func TestPostgresStore_BuildListQuery(t *testing.T) {
	store := &PostgresStore{config: DefaultPostgresConfig()}
	base := "SELECT " + postgresColumns + " FROM strmap_templates"

	tests := []struct {
		name     string
		query    *TemplateQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "nil query",
			query:   nil,
			wantSQL: base + " ORDER BY name",
		},
		{
			name:     "prefix",
			query:    &TemplateQuery{NamePrefix: "tenant-"},
			wantSQL:  base + " WHERE left(name, length($1)) = $1 ORDER BY name",
			wantArgs: []any{"tenant-"},
		},
		{
			name:     "prefix tags and limit",
			query:    &TemplateQuery{NamePrefix: "t", Tags: []string{"a"}, Limit: 5},
			wantSQL:  base + " WHERE left(name, length($1)) = $1 AND tags @> $2 ORDER BY name LIMIT $3",
			wantArgs: []any{"t", pq.Array([]string{"a"}), 5},
		},
		{
			name:     "limit only",
			query:    &TemplateQuery{Limit: 1},
			wantSQL:  base + " ORDER BY name LIMIT $1",
			wantArgs: []any{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := store.buildListQuery(tt.query)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestPostgresHelpers(t *testing.T) {
	assert.Equal(t, map[string]string{}, nonNilFields(nil))
	assert.Equal(t, map[string]string{"a": "int"}, nonNilFields(map[string]string{"a": "int"}))
	assert.Equal(t, []string{}, nonNilTags(nil))
	assert.Equal(t, []string{"x"}, nonNilTags([]string{"x"}))
}
