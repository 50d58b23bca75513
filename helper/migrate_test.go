package helper_test

import (
	"net/url"
	"testing"

	"arena/config"
	"arena/helper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionString(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.MigrationTable = "arena_migrations"
	cfg.DB.Postgres.Write.Username = "arena"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Host = "localhost"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "arena"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	dsn, err := url.Parse(helper.ConnectionString(cfg))
	require.NoError(t, err)

	password, _ := dsn.User.Password()

	assert.Equal(t, "postgres", dsn.Scheme)
	assert.Equal(t, "localhost:5432", dsn.Host)
	assert.Equal(t, "/test_arena", dsn.Path)
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "disable", dsn.Query().Get("sslmode"))
	assert.Equal(t, "arena_migrations", dsn.Query().Get("x-migrations-table"))
}

func TestConnectionString_DefaultMigrationTable(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Write.Host = "db"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "arena"

	dsn, err := url.Parse(helper.ConnectionString(cfg))
	require.NoError(t, err)

	assert.False(t, dsn.Query().Has("x-migrations-table"))
	assert.Equal(t, "/arena", dsn.Path)
}
