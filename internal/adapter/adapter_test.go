package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnknownType(t *testing.T) {
	_, err := Open(context.Background(), Config{Type: "oracle"})

	var unknown *UnknownTargetError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Type)
	assert.Equal(t, []string{"duckdb", "postgres", "sqlite"}, unknown.Available)
}

func TestOpen_SQLiteInMemory(t *testing.T) {
	db, err := Open(context.Background(), Config{Type: TypeSQLite, Database: ":memory:"})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpen_TypeIsCaseInsensitive(t *testing.T) {
	db, err := Open(context.Background(), Config{Type: "SQLite", Database: ":memory:"})
	require.NoError(t, err)
	_ = db.Close()
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn := buildPostgresDSN(Config{
		Type:     TypePostgres,
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "main",
		Schema:   "analytics",
	})
	assert.Equal(t, "host=db.internal port=5433 user=app password=secret dbname=main search_path=analytics", dsn)
}

func TestBuildPostgresDSN_Defaults(t *testing.T) {
	dsn := buildPostgresDSN(Config{Type: TypePostgres})
	assert.Equal(t, "host=localhost port=5432", dsn)
}
