// Package adapter opens database connections for the query collaborator.
// A target is described by config; the adapter only hands back a *sql.DB,
// the query package decides how declared SQL is executed against it.
package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Supported target types.
const (
	TypeSQLite   = "sqlite"
	TypeDuckDB   = "duckdb"
	TypePostgres = "postgres"
)

// Config describes one query target.
type Config struct {
	// Type selects the driver: sqlite, duckdb, postgres.
	Type string `koanf:"type"`

	// Database is a file path for sqlite/duckdb (":memory:" allowed) or the
	// database name for postgres.
	Database string `koanf:"database"`

	// Network fields, postgres only.
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Schema   string `koanf:"schema"`

	// Params holds driver-specific options (decoded per adapter).
	Params map[string]any `koanf:"params"`
}

// UnknownTargetError reports an unsupported target type.
type UnknownTargetError struct {
	Type      string
	Available []string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target type %q (available: %s)", e.Type, strings.Join(e.Available, ", "))
}

type opener func(ctx context.Context, cfg Config) (*sql.DB, error)

var openers = map[string]opener{
	TypeSQLite:   openSQLite,
	TypeDuckDB:   openDuckDB,
	TypePostgres: openPostgres,
}

// Open connects to the configured target and verifies the connection.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	open, ok := openers[strings.ToLower(cfg.Type)]
	if !ok {
		available := make([]string, 0, len(openers))
		for name := range openers {
			available = append(available, name)
		}
		sort.Strings(available)
		return nil, &UnknownTargetError{Type: cfg.Type, Available: available}
	}
	db, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s target: %w", cfg.Type, err)
	}
	return db, nil
}
