package adapter

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	_ "modernc.org/sqlite" // sqlite driver (pure Go)
)

// sqliteParams are the driver-specific options accepted under target.params.
type sqliteParams struct {
	ReadOnly bool `mapstructure:"read_only"`
}

func openSQLite(_ context.Context, cfg Config) (*sql.DB, error) {
	var params sqliteParams
	if cfg.Params != nil {
		if err := mapstructure.Decode(cfg.Params, &params); err != nil {
			return nil, fmt.Errorf("invalid sqlite params: %w", err)
		}
	}

	path := cfg.Database
	if path == "" {
		path = ":memory:"
	}
	dsn := path
	if params.ReadOnly && path != ":memory:" {
		dsn = path + "?mode=ro"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite target: %w", err)
	}
	return db, nil
}
