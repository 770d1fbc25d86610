package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// duckdbParams are the driver-specific options accepted under target.params.
type duckdbParams struct {
	// Settings become DSN key=value pairs (e.g. memory_limit, threads).
	Settings map[string]string `mapstructure:"settings"`
}

func openDuckDB(_ context.Context, cfg Config) (*sql.DB, error) {
	var params duckdbParams
	if cfg.Params != nil {
		if err := mapstructure.Decode(cfg.Params, &params); err != nil {
			return nil, fmt.Errorf("invalid duckdb params: %w", err)
		}
	}

	path := cfg.Database
	if path == ":memory:" {
		path = ""
	}
	dsn := path
	if len(params.Settings) > 0 {
		pairs := make([]string, 0, len(params.Settings))
		for k, v := range params.Settings {
			pairs = append(pairs, k+"="+v)
		}
		dsn = path + "?" + strings.Join(pairs, "&")
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb target: %w", err)
	}
	return db, nil
}
