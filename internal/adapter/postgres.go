package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
)

func openPostgres(_ context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", buildPostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres target: %w", err)
	}
	return db, nil
}

// buildPostgresDSN constructs a key=value connection string.
func buildPostgresDSN(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	parts := []string{
		fmt.Sprintf("host=%s", host),
		fmt.Sprintf("port=%d", port),
	}
	if cfg.User != "" {
		parts = append(parts, "user="+cfg.User)
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+cfg.Password)
	}
	if cfg.Database != "" {
		parts = append(parts, "dbname="+cfg.Database)
	}
	if cfg.Schema != "" {
		parts = append(parts, "search_path="+cfg.Schema)
	}
	return strings.Join(parts, " ")
}
