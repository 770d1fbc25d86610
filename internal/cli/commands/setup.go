package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SaxonF/supawatch/internal/adapter"
	"github.com/SaxonF/supawatch/internal/admin"
	"github.com/SaxonF/supawatch/internal/config"
	"github.com/SaxonF/supawatch/internal/notify"
	"github.com/SaxonF/supawatch/internal/query"
	"github.com/SaxonF/supawatch/internal/store"
)

// openStore opens the state database, creating its directory if needed.
func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	return store.Open(cfg.StatePath)
}

// newService assembles the admin service for the configured project: the
// state store, the target data source, and the change notifier. The
// returned cleanup closes both databases.
func newService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*admin.Service, func(), error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}

	target, err := adapter.Open(ctx, *cfg.GetTarget())
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("failed to open target data source: %w", err)
	}

	svc := admin.New(admin.Config{
		ProjectID: cfg.ProjectID,
		Store:     st,
		Notifier:  notify.New(),
		Runner:    query.NewSQLRunner(target, logger),
		Logger:    logger,
	})

	cleanup := func() {
		_ = target.Close()
		_ = st.Close()
	}
	return svc, cleanup, nil
}
