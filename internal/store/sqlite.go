package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SaxonF/supawatch/internal/sidebar"
	_ "modernc.org/sqlite" // sqlite driver (pure Go)
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the store at path. Use ":memory:" for tests.
func Open(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}
	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying connection for CLI inspection queries.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Specification returns the stored document, or the default spec when the
// project has none.
func (s *SQLiteStore) Specification(ctx context.Context, projectID string) (*sidebar.Spec, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM specifications WHERE project_id = ?`, projectID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return sidebar.DefaultSpec(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read specification: %w", err)
	}
	var spec sidebar.Spec
	if err := json.Unmarshal([]byte(doc), &spec); err != nil {
		return nil, fmt.Errorf("stored specification for %q is corrupt: %w", projectID, err)
	}
	return &spec, nil
}

// HasSpecification reports whether a document is persisted for the project.
func (s *SQLiteStore) HasSpecification(ctx context.Context, projectID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM specifications WHERE project_id = ?`, projectID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check specification: %w", err)
	}
	return true, nil
}

// WriteSpecification replaces the project's document wholesale.
func (s *SQLiteStore) WriteSpecification(ctx context.Context, projectID string, spec *sidebar.Spec) error {
	if spec == nil {
		return fmt.Errorf("nil specification")
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("invalid specification: %w", err)
	}
	doc, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to encode specification: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO specifications (project_id, document, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		projectID, string(doc), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to write specification: %w", err)
	}
	return nil
}

// AddItemToGroup appends an item to a manual group inside one transaction.
func (s *SQLiteStore) AddItemToGroup(ctx context.Context, projectID, groupID string, item sidebar.Item) error {
	return s.update(ctx, projectID, func(spec *sidebar.Spec) error {
		return spec.AddItem(groupID, item)
	})
}

// AddGroup appends or replaces a group inside one transaction.
func (s *SQLiteStore) AddGroup(ctx context.Context, projectID string, group sidebar.Group) error {
	return s.update(ctx, projectID, func(spec *sidebar.Spec) error {
		spec.PutGroup(group)
		return nil
	})
}

// update runs a read-modify-write of the project document in a transaction.
// The default spec is the base when nothing is persisted yet.
func (s *SQLiteStore) update(ctx context.Context, projectID string, mutate func(*sidebar.Spec) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	spec := sidebar.DefaultSpec()
	var doc string
	err = tx.QueryRowContext(ctx,
		`SELECT document FROM specifications WHERE project_id = ?`, projectID,
	).Scan(&doc)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Start from the default document.
	case err != nil:
		return fmt.Errorf("failed to read specification: %w", err)
	default:
		spec = &sidebar.Spec{}
		if err := json.Unmarshal([]byte(doc), spec); err != nil {
			return fmt.Errorf("stored specification for %q is corrupt: %w", projectID, err)
		}
	}

	if err := mutate(spec); err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("invalid specification: %w", err)
	}

	out, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to encode specification: %w", err)
	}
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO specifications (project_id, document, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		projectID, string(out), now, now,
	); err != nil {
		return fmt.Errorf("failed to write specification: %w", err)
	}
	return tx.Commit()
}
