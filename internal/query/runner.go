// Package query executes declared SQL against the configured target. Query
// strings are opaque payloads; Supawatch never parses them, it only runs
// them and hands the rows to the resolver.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultMaxRows caps a result set; templates expanding thousands of
	// sidebar items are a spec-document bug, not a use case.
	DefaultMaxRows = 1000
	// DefaultTimeout bounds one query execution.
	DefaultTimeout = 30 * time.Second
)

// Result is one executed query's rows. Columns preserves declaration order;
// every row maps column name to its stringified value.
type Result struct {
	Columns   []string
	Rows      []map[string]string
	Truncated bool
	Elapsed   time.Duration
}

// Runner is the query execution collaborator.
type Runner interface {
	Run(ctx context.Context, sqlText string) (*Result, error)
}

// SQLRunner runs queries on a database/sql connection.
type SQLRunner struct {
	db      *sql.DB
	maxRows int
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a SQLRunner.
type Option func(*SQLRunner)

// WithMaxRows overrides the row cap.
func WithMaxRows(n int) Option { return func(r *SQLRunner) { r.maxRows = n } }

// WithTimeout overrides the per-query timeout.
func WithTimeout(d time.Duration) Option { return func(r *SQLRunner) { r.timeout = d } }

// NewSQLRunner creates a runner over db. A nil logger discards.
func NewSQLRunner(db *sql.DB, logger *slog.Logger, opts ...Option) *SQLRunner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &SQLRunner{db: db, maxRows: DefaultMaxRows, timeout: DefaultTimeout, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes sqlText and collects up to the row cap.
func (r *SQLRunner) Run(ctx context.Context, sqlText string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		if len(result.Rows) == r.maxRows {
			result.Truncated = true
			break
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(map[string]string, len(cols))
		for i, col := range cols {
			row[col] = FormatValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	result.Elapsed = time.Since(start)
	r.logger.Debug("query executed",
		"rows", len(result.Rows), "truncated", result.Truncated, "elapsed", result.Elapsed)
	return result, nil
}

// FormatValue stringifies one scanned value; NULL becomes the empty string
// so missing bindings stay distinguishable from the literal "NULL".
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
