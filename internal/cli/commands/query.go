package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SaxonF/supawatch/internal/adapter"
	"github.com/SaxonF/supawatch/internal/query"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the target data source",
		Long: `Execute SQL against the configured target data source.

This is the same connection the sidebar's query-driven groups and item
views run against. Supports multiple output formats for scripting.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  supawatch query "SELECT * FROM users LIMIT 10"

  # Output as JSON
  supawatch query "SELECT * FROM users" --format json

  # Interactive mode
  supawatch query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cfg := GetConfig(cmd.Context())

	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, opts)
	}

	db, err := adapter.Open(cmd.Context(), *cfg.GetTarget())
	if err != nil {
		return fmt.Errorf("failed to open target data source: %w", err)
	}
	defer func() { _ = db.Close() }()

	return executeAndRenderQuery(cmd.Context(), cmd, db, sqlQuery, opts.Format)
}

// executeAndRenderQuery runs SQL through the same runner the sidebar's
// query-driven groups use, so row caps and timeouts apply here too.
func executeAndRenderQuery(ctx context.Context, cmd *cobra.Command, db *sql.DB, sqlText, format string) error {
	runner := query.NewSQLRunner(db, GetLogger(ctx))
	result, err := runner.Run(ctx, sqlText)
	if err != nil {
		return err
	}
	return renderResults(cmd.OutOrStdout(), result, format)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
