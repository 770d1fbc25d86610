package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/SaxonF/supawatch/internal/adapter"
)

func runQueryREPL(cmd *cobra.Command, opts *QueryOptions) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)

	db, err := adapter.Open(ctx, *cfg.GetTarget())
	if err != nil {
		return fmt.Errorf("failed to open target data source: %w", err)
	}
	defer func() { _ = db.Close() }()

	// History lives next to the state database
	historyFile := filepath.Join(filepath.Dir(cfg.StatePath), "query_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "supawatch> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "supawatch query REPL (target: %s)\n", cfg.GetTarget().Type)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("supawatch> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == ".quit" || line == ".exit" {
			break
		}
		if handled := handleDotCommand(ctx, cmd, db, line, opts.Format); handled {
			continue
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("      ...> ")
			continue
		}
		rl.SetPrompt("supawatch> ")

		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		if err := executeAndRenderQuery(ctx, cmd, db, query, opts.Format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// handleDotCommand handles REPL dot-commands. Returns true when the line
// was a dot-command, whether or not it succeeded.
func handleDotCommand(ctx context.Context, cmd *cobra.Command, db *sql.DB, line, format string) bool {
	if !strings.HasPrefix(line, ".") {
		return false
	}

	switch {
	case line == ".help":
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Commands:")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  .tables   List tables in the target")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  .quit     Exit the REPL")
	case line == ".tables":
		query := tableListQuery(GetConfig(ctx).GetTarget().Type)
		if err := executeAndRenderQuery(ctx, cmd, db, query, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s\n", line)
	}
	return true
}

func tableListQuery(targetType string) string {
	switch targetType {
	case adapter.TypePostgres:
		return `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() ORDER BY table_name`
	case adapter.TypeDuckDB:
		return `SELECT table_name FROM information_schema.tables ORDER BY table_name`
	default:
		return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	}
}
