package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/SaxonF/supawatch/internal/query"
)

func renderResults(w io.Writer, res *query.Result, format string) error {
	switch format {
	case "json":
		return renderJSON(w, res)
	case "csv":
		return renderCSV(w, res)
	case "md", "markdown":
		return renderMarkdown(w, res)
	default:
		return renderTable(w, res)
	}
}

func renderTable(w io.Writer, res *query.Result) error {
	if len(res.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range res.Rows {
		row := make(table.Row, len(res.Columns))
		for i, col := range res.Columns {
			row[i] = r[col]
		}
		t.AppendRow(row)
	}
	t.Render()

	_, _ = fmt.Fprint(w, rowCountFooter(res))
	return nil
}

func rowCountFooter(res *query.Result) string {
	if res.Truncated {
		return fmt.Sprintf("(%d rows shown, more available)\n", len(res.Rows))
	}
	return fmt.Sprintf("(%d rows)\n", len(res.Rows))
}

func renderJSON(w io.Writer, res *query.Result) error {
	rows := res.Rows
	if rows == nil {
		rows = []map[string]string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func renderCSV(w io.Writer, res *query.Result) error {
	_, _ = fmt.Fprintln(w, strings.Join(res.Columns, ","))
	for _, r := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = escapeCSV(r[col])
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, res *query.Result) error {
	if len(res.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(res.Columns, " | "))
	seps := make([]string, len(res.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, r := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			cells[i] = strings.ReplaceAll(r[col], "|", "\\|")
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	return nil
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
