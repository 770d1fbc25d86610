package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaxonF/supawatch/internal/query"
)

func sampleResult() *query.Result {
	return &query.Result{
		Columns: []string{"id", "name"},
		Rows: []map[string]string{
			{"id": "1", "name": "alpha"},
			{"id": "2", "name": "beta, \"quoted\""},
		},
	}
}

func TestRenderResults_Table(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, renderResults(&buf, sampleResult(), "table"))

	out := buf.String()
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "(2 rows)")
}

func TestRenderResults_TableTruncated(t *testing.T) {
	res := sampleResult()
	res.Truncated = true

	var buf strings.Builder
	require.NoError(t, renderResults(&buf, res, "table"))
	assert.Contains(t, buf.String(), "(2 rows shown, more available)")
}

func TestRenderResults_TableEmpty(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, renderResults(&buf, &query.Result{Columns: []string{"id"}}, "table"))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestRenderResults_CSV(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, renderResults(&buf, sampleResult(), "csv"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name", lines[0])
	assert.Equal(t, "1,alpha", lines[1])
	// Comma and quotes force CSV escaping.
	assert.Equal(t, `2,"beta, ""quoted"""`, lines[2])
}

func TestRenderResults_Markdown(t *testing.T) {
	res := &query.Result{
		Columns: []string{"expr"},
		Rows:    []map[string]string{{"expr": "a|b"}},
	}

	var buf strings.Builder
	require.NoError(t, renderResults(&buf, res, "md"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| expr |", lines[0])
	assert.Equal(t, "| --- |", lines[1])
	assert.Equal(t, `| a\|b |`, lines[2])
}

func TestRenderResults_JSONEmpty(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, renderResults(&buf, &query.Result{Columns: []string{"id"}}, "json"))
	assert.Equal(t, "[]\n", buf.String())
}
