package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaxonF/supawatch/internal/admin"
	"github.com/SaxonF/supawatch/internal/adapter"
	"github.com/SaxonF/supawatch/internal/cli/output"
	"github.com/SaxonF/supawatch/internal/config"
	"github.com/SaxonF/supawatch/internal/store"
	"github.com/SaxonF/supawatch/internal/testutil"
)

func importTestContext(t *testing.T, out *strings.Builder) (context.Context, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		ProjectID: "default",
		StatePath: filepath.Join(t.TempDir(), "state.db"),
		Target:    &adapter.Config{Type: adapter.TypeSQLite, Database: ":memory:"},
	}
	ctx := WithConfig(context.Background(), cfg)
	ctx = WithLogger(ctx, testutil.NewTestLogger(t))
	ctx = WithRenderer(ctx, output.NewRenderer(out, out))
	return ctx, cfg
}

func writeTemplate(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func storedGroupIDs(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	st, err := store.Open(cfg.StatePath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	spec, err := st.Specification(context.Background(), cfg.ProjectID)
	require.NoError(t, err)
	ids := make([]string, 0, len(spec.Groups))
	for _, g := range spec.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

func TestImportCommand_FileSpecRequiresYes(t *testing.T) {
	var out strings.Builder
	ctx, cfg := importTestContext(t, &out)

	path := writeTemplate(t, `{"groups": [{"id": "only", "name": "Only", "items": []}]}`)

	cmd := NewImportCommand()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"--file", path})

	err := cmd.Execute()
	require.ErrorIs(t, err, admin.ErrReplaceNotConfirmed)
	assert.Contains(t, out.String(), "--yes")

	// Nothing was committed: the default document survives.
	assert.NotContains(t, storedGroupIDs(t, cfg), "only")
}

func TestImportCommand_FileSpecConfirmed(t *testing.T) {
	var out strings.Builder
	ctx, cfg := importTestContext(t, &out)

	path := writeTemplate(t, `{"groups": [{"id": "only", "name": "Only", "items": []}]}`)

	cmd := NewImportCommand()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"--file", path, "--yes"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, []string{"only"}, storedGroupIDs(t, cfg))
}

func TestImportCommand_FileItemNeedsNoConfirmation(t *testing.T) {
	var out strings.Builder
	ctx, cfg := importTestContext(t, &out)

	path := writeTemplate(t, `{"id": "orders", "name": "Orders", "queries": []}`)

	cmd := NewImportCommand()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"--file", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Imported")

	st, err := store.Open(cfg.StatePath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	spec, err := st.Specification(context.Background(), cfg.ProjectID)
	require.NoError(t, err)
	require.Len(t, spec.Group("admin").Strategy.Items, 1)
	assert.Equal(t, "orders", spec.Group("admin").Strategy.Items[0].ID)
}
