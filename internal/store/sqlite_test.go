package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaxonF/supawatch/internal/sidebar"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Specification_DefaultWhenEmpty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	has, err := s.HasSpecification(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, has)

	spec, err := s.Specification(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, spec.Group(sidebar.DefaultGroupID))
}

func TestStore_WriteAndReadBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	spec := &sidebar.Spec{Groups: []sidebar.Group{
		{
			ID: "tables", Name: "Tables",
			Strategy: sidebar.Strategy{
				Kind:     sidebar.StrategyQueryDriven,
				Query:    "SELECT name FROM sqlite_master",
				Template: &sidebar.Item{ID: "table-:name", Name: ":name", Visible: true},
			},
		},
	}}
	require.NoError(t, s.WriteSpecification(ctx, "p1", spec))

	has, err := s.HasSpecification(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, has)

	got, err := s.Specification(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got.Groups, 1)
	assert.Equal(t, sidebar.StrategyQueryDriven, got.Groups[0].Strategy.Kind)
	require.NotNil(t, got.Groups[0].Strategy.Template)
	assert.Equal(t, "table-:name", got.Groups[0].Strategy.Template.ID)
}

func TestStore_Write_IsScopedByProject(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	spec := &sidebar.Spec{Groups: []sidebar.Group{
		{ID: "only", Name: "Only", Strategy: sidebar.Strategy{Kind: sidebar.StrategyManual}},
	}}
	require.NoError(t, s.WriteSpecification(ctx, "p1", spec))

	other, err := s.Specification(ctx, "p2")
	require.NoError(t, err)
	assert.Nil(t, other.Group("only"), "p2 still sees the default document")
}

func TestStore_Write_ReplacesWholesale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := &sidebar.Spec{Groups: []sidebar.Group{
		{ID: "a", Name: "A", Strategy: sidebar.Strategy{Kind: sidebar.StrategyManual}},
	}}
	second := &sidebar.Spec{Groups: []sidebar.Group{
		{ID: "b", Name: "B", Strategy: sidebar.Strategy{Kind: sidebar.StrategyManual}},
	}}
	require.NoError(t, s.WriteSpecification(ctx, "p1", first))
	require.NoError(t, s.WriteSpecification(ctx, "p1", second))

	got, err := s.Specification(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got.Groups, 1)
	assert.Equal(t, "b", got.Groups[0].ID)
}

func TestStore_Write_RejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	invalid := &sidebar.Spec{Groups: []sidebar.Group{
		{ID: "g", Name: "A", Strategy: sidebar.Strategy{Kind: sidebar.StrategyManual}},
		{ID: "g", Name: "B", Strategy: sidebar.Strategy{Kind: sidebar.StrategyManual}},
	}}
	assert.Error(t, s.WriteSpecification(ctx, "p1", invalid))
	assert.Error(t, s.WriteSpecification(ctx, "p1", nil))
}

func TestStore_AddItemToGroup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// No document stored yet: the add goes against the default document.
	item := sidebar.Item{ID: "orders", Name: "Orders", Visible: true}
	require.NoError(t, s.AddItemToGroup(ctx, "p1", sidebar.DefaultGroupID, item))

	got, err := s.Specification(ctx, "p1")
	require.NoError(t, err)
	admin := got.Group(sidebar.DefaultGroupID)
	require.NotNil(t, admin)
	require.Len(t, admin.Strategy.Items, 1)
	assert.Equal(t, "orders", admin.Strategy.Items[0].ID)
}

func TestStore_AddItemToGroup_UnknownGroup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.AddItemToGroup(ctx, "p1", "missing", sidebar.Item{ID: "x", Name: "X"})

	var unknown *sidebar.UnknownGroupError
	require.ErrorAs(t, err, &unknown)

	// The failed transaction leaves nothing behind.
	has, err := s.HasSpecification(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStore_AddGroup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := sidebar.Group{ID: "extra", Name: "Extra", Strategy: sidebar.Strategy{Kind: sidebar.StrategyManual}}
	require.NoError(t, s.AddGroup(ctx, "p1", g))

	got, err := s.Specification(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got.Group("extra"))

	// Adding again with a new name replaces in place.
	g.Name = "Extra v2"
	require.NoError(t, s.AddGroup(ctx, "p1", g))

	got, err = s.Specification(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Extra v2", got.Group("extra").Name)
}
