package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaxonF/supawatch/internal/sidebar"
)

func tableTemplate() sidebar.Item {
	return sidebar.Item{
		ID:      "table-:name",
		Name:    ":name",
		Visible: true,
		Queries: []sidebar.Query{{SQL: "SELECT * FROM :schema.:name LIMIT 100"}},
		Children: []sidebar.Item{
			{ID: "table-:name-columns", Name: "Columns", Visible: true,
				Queries: []sidebar.Query{{SQL: "PRAGMA table_info(:name)"}}},
		},
	}
}

func TestExpandItem_ResolvesTree(t *testing.T) {
	item := ExpandItem(tableTemplate(), map[string]string{"name": "users", "schema": "public"})

	assert.Equal(t, "table-users", item.ID)
	assert.Equal(t, "users", item.Name)
	require.Len(t, item.Queries, 1)
	assert.Equal(t, "SELECT * FROM public.users LIMIT 100", item.Queries[0].SQL)

	require.Len(t, item.Children, 1)
	assert.Equal(t, "table-users-columns", item.Children[0].ID)
	assert.Equal(t, "PRAGMA table_info(users)", item.Children[0].Queries[0].SQL)
}

func TestExpandItem_DoesNotMutateTemplate(t *testing.T) {
	tmpl := tableTemplate()
	_ = ExpandItem(tmpl, map[string]string{"name": "users"})

	assert.Equal(t, "table-:name", tmpl.ID)
	assert.Equal(t, "SELECT * FROM :schema.:name LIMIT 100", tmpl.Queries[0].SQL)
}

func TestExpandRows_OnePerRow(t *testing.T) {
	items := ExpandRows(tableTemplate(), []map[string]string{
		{"name": "users", "schema": "public"},
		{"name": "orders", "schema": "public"},
	})

	require.Len(t, items, 2)
	assert.Equal(t, "table-users", items[0].ID)
	assert.Equal(t, "table-orders", items[1].ID)
}

func TestExpandRows_CollisionLastRowWins(t *testing.T) {
	items := ExpandRows(tableTemplate(), []map[string]string{
		{"name": "users", "schema": "public"},
		{"name": "orders", "schema": "public"},
		{"name": "users", "schema": "audit"},
	})

	require.Len(t, items, 2)
	assert.Equal(t, "table-users", items[0].ID, "collision keeps the original position")
	assert.Equal(t, "SELECT * FROM audit.users LIMIT 100", items[0].Queries[0].SQL, "later row wins")
	assert.Equal(t, "table-orders", items[1].ID)
}

func TestExpandRows_NoRows(t *testing.T) {
	assert.Empty(t, ExpandRows(tableTemplate(), nil))
}
