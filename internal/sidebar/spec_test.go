package sidebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() *Spec {
	return &Spec{Groups: []Group{
		{
			ID:            "admin",
			Name:          "Admin",
			UserCreatable: true,
			Strategy: Strategy{Kind: StrategyManual, Items: []Item{
				{ID: "users", Name: "Users", Visible: true, Queries: []Query{{SQL: "SELECT * FROM users"}}},
			}},
		},
		{
			ID:   "tables",
			Name: "Tables",
			Strategy: Strategy{
				Kind:     StrategyQueryDriven,
				Query:    "SELECT name FROM sqlite_master",
				Template: &Item{ID: "table-:name", Name: ":name", Visible: true},
			},
		},
	}}
}

func TestSpec_Clone_Independent(t *testing.T) {
	spec := testSpec()
	clone := spec.Clone()

	require.NoError(t, clone.AddItem("admin", Item{ID: "new", Name: "New", Visible: true}))

	assert.Len(t, clone.Group("admin").Strategy.Items, 2)
	assert.Len(t, spec.Group("admin").Strategy.Items, 1, "clone mutation must not reach the original")
}

func TestSpec_AddItem_UnknownGroup(t *testing.T) {
	spec := testSpec()
	err := spec.AddItem("missing", Item{ID: "x", Name: "X"})

	var unknown *UnknownGroupError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.GroupID)
}

func TestSpec_AddItem_StrategyConflict(t *testing.T) {
	spec := testSpec()
	err := spec.AddItem("tables", Item{ID: "x", Name: "X"})

	var conflict *StrategyConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "tables", conflict.GroupID)
	assert.Equal(t, StrategyQueryDriven, conflict.Kind)
}

func TestSpec_PutGroup_ReplacesInPlace(t *testing.T) {
	spec := testSpec()
	spec.PutGroup(Group{ID: "admin", Name: "Renamed", Strategy: Strategy{Kind: StrategyManual}})

	require.Len(t, spec.Groups, 2)
	assert.Equal(t, "admin", spec.Groups[0].ID, "replaced group keeps its position")
	assert.Equal(t, "Renamed", spec.Groups[0].Name)
	assert.Empty(t, spec.Groups[0].Strategy.Items)
}

func TestSpec_PutGroup_AppendsNew(t *testing.T) {
	spec := testSpec()
	spec.PutGroup(Group{ID: "extra", Name: "Extra", Strategy: Strategy{Kind: StrategyManual}})

	require.Len(t, spec.Groups, 3)
	assert.Equal(t, "extra", spec.Groups[2].ID)
}

func TestSpec_HasItem(t *testing.T) {
	spec := testSpec()

	assert.True(t, spec.HasItem("users"))
	assert.True(t, spec.HasItem("table-:name"), "template id matches literally")
	assert.False(t, spec.HasItem("table-customers"), "resolved template ids are not in the document")
	assert.False(t, spec.HasItem("missing"))
}

func TestSpec_HasItem_Children(t *testing.T) {
	spec := &Spec{Groups: []Group{{
		ID: "g", Name: "G",
		Strategy: Strategy{Kind: StrategyManual, Items: []Item{
			{ID: "parent", Name: "P", Children: []Item{{ID: "child", Name: "C"}}},
		}},
	}}}

	assert.True(t, spec.HasItem("child"))
}

func TestSpec_Validate_DuplicateGroupIDs(t *testing.T) {
	spec := &Spec{Groups: []Group{
		{ID: "g", Name: "A", Strategy: Strategy{Kind: StrategyManual}},
		{ID: "g", Name: "B", Strategy: Strategy{Kind: StrategyManual}},
	}}
	assert.Error(t, spec.Validate())
}

func TestSpec_Validate_ChartRequiresDescriptor(t *testing.T) {
	spec := &Spec{Groups: []Group{{
		ID: "g", Name: "G",
		Strategy: Strategy{Kind: StrategyManual, Items: []Item{
			{ID: "i", Name: "I", Queries: []Query{{SQL: "SELECT 1", Results: ResultsChart}}},
		}},
	}}}
	assert.Error(t, spec.Validate())

	spec.Groups[0].Strategy.Items[0].Queries[0].Chart = &ChartSpec{Type: "bar", XKey: "x", YKey: "y"}
	assert.NoError(t, spec.Validate())
}

func TestDefaultSpec(t *testing.T) {
	spec := DefaultSpec()
	require.NoError(t, spec.Validate())

	admin := spec.Group(DefaultGroupID)
	require.NotNil(t, admin)
	assert.True(t, admin.UserCreatable)
	assert.Equal(t, StrategyManual, admin.Strategy.Kind)
}
