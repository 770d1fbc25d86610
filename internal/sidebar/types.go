// Package sidebar defines the declarative specification that drives
// Supawatch navigation: groups, drill-down items, queries, and the value
// types they reference. The specification is a document owned by the store,
// keyed by project id; values in memory are treated as immutable and are
// wholesale replaced on write.
package sidebar

import "encoding/json"

// ResultsKind describes how a query's result set is presented.
type ResultsKind string

const (
	// ResultsTable renders rows as a table.
	ResultsTable ResultsKind = "table"
	// ResultsChart renders rows through a chart descriptor.
	ResultsChart ResultsKind = "chart"
)

// Spec is the full sidebar specification for one project.
// Group order is display order and is significant.
type Spec struct {
	Groups []Group `json:"groups"`
}

// Group is one sidebar section. Exactly one population strategy is set;
// documents declaring more than one are rejected at load time.
type Group struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Icon          string   `json:"icon,omitempty"`
	UserCreatable bool     `json:"userCreatable,omitempty"`
	Strategy      Strategy `json:"-"`
}

// Item is one navigable entry. When an item serves as a template under a
// query-driven group, its ID, Name, and query SQL may contain :token
// placeholders resolved once per result row.
type Item struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Icon          string  `json:"icon,omitempty"`
	Visible       bool    `json:"visible"`
	Queries       []Query `json:"queries"`
	PrimaryAction *Action `json:"primaryAction,omitempty"`
	Children      []Item  `json:"children,omitempty"`
	AutoRun       bool    `json:"autoRun,omitempty"`
}

// UnmarshalJSON decodes an item with visible defaulting to true.
func (it *Item) UnmarshalJSON(data []byte) error {
	type alias Item
	it.Visible = true
	return json.Unmarshal(data, (*alias)(it))
}

// Query is one SQL payload attached to an item. The SQL text is opaque to
// Supawatch; it is handed to the query collaborator verbatim after token
// resolution.
type Query struct {
	SQL            string      `json:"sql"`
	Results        ResultsKind `json:"results,omitempty"`
	Chart          *ChartSpec  `json:"chart,omitempty"`
	Parameters     []FormField `json:"parameters,omitempty"`
	LoadQuery      string      `json:"loadQuery,omitempty"`
	RowActions     []RowAction `json:"rowActions,omitempty"`
	ReturnToParent bool        `json:"returnToParent,omitempty"`
}

// ChartSpec describes how chart results map result columns to axes.
// Required iff Results == ResultsChart.
type ChartSpec struct {
	Type string `json:"type"`
	XKey string `json:"xKey,omitempty"`
	YKey string `json:"yKey,omitempty"`
}

// FormField is a typed input descriptor for query parameters.
type FormField struct {
	Name         string        `json:"name"`
	Label        string        `json:"label,omitempty"`
	Type         string        `json:"type"`
	Required     bool          `json:"required,omitempty"`
	DefaultValue string        `json:"defaultValue,omitempty"`
	Options      []FieldOption `json:"options,omitempty"`
	OptionsQuery string        `json:"optionsQuery,omitempty"`
}

// FieldOption is one choice of a select field.
type FieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Action is a navigation target declared on an item (the primary action).
// The item id may itself be templated; Params map parameter names to token
// expressions resolved at push time.
type Action struct {
	ItemID string            `json:"itemId"`
	Params map[string]string `json:"params,omitempty"`
}

// RowAction is a static binding from a result row to a navigable item.
// Params map parameter names to token expressions; these take precedence
// over raw column-name bindings when the target is resolved.
type RowAction struct {
	Label   string            `json:"label"`
	Variant string            `json:"variant,omitempty"`
	ItemID  string            `json:"itemId"`
	Params  map[string]string `json:"params,omitempty"`
}

// ViewState is one frame of a navigation stack: a concrete item id with a
// fully resolved parameter bag. Params never contain unresolved :token
// placeholders.
type ViewState struct {
	ItemID string            `json:"itemId"`
	Params map[string]string `json:"params"`
}
