package sidebar

import (
	"encoding/json"
	"fmt"
)

// StrategyKind tags a group's population strategy.
type StrategyKind string

const (
	// StrategyManual populates a group from a literal item list.
	StrategyManual StrategyKind = "manual"
	// StrategyQueryDriven expands an item template once per query result row.
	StrategyQueryDriven StrategyKind = "query"
	// StrategyStateDerived derives items from runtime state (open tabs).
	StrategyStateDerived StrategyKind = "state"
)

// StateSourceTabs is the only recognized state-derived source.
const StateSourceTabs = "tabs"

// Strategy is the tagged population-strategy variant. It is constructed once
// at load time; wire documents declaring fields of more than one variant are
// rejected rather than silently picking one.
type Strategy struct {
	Kind StrategyKind

	// Items is populated for StrategyManual.
	Items []Item

	// Query and Template are populated for StrategyQueryDriven.
	Query    string
	Template *Item

	// Source is populated for StrategyStateDerived.
	Source string
}

// AmbiguousStrategyError reports a group whose wire form declares more than
// one population strategy.
type AmbiguousStrategyError struct {
	GroupID string
	Kinds   []StrategyKind
}

func (e *AmbiguousStrategyError) Error() string {
	return fmt.Sprintf("group %q declares multiple population strategies: %v", e.GroupID, e.Kinds)
}

// groupWire is the on-the-wire shape of a group. The strategy is encoded as
// mutually-significant optional fields; itemsSource is accepted as an alias
// for itemTemplate.
type groupWire struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon,omitempty"`
	UserCreatable bool   `json:"userCreatable,omitempty"`
	Items         []Item `json:"items,omitempty"`
	ItemsQuery    string `json:"itemsQuery,omitempty"`
	ItemTemplate  *Item  `json:"itemTemplate,omitempty"`
	ItemsSource   *Item  `json:"itemsSource,omitempty"`
	ItemsFrom     string `json:"itemsFromState,omitempty"`
}

// UnmarshalJSON builds the tagged strategy variant from the wire fields.
func (g *Group) UnmarshalJSON(data []byte) error {
	var w groupWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	// Distinguish "items": [] from an absent field so an explicit empty
	// manual list still counts as a declared strategy.
	var probe struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	g.ID = w.ID
	g.Name = w.Name
	g.Icon = w.Icon
	g.UserCreatable = w.UserCreatable

	var kinds []StrategyKind
	if probe.Items != nil {
		kinds = append(kinds, StrategyManual)
	}
	if w.ItemsQuery != "" || w.ItemTemplate != nil || w.ItemsSource != nil {
		kinds = append(kinds, StrategyQueryDriven)
	}
	if w.ItemsFrom != "" {
		kinds = append(kinds, StrategyStateDerived)
	}
	if len(kinds) > 1 {
		return &AmbiguousStrategyError{GroupID: w.ID, Kinds: kinds}
	}

	switch {
	case len(kinds) == 0 || kinds[0] == StrategyManual:
		// A group with no strategy fields is an empty manual group.
		g.Strategy = Strategy{Kind: StrategyManual, Items: w.Items}
	case kinds[0] == StrategyQueryDriven:
		tmpl := w.ItemTemplate
		if tmpl == nil {
			tmpl = w.ItemsSource
		}
		g.Strategy = Strategy{Kind: StrategyQueryDriven, Query: w.ItemsQuery, Template: tmpl}
	default:
		if w.ItemsFrom != StateSourceTabs {
			return fmt.Errorf("group %q: unknown state source %q", w.ID, w.ItemsFrom)
		}
		g.Strategy = Strategy{Kind: StrategyStateDerived, Source: w.ItemsFrom}
	}
	return nil
}

// MarshalJSON writes the group back in its wire form.
func (g Group) MarshalJSON() ([]byte, error) {
	w := groupWire{
		ID:            g.ID,
		Name:          g.Name,
		Icon:          g.Icon,
		UserCreatable: g.UserCreatable,
	}
	switch g.Strategy.Kind {
	case StrategyQueryDriven:
		w.ItemsQuery = g.Strategy.Query
		w.ItemTemplate = g.Strategy.Template
	case StrategyStateDerived:
		w.ItemsFrom = g.Strategy.Source
	default:
		items := g.Strategy.Items
		if items == nil {
			items = []Item{}
		}
		// Manual groups always carry their item list, even when empty,
		// so the strategy survives a round trip.
		return json.Marshal(struct {
			groupWire
			Items []Item `json:"items"`
		}{groupWire: w, Items: items})
	}
	return json.Marshal(w)
}
