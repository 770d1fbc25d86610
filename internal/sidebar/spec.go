package sidebar

import (
	"encoding/json"
	"fmt"
)

// UnknownGroupError reports a merge target group that does not exist.
type UnknownGroupError struct {
	GroupID string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown group %q", e.GroupID)
}

// StrategyConflictError reports an attempt to manually add an item to a
// group whose items are populated dynamically.
type StrategyConflictError struct {
	GroupID string
	Kind    StrategyKind
}

func (e *StrategyConflictError) Error() string {
	return fmt.Sprintf("group %q is %s-populated and cannot receive manual items", e.GroupID, e.Kind)
}

// Clone returns a deep copy of the spec. Specifications are treated as
// immutable values; every mutation works on a clone and replaces the whole
// document.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		// A spec that made it into memory always round-trips.
		panic(fmt.Sprintf("sidebar: clone marshal: %v", err))
	}
	var out Spec
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("sidebar: clone unmarshal: %v", err))
	}
	return &out
}

// Group returns the group with the given id, or nil.
func (s *Spec) Group(id string) *Group {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return &s.Groups[i]
		}
	}
	return nil
}

// HasItem reports whether the concrete item id exists anywhere in the spec:
// as a manual item (or one of its children), or as a group's item template id.
// Template ids containing unresolved tokens never match a concrete id here;
// callers checking resolved navigation frames should also consult their
// expanded items.
func (s *Spec) HasItem(id string) bool {
	for gi := range s.Groups {
		g := &s.Groups[gi]
		switch g.Strategy.Kind {
		case StrategyQueryDriven:
			if g.Strategy.Template != nil && itemTreeHas(*g.Strategy.Template, id) {
				return true
			}
		case StrategyManual:
			for _, it := range g.Strategy.Items {
				if itemTreeHas(it, id) {
					return true
				}
			}
		}
	}
	return false
}

func itemTreeHas(it Item, id string) bool {
	if it.ID == id {
		return true
	}
	for _, child := range it.Children {
		if itemTreeHas(child, id) {
			return true
		}
	}
	return false
}

// AddItem appends an item to the manual item list of the named group.
// Adding to a query-driven or state-derived group is a strategy conflict.
func (s *Spec) AddItem(groupID string, item Item) error {
	g := s.Group(groupID)
	if g == nil {
		return &UnknownGroupError{GroupID: groupID}
	}
	if g.Strategy.Kind != StrategyManual {
		return &StrategyConflictError{GroupID: groupID, Kind: g.Strategy.Kind}
	}
	g.Strategy.Items = append(g.Strategy.Items, item)
	return nil
}

// PutGroup appends the group, or replaces an existing group with the same id
// in place, preserving its position. Repeated imports of an identical group
// are therefore idempotent.
func (s *Spec) PutGroup(g Group) {
	for i := range s.Groups {
		if s.Groups[i].ID == g.ID {
			s.Groups[i] = g
			return
		}
	}
	s.Groups = append(s.Groups, g)
}

// Validate checks spec-level invariants: group ids unique, chart descriptor
// present iff results kind is chart.
func (s *Spec) Validate() error {
	seen := make(map[string]struct{}, len(s.Groups))
	for _, g := range s.Groups {
		if _, dup := seen[g.ID]; dup {
			return fmt.Errorf("duplicate group id %q", g.ID)
		}
		seen[g.ID] = struct{}{}

		items := g.Strategy.Items
		if g.Strategy.Kind == StrategyQueryDriven && g.Strategy.Template != nil {
			items = []Item{*g.Strategy.Template}
		}
		for _, it := range items {
			if err := validateItem(it); err != nil {
				return fmt.Errorf("group %q: %w", g.ID, err)
			}
		}
	}
	return nil
}

func validateItem(it Item) error {
	for _, q := range it.Queries {
		if q.Results == ResultsChart && q.Chart == nil {
			return fmt.Errorf("item %q: chart results require a chart descriptor", it.ID)
		}
	}
	for _, child := range it.Children {
		if err := validateItem(child); err != nil {
			return err
		}
	}
	return nil
}
