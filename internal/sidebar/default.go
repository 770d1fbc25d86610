package sidebar

// DefaultGroupID is the fallback target for imported items that carry no
// group of their own.
const DefaultGroupID = "admin"

// DefaultSpec returns the specification used for projects with no persisted
// document: an empty user-creatable admin group plus a group mirroring the
// open tabs.
func DefaultSpec() *Spec {
	return &Spec{
		Groups: []Group{
			{
				ID:            DefaultGroupID,
				Name:          "Admin",
				Icon:          "shield",
				UserCreatable: true,
				Strategy:      Strategy{Kind: StrategyManual, Items: []Item{}},
			},
			{
				ID:       "tabs",
				Name:     "Open Tabs",
				Icon:     "layout",
				Strategy: Strategy{Kind: StrategyStateDerived, Source: StateSourceTabs},
			},
		},
	}
}
