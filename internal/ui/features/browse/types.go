package browse

import (
	"github.com/SaxonF/supawatch/internal/navigate"
	"github.com/SaxonF/supawatch/internal/sidebar"
)

// PushSignals carries a drill-down request: the action's target item,
// its declared params, and the result row that triggered it.
type PushSignals struct {
	ItemID string            `json:"itemId"`
	Params map[string]string `json:"params"`
	Row    map[string]string `json:"row"`
}

// OpenSignals names the entry item for a new tab.
type OpenSignals struct {
	EntryItemID string `json:"entryItemId"`
}

// TabSignals is patched into the frontend whenever a tab's stack changes.
type TabSignals struct {
	TabID   string              `json:"tabId"`
	Current sidebar.ViewState   `json:"currentView"`
	Stack   []sidebar.ViewState `json:"viewStack"`
}

// TabListSignals mirrors the open tabs.
type TabListSignals struct {
	Tabs []navigate.Tab `json:"tabs"`
}
