package sidebar

import "github.com/SaxonF/supawatch/internal/admin"

// ImportSignals represents the signals sent from the frontend when
// importing a template document.
type ImportSignals struct {
	URL            string `json:"importUrl"`
	GroupID        string `json:"importGroupId"`
	ConfirmReplace bool   `json:"importConfirmReplace"`
}

// NewItemSignals represents the signals for adding an item to a
// user-creatable group.
type NewItemSignals struct {
	GroupID string `json:"groupId"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	SQL     string `json:"sql"`
}

// SidebarSignals is the payload patched into the frontend signal store
// whenever the sidebar changes.
type SidebarSignals struct {
	ConfigVersion int64                 `json:"admin_config_changed"`
	Groups        []admin.ResolvedGroup `json:"sidebarGroups"`
}

// ImportResultSignals reports the outcome of an import request.
type ImportResultSignals struct {
	ImportKind           string `json:"importKind,omitempty"`
	RequiresConfirmation bool   `json:"importRequiresConfirmation,omitempty"`
	ImportError          string `json:"importError,omitempty"`
}
