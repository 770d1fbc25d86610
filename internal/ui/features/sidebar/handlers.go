// Package sidebar serves the resolved sidebar and the import endpoints.
package sidebar

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/SaxonF/supawatch/internal/admin"
	specmodel "github.com/SaxonF/supawatch/internal/sidebar"
)

// Handlers provides HTTP handlers for the sidebar feature.
type Handlers struct {
	svc *admin.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *admin.Service) *Handlers {
	return &Handlers{svc: svc}
}

// Sidebar returns the fully resolved sidebar as JSON.
func (h *Handlers) Sidebar(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Resolved(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(groups)
}

// SidebarSSE streams the resolved sidebar, re-sending whenever the
// project's configuration changes. The initial state is sent immediately.
func (h *Handlers) SidebarSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch := h.svc.Subscribe()
	defer h.svc.Unsubscribe(ch)

	if err := h.patchSidebar(sse, r); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := h.patchSidebar(sse, r); err != nil {
				_ = sse.ConsoleError(err)
				return
			}
		}
	}
}

func (h *Handlers) patchSidebar(sse *datastar.ServerSentEventGenerator, r *http.Request) error {
	groups, err := h.svc.Resolved(r.Context())
	if err != nil {
		return err
	}
	return sse.MarshalAndPatchSignals(SidebarSignals{
		ConfigVersion: time.Now().UnixMilli(),
		Groups:        groups,
	})
}

// ImportSSE runs the template import pipeline from frontend signals.
// A spec payload that would replace the whole document comes back with
// importRequiresConfirmation set; the frontend re-submits with
// importConfirmReplace once the user agrees.
func (h *Handlers) ImportSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals ImportSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	report, err := h.svc.Import(r.Context(), admin.ImportOptions{
		URL:            signals.URL,
		GroupID:        signals.GroupID,
		ConfirmReplace: signals.ConfirmReplace,
	})
	if errors.Is(err, admin.ErrReplaceNotConfirmed) {
		_ = sse.MarshalAndPatchSignals(ImportResultSignals{
			ImportKind:           string(report.Kind),
			RequiresConfirmation: true,
		})
		return
	}
	if err != nil {
		_ = sse.MarshalAndPatchSignals(ImportResultSignals{ImportError: err.Error()})
		return
	}
	_ = sse.MarshalAndPatchSignals(ImportResultSignals{ImportKind: string(report.Kind)})
}

// NewItemSSE appends a user-created item to a manual group.
func (h *Handlers) NewItemSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals NewItemSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	item := specmodel.Item{
		ID:      signals.ID,
		Name:    signals.Name,
		Icon:    signals.Icon,
		Visible: true,
	}
	if signals.SQL != "" {
		item.Queries = []specmodel.Query{{SQL: signals.SQL, Results: specmodel.ResultsTable}}
	}

	groupID := signals.GroupID
	if groupID == "" {
		groupID = specmodel.DefaultGroupID
	}
	if err := h.svc.AddItem(r.Context(), groupID, item); err != nil {
		_ = sse.ConsoleError(err)
	}
}
