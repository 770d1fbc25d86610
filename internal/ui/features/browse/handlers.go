// Package browse manages per-tab navigation over the sidebar's items.
package browse

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/SaxonF/supawatch/internal/admin"
)

const (
	sessionName   = "supawatch"
	sessionTabKey = "current_tab"
)

// Handlers provides HTTP handlers for the browse feature.
type Handlers struct {
	svc          *admin.Service
	sessionStore sessions.Store
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *admin.Service, sessionStore sessions.Store) *Handlers {
	return &Handlers{svc: svc, sessionStore: sessionStore}
}

// OpenTabSSE opens a browsing tab anchored at the entry item from the
// signals and remembers it as the session's current tab.
func (h *Handlers) OpenTabSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	var signals OpenSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if signals.EntryItemID == "" {
		_ = sse.ConsoleError(errMissingEntry)
		return
	}

	tabID := h.svc.Tabs().Open(signals.EntryItemID)
	h.rememberTab(w, r, tabID)
	h.patchTab(sse, tabID)
	h.patchTabList(sse)
}

// Tabs returns the open tabs as JSON.
func (h *Handlers) Tabs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, TabListSignals{Tabs: h.svc.Tabs().Tabs()})
}

// Stack returns one tab's view stack as JSON.
func (h *Handlers) Stack(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tabID")
	stack := h.svc.Tabs().Get(tabID)
	if stack == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, TabSignals{TabID: tabID, Current: stack.Current(), Stack: stack.Frames()})
}

// PushSSE drills down within a tab: action params are resolved against the
// triggering row and the current view's params, and the resulting view is
// pushed onto the tab's stack.
func (h *Handlers) PushSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	tabID := chi.URLParam(r, "tabID")
	stack := h.svc.Tabs().Get(tabID)
	if stack == nil {
		_ = sse.ConsoleError(errUnknownTab)
		return
	}

	var signals PushSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	stack.Push(signals.ItemID, signals.Params, signals.Row)
	h.rememberTab(w, r, tabID)
	h.patchTab(sse, tabID)
}

// PopSSE returns to the previous view. Popping at the entry view is a no-op.
func (h *Handlers) PopSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	tabID := chi.URLParam(r, "tabID")
	stack := h.svc.Tabs().Get(tabID)
	if stack == nil {
		_ = sse.ConsoleError(errUnknownTab)
		return
	}

	stack.Pop()
	h.patchTab(sse, tabID)
}

// CloseTab discards a tab and its navigation state.
func (h *Handlers) CloseTab(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tabID")
	h.svc.Tabs().Close(tabID)

	session, _ := h.sessionStore.Get(r, sessionName)
	if session.Values[sessionTabKey] == tabID {
		delete(session.Values, sessionTabKey)
		_ = session.Save(r, w)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) patchTab(sse *datastar.ServerSentEventGenerator, tabID string) {
	stack := h.svc.Tabs().Get(tabID)
	if stack == nil {
		return
	}
	_ = sse.MarshalAndPatchSignals(TabSignals{
		TabID:   tabID,
		Current: stack.Current(),
		Stack:   stack.Frames(),
	})
}

func (h *Handlers) patchTabList(sse *datastar.ServerSentEventGenerator) {
	_ = sse.MarshalAndPatchSignals(TabListSignals{Tabs: h.svc.Tabs().Tabs()})
}

func (h *Handlers) rememberTab(w http.ResponseWriter, r *http.Request, tabID string) {
	session, _ := h.sessionStore.Get(r, sessionName)
	session.Values[sessionTabKey] = tabID
	_ = session.Save(r, w)
}
