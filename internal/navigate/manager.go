package navigate

import (
	"sort"
	"sync"

	"github.com/SaxonF/supawatch/internal/sidebar"
	"github.com/google/uuid"
)

// Tab is a snapshot of one browsing context: its id, entry item, and the
// item currently on top of its stack.
type Tab struct {
	ID      string
	Entry   string
	Current sidebar.ViewState
	Depth   int
}

// Manager owns the navigation stacks of all live browsing contexts in the
// process. Tabs are created on first use and discarded on close; nothing is
// persisted.
type Manager struct {
	mu     sync.Mutex
	stacks map[string]*Stack
	entry  map[string]string
}

// NewManager creates an empty tab manager.
func NewManager() *Manager {
	return &Manager{
		stacks: make(map[string]*Stack),
		entry:  make(map[string]string),
	}
}

// Open creates a new tab rooted at entryItemID and returns its id.
func (m *Manager) Open(entryItemID string) string {
	id := uuid.New().String()
	m.mu.Lock()
	m.stacks[id] = NewStack(entryItemID)
	m.entry[id] = entryItemID
	m.mu.Unlock()
	return id
}

// Ensure returns the stack for tabID, creating it rooted at entryItemID if
// the tab is not yet known.
func (m *Manager) Ensure(tabID, entryItemID string) *Stack {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stacks[tabID]; ok {
		return s
	}
	s := NewStack(entryItemID)
	m.stacks[tabID] = s
	m.entry[tabID] = entryItemID
	return s
}

// Get returns the stack for tabID, or nil.
func (m *Manager) Get(tabID string) *Stack {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stacks[tabID]
}

// Close discards a tab and its stack.
func (m *Manager) Close(tabID string) {
	m.mu.Lock()
	delete(m.stacks, tabID)
	delete(m.entry, tabID)
	m.mu.Unlock()
}

// Tabs returns a stable snapshot of all open tabs, ordered by id. This
// feeds state-derived sidebar groups.
func (m *Manager) Tabs() []Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Tab, 0, len(m.stacks))
	for id, s := range m.stacks {
		out = append(out, Tab{
			ID:      id,
			Entry:   m.entry[id],
			Current: s.Current(),
			Depth:   s.Depth(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ReconcileAll truncates every tab's stack against a changed specification.
func (m *Manager) ReconcileAll(exists func(itemID string) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stacks {
		s.Reconcile(exists)
	}
}
