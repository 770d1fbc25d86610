// Package navigate maintains per-tab navigation state: a last-in-first-out
// stack of resolved view states, independent of any rendering layer. Each
// browsing context (tab) owns one stack; stacks are never persisted and are
// rebuilt from the entry frame on reload.
package navigate

import (
	"sync"

	"github.com/SaxonF/supawatch/internal/resolve"
	"github.com/SaxonF/supawatch/internal/sidebar"
)

// Stack is the navigation history of one browsing context. It always holds
// at least the entry frame. Stack is safe for concurrent use: a tab's
// handlers push and pop while specification writes reconcile the same stack.
type Stack struct {
	mu     sync.RWMutex
	frames []sidebar.ViewState
}

// NewStack creates a stack seeded with the context's entry item and empty
// params.
func NewStack(entryItemID string) *Stack {
	return &Stack{frames: []sidebar.ViewState{{ItemID: entryItemID, Params: map[string]string{}}}}
}

// Current returns the top frame.
func (s *Stack) Current() sidebar.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of frames including the entry.
func (s *Stack) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

// Frames returns a copy of the stack, entry first.
func (s *Stack) Frames() []sidebar.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sidebar.ViewState, len(s.frames))
	copy(out, s.frames)
	return out
}

// Push resolves a navigation target and pushes the new frame. The target
// item id (itself possibly templated) is resolved against the union of the
// current row, the current params, and the action's static param map, with
// the action map taking precedence over raw column names. The new frame's
// params carry the current params forward, overlaid with the resolved
// action params.
func (s *Stack) Push(targetItemID string, actionParams, row map[string]string) sidebar.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.frames[len(s.frames)-1]
	bindings := resolve.Union(resolve.RowBindings(row), current.Params)

	params := make(map[string]string, len(current.Params)+len(actionParams))
	for k, v := range current.Params {
		params[k] = v
	}
	for name, token := range actionParams {
		params[name] = resolve.Apply(token, bindings)
	}

	frame := sidebar.ViewState{
		ItemID: resolve.Apply(targetItemID, resolve.Union(bindings, params)),
		Params: params,
	}
	s.frames = append(s.frames, frame)
	return frame
}

// Pop removes the top frame and returns the newly exposed one. Popping with
// only the entry frame left is a no-op; the stack is terminal at entry.
func (s *Stack) Pop() sidebar.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
	return s.frames[len(s.frames)-1]
}

// Reconcile truncates the stack after a specification change. The stack is
// cut to the deepest frame whose item id still exists per the supplied
// predicate, falling back to the entry frame, which is always kept.
func (s *Stack) Reconcile(exists func(itemID string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := 1
	for i := 1; i < len(s.frames); i++ {
		if !exists(s.frames[i].ItemID) {
			break
		}
		keep = i + 1
	}
	s.frames = s.frames[:keep]
}
