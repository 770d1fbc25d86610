// Package notify provides the project-scoped "configuration changed"
// broadcast. Every successful specification write publishes a signal
// carrying the project id; live consumers subscribed to that project
// re-fetch and re-resolve. Delivery is fire-and-forget: no acknowledgement,
// no guarantee beyond process-local ordering.
package notify

import "sync"

// SignalConfigChanged names the signal emitted after a specification write.
const SignalConfigChanged = "admin_config_changed"

// Event is one change signal.
type Event struct {
	Signal    string `json:"signal"`
	ProjectID string `json:"projectId"`
}

// Notifier fans change events out to subscribers keyed by project id.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]string
}

// New creates an empty notifier.
func New() *Notifier {
	return &Notifier{listeners: make(map[chan Event]string)}
}

// Subscribe registers a listener for one project's change events. The
// returned channel is buffered; the caller must Unsubscribe when its owning
// context is disposed, or the listener leaks.
func (n *Notifier) Subscribe(projectID string) chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = projectID
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	_, ok := n.listeners[ch]
	delete(n.listeners, ch)
	n.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Broadcast publishes a change event for projectID to every matching
// subscriber. Non-blocking: a listener with a full buffer misses the ping
// and catches up on the next one.
func (n *Notifier) Broadcast(projectID string) {
	event := Event{Signal: SignalConfigChanged, ProjectID: projectID}
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch, scope := range n.listeners {
		if scope != projectID {
			continue
		}
		select {
		case ch <- event:
		default:
		}
	}
}
