package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe("p1")
	require.NotNil(t, ch)

	n.mu.RLock()
	assert.Len(t, n.listeners, 1)
	n.mu.RUnlock()

	n.Unsubscribe(ch)

	n.mu.RLock()
	assert.Len(t, n.listeners, 0)
	n.mu.RUnlock()

	// Channel is closed after unsubscribe.
	_, open := <-ch
	assert.False(t, open)
}

func TestNotifier_Broadcast_ScopedToProject(t *testing.T) {
	n := New()

	chA := n.Subscribe("a")
	chB := n.Subscribe("b")
	defer n.Unsubscribe(chA)
	defer n.Unsubscribe(chB)

	n.Broadcast("a")

	select {
	case ev := <-chA:
		assert.Equal(t, SignalConfigChanged, ev.Signal)
		assert.Equal(t, "a", ev.ProjectID)
	case <-time.After(100 * time.Millisecond):
		t.Error("subscriber for project a did not receive broadcast")
	}

	select {
	case ev := <-chB:
		t.Errorf("subscriber for project b received foreign event: %+v", ev)
	default:
		// OK - scoped delivery
	}
}

func TestNotifier_Broadcast_NonBlocking(t *testing.T) {
	n := New()

	ch := n.Subscribe("p")
	defer n.Unsubscribe(ch)

	// Fill the channel buffer
	ch <- Event{Signal: SignalConfigChanged, ProjectID: "p"}

	done := make(chan bool)
	go func() {
		n.Broadcast("p")
		done <- true
	}()

	select {
	case <-done:
		// OK - broadcast completed
	case <-time.After(100 * time.Millisecond):
		t.Error("Broadcast blocked on full channel")
	}
}

func TestNotifier_Broadcast_NoSubscribers(t *testing.T) {
	n := New()
	// Must not panic or block.
	n.Broadcast("nobody")
}
