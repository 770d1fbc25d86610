package navigate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_OpenAndGet(t *testing.T) {
	m := NewManager()

	id := m.Open("tables")
	require.NotEmpty(t, id)

	s := m.Get(id)
	require.NotNil(t, s)
	assert.Equal(t, "tables", s.Current().ItemID)

	assert.Nil(t, m.Get("nope"))
}

func TestManager_Ensure(t *testing.T) {
	m := NewManager()

	s1 := m.Ensure("tab-1", "users")
	s1.Push("detail", nil, nil)

	// Ensure with the same id returns the existing stack untouched.
	s2 := m.Ensure("tab-1", "something-else")
	assert.Equal(t, 2, s2.Depth())
	assert.Equal(t, "detail", s2.Current().ItemID)
}

func TestManager_Close(t *testing.T) {
	m := NewManager()
	id := m.Open("tables")

	m.Close(id)
	assert.Nil(t, m.Get(id))
	assert.Empty(t, m.Tabs())
}

func TestManager_Tabs_SortedSnapshot(t *testing.T) {
	m := NewManager()
	m.Ensure("b", "two")
	m.Ensure("a", "one")
	m.Get("a").Push("one-detail", nil, nil)

	tabs := m.Tabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, "a", tabs[0].ID)
	assert.Equal(t, "one", tabs[0].Entry)
	assert.Equal(t, "one-detail", tabs[0].Current.ItemID)
	assert.Equal(t, 2, tabs[0].Depth)
	assert.Equal(t, "b", tabs[1].ID)
}

func TestManager_ReconcileAll(t *testing.T) {
	m := NewManager()
	m.Ensure("t1", "entry")
	m.Get("t1").Push("gone", nil, nil)
	m.Ensure("t2", "entry")
	m.Get("t2").Push("kept", nil, nil)

	m.ReconcileAll(func(id string) bool { return id != "gone" })

	assert.Equal(t, 1, m.Get("t1").Depth())
	assert.Equal(t, 2, m.Get("t2").Depth())
}

// Navigation handlers mutate a tab's stack while specification writes
// reconcile every stack; both must be safe to interleave.
func TestManager_ConcurrentNavigationAndReconcile(t *testing.T) {
	m := NewManager()
	s := m.Ensure("t1", "tables")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			s.Push("detail", map[string]string{"id": ":row.id"}, map[string]string{"id": "42"})
			s.Pop()
			s.Current()
		}
	}()

	for i := 0; i < 500; i++ {
		m.ReconcileAll(func(id string) bool { return id == "tables" })
		m.Tabs()
	}
	<-done

	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, "tables", s.Current().ItemID)
}
