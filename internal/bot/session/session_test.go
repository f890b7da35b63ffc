package session

import (
	"testing"

	"github.com/silkyway/catalog/internal/bot/client"
	"github.com/stretchr/testify/assert"
)

func Test_Manager_Pending(t *testing.T) {
	// given
	m := NewManager()

	// when / then
	_, ok := m.TakePending(1)
	assert.False(t, ok, "fresh chat should have no pending state")

	m.SetPending(1, AwaitGetID)
	kind, ok := m.TakePending(1)
	assert.True(t, ok)
	assert.Equal(t, AwaitGetID, kind)

	_, ok = m.TakePending(1)
	assert.False(t, ok, "take should consume the pending state")
}

func Test_Manager_Pending_ReplacedByNewPrompt(t *testing.T) {
	// given
	m := NewManager()
	m.SetPending(1, AwaitGetID)
	// when
	m.SetPending(1, AwaitSearch)
	// then
	kind, ok := m.TakePending(1)
	assert.True(t, ok)
	assert.Equal(t, AwaitSearch, kind, "later prompt should replace the earlier one")
}

func Test_Manager_ClearPending(t *testing.T) {
	// given
	m := NewManager()
	m.SetPending(1, AwaitAdd)
	// when
	m.ClearPending(1)
	// then
	_, ok := m.TakePending(1)
	assert.False(t, ok)
}

func Test_Manager_Authorize_PerChat(t *testing.T) {
	// given
	m := NewManager()
	// when
	m.Authorize(1)
	// then
	assert.True(t, m.IsAuthorized(1))
	assert.False(t, m.IsAuthorized(2), "authorization should not leak across chats")
}

func Test_Manager_Recent_CapAndOrder(t *testing.T) {
	// given
	m := NewManager()
	for i := int64(1); i <= 7; i++ {
		m.PushRecent(1, client.Product{ID: i})
	}
	// when
	history := m.Recent(1)
	// then
	ids := make([]int64, 0, len(history))
	for _, p := range history {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{7, 6, 5, 4, 3}, ids, "most recent first, capped at five")
}

func Test_Manager_Recent_DuplicatesAllowed(t *testing.T) {
	// given
	m := NewManager()
	m.PushRecent(1, client.Product{ID: 1})
	m.PushRecent(1, client.Product{ID: 1})
	// when
	history := m.Recent(1)
	// then
	assert.Len(t, history, 2, "viewing the same product twice yields two entries")
}

func Test_Manager_Recent_IsolatedPerChat(t *testing.T) {
	// given
	m := NewManager()
	m.PushRecent(1, client.Product{ID: 1})
	// when / then
	assert.Empty(t, m.Recent(2))
}
