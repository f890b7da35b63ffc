// Package session holds per-chat conversational state for the front-end.
// All state is process-local and volatile: it starts empty and is discarded
// on process exit.
package session

import (
	"sync"

	"github.com/silkyway/catalog/internal/bot/client"
)

// Await identifies what kind of free-text input a chat is expected to send next.
type Await int

const (
	AwaitNone Await = iota
	AwaitLogin
	AwaitGetID
	AwaitAdd
	AwaitUpdate
	AwaitDelete
	AwaitSearch
)

// recentLimit caps the recently-viewed list per chat.
const recentLimit = 5

// Manager guards all per-chat state behind one mutex: the pending await slot
// (at most one per chat), the admin-authorized set and the recently-viewed
// products. Message delivery may be concurrent across chats, so every access
// goes through the lock.
type Manager struct {
	mu         sync.Mutex
	pending    map[int64]Await
	authorized map[int64]struct{}
	recent     map[int64][]client.Product
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		pending:    make(map[int64]Await),
		authorized: make(map[int64]struct{}),
		recent:     make(map[int64][]client.Product),
	}
}

// SetPending records what input the chat should send next, replacing any
// previous pending state.
func (m *Manager) SetPending(chatID int64, kind Await) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[chatID] = kind
}

// TakePending returns the chat's pending await state and clears it.
// The pending slot is consumed whether the subsequent handling succeeds or
// not; the user must reissue the command to retry.
func (m *Manager) TakePending(chatID int64) (Await, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kind, ok := m.pending[chatID]
	if ok {
		delete(m.pending, chatID)
	}
	return kind, ok
}

// ClearPending drops any pending await state for the chat.
func (m *Manager) ClearPending(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, chatID)
}

// Authorize marks the chat as admin-authorized for the process lifetime.
func (m *Manager) Authorize(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authorized[chatID] = struct{}{}
}

// IsAuthorized reports whether the chat has presented the admin secret.
func (m *Manager) IsAuthorized(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.authorized[chatID]
	return ok
}

// PushRecent prepends a viewed product to the chat's history. The list is
// most-recent-first, capped at five entries; duplicates are allowed.
func (m *Manager) PushRecent(chatID int64, product client.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := append([]client.Product{product}, m.recent[chatID]...)
	if len(history) > recentLimit {
		history = history[:recentLimit]
	}
	m.recent[chatID] = history
}

// Recent returns a copy of the chat's recently-viewed list, most recent first.
func (m *Manager) Recent(chatID int64) []client.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.recent[chatID]
	out := make([]client.Product, len(history))
	copy(out, history)
	return out
}
