package telegram

import "sync"

// DialogMode is the user's pending sub-dialog. Sessions are keyed by the
// sender's user id, not the chat id, so one user's pending prompt can never
// capture another user's next message.
type DialogMode int

const (
	ModeNone DialogMode = iota
	ModeAwaitingPrompt
	ModeAwaitingTopic
)

type StateManager struct {
	mu       sync.RWMutex
	sessions map[int64]DialogMode
}

func NewStateManager() *StateManager {
	return &StateManager{
		sessions: make(map[int64]DialogMode),
	}
}

func (m *StateManager) Get(userID int64) DialogMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

func (m *StateManager) Set(userID int64, mode DialogMode) {
	m.mu.Lock()
	m.sessions[userID] = mode
	m.mu.Unlock()
}

func (m *StateManager) Reset(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}
