package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateManagerIsolatesUsers(t *testing.T) {
	m := NewStateManager()

	assert.Equal(t, ModeNone, m.Get(100))

	m.Set(100, ModeAwaitingPrompt)
	m.Set(200, ModeAwaitingTopic)

	// One user's pending dialog never leaks into another's.
	assert.Equal(t, ModeAwaitingPrompt, m.Get(100))
	assert.Equal(t, ModeAwaitingTopic, m.Get(200))
	assert.Equal(t, ModeNone, m.Get(300))

	m.Reset(100)
	assert.Equal(t, ModeNone, m.Get(100))
	assert.Equal(t, ModeAwaitingTopic, m.Get(200))
}
