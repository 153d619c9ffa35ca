package bot

import "sync"

// Mode is what the next plain text message from a user means.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCustomPomodoro
	ModeAddTask
	ModeCompleteTask
)

type conversations struct {
	mu    sync.Mutex
	modes map[string]Mode
}

func newConversations() *conversations {
	return &conversations{modes: make(map[string]Mode)}
}

func (c *conversations) set(userID string, m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m == ModeIdle {
		delete(c.modes, userID)
		return
	}
	c.modes[userID] = m
}

// take returns the user's mode and resets it to idle.
func (c *conversations) take(userID string) Mode {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.modes[userID]
	delete(c.modes, userID)
	return m
}
