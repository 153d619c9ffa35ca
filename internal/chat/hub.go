package chat

import (
	"context"
	"fmt"
	"sync"
)

// Hub fans outbound messages out to every open subscription of a user.
// A user with no subscription, or whose subscribers are all full,
// gets ErrUndelivered.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
}

type Subscription struct {
	userID string
	ch     chan Message
	hub    *Hub
	once   sync.Once
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe(userID string) *Subscription {
	s := &Subscription{
		userID: userID,
		ch:     make(chan Message, h.buffer),
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][s] = struct{}{}
	return s
}

func (s *Subscription) Messages() <-chan Message {
	return s.ch
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.subs[s.userID], s)
		if len(h.subs[s.userID]) == 0 {
			delete(h.subs, s.userID)
		}
		close(s.ch)
	})
}

func (h *Hub) Send(ctx context.Context, userID string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[userID]
	if len(subs) == 0 {
		return fmt.Errorf("%w: no open conversation for %s", ErrUndelivered, userID)
	}

	delivered := 0
	for s := range subs {
		select {
		case s.ch <- msg:
			delivered++
		default:
		}
	}
	if delivered == 0 {
		return fmt.Errorf("%w: conversation buffer full for %s", ErrUndelivered, userID)
	}
	return nil
}
