// Package chattest records outbound chat messages for tests.
package chattest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hperssn/pomobot/internal/chat"
)

type Sent struct {
	UserID  string
	Message chat.Message
}

type Recorder struct {
	mu       sync.Mutex
	sent     []Sent
	ch       chan Sent
	failing  atomic.Bool
	attempts atomic.Int64
}

func NewRecorder() *Recorder {
	return &Recorder{ch: make(chan Sent, 4096)}
}

// SetFailing makes every following Send fail with chat.ErrUndelivered.
func (r *Recorder) SetFailing(fail bool) {
	r.failing.Store(fail)
}

func (r *Recorder) Send(_ context.Context, userID string, msg chat.Message) error {
	r.attempts.Add(1)
	if r.failing.Load() {
		return chat.ErrUndelivered
	}

	s := Sent{UserID: userID, Message: msg}
	r.mu.Lock()
	r.sent = append(r.sent, s)
	r.mu.Unlock()

	r.ch <- s
	return nil
}

func (r *Recorder) Attempts() int64 {
	return r.attempts.Load()
}

// Next waits for the next delivered message.
func (r *Recorder) Next(timeout time.Duration) (Sent, bool) {
	select {
	case s := <-r.ch:
		return s, true
	case <-time.After(timeout):
		return Sent{}, false
	}
}

// Texts returns the text of every message delivered to userID so far.
func (r *Recorder) Texts(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var texts []string
	for _, s := range r.sent {
		if s.UserID == userID {
			texts = append(texts, s.Message.Text)
		}
	}
	return texts
}

func (r *Recorder) Last(userID string) (chat.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].UserID == userID {
			return r.sent[i].Message, true
		}
	}
	return chat.Message{}, false
}
