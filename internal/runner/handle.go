package runner

import (
	"context"
	"sync"

	"github.com/hperssn/pomobot/internal/domain"
)

// Handle is a live session together with its cancellation control. Only
// the engine loop mutates the session; everyone else reads snapshots.
type Handle struct {
	mu sync.Mutex

	session *domain.Session
	ctx     context.Context
	cancel  context.CancelFunc

	done    chan struct{}
	outcome domain.Phase
}

func NewHandle(s *domain.Session) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handle{
		session: s,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Session returns a copy of the current session state.
func (h *Handle) Session() *domain.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	copy := *h.session
	return &copy
}

func (h *Handle) UserID() string {
	return h.session.UserID
}

// Cancel requests the loop to stop at its next suspension point. It is
// safe to call more than once.
func (h *Handle) Cancel() {
	h.cancel()
}

func (h *Handle) Cancelled() bool {
	return h.ctx.Err() != nil
}

// Done is closed after the loop has exited and its completion callback
// has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the loop has exited or ctx expires.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outcome is PhaseCompleted or PhaseCancelled once Done is closed.
func (h *Handle) Outcome() domain.Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outcome
}

func (h *Handle) enter(p domain.Phase) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.Phase = p
	h.session.RemainingSec = h.session.PhaseLength(p)
	return h.session.RemainingSec
}

func (h *Handle) remaining() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.RemainingSec
}

// step counts the current phase down by sec, never below zero, and
// returns the whole minutes left.
func (h *Handle) step(sec int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.RemainingSec -= sec
	if h.session.RemainingSec < 0 {
		h.session.RemainingSec = 0
	}
	return h.session.RemainingMinutes()
}

func (h *Handle) finish(outcome domain.Phase) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outcome = outcome
	h.session.Phase = outcome
}
