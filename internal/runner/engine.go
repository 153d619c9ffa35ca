package runner

import (
	"context"
	"log"
	"time"

	"github.com/hperssn/pomobot/internal/chat"
	"github.com/hperssn/pomobot/internal/domain"
)

// StepSec is how far one tick counts a phase down.
const StepSec = 60

const sendTimeout = 10 * time.Second

// Engine drives the focus/rest state machine of a session. Interval is the
// wall time between ticks; each tick counts down StepSec seconds.
type Engine struct {
	clock    Clock
	interval time.Duration
	sink     chat.Sink
}

func NewEngine(clock Clock, interval time.Duration, sink chat.Sink) *Engine {
	if clock == nil {
		clock = RealClock()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Engine{
		clock:    clock,
		interval: interval,
		sink:     sink,
	}
}

// Start runs h in its own goroutine. The loop does not begin before after
// is closed, so a superseded session finishes notifying first. onExit is
// called with the outcome before h.Done is closed.
func (e *Engine) Start(h *Handle, after <-chan struct{}, onExit func(*Handle, domain.Phase)) {
	go func() {
		defer close(h.done)

		if after != nil {
			<-after
		}

		outcome := e.Run(h)
		if onExit != nil {
			onExit(h, outcome)
		}
	}()
}

// Run blocks until the session completes or is cancelled and returns
// PhaseCompleted or PhaseCancelled.
func (e *Engine) Run(h *Handle) domain.Phase {
	ctx := h.ctx

	ticker := e.clock.NewTicker(e.interval)
	defer ticker.Stop()

	for _, phase := range []domain.Phase{domain.PhaseFocus, domain.PhaseRest} {
		if ctx.Err() != nil {
			return e.stopped(h)
		}

		remaining := h.enter(phase)
		e.notify(h, phaseStartMessage(phase))
		e.notify(h, chat.Text(RemainingText(phase, minutes(remaining))))

		for h.remaining() > 0 {
			select {
			case <-ctx.Done():
				return e.stopped(h)
			case <-ticker.C():
			}
			// A tick and a cancel can be ready together.
			if ctx.Err() != nil {
				return e.stopped(h)
			}

			left := h.step(StepSec)
			e.notify(h, chat.Text(RemainingText(phase, left)))
		}
	}

	h.finish(domain.PhaseCompleted)
	e.notify(h, chat.Text(MsgCompleted))
	return domain.PhaseCompleted
}

func (e *Engine) stopped(h *Handle) domain.Phase {
	h.finish(domain.PhaseCancelled)
	e.notify(h, chat.Text(MsgStopped))
	return domain.PhaseCancelled
}

// notify never aborts the loop. It also outlives cancellation so the
// final stop message still goes out.
func (e *Engine) notify(h *Handle, msg chat.Message) {
	if e.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), sendTimeout)
	defer cancel()

	if err := e.sink.Send(ctx, h.UserID(), msg); err != nil {
		log.Printf("session %s: notify %s: %v", h.session.ID, h.UserID(), err)
	}
}

func minutes(sec int) int {
	if sec <= 0 {
		return 0
	}
	return sec / 60
}
