// Package clocktest provides clocks for driving the timer engine in tests.
package clocktest

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hperssn/pomobot/internal/runner"
)

// Manual delivers a tick only when Tick is called. All tickers it creates
// share one unbuffered channel, so Tick returns once some loop has
// actually woken up.
type Manual struct {
	mu  sync.Mutex
	now time.Time
	ch  chan time.Time
}

func NewManual(now time.Time) *Manual {
	return &Manual{now: now, ch: make(chan time.Time)}
}

func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Manual) NewTicker(time.Duration) runner.Ticker {
	return manualTicker{ch: c.ch}
}

// Tick advances the clock by d and wakes one waiting loop. It reports
// false if nothing received the tick within timeout.
func (c *Manual) Tick(d, timeout time.Duration) bool {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()

	select {
	case c.ch <- now:
		return true
	case <-time.After(timeout):
		return false
	}
}

type manualTicker struct {
	ch chan time.Time
}

func (t manualTicker) C() <-chan time.Time { return t.ch }
func (t manualTicker) Stop()               {}

// Instant fires ticks as fast as they are consumed and counts them.
type Instant struct {
	ticks atomic.Int64
}

func NewInstant() *Instant {
	return &Instant{}
}

func (c *Instant) Now() time.Time {
	return time.Now()
}

// Ticks is the number of ticks delivered so far. It is exact for every
// ticker that has been stopped.
func (c *Instant) Ticks() int64 {
	return c.ticks.Load()
}

func (c *Instant) NewTicker(time.Duration) runner.Ticker {
	t := &instantTicker{
		ch:     make(chan time.Time),
		stop:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go func() {
		defer close(t.exited)
		for {
			select {
			case t.ch <- time.Now():
				c.ticks.Add(1)
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

type instantTicker struct {
	ch     chan time.Time
	stop   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func (t *instantTicker) C() <-chan time.Time { return t.ch }

func (t *instantTicker) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.exited
}
