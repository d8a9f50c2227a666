package rtos

import (
	"context"
	"sync/atomic"
	"time"
)

// Ticks counts scheduler ticks. All task delays are expressed in ticks.
type Ticks uint32

// DefaultTick is the tick period of the reference board.
const DefaultTick = time.Millisecond

// Clock converts ticks to wall time and counts delays served.
type Clock struct {
	tick    time.Duration
	start   time.Time
	delayed atomic.Uint64
}

// NewClock returns a Clock with the given tick period. A non-positive tick
// falls back to DefaultTick.
func NewClock(tick time.Duration) *Clock {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Clock{tick: tick, start: time.Now()}
}

// Tick returns the duration of one tick.
func (c *Clock) Tick() time.Duration {
	return c.tick
}

// Duration converts n ticks to wall time.
func (c *Clock) Duration(n Ticks) time.Duration {
	return time.Duration(n) * c.tick
}

// Now returns the number of whole ticks since the clock was created.
func (c *Clock) Now() Ticks {
	return Ticks(time.Since(c.start) / c.tick)
}

// Delay blocks the calling task for n ticks. It returns ctx.Err() if the
// context is cancelled first. A zero delay yields without sleeping.
func (c *Clock) Delay(ctx context.Context, n Ticks) error {
	c.delayed.Add(1)
	if n == 0 {
		return ctx.Err()
	}

	t := time.NewTimer(c.Duration(n))
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Delays returns how many times Delay has been called.
func (c *Clock) Delays() uint64 {
	return c.delayed.Load()
}
