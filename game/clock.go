package game

import (
	"context"
	"time"
)

// maxCatchUp bounds how many ticks Advance releases after a stall, so a
// long frame cannot trigger an unbounded burst of steps.
const maxCatchUp = 4

// Clock is the fixed-timestep driver shared by all simulations. It can be
// pumped by a render loop through Advance, or run as its own task with Run.
type Clock struct {
	step        time.Duration
	accumulator time.Duration
	tick        int64
}

// NewClock creates a clock ticking tickRate times per second.
func NewClock(tickRate int) *Clock {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Clock{step: time.Second / time.Duration(tickRate)}
}

// Step returns the duration of one tick.
func (c *Clock) Step() time.Duration { return c.step }

// Tick returns the number of ticks released so far.
func (c *Clock) Tick() int64 { return c.tick }

// Advance adds elapsed wall time and returns how many ticks are due.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	c.accumulator += elapsed
	n := int(c.accumulator / c.step)
	if n > maxCatchUp {
		n = maxCatchUp
		c.accumulator = 0
	} else {
		c.accumulator -= time.Duration(n) * c.step
	}
	c.tick += int64(n)
	return n
}

// Run invokes step once per tick deadline until ctx is cancelled or step
// returns false. Steps never overlap: a slow step delays the next deadline
// instead of queueing ticks. Cancellation is not an error.
func (c *Clock) Run(ctx context.Context, step func(tick int64) bool) error {
	ticker := time.NewTicker(c.step)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.tick++
			if !step(c.tick) {
				return nil
			}
		}
	}
}
