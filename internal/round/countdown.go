package round

import (
	"sync"
	"sync/atomic"
	"time"
)

// Countdown is the single repeating timer of a question. It calls onTick once
// per interval, ticks times, then waits for the grace delay and calls
// onExpire. Cancel stops it at any point.
//
// A callback may already be running when Cancel is called. Hosts that need a
// hard guarantee check Stopped under the same lock they hold while cancelling.
type Countdown struct {
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	stopped atomic.Bool
}

// StartCountdown launches the timer goroutine.
func StartCountdown(interval time.Duration, ticks int, grace time.Duration, onTick, onExpire func()) *Countdown {
	c := &Countdown{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go c.run(interval, ticks, grace, onTick, onExpire)
	return c
}

func (c *Countdown) run(interval time.Duration, ticks int, grace time.Duration, onTick, onExpire func()) {
	defer close(c.done)

	if ticks > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for remaining := ticks; remaining > 0; {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				remaining--
				if c.stopped.Load() {
					return
				}
				onTick()
			}
		}
		ticker.Stop()
	}

	graceTimer := time.NewTimer(grace)
	defer graceTimer.Stop()
	select {
	case <-c.stop:
		return
	case <-graceTimer.C:
	}
	if c.stopped.Load() {
		return
	}
	c.stopped.Store(true)
	onExpire()
}

// Cancel stops the countdown. It is safe to call more than once and from
// inside a callback.
func (c *Countdown) Cancel() {
	c.once.Do(func() {
		c.stopped.Store(true)
		close(c.stop)
	})
}

// Stopped reports whether the countdown was cancelled or has expired.
func (c *Countdown) Stopped() bool { return c.stopped.Load() }

// Done is closed once the timer goroutine has exited.
func (c *Countdown) Done() <-chan struct{} { return c.done }
