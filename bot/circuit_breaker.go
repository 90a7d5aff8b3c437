package bot

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitBreakerOpened is returned by Telegram client while Bot API
// is considered unavailable.
var ErrCircuitBreakerOpened = errors.New("telegram api is unavailable, circuit breaker is opened")

type breakerState uint8

const (
	breakerClosed breakerState = iota
	breakerOpened
	breakerProbing
)

// circuitBreaker counts failed calls to Bot API. When more than
// threshold failures happen within failuresWindow, calls are rejected
// for cooldown. After that a single call is let through and its
// outcome decides whether breaker closes or stays open.
//
// State is changed lazily on calls, there are no timers.
type circuitBreaker struct {
	mu sync.Mutex

	state       breakerState
	failures    uint32
	windowStart time.Time
	openedAt    time.Time

	threshold      uint32
	cooldown       time.Duration
	failuresWindow time.Duration

	now func() time.Time
}

// acquire has to be followed by exactly one call of done.
func (c *circuitBreaker) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case breakerClosed:
		if c.now().Sub(c.windowStart) > c.failuresWindow {
			c.failures = 0
			c.windowStart = c.now()
		}

		return nil
	case breakerOpened:
		if c.now().Sub(c.openedAt) < c.cooldown {
			return ErrCircuitBreakerOpened
		}

		c.state = breakerProbing

		return nil
	}

	return ErrCircuitBreakerOpened
}

// done reports an outcome of the call. Calls which were interrupted by
// the caller are neither success nor failure: pass counted=false.
func (c *circuitBreaker) done(failed, counted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state == breakerProbing && !counted:
		c.state = breakerOpened
	case c.state == breakerProbing && failed:
		c.state = breakerOpened
		c.openedAt = c.now()
	case c.state == breakerProbing:
		c.close()
	case !counted:
	case failed:
		c.failures++

		if c.state == breakerClosed && c.failures > c.threshold {
			c.state = breakerOpened
			c.openedAt = c.now()
		}
	case c.state == breakerClosed:
		c.close()
	}
}

func (c *circuitBreaker) close() {
	c.state = breakerClosed
	c.failures = 0
	c.windowStart = c.now()
}

func newCircuitBreaker(threshold uint32, cooldown, failuresWindow time.Duration) *circuitBreaker {
	rv := &circuitBreaker{
		threshold:      threshold,
		cooldown:       cooldown,
		failuresWindow: failuresWindow,
		now:            time.Now,
	}

	rv.close()

	return rv
}
