package geolib

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

type circuitBreakerCallback func(context.Context) (*http.Response, error)

const (
	circuitBreakerStateClosed uint32 = iota
	circuitBreakerStateHalfOpened
	circuitBreakerStateOpened
)

type circuitBreaker struct {
	mutex sync.Mutex
	state uint32

	halfOpenTimer        *time.Timer
	failuresCleanupTimer *time.Timer

	halfOpenAttempts uint32
	failuresCount    uint32

	openThreshold        uint32
	halfOpenTimeout      time.Duration
	resetFailuresTimeout time.Duration
}

func (c *circuitBreaker) Do(ctx context.Context, callback circuitBreakerCallback) (*http.Response, error) {
	c.mutex.Lock()

	state := c.state

	switch state {
	case circuitBreakerStateOpened:
		c.mutex.Unlock()

		return nil, ErrCircuitBreakerOpened
	case circuitBreakerStateHalfOpened:
		if c.halfOpenAttempts > 0 {
			c.mutex.Unlock()

			return nil, ErrCircuitBreakerOpened
		}

		c.halfOpenAttempts++
	}

	c.mutex.Unlock()

	resp, err := callback(ctx)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// state could be changed by another goroutine or timer in between.
	if c.state != state {
		return resp, err
	}

	if errors.Is(err, ErrCircuitBreakerIgnore) {
		if state == circuitBreakerStateHalfOpened {
			c.halfOpenAttempts = 0
		}

		return resp, err
	}

	switch {
	case state == circuitBreakerStateHalfOpened && err != nil:
		c.switchState(circuitBreakerStateOpened)
	case err == nil:
		c.switchState(circuitBreakerStateClosed)
	default:
		c.failuresCount++

		if c.failuresCount > c.openThreshold {
			c.switchState(circuitBreakerStateOpened)
		}
	}

	return resp, err
}

func (c *circuitBreaker) State() uint32 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.state
}

// switchState has to be called under a mutex.
func (c *circuitBreaker) switchState(state uint32) {
	switch state {
	case circuitBreakerStateClosed:
		c.stopTimer(&c.halfOpenTimer)
		c.ensureTimer(&c.failuresCleanupTimer, c.resetFailuresTimeout, c.resetFailures)
	case circuitBreakerStateHalfOpened:
		c.stopTimer(&c.failuresCleanupTimer)
		c.stopTimer(&c.halfOpenTimer)
	case circuitBreakerStateOpened:
		c.stopTimer(&c.failuresCleanupTimer)
		c.ensureTimer(&c.halfOpenTimer, c.halfOpenTimeout, c.tryHalfOpen)
	}

	c.failuresCount = 0
	c.halfOpenAttempts = 0
	c.state = state
}

func (c *circuitBreaker) resetFailures() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stopTimer(&c.failuresCleanupTimer)

	if c.state == circuitBreakerStateClosed {
		c.switchState(circuitBreakerStateClosed)
	}
}

func (c *circuitBreaker) tryHalfOpen() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state == circuitBreakerStateOpened {
		c.switchState(circuitBreakerStateHalfOpened)
	}
}

func (c *circuitBreaker) stopTimer(timerRef **time.Timer) {
	if *timerRef == nil {
		return
	}

	(*timerRef).Stop()
	*timerRef = nil
}

func (c *circuitBreaker) ensureTimer(timerRef **time.Timer, timeout time.Duration, callback func()) {
	if *timerRef == nil {
		*timerRef = time.AfterFunc(timeout, callback)
	}
}

func (c *circuitBreaker) stop() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stopTimer(&c.failuresCleanupTimer)
	c.stopTimer(&c.halfOpenTimer)
}

func newCircuitBreaker(openThreshold uint32,
	halfOpenTimeout, resetFailuresTimeout time.Duration) *circuitBreaker {
	cb := &circuitBreaker{
		openThreshold:        openThreshold,
		halfOpenTimeout:      halfOpenTimeout,
		resetFailuresTimeout: resetFailuresTimeout,
	}

	cb.switchState(circuitBreakerStateClosed)

	return cb
}
