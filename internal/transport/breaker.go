package transport

import (
	"sync"
	"time"
)

const (
	DefaultBreakerThreshold = 5
	DefaultBreakerCooldown  = 15 * time.Second
)

type breakerState uint8

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

var breakerStates = [...]string{
	stateClosed:   "closed",
	stateOpen:     "open",
	stateHalfOpen: "half-open",
}

// Breaker fails requests fast once threshold failures happen in a row. When
// the cooldown has passed a single trial request is let through; its outcome
// closes the breaker or restarts the cooldown. A nil *Breaker allows
// everything.
type Breaker struct {
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    breakerState
	failures int
	retryAt  time.Time
	trial    bool
}

// NewBreaker falls back to DefaultBreakerThreshold and DefaultBreakerCooldown
// for non-positive arguments.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = DefaultBreakerThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultBreakerCooldown
	}
	return &Breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

func (b *Breaker) Threshold() int          { return b.threshold }
func (b *Breaker) Cooldown() time.Duration { return b.cooldown }

// Allow returns ErrCircuitOpen when the request must not be sent. Every nil
// return must be followed by one Report.
func (b *Breaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return nil
	case stateOpen:
		if b.now().Before(b.retryAt) {
			return ErrCircuitOpen
		}
		b.state = stateHalfOpen
	}
	if b.trial {
		return ErrCircuitOpen
	}
	b.trial = true
	return nil
}

// Report records the outcome of an allowed request.
func (b *Breaker) Report(ok bool) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trial = false
	if ok {
		b.state, b.failures = stateClosed, 0
		return
	}
	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.threshold {
		b.state = stateOpen
		b.retryAt = b.now().Add(b.cooldown)
	}
}

func (b *Breaker) State() string {
	if b == nil {
		return breakerStates[stateClosed]
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return breakerStates[b.state]
}
