package netguard

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrCircuitOpen is returned when a provider's breaker is refusing calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the state of a provider's circuit breaker.
type CircuitState int32

const (
	// CircuitClosed allows requests through.
	CircuitClosed CircuitState = iota
	// CircuitOpen refuses requests until the reset timeout passes.
	CircuitOpen
	// CircuitHalfOpen lets a single probe request through.
	CircuitHalfOpen
)

// String returns the string representation of the state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker guards one upstream provider. Each provider gets its own
// breaker so one failing upstream never blocks the others.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration

	state int32 // atomic CircuitState

	mu           sync.Mutex
	failures     int
	lastFailTime time.Time
	probing      bool
}

// NewCircuitBreaker creates a breaker that opens after maxFailures
// consecutive failures and probes again after resetTimeout.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        int32(CircuitClosed),
	}
}

// Call runs fn if the circuit allows it and records the outcome.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	switch CircuitState(atomic.LoadInt32(&cb.state)) {
	case CircuitClosed:
		return true
	case CircuitOpen:
		cb.mu.Lock()
		defer cb.mu.Unlock()
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			atomic.StoreInt32(&cb.state, int32(CircuitHalfOpen))
			cb.probing = true
			return true
		}
		return false
	case CircuitHalfOpen:
		cb.mu.Lock()
		defer cb.mu.Unlock()
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := CircuitState(atomic.LoadInt32(&cb.state))
	if err != nil {
		cb.failures++
		cb.lastFailTime = time.Now()
		// A single failed probe re-opens; repeated failures trip a closed
		// circuit.
		if state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
			atomic.StoreInt32(&cb.state, int32(CircuitOpen))
		}
		cb.probing = false
		return
	}

	cb.failures = 0
	cb.probing = false
	atomic.StoreInt32(&cb.state, int32(CircuitClosed))
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	return CircuitState(atomic.LoadInt32(&cb.state))
}

// Reset forces the breaker back to closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.probing = false
	cb.lastFailTime = time.Time{}
	atomic.StoreInt32(&cb.state, int32(CircuitClosed))
}
