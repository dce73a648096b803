package netguard

import (
	"sync"
	"time"
)

// ProviderStats is a snapshot of one upstream provider's recent behavior.
type ProviderStats struct {
	Provider     string        `json:"provider"`
	Calls        int64         `json:"calls"`
	Failures     int64         `json:"failures"`
	AvgLatency   time.Duration `json:"avg_latency_ns"`
	LastLatency  time.Duration `json:"last_latency_ns"`
	LastError    string        `json:"last_error,omitempty"`
	LastSuccess  time.Time     `json:"last_success,omitempty"`
	CircuitState string        `json:"circuit_state"`
}

type providerRecord struct {
	calls        int64
	failures     int64
	totalLatency time.Duration
	lastLatency  time.Duration
	lastError    string
	lastSuccess  time.Time
	breaker      *CircuitBreaker
}

// Monitor tracks call counts, failures, and latency per upstream provider and
// owns each provider's circuit breaker. One monitor is shared by every
// analysis run; all access is mutex-guarded.
type Monitor struct {
	mu        sync.Mutex
	providers map[string]*providerRecord

	maxFailures  int
	resetTimeout time.Duration
}

// NewMonitor creates a monitor whose per-provider breakers open after
// maxFailures consecutive failures.
func NewMonitor(maxFailures int, resetTimeout time.Duration) *Monitor {
	return &Monitor{
		providers:    make(map[string]*providerRecord),
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
	}
}

func (m *Monitor) get(provider string) *providerRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.providers[provider]
	if !ok {
		r = &providerRecord{breaker: NewCircuitBreaker(m.maxFailures, m.resetTimeout)}
		m.providers[provider] = r
	}
	return r
}

// Track runs fn through the provider's circuit breaker, recording latency and
// outcome.
func (m *Monitor) Track(provider string, fn func() error) error {
	r := m.get(provider)

	start := time.Now()
	err := r.breaker.Call(fn)
	elapsed := time.Since(start)

	m.mu.Lock()
	defer m.mu.Unlock()
	r.calls++
	r.lastLatency = elapsed
	r.totalLatency += elapsed
	if err != nil {
		r.failures++
		r.lastError = err.Error()
	} else {
		r.lastError = ""
		r.lastSuccess = time.Now()
	}
	return err
}

// Snapshot returns current stats for every provider seen so far.
func (m *Monitor) Snapshot() []ProviderStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ProviderStats, 0, len(m.providers))
	for name, r := range m.providers {
		s := ProviderStats{
			Provider:     name,
			Calls:        r.calls,
			Failures:     r.failures,
			LastLatency:  r.lastLatency,
			LastError:    r.lastError,
			LastSuccess:  r.lastSuccess,
			CircuitState: r.breaker.State().String(),
		}
		if r.calls > 0 {
			s.AvgLatency = r.totalLatency / time.Duration(r.calls)
		}
		out = append(out, s)
	}
	return out
}
