package keypool

import (
	"sync/atomic"
)

// Pool rotates over a fixed set of upstream API credentials. This is the only
// process-wide mutable state shared across analysis runs, so the cursor is a
// single atomic counter: concurrent runs advance the rotation without skew
// beyond the intended round-robin.
type Pool struct {
	keys []string
	next atomic.Uint64
}

// New builds a pool over the given keys. Empty keys are dropped.
func New(keys []string) *Pool {
	p := &Pool{}
	for _, k := range keys {
		if k != "" {
			p.keys = append(p.keys, k)
		}
	}
	return p
}

// Next returns the next key in rotation, or "" when the pool is empty.
func (p *Pool) Next() string {
	if len(p.keys) == 0 {
		return ""
	}
	n := p.next.Add(1) - 1
	return p.keys[n%uint64(len(p.keys))]
}

// Size returns how many keys are in rotation.
func (p *Pool) Size() int {
	return len(p.keys)
}
