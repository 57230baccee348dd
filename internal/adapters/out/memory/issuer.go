// Package memory provides an in-process SequenceIssuer for tests and
// single-node setups without a counters table.
package memory

import (
	"context"
	"sync"
)

// SequenceIssuer issues values from named in-memory counters. Safe for
// concurrent use; values start at 1 per name and never repeat within a
// process lifetime.
type SequenceIssuer struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewSequenceIssuer creates an issuer with all counters at zero.
func NewSequenceIssuer() *SequenceIssuer {
	return &SequenceIssuer{
		counters: make(map[string]int64),
	}
}

// Next atomically increments the named counter and returns its new value.
func (i *SequenceIssuer) Next(_ context.Context, name string) (int64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.counters[name]++
	return i.counters[name], nil
}
