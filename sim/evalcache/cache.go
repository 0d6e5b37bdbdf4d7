// Package evalcache memoizes objective vectors. Evaluations are deterministic
// for a given scenario, policy, quantum and seed, so a hit can stand in for a run.
package evalcache

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// Key identifies one deterministic evaluation.
type Key struct {
	Scenario uint64 // scenario fingerprint
	Policy   string
	Quantum  float64
	Seed     int64
}

// String renders the key with the quantum's exact bit pattern, so keys never
// collide through decimal formatting.
func (k Key) String() string {
	return fmt.Sprintf("gq:eval:%016x:%s:%016x:%d", k.Scenario, k.Policy, math.Float64bits(k.Quantum), k.Seed)
}

// Cache stores objective vectors. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached vector and true on a hit.
	Get(ctx context.Context, key Key) ([]float64, bool, error)
	Put(ctx context.Context, key Key, objectives []float64) error
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int
	Misses int
}

// Memory is an in-process Cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[Key][]float64
	stats   Stats
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[Key][]float64)}
}

func (m *Memory) Get(_ context.Context, key Key) ([]float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		m.stats.Misses++
		return nil, false, nil
	}
	m.stats.Hits++
	return append([]float64(nil), v...), true, nil
}

func (m *Memory) Put(_ context.Context, key Key, objectives []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]float64(nil), objectives...)
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats returns a snapshot of the lookup counters.
func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}
