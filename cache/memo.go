package cache

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultShardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	DefaultShardCount = 16

	shardMask = DefaultShardCount - 1
)

// ErrPanicked wraps the value recovered from a computation that panicked.
var ErrPanicked = errors.New("cache: computation panicked")

// StringHasher computes the FNV-1a hash of a key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// Result is a memoized outcome: the computed value or the error the
// computation returned.
type Result[V any] struct {
	Value V
	Err   error
}

// Memo is a sharded, append-only, resolve-once store keyed by string.
//
// Features:
//   - 16 shards for reduced lock contention on hits
//   - Concurrent misses on the same key share one computation
//   - Outcomes, errors included, are never evicted or recomputed
//   - Atomic statistics for monitoring
//
// Memo is safe for concurrent use and must not be copied after creation.
type Memo[V any] struct {
	shards [DefaultShardCount]*memoShard[V]
	group  singleflight.Group

	hits         atomic.Uint64
	misses       atomic.Uint64
	computations atomic.Uint64
}

type memoShard[V any] struct {
	mu      sync.RWMutex
	entries map[string]Result[V]
}

// NewMemo creates an empty memo.
func NewMemo[V any]() *Memo[V] {
	m := &Memo[V]{}
	for i := range m.shards {
		m.shards[i] = &memoShard[V]{entries: make(map[string]Result[V])}
	}
	return m
}

func (m *Memo[V]) shard(key string) *memoShard[V] {
	return m.shards[StringHasher(key)&shardMask]
}

// Load returns the memoized outcome for key, if any.
// Load does not count towards hit or miss statistics.
func (m *Memo[V]) Load(key string) (Result[V], bool) {
	s := m.shard(key)
	s.mu.RLock()
	r, ok := s.entries[key]
	s.mu.RUnlock()
	return r, ok
}

func (m *Memo[V]) store(key string, r Result[V]) {
	s := m.shard(key)
	s.mu.Lock()
	s.entries[key] = r
	s.mu.Unlock()
}

// Do returns the outcome for key, calling compute on the first request.
// Concurrent callers for an unresolved key wait for the same call; callers
// arriving later receive the memoized outcome. compute runs at most once
// per key for the lifetime of the memo. A panic in compute is recovered and
// memoized as an error wrapping ErrPanicked.
//
// ctx bounds only the caller's wait: if it is done first, Do returns
// ctx.Err() and the computation still completes and is memoized.
func (m *Memo[V]) Do(ctx context.Context, key string, compute func() (V, error)) (V, error) {
	if r, ok := m.Load(key); ok {
		m.hits.Add(1)
		return r.Value, r.Err
	}
	m.misses.Add(1)

	ch := m.group.DoChan(key, func() (any, error) {
		// A flight that finished between Load and DoChan has already stored.
		if r, ok := m.Load(key); ok {
			return r, nil
		}
		m.computations.Add(1)
		r := run(compute)
		m.store(key, r)
		return r, nil
	})

	select {
	case res := <-ch:
		r := res.Val.(Result[V])
		return r.Value, r.Err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func run[V any](compute func() (V, error)) (r Result[V]) {
	defer func() {
		if p := recover(); p != nil {
			r = Result[V]{Err: fmt.Errorf("%w: %v", ErrPanicked, p)}
		}
	}()
	v, err := compute()
	return Result[V]{Value: v, Err: err}
}

// Len returns the number of resolved keys across all shards.
func (m *Memo[V]) Len() int {
	total := 0
	for _, s := range m.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// ShardLen returns the number of resolved keys in each shard.
// Useful for debugging load distribution.
func (m *Memo[V]) ShardLen() [DefaultShardCount]int {
	var lens [DefaultShardCount]int
	for i, s := range m.shards {
		s.mu.RLock()
		lens[i] = len(s.entries)
		s.mu.RUnlock()
	}
	return lens
}

// Stats contains memo statistics.
type Stats struct {
	// Len is the number of resolved keys.
	Len int
	// Hits counts Do calls answered from a resolved key.
	Hits uint64
	// Misses counts Do calls that found the key unresolved, whether they
	// started the computation or joined one in flight.
	Misses uint64
	// Computations counts compute invocations; it never exceeds Len.
	Computations uint64
	// HitRate is Hits / (Hits + Misses), or 0 with no requests.
	HitRate float64
}

// Stats returns current statistics. Counters are read atomically.
func (m *Memo[V]) Stats() Stats {
	hits := m.hits.Load()
	misses := m.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:          m.Len(),
		Hits:         hits,
		Misses:       misses,
		Computations: m.computations.Load(),
		HitRate:      hitRate,
	}
}
