// Package cache provides the resolve-once store behind fpcase.Cache.
//
// # Memo[V]
//
// A sharded, append-only map from string keys to computed outcomes. The
// first request for a key runs the computation; concurrent requests for the
// same key wait on that single call through golang.org/x/sync/singleflight,
// and later requests are answered from the shard without locking out other
// keys.
//
//	m := cache.NewMemo[[]int]()
//	v, err := m.Do(ctx, "primes", func() ([]int, error) {
//	    return sieve(1000), nil
//	})
//
// # Thread Safety
//
// Memo is safe for concurrent use. It must not be copied after creation.
package cache
