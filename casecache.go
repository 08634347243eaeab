package fpcase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/gogpu/fpcase/cache"
	"github.com/gogpu/fpcase/internal/parallel"
)

// Generator produces the case table for one variant. It is called at most
// once per Cache.
type Generator func() (Table, error)

// CacheOption configures a Cache during creation.
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	workers int
}

// WithWorkers sets how many goroutines Prefetch uses.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) CacheOption {
	return func(o *cacheOptions) {
		o.workers = n
	}
}

// Cache is a named collection of lazily generated case tables.
//
// Each table is identified by a cache name (e.g. "binary/af_division") and a
// variant name (e.g. "vec3_scalar"). The first Get of a key runs its
// generator; every later Get, from any goroutine, returns a copy of the same
// table.
// Concurrent first requests share a single generation. Failures are
// remembered too, so a broken generator is never retried.
//
// Cache is safe for concurrent use.
type Cache struct {
	opts cacheOptions

	mu         sync.RWMutex
	namespaces map[string]*Namespace

	memo *cache.Memo[Table]
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	var o cacheOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache{
		opts:       o,
		namespaces: make(map[string]*Namespace),
		memo:       cache.NewMemo[Table](),
	}
}

// Namespace is the set of variants registered under one cache name.
type Namespace struct {
	name       string
	generators map[string]Generator
	owner      *Cache
}

// Register adds a cache name with its variant generators. The map is
// copied. Registering a name twice fails with ErrAlreadyRegistered.
func (c *Cache) Register(name string, generators map[string]Generator) (*Namespace, error) {
	for v, g := range generators {
		if g == nil {
			return nil, fmt.Errorf("fpcase: cache %q: nil generator for variant %q", name, v)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.namespaces[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	ns := &Namespace{
		name:       name,
		generators: lo.Assign(generators),
		owner:      c,
	}
	c.namespaces[name] = ns

	Logger().Info("fpcase: registered cache", "cache", name, "variants", len(generators))
	return ns, nil
}

// Namespace returns the namespace registered under name.
func (c *Cache) Namespace(name string) (*Namespace, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ns, ok := c.namespaces[name]
	return ns, ok
}

// Get returns the table for name/variant, generating it on first use.
// Unknown names or variants fail with ErrUnknownVariant. ctx bounds only
// the wait: a generation that has started always runs to completion and is
// stored for later callers.
func (c *Cache) Get(ctx context.Context, name, variant string) (Table, error) {
	ns, ok := c.Namespace(name)
	if !ok {
		return nil, fmt.Errorf("%w: cache %q", ErrUnknownVariant, name)
	}
	return ns.Get(ctx, variant)
}

// Name returns the cache name.
func (ns *Namespace) Name() string { return ns.name }

// Variants returns the sorted variant names.
func (ns *Namespace) Variants() []string {
	vs := lo.Keys(ns.generators)
	slices.Sort(vs)
	return vs
}

// Get returns the table for variant, generating it on first use. Each call
// returns its own copy of the memoized table, so callers may reorder or
// trim the result without affecting other callers.
func (ns *Namespace) Get(ctx context.Context, variant string) (Table, error) {
	t, err := ns.resolve(ctx, variant)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (ns *Namespace) resolve(ctx context.Context, variant string) (Table, error) {
	gen, ok := ns.generators[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %q in cache %q", ErrUnknownVariant, variant, ns.name)
	}
	return ns.owner.memo.Do(ctx, ns.name+"/"+variant, func() (Table, error) {
		return ns.generate(variant, gen)
	})
}

func (ns *Namespace) generate(variant string, gen Generator) (Table, error) {
	start := time.Now()
	t, err := gen()
	if err != nil {
		Logger().Warn("fpcase: generator failed",
			"cache", ns.name, "variant", variant, "error", err)
		return nil, fmt.Errorf("fpcase: generate %s/%s: %w", ns.name, variant, err)
	}
	Logger().Debug("fpcase: generated",
		"cache", ns.name, "variant", variant, "cases", len(t), "elapsed", time.Since(start))
	return t, nil
}

// Names returns the sorted registered cache names.
func (c *Cache) Names() []string {
	c.mu.RLock()
	names := lo.Keys(c.namespaces)
	c.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Variants returns the sorted variant names of a registered cache.
func (c *Cache) Variants(name string) ([]string, error) {
	ns, ok := c.Namespace(name)
	if !ok {
		return nil, fmt.Errorf("%w: cache %q", ErrUnknownVariant, name)
	}
	return ns.Variants(), nil
}

// Prefetch resolves every variant of the named caches, or of all caches
// when no name is given, on a pool of worker goroutines. It returns the
// joined errors of every failing variant.
func (c *Cache) Prefetch(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		names = c.Names()
	}

	type key struct {
		ns      *Namespace
		variant string
	}
	var keys []key
	for _, name := range names {
		ns, ok := c.Namespace(name)
		if !ok {
			return fmt.Errorf("%w: cache %q", ErrUnknownVariant, name)
		}
		for _, v := range ns.Variants() {
			keys = append(keys, key{ns, v})
		}
	}

	pool := parallel.NewWorkerPool(c.opts.workers)
	defer pool.Close()

	start := time.Now()
	tasks := lo.Map(keys, func(k key, _ int) parallel.Task {
		return func(ctx context.Context) error {
			_, err := k.ns.resolve(ctx, k.variant)
			return err
		}
	})
	err := pool.ExecuteAll(ctx, tasks)

	Logger().Info("fpcase: prefetch complete",
		"caches", len(names), "variants", len(keys),
		"workers", pool.Workers(), "elapsed", time.Since(start), "failed", err != nil)
	return err
}

// Stats returns the hit, miss and generation counters of the cache.
func (c *Cache) Stats() cache.Stats {
	return c.memo.Stats()
}
