package fpcase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/fpcase/cache"
)

func sqrtTable() (Table, error) {
	return F32.ScalarToIntervalCases(F32.SparseScalarRange(), FilterUnfiltered, F32.SqrtInterval), nil
}

func TestCacheGetUnknown(t *testing.T) {
	c := NewCache()
	if _, err := c.Register("sqrt", map[string]Generator{"f32": sqrtTable}); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := c.Get(ctx, "sqrt", "f128"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("unknown variant: error = %v, want ErrUnknownVariant", err)
	}
	if _, err := c.Get(ctx, "cbrt", "f32"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("unknown cache: error = %v, want ErrUnknownVariant", err)
	}
	if _, err := c.Variants("cbrt"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Variants(cbrt): error = %v, want ErrUnknownVariant", err)
	}
}

func TestCacheRegister(t *testing.T) {
	c := NewCache()
	gens := map[string]Generator{"b": sqrtTable, "a": sqrtTable}
	ns, err := c.Register("sqrt", gens)
	if err != nil {
		t.Fatal(err)
	}
	if ns.Name() != "sqrt" {
		t.Errorf("Name() = %q", ns.Name())
	}

	// The registration is a copy.
	gens["c"] = sqrtTable
	if diff := cmp.Diff([]string{"a", "b"}, ns.Variants()); diff != "" {
		t.Errorf("Variants() mismatch (-want +got):\n%s", diff)
	}

	if _, err := c.Register("sqrt", gens); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second Register: error = %v, want ErrAlreadyRegistered", err)
	}
	if _, err := c.Register("step", map[string]Generator{"x": nil}); err == nil {
		t.Error("Register with nil generator succeeded")
	}
	if _, ok := c.Namespace("step"); ok {
		t.Error("failed registration left a namespace behind")
	}

	if _, err := c.Register("div", map[string]Generator{"scalar": sqrtTable}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"div", "sqrt"}, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestCacheGeneratesOnce(t *testing.T) {
	var calls atomic.Int32
	c := NewCache()
	_, err := c.Register("sqrt", map[string]Generator{
		"f32": func() (Table, error) {
			calls.Add(1)
			return sqrtTable()
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	const goroutines = 32
	tables := make([]Table, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tb, err := c.Get(context.Background(), "sqrt", "f32")
			if err != nil {
				t.Error(err)
			}
			tables[i] = tb
		}(i)
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("generator ran %d times, want 1", n)
	}
	want, err := tables[0].Digest()
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < goroutines; i++ {
		if got, _ := tables[i].Digest(); got != want {
			t.Fatalf("goroutine %d got a different table", i)
		}
	}

	if _, err := c.Get(context.Background(), "sqrt", "f32"); err != nil {
		t.Fatal(err)
	}
	s := c.Stats()
	if s.Computations != 1 || s.Len != 1 {
		t.Errorf("Stats() = %+v, want one computation and one entry", s)
	}
	if s.Hits < 1 {
		t.Errorf("Stats().Hits = %d, want at least 1", s.Hits)
	}
}

func TestCacheDeterministic(t *testing.T) {
	get := func() string {
		c := NewCache()
		if _, err := c.Register("sqrt", map[string]Generator{"f32": sqrtTable}); err != nil {
			t.Fatal(err)
		}
		tb, err := c.Get(context.Background(), "sqrt", "f32")
		if err != nil {
			t.Fatal(err)
		}
		d, err := tb.Digest()
		if err != nil {
			t.Fatal(err)
		}
		return d
	}
	if a, b := get(), get(); a != b {
		t.Errorf("independent caches disagree: %s vs %s", a, b)
	}
}

func TestCacheRemembersFailure(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	c := NewCache()
	_, err := c.Register("broken", map[string]Generator{
		"v": func() (Table, error) {
			calls.Add(1)
			return nil, boom
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if _, err := c.Get(context.Background(), "broken", "v"); !errors.Is(err, boom) {
			t.Errorf("error = %v, want boom", err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("failing generator ran %d times, want 1", n)
	}
}

func TestCacheGetReturnsCopy(t *testing.T) {
	c := NewCache()
	ns, err := c.Register("sqrt", map[string]Generator{"f32": sqrtTable})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	first, err := ns.Get(ctx, "f32")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := first.Digest()

	first[0], first[1] = first[1], first[0]
	first[2].Inputs[0] = F32.Scalar(12345)
	first[3].Expected = Any()

	second, err := c.Get(ctx, "sqrt", "f32")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := second.Digest(); got != want {
		t.Error("modifying a returned table changed the cached table")
	}
}

func TestCacheGeneratorPanics(t *testing.T) {
	var calls atomic.Int32
	c := NewCache()
	_, err := c.Register("crash", map[string]Generator{
		"v": func() (Table, error) {
			calls.Add(1)
			var empty Table
			return empty[:1], nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if _, err := c.Get(context.Background(), "crash", "v"); !errors.Is(err, cache.ErrPanicked) {
			t.Errorf("error = %v, want cache.ErrPanicked", err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("panicking generator ran %d times, want 1", n)
	}
}

func TestCacheCanceledWait(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := NewCache()
	_, err := c.Register("slow", map[string]Generator{
		"v": func() (Table, error) {
			close(started)
			<-release
			return sqrtTable()
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background(), "slow", "v")
		done <- err
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Get(ctx, "slow", "v"); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled wait: error = %v, want context.Canceled", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first caller: %v", err)
	}
	if _, err := c.Get(ctx, "slow", "v"); err != nil {
		t.Errorf("resolved key with canceled ctx: error = %v, want nil", err)
	}
}

func TestCachePrefetch(t *testing.T) {
	var calls atomic.Int32
	gen := func() (Table, error) {
		calls.Add(1)
		return sqrtTable()
	}
	c := NewCache(WithWorkers(2))
	if _, err := c.Register("a", map[string]Generator{"x": gen, "y": gen}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Register("b", map[string]Generator{"z": gen}); err != nil {
		t.Fatal(err)
	}

	if err := c.Prefetch(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("Prefetch(a) generated %d tables, want 2", n)
	}
	if err := c.Prefetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("Prefetch() generated %d tables in total, want 3", n)
	}
	if err := c.Prefetch(context.Background(), "nope"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Prefetch(nope): error = %v, want ErrUnknownVariant", err)
	}
}

func TestCachePrefetchJoinsErrors(t *testing.T) {
	errX := errors.New("x failed")
	errY := errors.New("y failed")
	c := NewCache()
	_, err := c.Register("bad", map[string]Generator{
		"x":  func() (Table, error) { return nil, errX },
		"y":  func() (Table, error) { return nil, errY },
		"ok": sqrtTable,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = c.Prefetch(context.Background())
	if !errors.Is(err, errX) || !errors.Is(err, errY) {
		t.Errorf("Prefetch() error = %v, want both generator errors", err)
	}
	if _, err := c.Get(context.Background(), "bad", "ok"); err != nil {
		t.Errorf("healthy variant: %v", err)
	}
}
