// Package query is a keyed read cache with request deduplication,
// stale-while-revalidate reads, kind-wide invalidation and change
// subscriptions.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cache slot. Keys are compared with ==, so two
// descriptors with equal fields share a slot.
type Key interface {
	comparable
	Kind() string
}

// FetchFunc loads the value for a key from the source of truth.
type FetchFunc[K Key, V any] func(ctx context.Context, key K) (V, error)

// Result is what readers and subscribers see for a slot.
type Result[V any] struct {
	Data      V
	HasData   bool
	Err       error
	FetchedAt time.Time
	Stale     bool
}

type Options struct {
	// StaleTime is how long fetched data counts as fresh. Zero means
	// every read after the first triggers a background refresh.
	StaleTime time.Duration
	// GCTime is how long an unused slot without subscribers is kept.
	GCTime time.Duration
	// Timeout bounds each fetch, including background refreshes.
	Timeout time.Duration
	Logger  *slog.Logger
}

type entry[V any] struct {
	data      V
	hasData   bool
	err       error
	fetchedAt time.Time
	invalid   bool
	// gen counts invalidations; dataGen is the gen the current data was
	// fetched under.
	gen       uint64
	dataGen   uint64
	lastUsed  time.Time
	subs      map[chan Result[V]]struct{}
}

type Cache[K Key, V any] struct {
	fetch FetchFunc[K, V]
	opts  Options
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[K]*entry[V]
}

func New[K Key, V any](fetch FetchFunc[K, V], opts Options) *Cache[K, V] {
	if opts.GCTime <= 0 {
		opts.GCTime = 5 * time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Cache[K, V]{
		fetch:   fetch,
		opts:    opts,
		now:     time.Now,
		entries: make(map[K]*entry[V]),
	}
}

// Fetch returns cached data when present. Stale or invalidated data is
// returned as is and refreshed in the background. Without data the call
// blocks on a fetch shared with any concurrent caller for the same key.
func (c *Cache[K, V]) Fetch(ctx context.Context, key K) (V, error) {
	c.mu.Lock()
	e := c.entries[key]
	if e != nil && e.hasData {
		e.lastUsed = c.now()
		data, stale := e.data, c.staleLocked(e)
		c.mu.Unlock()
		if stale {
			c.revalidate(key)
		}
		return data, nil
	}
	c.mu.Unlock()

	return c.load(ctx, key)
}

// Prefetch always issues a fetch (deduplicated with any in flight) and
// stores the result.
func (c *Cache[K, V]) Prefetch(ctx context.Context, key K) error {
	_, err := c.load(ctx, key)
	return err
}

// Peek reports the slot without fetching.
func (c *Cache[K, V]) Peek(key K) (Result[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || (!e.hasData && e.err == nil) {
		return Result[V]{}, false
	}
	return c.resultLocked(e), true
}

// Invalidate marks every slot of the given kind stale. Slots somebody is
// subscribed to are refetched right away, the rest on next read. A fetch
// already in flight for such a slot is not joined; its result counts as
// stale when it lands.
func (c *Cache[K, V]) Invalidate(kind string) {
	var active []K

	c.mu.Lock()
	for k, e := range c.entries {
		if k.Kind() != kind {
			continue
		}
		e.invalid = true
		e.gen++
		c.group.Forget(flightKey(k))
		if len(e.subs) > 0 {
			active = append(active, k)
		}
	}
	c.mu.Unlock()

	for _, k := range active {
		c.revalidate(k)
	}
}

// Subscribe returns a channel receiving the slot's state after every
// fetch that completes for it. Only the latest state is buffered. If the
// slot already holds data it is delivered immediately.
func (c *Cache[K, V]) Subscribe(key K) (<-chan Result[V], func()) {
	ch := make(chan Result[V], 1)

	c.mu.Lock()
	e := c.entryLocked(key)
	e.subs[ch] = struct{}{}
	if e.hasData {
		ch <- c.resultLocked(e)
	}
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if e, ok := c.entries[key]; ok {
				delete(e.subs, ch)
				e.lastUsed = c.now()
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) load(ctx context.Context, key K) (V, error) {
	ch := c.group.DoChan(flightKey(key), func() (any, error) {
		gen := c.generation(key)
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.Timeout)
		defer cancel()

		v, err := c.fetch(fctx, key)
		if c.store(key, gen, v, err) {
			c.revalidate(key)
		}
		return v, err
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		v, _ := r.Val.(V)
		return v, nil
	}
}

func (c *Cache[K, V]) revalidate(key K) {
	go func() {
		if _, err := c.load(context.Background(), key); err != nil {
			c.opts.Logger.Warn("query revalidation failed", "kind", key.Kind(), "key", flightKey(key), "err", err)
		}
	}()
}

func (c *Cache[K, V]) generation(key K) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryLocked(key).gen
}

// store records a fetch started at invalidation generation gen. A failed
// fetch keeps earlier data. A result older than the stored data is
// dropped, and one that started before the latest invalidation is kept
// but stays stale. It reports whether subscribers need another fetch.
func (c *Cache[K, V]) store(key K, gen uint64, v V, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	if e.hasData && gen < e.dataGen {
		return false
	}

	now := c.now()
	e.lastUsed = now
	outdated := gen != e.gen
	if err != nil {
		e.err = err
	} else {
		e.data = v
		e.hasData = true
		e.err = nil
		e.fetchedAt = now
		e.dataGen = gen
		e.invalid = outdated
	}

	r := c.resultLocked(e)
	for ch := range e.subs {
		offer(ch, r)
	}
	return outdated && len(e.subs) > 0
}

func (c *Cache[K, V]) entryLocked(key K) *entry[V] {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[V]{lastUsed: c.now(), subs: make(map[chan Result[V]]struct{})}
		c.entries[key] = e
	}
	return e
}

func (c *Cache[K, V]) staleLocked(e *entry[V]) bool {
	return e.invalid || c.now().Sub(e.fetchedAt) >= c.opts.StaleTime
}

func (c *Cache[K, V]) resultLocked(e *entry[V]) Result[V] {
	return Result[V]{
		Data:      e.data,
		HasData:   e.hasData,
		Err:       e.err,
		FetchedAt: e.fetchedAt,
		Stale:     e.hasData && c.staleLocked(e),
	}
}

// offer replaces whatever is buffered in ch with r.
func offer[V any](ch chan Result[V], r Result[V]) {
	for {
		select {
		case ch <- r:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func flightKey[K Key](key K) string {
	return fmt.Sprintf("%s:%#v", key.Kind(), key)
}
