package memo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Cache memoizes asynchronous operations. Calls that share a key also share
// one in-flight computation, and settled results are reused until their TTL
// elapses. A TTL of zero means the result never expires.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	ready     chan struct{}
	value     any
	err       error
	expiresAt time.Time // zero => no expiry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Do returns the cached result for key when a live entry exists, otherwise it
// invokes fn exactly once and shares the outcome with every caller that
// arrives while fn is still running. A failed fn is not retained: the entry
// is dropped so the next call retries instead of replaying the failure.
//
// fn runs detached from the caller's context. A caller whose ctx is cancelled
// stops waiting, but the computation continues and its result stays cached
// for subsequent callers.
func (c *Cache) Do(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !c.stale(e) {
		c.mu.Unlock()
		return e.wait(ctx)
	}

	e := &entry{ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	go func() {
		value, err := fn(context.WithoutCancel(ctx))

		c.mu.Lock()
		e.value, e.err = value, err
		if err != nil {
			// Drop the entry only if it is still the current one; a
			// concurrent Forget/refresh may have replaced it already.
			if c.entries[key] == e {
				delete(c.entries, key)
			}
		} else if ttl > 0 {
			e.expiresAt = c.now().Add(ttl)
		}
		c.mu.Unlock()

		close(e.ready)
	}()

	return e.wait(ctx)
}

// Forget evicts the entry for key, if any. An in-flight computation is not
// interrupted; it simply no longer populates the cache slot.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// stale reports whether the entry's TTL elapsed. In-flight entries carry a
// zero expiry and are never stale, which is what keeps concurrent callers
// joined to the same computation.
func (c *Cache) stale(e *entry) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

func (e *entry) wait(ctx context.Context) (any, error) {
	select {
	case <-e.ready:
		return e.value, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Do is the typed variant of Cache.Do.
func Do[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	value, err := c.Do(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}

// Key builds a cache key from an operation name and its argument tuple.
// Arguments are rendered by value, so two calls that spell the same
// normalized arguments differently still land on the same entry. Each
// rendered argument is quoted, so a separator inside an argument cannot
// collide with a tuple of a different arity.
func Key(op string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	for _, arg := range args {
		parts = append(parts, strconv.Quote(fmt.Sprintf("%v", arg)))
	}
	return strings.Join(parts, "|")
}
