// Package cache keeps loaded values for a limited time.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mpapenbr/racemetrics/log"
)

var ErrCacheMiss = errors.New("cache miss")

type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (*V, error)
	Invalidate(key K)
}

type (
	Option[K comparable, V any]     func(*loaderCache[K, V])
	LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (*V, error)

	entry[V any] struct {
		data    *V
		expires time.Time
	}
	loaderCache[K comparable, V any] struct {
		mu         sync.Mutex
		items      map[K]entry[V]
		expiration time.Duration
		loader     LoaderFunc[K, V]
		clock      clockwork.Clock
		l          *log.Logger
	}
)

func WithExpiration[K comparable, V any](d time.Duration) Option[K, V] {
	return func(c *loaderCache[K, V]) {
		c.expiration = d
	}
}

func WithLoader[K comparable, V any](fn LoaderFunc[K, V]) Option[K, V] {
	return func(c *loaderCache[K, V]) {
		c.loader = fn
	}
}

func WithClock[K comparable, V any](clock clockwork.Clock) Option[K, V] {
	return func(c *loaderCache[K, V]) {
		c.clock = clock
	}
}

// New returns a cache that calls the loader for missing or expired keys.
// Failed loads are not cached.
func New[K comparable, V any](opts ...Option[K, V]) Cache[K, V] {
	c := &loaderCache[K, V]{
		items:      make(map[K]entry[V]),
		expiration: 5 * time.Minute,
		clock:      clockwork.NewRealClock(),
		l:          log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok && c.clock.Now().Before(e.expires) {
		return e.data, nil
	}
	delete(c.items, key)
	if c.loader == nil {
		return nil, ErrCacheMiss
	}
	v, err := c.loader(ctx, key)
	if err != nil {
		return nil, err
	}
	c.l.Debug("loaded", log.Any("key", key))
	c.items[key] = entry[V]{data: v, expires: c.clock.Now().Add(c.expiration)}
	return v, nil
}

func (c *loaderCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
