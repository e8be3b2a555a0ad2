package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a key-value cache with per-entry expiry.
// A zero ttl passed to Set means the backend default; a negative ttl never expires.
type Cache[V any] interface {
	// Get returns ErrNotFound for missing or expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Loader reads through a Cache. Concurrent misses for the same key share a
// single call of the load function. A load that started before Forget is
// returned to its callers but never stored.
type Loader[V any] struct {
	cache Cache[V]
	group singleflight.Group
	gens  map[string]uint64
	ttl   time.Duration
	mu    sync.Mutex
}

// NewLoader creates a read-through loader storing loaded values for ttl.
func NewLoader[V any](c Cache[V], ttl time.Duration) *Loader[V] {
	return &Loader[V]{cache: c, ttl: ttl, gens: make(map[string]uint64)}
}

func (l *Loader[V]) generation(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gens[key]
}

// store writes v unless key was forgotten since gen was read.
func (l *Loader[V]) store(ctx context.Context, key string, v V, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gens[key] != gen {
		return
	}
	// A failed write only costs another load.
	_ = l.cache.Set(ctx, key, v, l.ttl)
}

// Get returns the cached value for key or calls load on a miss.
// Errors from load are returned as-is and never cached.
func (l *Loader[V]) Get(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, error) {
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := l.group.Do(key, func() (any, error) {
		gen := l.generation(key)
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		l.store(ctx, key, v, gen)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Forget drops the cached value for key and discards loads in flight.
func (l *Loader[V]) Forget(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gens[key]++
	l.group.Forget(key)
	return l.cache.Delete(ctx, key)
}
