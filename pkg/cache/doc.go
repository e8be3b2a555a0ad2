// Package cache provides a small generic key-value cache with in-memory and
// Redis backends, plus a [Loader] that collapses concurrent misses.
//
// plexis uses it to cache module installed-state lookups when the
// operator opts in. Entries carry a TTL; a zero TTL on Set falls back to the
// backend's default.
//
//	c := cache.NewMemory[bool](cache.WithDefaultTTL(30 * time.Second))
//	defer c.Close()
//
//	l := cache.NewLoader(c, 0)
//	ok, err := l.Get(ctx, "blog", func(ctx context.Context) (bool, error) {
//	    return store.IsInstalled(ctx, "blog")
//	})
//
// The Redis backend stores JSON-encoded values under "{prefix}:{key}" so
// several processes can share one answer:
//
//	c := cache.NewRedis[bool](client, cache.WithPrefix("plexis:installed"))
package cache
