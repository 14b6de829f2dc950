package cache

import "context"

// instrumentedCache wraps a Cache and records hits and misses under the given group label.
// Evictions are counted by the OnEvict hook installed in New.
type instrumentedCache struct {
	inner Cache
	group string
}

func newInstrumentedCache(inner Cache, group string) *instrumentedCache {
	registerEntriesCollector(group, func() int {
		return inner.Len(context.Background())
	})
	return &instrumentedCache{inner: inner, group: group}
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := c.inner.Get(ctx, key)
	if ok {
		HitsTotal.WithLabelValues(c.group).Inc()
	} else {
		MissesTotal.WithLabelValues(c.group).Inc()
	}
	return val, ok
}

func (c *instrumentedCache) Set(ctx context.Context, key string, value []byte) {
	c.inner.Set(ctx, key, value)
}

func (c *instrumentedCache) Len(ctx context.Context) int {
	return c.inner.Len(ctx)
}

// Close unregisters the entries collector and closes the underlying cache.
func (c *instrumentedCache) Close() error {
	unregisterEntriesCollector(c.group)
	return c.inner.Close()
}
