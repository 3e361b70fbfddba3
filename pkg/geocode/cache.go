package geocode

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 256

// resultCache memoizes geocoder lookups, including misses. A nil value
// records an address the geocoder could not match.
type resultCache struct {
	entries *lru.Cache[string, *Result]
}

func newResultCache(size int) *resultCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	// lru.New only errors on a non-positive size, which is guarded above.
	entries, _ := lru.New[string, *Result](size)
	return &resultCache{entries: entries}
}

func (c *resultCache) get(key string) (*Result, bool) {
	return c.entries.Get(key)
}

func (c *resultCache) put(key string, r *Result) {
	c.entries.Add(key, r)
}
