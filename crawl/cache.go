package crawl

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/bloom"
	"golang.org/x/sync/singleflight"
)

// cacheFalsePositiveRate bounds how often a new URL is taken for one
// already requested, undercounting CacheStats.URLs.
const cacheFalsePositiveRate = 0.01

// FetchFunc performs one uncached fetch.
type FetchFunc func(ctx context.Context) (*harvest.FetchResult, error)

// PageCache remembers the outcome of every URL fetched during a run so
// organizations that share a domain fetch each page once. Failures are
// remembered too; a cached run sees the same outcomes as an uncached one.
// Every requested URL is also recorded in a bloom filter, which counts how
// many distinct pages the run asked for.
type PageCache struct {
	mu      sync.Mutex
	seen    *bloom.Filter
	entries map[uint64][]cacheEntry
	group   singleflight.Group

	hits   int
	misses int
	urls   uint
}

type cacheEntry struct {
	url    string
	result *harvest.FetchResult
	err    error
}

// NewPageCache creates a cache sized for about n distinct URLs.
func NewPageCache(n uint) *PageCache {
	return &PageCache{
		seen:    bloom.NewFilter(n, cacheFalsePositiveRate),
		entries: make(map[uint64][]cacheEntry),
	}
}

// Do returns the remembered outcome for url, or calls fetch to produce it.
// Concurrent calls for the same url share a single fetch. The cached
// return value reports whether fetch ran on behalf of another caller.
// Outcomes produced while ctx is canceled are not remembered.
func (c *PageCache) Do(ctx context.Context, url string, fetch FetchFunc) (res *harvest.FetchResult, cached bool, err error) {
	key := xxhash.Sum64String(url)
	if e, ok := c.lookup(key, url); ok {
		return e.result, true, e.err
	}

	var fetched bool
	ch := c.group.DoChan(url, func() (any, error) {
		// A flight for url may have finished between lookup and DoChan.
		if e, ok := c.peek(key, url); ok {
			return e.result, e.err
		}
		fetched = true
		res, err := fetch(ctx)
		if ctx.Err() == nil {
			c.store(key, cacheEntry{url: url, result: res, err: err})
		}
		return res, err
	})

	select {
	case r := <-ch:
		res, _ := r.Val.(*harvest.FetchResult)
		return res, !fetched, r.Err
	case <-ctx.Done():
		return nil, false, harvest.Errorf(harvest.ETRANSPORT, "fetch %s: %v", url, ctx.Err())
	}
}

// CacheStats summarizes the use of a PageCache.
type CacheStats struct {
	// Hits counts lookups answered from a remembered outcome.
	Hits int
	// Misses counts lookups that had to wait for a fetch.
	Misses int
	// URLs counts the distinct URLs requested, fetched or not. Bloom
	// false positives may undercount it.
	URLs uint
}

// Stats returns the cache counters so far.
func (c *PageCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, URLs: c.urls}
}

func (c *PageCache) lookup(key uint64, url string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seen.TestAndAdd(key) {
		c.urls++
	}
	if e, ok := c.find(key, url); ok {
		c.hits++
		return e, true
	}
	c.misses++
	return cacheEntry{}, false
}

func (c *PageCache) peek(key uint64, url string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(key, url)
}

// find must be called with c.mu held.
func (c *PageCache) find(key uint64, url string) (cacheEntry, bool) {
	for _, e := range c.entries[key] {
		if e.url == url {
			return e, true
		}
	}
	return cacheEntry{}, false
}

func (c *PageCache) store(key uint64, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = append(c.entries[key], e)
}
