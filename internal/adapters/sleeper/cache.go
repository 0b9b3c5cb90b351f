package sleeper

import (
	"sync"
	"time"
)

// docCache is a TTL cache for fetched API documents. Lifecycle is explicit:
// built once from CacheConfig at client construction, never reconfigured.
type docCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
	doc map[string]cachedDoc
}

type cachedDoc struct {
	body      []byte
	fetchedAt time.Time
}

func newDocCache(cfg CacheConfig) *docCache {
	if !cfg.Enabled || cfg.TTL <= 0 {
		return nil
	}
	return &docCache{
		ttl: cfg.TTL,
		now: time.Now,
		doc: make(map[string]cachedDoc),
	}
}

func (c *docCache) get(url string) ([]byte, bool) {
	c.mu.RLock()
	d, ok := c.doc[url]
	c.mu.RUnlock()
	if !ok || c.now().Sub(d.fetchedAt) > c.ttl {
		return nil, false
	}
	return d.body, true
}

func (c *docCache) put(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc[url] = cachedDoc{body: body, fetchedAt: c.now()}
}
