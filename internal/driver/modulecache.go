package driver

import (
	"sync"
)

// memo is a per-run in-memory verdict cache keyed by cacheKey, so identical
// snapshots passed twice are verified once.
type memo struct {
	mu    sync.RWMutex
	byKey map[Digest]*CachePayload
}

func newMemo(capHint int) *memo {
	return &memo{byKey: make(map[Digest]*CachePayload, capHint)}
}

func (c *memo) get(key Digest) (*CachePayload, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	p, ok := c.byKey[key]
	c.mu.RUnlock()
	return p, ok
}

func (c *memo) put(key Digest, p *CachePayload) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.byKey[key] = p
	c.mu.Unlock()
}
