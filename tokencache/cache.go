package tokencache

import (
	"container/list"
	"sync"
	"time"
)

// Defaults applied by New when zero values are passed.
const (
	DefaultTTL     = time.Hour
	DefaultMaxSize = 1024
)

type entry struct {
	token    string
	storedAt time.Time
	element  *list.Element
}

// Cache is a thread-safe, TTL-based, size-limited token cache. A
// doubly-linked list maintains insertion order for O(1) eviction of the
// oldest entry when at capacity.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   *list.List // keys in insertion order, oldest at front
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// New creates a token cache with the given TTL and maximum size. Zero values
// select the defaults.
func New(ttl time.Duration, maxSize int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		entries: make(map[string]*entry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

func key(tenantID, agentID string) string { return tenantID + ":" + agentID }

// Put stores a token for the tenant/agent pair, unconditionally overwriting
// any previous value.
func (c *Cache) Put(tenantID, agentID, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(tenantID, agentID)
	if e, ok := c.entries[k]; ok {
		e.token = token
		e.storedAt = c.now()
		c.order.MoveToBack(e.element)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	elem := c.order.PushBack(k)
	c.entries[k] = &entry{token: token, storedAt: c.now(), element: elem}
}

// Get returns the cached token for the tenant/agent pair and whether a live
// entry was found. Expired entries are removed on access.
func (c *Cache) Get(tenantID, agentID string) (string, bool) {
	k := key(tenantID, agentID)

	c.mu.RLock()
	e, ok := c.entries[k]
	if ok && c.now().Sub(e.storedAt) < c.ttl {
		token := e.token
		c.mu.RUnlock()
		return token, true
	}
	c.mu.RUnlock()

	if ok {
		c.mu.Lock()
		if e, stale := c.entries[k]; stale && c.now().Sub(e.storedAt) >= c.ttl {
			c.order.Remove(e.element)
			delete(c.entries, k)
		}
		c.mu.Unlock()
	}
	return "", false
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldestLocked removes the oldest entry. Must be called with mu held.
func (c *Cache) evictOldestLocked() {
	front := c.order.Front()
	if front == nil {
		return
	}
	k, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, k)
}
