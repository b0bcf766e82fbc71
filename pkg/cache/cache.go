// Package cache provides the thread-safe structural compilation cache.
//
// The compiler stores one compiled routine per structural key, so every
// formula sharing a shape (=A1+1, =B7+999, ...) reuses the same routine.
// Distinct shapes in a workbook are few and heavily reused, so the cache is
// unbounded by default; a positive capacity turns it into an LRU cache.
//
// # Example
//
//	c := cache.New[*compiler.Routine](0)
//	routine, err := c.GetOrCompile("=|C|+|N|", compile)
package cache

import (
	"container/list"
	"sync"
)

// entry is a cache entry stored in the doubly-linked list.
type entry[V any] struct {
	key   string
	value V
}

// Cache is a thread-safe insert-if-absent map with optional LRU eviction.
//
// Safe for concurrent use by multiple goroutines.
type Cache[V any] struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// New creates a cache holding at most capacity entries.
// A capacity <= 0 means the cache never evicts.
func New[V any](capacity int) *Cache[V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Cache[V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found and, for bounded caches, marks it as most
// recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	el, ok := c.items[key]
	var value V
	if ok {
		value = el.Value.(*entry[V]).value
	}
	// Unbounded caches never reorder, and the front element needs no move.
	skipPromote := !ok || c.capacity == 0 || c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		return value, false
	}

	if !skipPromote {
		c.mu.Lock()
		if el, ok = c.items[key]; ok {
			c.ll.MoveToFront(el)
			value = el.Value.(*entry[V]).value
		}
		c.mu.Unlock()
	}
	return value, ok
}

// Add stores value under key unless the key is already present.
// It returns the value held by the cache afterwards and whether it was
// already present.
func (c *Cache[V]) Add(key string, value V) (actual V, loaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		if c.capacity > 0 {
			c.ll.MoveToFront(el)
		}
		return el.Value.(*entry[V]).value, true
	}
	c.insertLocked(key, value)
	return value, false
}

// GetOrCompile returns the value cached under key, or calls compile to build
// it. When two goroutines compile the same key concurrently, both receive
// the value that was inserted first. Errors are not cached.
func (c *Cache[V]) GetOrCompile(key string, compile func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := compile()
	if err != nil {
		var zero V
		return zero, err
	}
	actual, _ := c.Add(key, value)
	return actual, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of entries, 0 when unbounded.
func (c *Cache[V]) Capacity() int {
	return c.capacity
}

// Invalidate removes a single entry from the cache and reports whether it
// was present.
func (c *Cache[V]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
	return ok
}

// Clear removes all entries from the cache.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element)
}

// insertLocked must be called with c.mu held for writing.
func (c *Cache[V]) insertLocked(key string, value V) {
	if c.capacity > 0 && c.ll.Len() >= c.capacity {
		c.evictLocked()
	}
	c.items[key] = c.ll.PushFront(&entry[V]{key: key, value: value})
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *Cache[V]) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}
