// internal/cache/lru.go
//
// Tiny generic LRU cache.  Holds live card forms keyed by form session id.
// Not safe for concurrent use; callers hold their own lock.
package cache

import "container/list"

// LRU is a least-recently-used cache with an optional eviction hook.
type LRU[K comparable, V any] struct {
	cap     int
	ll      *list.List
	dict    map[K]*list.Element
	onEvict func(K, V)
}

type pair[K comparable, V any] struct {
	key K
	val V
}

// New returns an LRU with the given capacity.  Panics on cap < 1.
// onEvict, when non-nil, runs for every entry pushed out by Add or Remove.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[K, V]{
		cap:     capacity,
		ll:      list.New(),
		dict:    make(map[K]*list.Element, capacity),
		onEvict: onEvict,
	}
}

// Get retrieves a value and marks it MRU.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	if ele, hit := c.dict[key]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(pair[K, V]).val, true
	}
	return val, false
}

// Add inserts or updates a value.
func (c *LRU[K, V]) Add(key K, val V) {
	if ele, hit := c.dict[key]; hit {
		ele.Value = pair[K, V]{key, val}
		c.ll.MoveToFront(ele)
		return
	}
	c.dict[key] = c.ll.PushFront(pair[K, V]{key, val})
	if c.ll.Len() > c.cap {
		c.removeElement(c.ll.Back())
	}
}

// Remove drops key if present.
func (c *LRU[K, V]) Remove(key K) bool {
	ele, hit := c.dict[key]
	if hit {
		c.removeElement(ele)
	}
	return hit
}

// Len reports current size.
func (c *LRU[K, V]) Len() int { return c.ll.Len() }

func (c *LRU[K, V]) removeElement(ele *list.Element) {
	p := c.ll.Remove(ele).(pair[K, V])
	delete(c.dict, p.key)
	if c.onEvict != nil {
		c.onEvict(p.key, p.val)
	}
}
