// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

// Package cache provides the bounded TTL cache used to drop redelivered
// events.
package cache

import (
	"sync"
	"time"
)

// node is an entry of the recency list.
type node[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
	prev      *node[K, V]
	next      *node[K, V]
}

// LRU is a thread-safe least recently used cache whose entries also expire
// after a fixed TTL. Expiry is lazy: expired entries are dropped when touched
// or evicted.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[K]*node[K, V]

	// head.next is the most recently used entry, tail.prev the least.
	head *node[K, V]
	tail *node[K, V]
}

// DefaultCapacity and DefaultTTL apply to non-positive constructor arguments.
const (
	DefaultCapacity = 10000
	DefaultTTL      = 10 * time.Minute
)

// NewLRU creates a cache holding at most capacity entries for ttl each.
func NewLRU[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[K]*node[K, V], capacity),
		head:     &node[K, V]{},
		tail:     &node[K, V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the live value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.live(key)
	if !ok {
		var zero V
		return zero, false
	}
	c.unlink(n)
	c.pushFront(n)
	return n.value, true
}

// Contains reports whether key is live without changing its recency.
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.live(key)
	return ok
}

// Put stores value under key with a fresh TTL, evicting the least recently
// used entry when full.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if n, ok := c.items[key]; ok {
		n.value, n.expiresAt = value, expiresAt
		c.unlink(n)
		c.pushFront(n)
		return
	}

	n := &node[K, V]{key: key, value: value, expiresAt: expiresAt}
	c.pushFront(n)
	c.items[key] = n
	for len(c.items) > c.capacity {
		c.remove(c.tail.prev)
	}
}

// Len returns the number of entries, including expired ones not yet
// looked up or evicted.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// live returns the entry for key, dropping it if expired. Caller holds mu.
func (c *LRU[K, V]) live(key K) (*node[K, V], bool) {
	n, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(n.expiresAt) {
		c.remove(n)
		return nil, false
	}
	return n, true
}

func (c *LRU[K, V]) pushFront(n *node[K, V]) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *LRU[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (c *LRU[K, V]) remove(n *node[K, V]) {
	c.unlink(n)
	delete(c.items, n.key)
}
