// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lazy implements a cache whose values are created at most once.
package lazy

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache publishes one value per key.  Concurrent requests for a missing key
// wait for a single creation.  Failed creations are not remembered.  The
// zero value is ready to use.
type Cache[K comparable, V any] struct {
	group singleflight.Group

	mu     sync.RWMutex
	values map[K]V
}

// Load a published value.
func (c *Cache[K, V]) Load(key K) (v V, found bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, found = c.values[key]
	return
}

// Get a published value, or create it.  hit is true if the value was
// published before the call.
func (c *Cache[K, V]) Get(key K, create func() (V, error)) (v V, hit bool, err error) {
	if v, found := c.Load(key); found {
		return v, true, nil
	}

	x, err, _ := c.group.Do(fmt.Sprint(key), func() (interface{}, error) {
		if v, found := c.Load(key); found {
			return v, nil
		}

		v, err := create()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.values == nil {
			c.values = make(map[K]V)
		}
		c.values[key] = v
		return v, nil
	})
	if err != nil {
		return
	}

	v = x.(V)
	return
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.values)
}

// Range calls f for each value until it returns false.  f must not call
// methods of the cache.
func (c *Cache[K, V]) Range(f func(K, V) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for k, v := range c.values {
		if !f(k, v) {
			return
		}
	}
}

// Clear forgets all values.  Creations in progress publish into the
// cleared cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = nil
}
