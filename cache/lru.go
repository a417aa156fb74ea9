// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides in-memory caches.
package cache

import lru "github.com/hashicorp/golang-lru"

// LRU a typed LRU cache extends golang-lru, with hit/miss stats.
type LRU[K comparable, V any] struct {
	cache *lru.Cache
	stats Stats
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: cache}, nil
}

// Add adds a value to the cache.
func (l *LRU[K, V]) Add(key K, value V) {
	l.cache.Add(key, value)
}

// Get looks up a key's value from the cache.
func (l *LRU[K, V]) Get(key K) (v V, ok bool) {
	if value, found := l.cache.Get(key); found {
		l.stats.Hit()
		return value.(V), true
	}
	l.stats.Miss()
	return
}

// Len returns the number of items in the cache.
func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// Stats returns the hit/miss stats of Get.
func (l *LRU[K, V]) Stats() *Stats {
	return &l.stats
}

// Loader defines loader to load value.
// A loader returning ok false leaves the cache untouched.
type Loader[K comparable, V any] func(key K) (v V, ok bool, err error)

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU[K, V]) GetOrLoad(key K, loader Loader[K, V]) (V, bool, error) {
	if v, ok := l.Get(key); ok {
		return v, true, nil
	}
	v, ok, err := loader(key)
	if err != nil || !ok {
		return v, false, err
	}
	l.Add(key, v)
	return v, true, nil
}
