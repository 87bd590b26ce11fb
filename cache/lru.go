// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// Stats is a snapshot of GetOrLoad lookups.
type Stats struct {
	Hits   int64
	Misses int64
}

// HitRate is the share of lookups served from the cache, zero before any lookup.
func (s Stats) HitRate() float64 {
	if lookups := s.Hits + s.Misses; lookups > 0 {
		return float64(s.Hits) / float64(lookups)
	}
	return 0
}

// LRU a LRU cache extends golang-lru.
type LRU struct {
	*lru.Cache
	hits, misses atomic.Int64
	lastRate     atomic.Int32 // permille
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU(maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: cache}, nil
}

// Loader defines loader to load value.
type Loader func(key any) (any, error)

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.hits.Add(1)
		return v, nil
	}
	l.misses.Add(1)
	v, err := loader(key)
	if err != nil {
		return nil, err
	}

	l.Add(key, v)
	return v, nil
}

// Stats returns the GetOrLoad counters, and whether the hit rate moved by at
// least a permille since the previous call.
func (l *LRU) Stats() (Stats, bool) {
	s := Stats{Hits: l.hits.Load(), Misses: l.misses.Load()}
	rate := int32(s.HitRate() * 1000)
	return s, l.lastRate.Swap(rate) != rate
}
