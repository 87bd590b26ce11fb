// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/koby-labs/staking/cache"
	"github.com/koby-labs/staking/kv"
)

// Stater is the state creator.
type Stater struct {
	db    kv.Store
	cache *cache.LRU
}

// NewStater create a new stater. A cacheSize of 0 disables the storage cache.
func NewStater(db kv.Store, cacheSize int) *Stater {
	var c *cache.LRU
	if cacheSize > 0 {
		c, _ = cache.NewLRU(cacheSize)
	}
	return &Stater{db, c}
}

// NewState create a new state object over the committed storage.
func (s *Stater) NewState() *State {
	return New(s.db, s.cache)
}

// Commit commits the state changes into the underlying store.
func (s *Stater) Commit(st *State) error {
	return st.Stage().Commit(s.db.Bulk())
}

// CacheStats returns hit/miss counters of the storage cache.
func (s *Stater) CacheStats() (cache.Stats, bool) {
	if s.cache == nil {
		return cache.Stats{}, false
	}
	return s.cache.Stats()
}
