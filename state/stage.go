// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/koby-labs/staking/cache"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/kv"
)

// Stage abstracts storage changes to be committed.
type Stage struct {
	changes map[storageKey]rlp.RawValue
	cache   *cache.LRU
}

// Len returns count of changed storage slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes a digest of all changes, in key order.
func (s *Stage) Hash() koby.Bytes32 {
	keys := make([][]byte, 0, len(s.changes))
	index := make(map[string]storageKey, len(s.changes))
	for k := range s.changes {
		flat := k.flat()
		keys = append(keys, flat)
		index[string(flat)] = k
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})

	data := make([][]byte, 0, len(keys)*2)
	for _, k := range keys {
		data = append(data, k, s.changes[index[string(k)]])
	}
	return koby.Blake2b(data...)
}

// Commit writes all changes into the bulk and flushes it.
// Empty values delete the slot.
func (s *Stage) Commit(bulk kv.Bulk) error {
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = StorageBucket.Delete(bulk, k.flat())
		} else {
			err = StorageBucket.Put(bulk, k.flat(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	if s.cache != nil {
		for k, v := range s.changes {
			s.cache.Add(k, v)
		}
	}
	return nil
}
