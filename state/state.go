// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/koby-labs/staking/cache"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/kv"
	"github.com/koby-labs/staking/stackedmap"
)

// StorageBucket is the kv bucket holding all contract storage.
const StorageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Log is an event emitted by a contract.
type Log struct {
	Address koby.Bytes32
	Topics  []koby.Bytes32
	Data    []byte
}

type storageKey struct {
	addr koby.Bytes32
	key  koby.Bytes32
}

// flat key of storage in kv, addr followed by key.
func (k storageKey) flat() []byte {
	b := make([]byte, 0, 64)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

type logsKey struct{}

// State manages contract storage.
type State struct {
	db    kv.Getter
	cache *cache.LRU
	sm    *stackedmap.StackedMap
}

// New create state object. cache is optional.
func New(db kv.Getter, cache *cache.LRU) *State {
	state := State{
		db:    db,
		cache: cache,
	}
	state.sm = stackedmap.New(state.cacheGetter)
	state.sm.Push()
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case storageKey:
		v, err := s.loadStorage(k)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	case logsKey:
		return []*Log(nil), true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) loadStorage(k storageKey) (rlp.RawValue, error) {
	load := func(any) (any, error) {
		v, err := StorageBucket.Get(s.db, k.flat())
		if err != nil {
			if s.db.IsNotFound(err) {
				return rlp.RawValue(nil), nil
			}
			return nil, err
		}
		return rlp.RawValue(v), nil
	}
	if s.cache == nil {
		v, err := load(nil)
		if err != nil {
			return nil, err
		}
		return v.(rlp.RawValue), nil
	}
	v, err := s.cache.GetOrLoad(k, load)
	if err != nil {
		return nil, err
	}
	return v.(rlp.RawValue), nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr, key koby.Bytes32) (koby.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return koby.Bytes32{}, err
	}
	if len(raw) == 0 {
		return koby.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return koby.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return koby.Blake2b(raw), nil
	}
	return koby.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr, key, value koby.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr, key koby.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr, key koby.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr, key koby.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr, key koby.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// AddLog appends an event log. Logs are reverted together with storage.
func (s *State) AddLog(log *Log) {
	logs := s.Logs()
	cpy := make([]*Log, len(logs), len(logs)+1)
	copy(cpy, logs)
	s.sm.Put(logsKey{}, append(cpy, log))
}

// Logs returns logs added since the state was created.
func (s *State) Logs() []*Log {
	v, _, _ := s.sm.Get(logsKey{})
	return v.([]*Log)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to commit all storage changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k, v any) bool {
		if key, ok := k.(storageKey); ok {
			changes[key] = v.(rlp.RawValue)
		}
		return true
	})
	return &Stage{changes: changes, cache: s.cache}
}
