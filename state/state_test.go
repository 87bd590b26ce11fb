// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/lvldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStater(t *testing.T, cacheSize int) *Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db, cacheSize)
}

func TestStorage(t *testing.T) {
	st := newStater(t, 0).NewState()
	addr := koby.BytesToBytes32([]byte("contract"))
	key := koby.BytesToBytes32([]byte("key"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	value := koby.BytesToBytes32([]byte{1, 2, 3})
	st.SetStorage(addr, key, value)
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, v)

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	expected, _ := rlp.EncodeToBytes([]byte{1, 2, 3})
	assert.Equal(t, rlp.RawValue(expected), raw)

	st.SetStorage(addr, key, koby.Bytes32{})
	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestEncodeDecodeStorage(t *testing.T) {
	st := newStater(t, 0).NewState()
	addr := koby.BytesToBytes32([]byte("contract"))
	key := koby.BytesToBytes32([]byte("key"))

	type record struct {
		A uint64
		B string
	}
	in := record{7, "seven"}
	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&in)
	}))

	var out record
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &out)
	}))
	assert.Equal(t, in, out)

	// list values read as hash of the raw data
	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	raw, _ := rlp.EncodeToBytes(&in)
	assert.Equal(t, koby.Blake2b(raw), v)

	err = st.DecodeStorage(addr, key, func([]byte) error {
		return assert.AnError
	})
	var stateErr *Error
	assert.ErrorAs(t, err, &stateErr)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCheckpoint(t *testing.T) {
	st := newStater(t, 0).NewState()
	addr := koby.BytesToBytes32([]byte("contract"))
	key := koby.BytesToBytes32([]byte("key"))
	one := koby.BytesToBytes32([]byte{1})
	two := koby.BytesToBytes32([]byte{2})

	st.SetStorage(addr, key, one)
	st.AddLog(&Log{Address: addr})

	cp := st.NewCheckpoint()
	st.SetStorage(addr, key, two)
	st.AddLog(&Log{Address: addr, Data: []byte{2}})
	assert.Len(t, st.Logs(), 2)

	v, _ := st.GetStorage(addr, key)
	assert.Equal(t, two, v)

	st.RevertTo(cp)
	v, _ = st.GetStorage(addr, key)
	assert.Equal(t, one, v)
	assert.Len(t, st.Logs(), 1)
}

func TestStageCommit(t *testing.T) {
	for _, cacheSize := range []int{0, 16} {
		stater := newStater(t, cacheSize)
		addr := koby.BytesToBytes32([]byte("contract"))
		k1 := koby.BytesToBytes32([]byte("k1"))
		k2 := koby.BytesToBytes32([]byte("k2"))
		one := koby.BytesToBytes32([]byte{1})

		st := stater.NewState()
		st.SetStorage(addr, k1, one)
		st.SetStorage(addr, k2, one)
		stage := st.Stage()
		assert.Equal(t, 2, stage.Len())
		require.NoError(t, stater.Commit(st))

		st = stater.NewState()
		v, err := st.GetStorage(addr, k1)
		require.NoError(t, err)
		assert.Equal(t, one, v)

		st.SetStorage(addr, k2, koby.Bytes32{})
		require.NoError(t, stater.Commit(st))

		st = stater.NewState()
		v, err = st.GetStorage(addr, k2)
		require.NoError(t, err)
		assert.True(t, v.IsZero())
	}
}

func TestStageHash(t *testing.T) {
	addr := koby.BytesToBytes32([]byte("contract"))
	k1 := koby.BytesToBytes32([]byte("k1"))
	k2 := koby.BytesToBytes32([]byte("k2"))
	one := koby.BytesToBytes32([]byte{1})

	a := newStater(t, 0).NewState()
	a.SetStorage(addr, k1, one)
	a.SetStorage(addr, k2, one)

	b := newStater(t, 0).NewState()
	b.SetStorage(addr, k2, one)
	b.SetStorage(addr, k1, one)

	assert.Equal(t, a.Stage().Hash(), b.Stage().Hash())

	b.SetStorage(addr, k1, koby.Bytes32{})
	assert.NotEqual(t, a.Stage().Hash(), b.Stage().Hash())
}

func TestStaterCacheStats(t *testing.T) {
	_, changed := newStater(t, 0).CacheStats()
	assert.False(t, changed, "no cache, nothing to report")

	stater := newStater(t, 16)
	addr := koby.BytesToBytes32([]byte("contract"))
	key := koby.BytesToBytes32([]byte("k"))

	for range 2 {
		_, err := stater.NewState().GetStorage(addr, key)
		require.NoError(t, err)
	}
	stats, changed := stater.CacheStats()
	assert.True(t, changed)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Hits)
}
