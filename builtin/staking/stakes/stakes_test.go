// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/lvldb"
	"github.com/koby-labs/staking/state"
)

func newRepository(t *testing.T) *Repository {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(solidity.NewContext(koby.Bytes32{1}, state.New(db, nil)))
}

func tokens(ns ...uint64) []koby.TokenID {
	ids := make([]koby.TokenID, 0, len(ns))
	for _, n := range ns {
		ids = append(ids, koby.NumberToTokenID(n))
	}
	return ids
}

func TestRepository_GetMissing(t *testing.T) {
	repo := newRepository(t)
	rec, err := repo.Get(koby.NumberToTokenID(1))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRepository_AddUpdateRemove(t *testing.T) {
	repo := newRepository(t)
	alice := koby.AddressIdentity(koby.Bytes32{0xa})
	token := koby.NumberToTokenID(1)

	rec := &Record{Staker: alice, StakedAt: 100, LastClaimAt: 100}
	require.NoError(t, repo.Add(token, rec))

	got, err := repo.Get(token)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	got.LastClaimAt = 200
	require.NoError(t, repo.Update(token, got))
	got, err = repo.Get(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), got.LastClaimAt)

	require.NoError(t, repo.Remove(token, got))
	got, err = repo.Get(token)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := repo.CountOf(alice)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Error(t, repo.Add(token, &Record{}))
}

func TestRepository_TokensOf(t *testing.T) {
	repo := newRepository(t)
	alice := koby.AddressIdentity(koby.Bytes32{0xa})
	bob := koby.ContractIdentity(koby.Bytes32{0xb})

	for _, id := range tokens(1, 2, 3, 4) {
		require.NoError(t, repo.Add(id, &Record{Staker: alice, StakedAt: 1}))
	}
	require.NoError(t, repo.Add(koby.NumberToTokenID(5), &Record{Staker: bob, StakedAt: 1}))

	list, err := repo.TokensOf(alice)
	require.NoError(t, err)
	assert.Equal(t, tokens(1, 2, 3, 4), list)

	tests := []struct {
		name     string
		remove   uint64
		expected []koby.TokenID
	}{
		{"middle", 2, tokens(1, 3, 4)},
		{"head", 1, tokens(3, 4)},
		{"tail", 4, tokens(3)},
		{"last", 3, tokens()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := koby.NumberToTokenID(tt.remove)
			rec, err := repo.Get(token)
			require.NoError(t, err)
			require.NoError(t, repo.Remove(token, rec))

			list, err := repo.TokensOf(alice)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, list)

			n, err := repo.CountOf(alice)
			require.NoError(t, err)
			assert.Equal(t, uint64(len(tt.expected)), n)
		})
	}

	list, err = repo.TokensOf(bob)
	require.NoError(t, err)
	assert.Equal(t, tokens(5), list)

	// re-adding after the list drained starts a fresh list
	require.NoError(t, repo.Add(koby.NumberToTokenID(9), &Record{Staker: alice, StakedAt: 2}))
	list, err = repo.TokensOf(alice)
	require.NoError(t, err)
	assert.Equal(t, tokens(9), list)
}

func TestStakerList_RemoveNonMember(t *testing.T) {
	repo := newRepository(t)
	alice := koby.AddressIdentity(koby.Bytes32{0xa})
	require.NoError(t, repo.stakers.Add(alice, koby.NumberToTokenID(1)))

	require.NoError(t, repo.stakers.Remove(alice, koby.NumberToTokenID(7)))
	require.NoError(t, repo.stakers.Remove(alice, koby.TokenID{}))
	n, err := repo.stakers.Len(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	assert.Error(t, repo.stakers.Add(alice, koby.TokenID{}))
}

func TestRecord_UnlockAt(t *testing.T) {
	rec := &Record{StakedAt: 10}
	assert.Equal(t, uint64(30), rec.UnlockAt(15, 5))
	assert.True(t, (*Record)(nil).IsEmpty())

	late := &Record{StakedAt: math.MaxUint64 - 1000}
	assert.Equal(t, uint64(math.MaxUint64), late.UnlockAt(2000, 5))
	assert.Equal(t, uint64(math.MaxUint64), late.UnlockAt(math.MaxUint64, math.MaxUint64))
}

func TestRecord_Elapsed(t *testing.T) {
	rec := &Record{StakedAt: 100}
	assert.Equal(t, uint64(0), rec.Elapsed(50), "clock behind stake time")
	assert.Equal(t, uint64(0), rec.Elapsed(100))
	assert.Equal(t, uint64(25), rec.Elapsed(125))

	late := &Record{StakedAt: math.MaxUint64 - 1000}
	assert.Equal(t, uint64(10), late.Elapsed(math.MaxUint64-990))
}
