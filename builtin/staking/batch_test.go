// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/builtin/staking/reverts"
	"github.com/koby-labs/staking/koby"
)

func TestBatchStake(t *testing.T) {
	ledger := newTestLedger(t)
	tokens := tokenIDs(5, 1, 3)
	n := len(ledger.events(t))

	require.NoError(t, ledger.BatchStake(alice, tokens, t0))

	total, err := ledger.GetTotalStaked()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)

	list, err := ledger.GetStakerTokens(alice)
	require.NoError(t, err)
	assert.Equal(t, tokens, list)

	// one notification per token, in batch order
	events := ledger.events(t)[n:]
	require.Len(t, events, 3)
	for i, token := range tokens {
		assert.Equal(t, &Staked{Token: token, Staker: alice}, events[i])
	}
}

func TestBatchStake_Size(t *testing.T) {
	ledger := newTestLedger(t)

	oversized := make([]koby.TokenID, MaxBatchSize+1)
	for i := range oversized {
		oversized[i] = koby.NumberToTokenID(uint64(i + 1))
	}
	assert.ErrorIs(t, ledger.BatchStake(alice, oversized, t0), reverts.ErrBatchTooLarge)
	assert.ErrorIs(t, ledger.BatchStake(alice, nil, t0), reverts.ErrBatchTooLarge)

	// the size limit itself is accepted, failing later on tokens alice does not own
	assert.ErrorIs(t, ledger.BatchStake(alice, oversized[:MaxBatchSize], t0), reverts.ErrInvalidToken)
}

func TestBatchStake_Atomic(t *testing.T) {
	tests := []struct {
		name   string
		tokens []koby.TokenID
		err    error
	}{
		{"unknown token in the middle", tokenIDs(1, 999, 2), reverts.ErrInvalidToken},
		{"foreign token last", tokenIDs(1, 2, 11), reverts.ErrInvalidToken},
		{"repeated token", tokenIDs(1, 2, 1), reverts.ErrAlreadyStaked},
		{"already staked token", tokenIDs(1, 2, 4), reverts.ErrAlreadyStaked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newTestLedger(t)
			require.NoError(t, ledger.Stake(alice, koby.NumberToTokenID(4), t0))
			n := len(ledger.events(t))

			assert.ErrorIs(t, ledger.BatchStake(alice, tt.tokens, t0), tt.err)

			for _, id := range tokenIDs(1, 2) {
				rec, err := ledger.GetStakingInfo(id)
				require.NoError(t, err)
				assert.Nil(t, rec, "token %v", id)
			}
			total, err := ledger.GetTotalStaked()
			require.NoError(t, err)
			assert.Equal(t, uint64(1), total)

			assert.Equal(t, alice, ledger.ownerOf(t, 1))
			assert.Equal(t, alice, ledger.ownerOf(t, 2))
			assert.Len(t, ledger.events(t), n)
		})
	}
}
