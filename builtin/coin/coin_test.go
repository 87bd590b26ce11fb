// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package coin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/lvldb"
	"github.com/koby-labs/staking/state"
)

func newCoin(t *testing.T) *Coin {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(koby.BytesToBytes32([]byte("coin")), state.New(db, nil))
}

func TestMintTransfer(t *testing.T) {
	c := newCoin(t)
	alice := koby.AddressIdentity(koby.Bytes32{0xa})
	bob := koby.AddressIdentity(koby.Bytes32{0xb})

	require.NoError(t, c.Mint(alice, 100))
	assert.ErrorIs(t, c.Transfer(alice, bob, 101), ErrInsufficientBalance)
	require.NoError(t, c.Transfer(alice, bob, 40))

	bal, err := c.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), bal)
	bal, _ = c.BalanceOf(bob)
	assert.Equal(t, uint64(40), bal)

	supply, err := c.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), supply)

	assert.Error(t, c.Mint(bob, math.MaxUint64))
}

func TestFunds(t *testing.T) {
	c := newCoin(t)
	owner := koby.AddressIdentity(koby.Bytes32{0xa})
	vault := koby.ContractIdentity(koby.Bytes32{0xc})
	require.NoError(t, c.Mint(owner, 10))

	f := c.Funds(vault)
	require.NoError(t, f.Collect(owner, 10))
	assert.ErrorIs(t, f.Collect(owner, 1), ErrInsufficientBalance)
	require.NoError(t, f.Pay(owner, 4))

	bal, _ := c.BalanceOf(vault)
	assert.Equal(t, uint64(6), bal)
	bal, _ = c.BalanceOf(owner)
	assert.Equal(t, uint64(4), bal)
	assert.ErrorIs(t, f.Pay(owner, 7), ErrInsufficientBalance)
}
