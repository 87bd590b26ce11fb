// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/builtin/staking/reverts"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/lvldb"
	"github.com/koby-labs/staking/state"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(koby.Bytes32{1}, state.New(db, nil)))
}

func TestInitialize(t *testing.T) {
	svc := newService(t)
	owner := koby.AddressIdentity(koby.Bytes32{1})

	ok, err := svc.IsInitialized()
	require.NoError(t, err)
	assert.False(t, ok)

	// nobody is owner before initialize
	assert.ErrorIs(t, svc.RequireOwner(koby.Identity{}), reverts.ErrUnauthorized)
	assert.ErrorIs(t, svc.RequireOwner(owner), reverts.ErrUnauthorized)

	require.NoError(t, svc.Initialize(owner))
	assert.ErrorIs(t, svc.Initialize(owner), reverts.ErrAlreadyInitialized)

	got, err := svc.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)
	assert.NoError(t, svc.RequireOwner(owner))
}

func TestTransferOwnership(t *testing.T) {
	svc := newService(t)
	owner := koby.AddressIdentity(koby.Bytes32{1})
	next := koby.ContractIdentity(koby.Bytes32{2})
	require.NoError(t, svc.Initialize(owner))

	_, err := svc.TransferOwnership(next, next)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	prev, err := svc.TransferOwnership(owner, next)
	require.NoError(t, err)
	assert.Equal(t, owner, prev)

	assert.ErrorIs(t, svc.RequireOwner(owner), reverts.ErrUnauthorized)
	assert.NoError(t, svc.RequireOwner(next))
}

func TestPause(t *testing.T) {
	svc := newService(t)
	owner := koby.AddressIdentity(koby.Bytes32{1})
	require.NoError(t, svc.Initialize(owner))

	assert.NoError(t, svc.RequireNotPaused())
	assert.ErrorIs(t, svc.SetPaused(koby.AddressIdentity(koby.Bytes32{9}), true), reverts.ErrUnauthorized)

	require.NoError(t, svc.SetPaused(owner, true))
	require.NoError(t, svc.SetPaused(owner, true))
	paused, err := svc.IsPaused()
	require.NoError(t, err)
	assert.True(t, paused)
	assert.ErrorIs(t, svc.RequireNotPaused(), reverts.ErrContractPaused)

	require.NoError(t, svc.SetPaused(owner, false))
	assert.NoError(t, svc.RequireNotPaused())
}
