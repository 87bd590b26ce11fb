// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nft

import (
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/state"
)

var (
	slotOwners = koby.BytesToBytes32([]byte(("nft-owners")))
	slotSupply = koby.BytesToBytes32([]byte(("nft-supply")))
)

var (
	ErrZeroToken   = errors.New("zero token id")
	ErrZeroOwner   = errors.New("zero owner")
	ErrTokenExists = errors.New("token already minted")
	ErrNoToken     = errors.New("token not minted")
	ErrNotOwner    = errors.New("not token owner")
)

// NFT is the registry of non-fungible token ownership.
type NFT struct {
	owners *solidity.Mapping[koby.TokenID, koby.Identity]
	supply *solidity.Uint64
}

func New(addr koby.Bytes32, state *state.State) *NFT {
	sctx := solidity.NewContext(addr, state)
	return &NFT{
		owners: solidity.NewMapping[koby.TokenID, koby.Identity](sctx, slotOwners),
		supply: solidity.NewUint64(sctx, slotSupply),
	}
}

// Mint creates token owned by owner.
func (n *NFT) Mint(token koby.TokenID, owner koby.Identity) error {
	if token.IsZero() {
		return ErrZeroToken
	}
	if owner.IsZero() {
		return ErrZeroOwner
	}
	exists, err := n.Exists(token)
	if err != nil {
		return err
	}
	if exists {
		return errors.WithMessagef(ErrTokenExists, "token %v", token)
	}
	if err := n.owners.Set(token, owner); err != nil {
		return err
	}
	return n.supply.Add(1)
}

// OwnerOf returns the owner of token, zero if never minted.
func (n *NFT) OwnerOf(token koby.TokenID) (koby.Identity, error) {
	return n.owners.Get(token)
}

func (n *NFT) Exists(token koby.TokenID) (bool, error) {
	return n.owners.Exists(token)
}

func (n *NFT) TotalSupply() (uint64, error) {
	return n.supply.Get()
}

// Transfer moves token from its owner from to to.
func (n *NFT) Transfer(token koby.TokenID, from, to koby.Identity) error {
	if to.IsZero() {
		return ErrZeroOwner
	}
	owner, err := n.owners.Get(token)
	if err != nil {
		return err
	}
	if owner.IsZero() {
		return errors.WithMessagef(ErrNoToken, "token %v", token)
	}
	if owner != from {
		return errors.WithMessagef(ErrNotOwner, "token %v", token)
	}
	return n.owners.Set(token, to)
}
