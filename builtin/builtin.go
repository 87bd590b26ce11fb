// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/koby-labs/staking/builtin/coin"
	"github.com/koby-labs/staking/builtin/nft"
	"github.com/koby-labs/staking/builtin/staking"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/state"
)

// Builtin contracts binding.
var (
	NFT     = &nftContract{contract{koby.BytesToBytes32([]byte("NFT"))}}
	Coin    = &coinContract{contract{koby.BytesToBytes32([]byte("Coin"))}}
	Staking = &stakingContract{contract{koby.BytesToBytes32([]byte("Staking"))}}
)

type contract struct {
	Address koby.Bytes32
}

type (
	nftContract     struct{ contract }
	coinContract    struct{ contract }
	stakingContract struct{ contract }
)

func (n *nftContract) WithState(state *state.State) *nft.NFT {
	return nft.New(n.Address, state)
}

func (c *coinContract) WithState(state *state.State) *coin.Coin {
	return coin.New(c.Address, state)
}

// Account is the identity the ledger holds tokens and funds under.
func (s *stakingContract) Account() koby.Identity {
	return staking.Account(s.Address)
}

// WithState binds the ledger to the builtin asset registry and fungible coin.
func (s *stakingContract) WithState(state *state.State) *staking.Staking {
	account := s.Account()
	return staking.New(
		s.Address,
		state,
		NFT.WithState(state).Custody(account),
		Coin.WithState(state).Funds(account),
	)
}
