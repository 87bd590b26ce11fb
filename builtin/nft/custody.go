// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nft

import "github.com/koby-labs/staking/koby"

// Custody moves tokens in and out of a custodian account.
type Custody struct {
	nft     *NFT
	account koby.Identity
}

// Custody returns the custody capability of account.
func (n *NFT) Custody(account koby.Identity) *Custody {
	return &Custody{nft: n, account: account}
}

func (c *Custody) TransferIn(token koby.TokenID, from koby.Identity) error {
	return c.nft.Transfer(token, from, c.account)
}

func (c *Custody) TransferOut(token koby.TokenID, to koby.Identity) error {
	return c.nft.Transfer(token, c.account, to)
}
