// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/koby-labs/staking/koby"

// AssetCustody moves tokens between their owners and the ledger account.
type AssetCustody interface {
	// TransferIn takes token from its owner into the ledger. It fails if token
	// does not exist or is not owned by from.
	TransferIn(token koby.TokenID, from koby.Identity) error
	// TransferOut returns token from the ledger to to.
	TransferOut(token koby.TokenID, to koby.Identity) error
}

// Funds moves reward funds between identities and the ledger account.
type Funds interface {
	// Collect takes amount from an identity into the ledger.
	Collect(from koby.Identity, amount uint64) error
	// Pay sends amount from the ledger to an identity.
	Pay(to koby.Identity, amount uint64) error
}
