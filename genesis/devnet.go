// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/koby-labs/staking/koby"
)

// DevAccount account for development.
type DevAccount struct {
	Identity   koby.Identity
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for dev mode. The first one owns the ledger.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{koby.AddressIdentity(koby.BytesToBytes32(addr.Bytes())), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// NewDevnet returns the genesis of dev mode. Every account but the owner
// holds ten tokens, numbered from 1 in account order.
func NewDevnet(time uint64) *Genesis {
	accs := DevAccounts()
	gen := &Genesis{
		Time:       time,
		Owner:      accs[0].Identity,
		RewardRate: 1000,
		RewardPool: 1_000_000,
	}
	next := uint64(1)
	for i, acc := range accs {
		gen.Accounts = append(gen.Accounts, Account{acc.Identity, 1_000_000})
		if i == 0 {
			continue
		}
		tokens := Tokens{Owner: acc.Identity}
		for range 10 {
			tokens.IDs = append(tokens.IDs, next)
			next++
		}
		gen.Tokens = append(gen.Tokens, tokens)
	}
	return gen
}
