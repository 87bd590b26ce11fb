// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package coin

import (
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/state"
)

var (
	slotBalances = koby.BytesToBytes32([]byte(("coin-balances")))
	slotSupply   = koby.BytesToBytes32([]byte(("coin-supply")))
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Coin is a fungible balance ledger, funding rewards.
type Coin struct {
	balances *solidity.Mapping[koby.Identity, uint64]
	supply   *solidity.Uint64
}

func New(addr koby.Bytes32, state *state.State) *Coin {
	sctx := solidity.NewContext(addr, state)
	return &Coin{
		balances: solidity.NewMapping[koby.Identity, uint64](sctx, slotBalances),
		supply:   solidity.NewUint64(sctx, slotSupply),
	}
}

func (c *Coin) BalanceOf(id koby.Identity) (uint64, error) {
	return c.balances.Get(id)
}

func (c *Coin) TotalSupply() (uint64, error) {
	return c.supply.Get()
}

// Mint credits amount to id, growing the supply.
func (c *Coin) Mint(id koby.Identity, amount uint64) error {
	if err := c.supply.Add(amount); err != nil {
		return err
	}
	bal, err := c.balances.Get(id)
	if err != nil {
		return err
	}
	return c.setBalance(id, bal+amount)
}

// Transfer moves amount from one identity to another.
func (c *Coin) Transfer(from, to koby.Identity, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	fromBal, err := c.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return errors.WithMessagef(ErrInsufficientBalance, "%v has %d, needs %d", from, fromBal, amount)
	}
	toBal, err := c.balances.Get(to)
	if err != nil {
		return err
	}
	if err := c.setBalance(from, fromBal-amount); err != nil {
		return err
	}
	return c.setBalance(to, toBal+amount)
}

func (c *Coin) setBalance(id koby.Identity, bal uint64) error {
	if bal == 0 {
		c.balances.Delete(id)
		return nil
	}
	return c.balances.Set(id, bal)
}

// Funds moves coins in and out of a holder account.
type Funds struct {
	coin    *Coin
	account koby.Identity
}

// Funds returns the funds capability of account.
func (c *Coin) Funds(account koby.Identity) *Funds {
	return &Funds{coin: c, account: account}
}

func (f *Funds) Collect(from koby.Identity, amount uint64) error {
	return f.coin.Transfer(from, f.account, amount)
}

func (f *Funds) Pay(to koby.Identity, amount uint64) error {
	return f.coin.Transfer(f.account, to, amount)
}
