// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/builtin/coin"
	"github.com/koby-labs/staking/builtin/nft"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/lvldb"
	"github.com/koby-labs/staking/state"
)

const day = 86400

var (
	stakingAddr = koby.BytesToBytes32([]byte("staking"))
	nftAddr     = koby.BytesToBytes32([]byte("nft"))
	coinAddr    = koby.BytesToBytes32([]byte("coin"))

	owner = koby.AddressIdentity(koby.BytesToBytes32([]byte("owner")))
	alice = koby.AddressIdentity(koby.BytesToBytes32([]byte("alice")))
	bob   = koby.AddressIdentity(koby.BytesToBytes32([]byte("bob")))
)

type testLedger struct {
	*Staking
	state *state.State
	nft   *nft.NFT
	coin  *coin.Coin
}

// newTestLedger returns an initialized ledger with tokens 1..10 minted to alice
// and 11..20 minted to bob. The owner holds 1e6 coins.
func newTestLedger(t *testing.T) *testLedger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, nil)
	n := nft.New(nftAddr, st)
	c := coin.New(coinAddr, st)
	account := Account(stakingAddr)

	for i := uint64(1); i <= 20; i++ {
		holder := alice
		if i > 10 {
			holder = bob
		}
		require.NoError(t, n.Mint(koby.NumberToTokenID(i), holder))
	}
	require.NoError(t, c.Mint(owner, 1_000_000))

	ledger := &testLedger{
		Staking: New(stakingAddr, st, n.Custody(account), c.Funds(account)),
		state:   st,
		nft:     n,
		coin:    c,
	}
	require.NoError(t, ledger.Initialize(owner))
	return ledger
}

func (l *testLedger) ownerOf(t *testing.T, n uint64) koby.Identity {
	id, err := l.nft.OwnerOf(koby.NumberToTokenID(n))
	require.NoError(t, err)
	return id
}

func (l *testLedger) balanceOf(t *testing.T, id koby.Identity) uint64 {
	bal, err := l.coin.BalanceOf(id)
	require.NoError(t, err)
	return bal
}

func (l *testLedger) events(t *testing.T) []Event {
	var events []Event
	for _, log := range l.state.Logs() {
		ev, err := DecodeEvent(log)
		require.NoError(t, err)
		events = append(events, ev)
	}
	return events
}

func tokenIDs(ns ...uint64) []koby.TokenID {
	ids := make([]koby.TokenID, 0, len(ns))
	for _, n := range ns {
		ids = append(ids, koby.NumberToTokenID(n))
	}
	return ids
}

type TestFunc func(t *testing.T)

// TestSequence runs staking steps in order against one ledger.
type TestSequence struct {
	ledger *testLedger
	now    uint64

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(ledger *testLedger, start uint64) *TestSequence {
	return &TestSequence{ledger: ledger, now: start}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Wait(seconds uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.now += seconds
		t.Logf("time advanced to %d", st.now)
	})
}

func (st *TestSequence) SetRate(bps uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.SetRewardRate(owner, bps); err != nil {
			t.Fatalf("failed to set reward rate %d: %v", bps, err)
		}
	})
}

func (st *TestSequence) Deposit(amount uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.DepositRewards(owner, amount); err != nil {
			t.Fatalf("failed to deposit %d: %v", amount, err)
		}
	})
}

func (st *TestSequence) Stake(staker koby.Identity, n uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.Stake(staker, koby.NumberToTokenID(n), st.now); err != nil {
			t.Fatalf("failed to stake token %d: %v", n, err)
		}
		t.Logf("staked token %d at %d", n, st.now)
	})
}

func (st *TestSequence) Unstake(staker koby.Identity, n uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ledger.Unstake(staker, koby.NumberToTokenID(n), st.now); err != nil {
			t.Fatalf("failed to unstake token %d: %v", n, err)
		}
		t.Logf("unstaked token %d at %d", n, st.now)
	})
}

func (st *TestSequence) Claim(staker koby.Identity, expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		amount, err := st.ledger.ClaimRewards(staker, st.now)
		if err != nil {
			t.Fatalf("failed to claim rewards: %v", err)
		}
		assert.Equal(t, expected, amount, "claimed amount")
	})
}

func (st *TestSequence) AssertPending(staker koby.Identity, expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		pending, err := st.ledger.GetPendingRewards(staker, st.now)
		require.NoError(t, err)
		assert.Equal(t, expected, pending, "pending rewards at %d", st.now)
	})
}

func (st *TestSequence) AssertTotalStaked(expected uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		total, err := st.ledger.GetTotalStaked()
		require.NoError(t, err)
		assert.Equal(t, expected, total, "total staked")
	})
}

func (st *TestSequence) Run(t *testing.T) {
	for _, f := range st.funcs {
		f(t)
	}
}
