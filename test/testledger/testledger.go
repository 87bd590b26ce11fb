// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger builds in-memory ledgers applied from the dev genesis.
package testledger

import (
	"github.com/koby-labs/staking/genesis"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/logdb"
	"github.com/koby-labs/staking/lvldb"
	"github.com/koby-labs/staking/runtime"
	"github.com/koby-labs/staking/state"
)

// GenesisTime is the time of the dev genesis used by New.
const GenesisTime uint64 = 1_700_000_000

// Ledger is a runtime over in-memory stores.
type Ledger struct {
	*runtime.Runtime
	db    *lvldb.LevelDB
	logDB *logdb.LogDB
}

// New returns a ledger with the dev genesis applied.
func New() (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	rt := runtime.New(state.NewStater(db, 256), logDB)
	if _, err := genesis.NewDevnet(GenesisTime).Apply(rt); err != nil {
		logDB.Close()
		db.Close()
		return nil, err
	}
	return &Ledger{rt, db, logDB}, nil
}

// Owner is the dev account owning the ledger.
func (l *Ledger) Owner() koby.Identity {
	return genesis.DevAccounts()[0].Identity
}

// Holder returns the i-th token holding dev account, it owns tokens 10*i+1 to 10*i+10.
func (l *Ledger) Holder(i int) koby.Identity {
	return genesis.DevAccounts()[i+1].Identity
}

func (l *Ledger) Close() error {
	if err := l.logDB.Close(); err != nil {
		return err
	}
	return l.db.Close()
}
