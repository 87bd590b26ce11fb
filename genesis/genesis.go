// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/koby-labs/staking/builtin"
	"github.com/koby-labs/staking/builtin/staking"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/log"
	"github.com/koby-labs/staking/runtime"
	"github.com/koby-labs/staking/xenv"
)

var logger = log.WithContext("pkg", "genesis")

// ErrMismatch is returned when the store was initialized from a different genesis.
var ErrMismatch = errors.New("genesis mismatch")

// marker slot holding the id of the applied genesis
var (
	markerAddr = koby.BytesToBytes32([]byte("Genesis"))
	markerKey  = koby.BytesToBytes32([]byte("applied"))
)

// Account is a coin balance allocated at genesis.
type Account struct {
	Identity koby.Identity `yaml:"identity"`
	Balance  uint64        `yaml:"balance"`
}

// Tokens are assets minted to an owner at genesis, ids are sequence numbers.
type Tokens struct {
	Owner koby.Identity `yaml:"owner"`
	IDs   []uint64      `yaml:"ids"`
}

// Genesis is the initial ledger configuration.
type Genesis struct {
	Time       uint64        `yaml:"time"`
	Owner      koby.Identity `yaml:"owner"`
	RewardRate uint64        `yaml:"rewardRate"`
	RewardPool uint64        `yaml:"rewardPool"`
	Accounts   []Account     `yaml:"accounts"`
	Tokens     []Tokens      `yaml:"tokens"`
}

// Load reads and validates a genesis file.
func Load(path string) (*Genesis, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var gen Genesis
	if err := decoder.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Validate checks the genesis can be applied.
func (g *Genesis) Validate() error {
	if g.Owner.IsZero() {
		return errors.New("owner: required")
	}
	if g.RewardRate > staking.MaxRewardRate {
		return errors.Errorf("rewardRate: exceeds %d", staking.MaxRewardRate)
	}
	for i, acc := range g.Accounts {
		if acc.Identity.IsZero() {
			return errors.Errorf("accounts[%d]: identity required", i)
		}
	}
	var ids []uint64
	for i, t := range g.Tokens {
		if t.Owner.IsZero() {
			return errors.Errorf("tokens[%d]: owner required", i)
		}
		if slices.Contains(t.IDs, 0) {
			return errors.Errorf("tokens[%d]: zero id", i)
		}
		ids = append(ids, t.IDs...)
	}
	slices.Sort(ids)
	if len(slices.Compact(ids)) != len(ids) {
		return errors.New("tokens: duplicate id")
	}
	return nil
}

// ID returns the hash of the canonical encoding.
func (g *Genesis) ID() (koby.Bytes32, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return koby.Bytes32{}, err
	}
	return koby.Blake2b(data), nil
}

// Apply writes the genesis allocations through rt once. It reports false
// without changes if the same genesis was applied before.
func (g *Genesis) Apply(rt *runtime.Runtime) (bool, error) {
	if err := g.Validate(); err != nil {
		return false, err
	}
	id, err := g.ID()
	if err != nil {
		return false, err
	}

	var applied bool
	_, err = rt.Exec(&xenv.CallContext{
		Method: "genesis",
		Caller: g.Owner,
		Time:   g.Time,
	}, func(env *xenv.Environment) (any, error) {
		st := env.State()
		prev, err := st.GetStorage(markerAddr, markerKey)
		if err != nil {
			return nil, err
		}
		if !prev.IsZero() {
			env.Require(prev == id, errors.WithMessagef(ErrMismatch, "applied %v", prev))
			return nil, nil
		}

		coin := builtin.Coin.WithState(st)
		for _, acc := range g.Accounts {
			if err := coin.Mint(acc.Identity, acc.Balance); err != nil {
				return nil, err
			}
		}
		nft := builtin.NFT.WithState(st)
		for _, t := range g.Tokens {
			for _, n := range t.IDs {
				if err := nft.Mint(koby.NumberToTokenID(n), t.Owner); err != nil {
					return nil, errors.WithMessagef(err, "mint %d", n)
				}
			}
		}

		ledger := builtin.Staking.WithState(st)
		if err := ledger.Initialize(g.Owner); err != nil {
			return nil, err
		}
		if g.RewardRate > 0 {
			if err := ledger.SetRewardRate(g.Owner, g.RewardRate); err != nil {
				return nil, err
			}
		}
		if g.RewardPool > 0 {
			if err := coin.Mint(g.Owner, g.RewardPool); err != nil {
				return nil, err
			}
			if err := ledger.DepositRewards(g.Owner, g.RewardPool); err != nil {
				return nil, err
			}
		}
		st.SetStorage(markerAddr, markerKey, id)
		applied = true
		return nil, nil
	})
	if err != nil {
		return false, errors.WithMessage(err, "apply genesis")
	}
	if applied {
		logger.Info("genesis applied", "id", id, "owner", g.Owner)
	}
	return applied, nil
}
