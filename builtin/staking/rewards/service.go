// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/builtin/staking/reverts"
	"github.com/koby-labs/staking/koby"
)

var (
	slotRate = koby.BytesToBytes32([]byte(("rewards-rate")))
	slotPool = koby.BytesToBytes32([]byte(("rewards-pool")))
)

// Service manages the global reward rate and the reward pool balance.
type Service struct {
	maxRate uint64
	rate    *solidity.Uint64
	pool    *solidity.Uint64
}

func New(sctx *solidity.Context, maxRate uint64) *Service {
	return &Service{
		maxRate: maxRate,
		rate:    solidity.NewUint64(sctx, slotRate),
		pool:    solidity.NewUint64(sctx, slotPool),
	}
}

func (s *Service) Rate() (uint64, error) {
	return s.rate.Get()
}

// SetRate updates the annual rate in basis points, up to the configured maximum.
func (s *Service) SetRate(bps uint64) error {
	if bps > s.maxRate {
		return reverts.ErrRateTooHigh
	}
	s.rate.Set(bps)
	return nil
}

func (s *Service) Pool() (uint64, error) {
	return s.pool.Get()
}

// Deposit tops up the pool.
func (s *Service) Deposit(amount uint64) error {
	return s.pool.Add(amount)
}

// Withdraw takes amount out of the pool, failing with ErrInsufficientRewardPool when the pool is short.
func (s *Service) Withdraw(amount uint64) error {
	pool, err := s.pool.Get()
	if err != nil {
		return err
	}
	if pool < amount {
		return reverts.ErrInsufficientRewardPool
	}
	s.pool.Set(pool - amount)
	return nil
}
