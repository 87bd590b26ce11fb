// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/koby"
)

var slotTotalStaked = koby.BytesToBytes32([]byte(("total-staked")))

// Service manages contract-wide staking totals.
type Service struct {
	totalStaked *solidity.Uint64
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		totalStaked: solidity.NewUint64(sctx, slotTotalStaked),
	}
}

// TotalStaked returns the number of tokens currently staked.
func (s *Service) TotalStaked() (uint64, error) {
	return s.totalStaked.Get()
}

func (s *Service) AddStaked(n uint64) error {
	return s.totalStaked.Add(n)
}

func (s *Service) RemoveStaked(n uint64) error {
	return s.totalStaked.Sub(n)
}
