// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin/staking/reverts"
	"github.com/koby-labs/staking/koby"
)

// BatchStake stakes all tokens or none of them. Tokens are staked in the given order.
func (s *Staking) BatchStake(caller koby.Identity, tokens []koby.TokenID, now uint64) error {
	logger.Debug("batch staking", "caller", caller, "count", len(tokens))
	if err := s.accessService.RequireNotPaused(); err != nil {
		return err
	}
	if len(tokens) == 0 || len(tokens) > MaxBatchSize {
		return errors.WithMessagef(reverts.ErrBatchTooLarge, "size %d", len(tokens))
	}

	if dup, found := koby.SortTokens(slices.Clone(tokens)); found {
		return errors.WithMessagef(reverts.ErrAlreadyStaked, "token %v repeated in batch", dup)
	}
	for _, token := range tokens {
		if err := s.checkStakeable(caller, token); err != nil {
			logger.Debug("batch stake failed", "token", token, "error", err)
			return err
		}
	}

	checkpoint := s.state.NewCheckpoint()
	for _, token := range tokens {
		if err := s.stake(caller, token, now); err != nil {
			s.state.RevertTo(checkpoint)
			logger.Debug("batch stake failed", "token", token, "error", err)
			return err
		}
	}
	return nil
}
