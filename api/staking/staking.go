// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/api/utils"
	"github.com/koby-labs/staking/builtin/staking"
	"github.com/koby-labs/staking/builtin/staking/rewards"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/runtime"
)

type Staking struct {
	rt    *runtime.Runtime
	clock func() uint64
}

// New creates the ledger read api. clock gives the time rewards are accrued to.
func New(rt *runtime.Runtime, clock func() uint64) *Staking {
	return &Staking{rt, clock}
}

func (s *Staking) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	status := &Status{
		Time: s.clock(),
		Constants: Constants{
			MinLockPeriod:      staking.MinLockPeriod,
			WithdrawalCooldown: staking.WithdrawalCooldown,
			MaxRewardRate:      staking.MaxRewardRate,
			MaxBatchSize:       staking.MaxBatchSize,
		},
	}
	err := s.rt.View(func(ledger *staking.Staking) (err error) {
		if status.Initialized, err = ledger.IsInitialized(); err != nil {
			return err
		}
		if status.Owner, err = ledger.Owner(); err != nil {
			return err
		}
		if status.Paused, err = ledger.IsPaused(); err != nil {
			return err
		}
		if status.RewardRate, err = ledger.GetRewardRate(); err != nil {
			return err
		}
		if status.RewardPool, err = ledger.GetRewardPool(); err != nil {
			return err
		}
		status.TotalStaked, err = ledger.GetTotalStaked()
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, status)
}

func stakeInfo(ledger *staking.Staking, token koby.TokenID, rate, now uint64) (*StakeInfo, error) {
	rec, err := ledger.GetStakingInfo(token)
	if err != nil || rec == nil {
		return nil, err
	}
	return &StakeInfo{
		Token:         &token,
		Staker:        rec.Staker,
		StakedAt:      rec.StakedAt,
		LastClaimAt:   rec.LastClaimAt,
		UnlockAt:      rec.UnlockAt(staking.MinLockPeriod, staking.WithdrawalCooldown),
		Withdrawable:  rec.Elapsed(now) >= staking.MinLockPeriod+staking.WithdrawalCooldown,
		PendingReward: rewards.Pending(rec, rate, now),
	}, nil
}

func (s *Staking) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	token, err := koby.ParseTokenID(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	now := s.clock()

	var info *StakeInfo
	err = s.rt.View(func(ledger *staking.Staking) error {
		rate, err := ledger.GetRewardRate()
		if err != nil {
			return err
		}
		info, err = stakeInfo(ledger, token, rate, now)
		return err
	})
	if err != nil {
		return err
	}
	// null for tokens not in custody
	return utils.WriteJSON(w, info)
}

func (s *Staking) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	staker, err := koby.ParseIdentity(mux.Vars(req)["identity"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "identity"))
	}
	result := &Staker{
		Staker: staker,
		Tokens: []*StakeInfo{},
		Time:   s.clock(),
	}
	err = s.rt.View(func(ledger *staking.Staking) error {
		rate, err := ledger.GetRewardRate()
		if err != nil {
			return err
		}
		if result.Count, err = ledger.GetStakerCount(staker); err != nil {
			return err
		}
		tokens, err := ledger.GetStakerTokens(staker)
		if err != nil {
			return err
		}
		for _, token := range tokens {
			info, err := stakeInfo(ledger, token, rate, result.Time)
			if err != nil {
				return err
			}
			result.Tokens = append(result.Tokens, info)
		}
		result.PendingRewards, err = ledger.GetPendingRewards(staker, result.Time)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /staking").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStatus))
	sub.Path("/tokens/{id}").
		Methods(http.MethodGet).
		Name("GET /staking/tokens/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetToken))
	sub.Path("/stakers/{identity}").
		Methods(http.MethodGet).
		Name("GET /staking/stakers/{identity}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStaker))
}
