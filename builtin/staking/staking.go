// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/builtin/staking/access"
	"github.com/koby-labs/staking/builtin/staking/globalstats"
	"github.com/koby-labs/staking/builtin/staking/reverts"
	"github.com/koby-labs/staking/builtin/staking/rewards"
	"github.com/koby-labs/staking/builtin/staking/stakes"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/log"
	"github.com/koby-labs/staking/state"
)

const (
	MinLockPeriod      uint64 = 86400 // seconds a token stays locked after staking
	WithdrawalCooldown uint64 = 86400 // extra seconds after the lock before withdrawal
	MaxRewardRate      uint64 = 1000  // 10% in basis points
	MaxBatchSize              = 100
	SecondsPerYear     uint64 = rewards.SecondsPerYear
)

var logger = log.WithContext("pkg", "staking")

func SetLogger(l log.Logger) {
	logger = l
}

// Staking implements the token staking ledger.
type Staking struct {
	addr  koby.Bytes32
	state *state.State

	accessService      *access.Service
	rewardsService     *rewards.Service
	globalStatsService *globalstats.Service
	stakes             *stakes.Repository

	custody AssetCustody
	funds   Funds
}

// New create a new instance over the contract storage at addr.
func New(addr koby.Bytes32, state *state.State, custody AssetCustody, funds Funds) *Staking {
	sctx := solidity.NewContext(addr, state)
	return &Staking{
		addr:  addr,
		state: state,

		accessService:      access.New(sctx),
		rewardsService:     rewards.New(sctx, MaxRewardRate),
		globalStatsService: globalstats.New(sctx),
		stakes:             stakes.NewRepository(sctx),

		custody: custody,
		funds:   funds,
	}
}

// Account returns the identity holding tokens and funds in custody.
func Account(addr koby.Bytes32) koby.Identity {
	return koby.ContractIdentity(addr)
}

func (s *Staking) emit(ev Event) error {
	l, err := EncodeEvent(s.addr, ev)
	if err != nil {
		return err
	}
	s.state.AddLog(l)
	return nil
}

// infraErr reports whether err comes from storage rather than from a capability refusing the call.
func infraErr(err error) bool {
	var stateErr *state.Error
	return errors.As(err, &stateErr)
}

//
// Getters - no state change
//

func (s *Staking) IsInitialized() (bool, error) {
	return s.accessService.IsInitialized()
}

func (s *Staking) Owner() (koby.Identity, error) {
	return s.accessService.Owner()
}

func (s *Staking) IsPaused() (bool, error) {
	return s.accessService.IsPaused()
}

func (s *Staking) GetRewardRate() (uint64, error) {
	return s.rewardsService.Rate()
}

func (s *Staking) GetRewardPool() (uint64, error) {
	return s.rewardsService.Pool()
}

func (s *Staking) GetTotalStaked() (uint64, error) {
	return s.globalStatsService.TotalStaked()
}

// GetStakingInfo returns the stake record of token, or nil if it is not staked.
func (s *Staking) GetStakingInfo(token koby.TokenID) (*stakes.Record, error) {
	return s.stakes.Get(token)
}

// GetStakerTokens lists tokens staked by staker, in stake order.
func (s *Staking) GetStakerTokens(staker koby.Identity) ([]koby.TokenID, error) {
	return s.stakes.TokensOf(staker)
}

// GetStakerCount returns how many tokens staker has in custody.
func (s *Staking) GetStakerCount(staker koby.Identity) (uint64, error) {
	return s.stakes.CountOf(staker)
}

// GetPendingRewards sums rewards accrued by all tokens of staker at now.
func (s *Staking) GetPendingRewards(staker koby.Identity, now uint64) (uint64, error) {
	rate, err := s.rewardsService.Rate()
	if err != nil {
		return 0, err
	}
	tokens, err := s.stakes.TokensOf(staker)
	if err != nil {
		return 0, err
	}
	amounts := make([]uint64, 0, len(tokens))
	for _, token := range tokens {
		rec, err := s.stakes.Get(token)
		if err != nil {
			return 0, err
		}
		amounts = append(amounts, rewards.Pending(rec, rate, now))
	}
	return rewards.Sum(amounts...), nil
}

//
// Setters - state change
//

// Initialize sets the owner, once.
func (s *Staking) Initialize(owner koby.Identity) error {
	logger.Debug("initializing", "owner", owner)
	if owner.IsZero() {
		return errors.WithMessage(reverts.ErrUnauthorized, "zero owner")
	}
	if err := s.accessService.Initialize(owner); err != nil {
		logger.Debug("initialize failed", "error", err)
		return err
	}
	return s.emit(&OwnershipTransferred{Owner: owner})
}

func (s *Staking) TransferOwnership(caller, newOwner koby.Identity) error {
	logger.Debug("transferring ownership", "caller", caller, "owner", newOwner)
	if newOwner.IsZero() {
		return errors.WithMessage(reverts.ErrUnauthorized, "zero owner")
	}
	prev, err := s.accessService.TransferOwnership(caller, newOwner)
	if err != nil {
		logger.Debug("transfer ownership failed", "error", err)
		return err
	}
	return s.emit(&OwnershipTransferred{Previous: prev, Owner: newOwner})
}

func (s *Staking) EmergencyPause(caller koby.Identity) error {
	return s.setPaused(caller, true)
}

func (s *Staking) EmergencyUnpause(caller koby.Identity) error {
	return s.setPaused(caller, false)
}

func (s *Staking) setPaused(caller koby.Identity, paused bool) error {
	logger.Debug("setting pause", "caller", caller, "paused", paused)
	if err := s.accessService.SetPaused(caller, paused); err != nil {
		logger.Debug("set pause failed", "error", err)
		return err
	}
	return s.emit(&PauseChanged{Paused: paused})
}

func (s *Staking) SetRewardRate(caller koby.Identity, bps uint64) error {
	logger.Debug("setting reward rate", "caller", caller, "rate", bps)
	if err := s.accessService.RequireOwner(caller); err != nil {
		return err
	}
	if err := s.rewardsService.SetRate(bps); err != nil {
		logger.Debug("set reward rate failed", "error", err)
		return err
	}
	return s.emit(&RewardRateUpdated{Rate: bps})
}

// DepositRewards moves amount from the caller's funds into the reward pool.
func (s *Staking) DepositRewards(caller koby.Identity, amount uint64) error {
	logger.Debug("depositing rewards", "caller", caller, "amount", amount)
	if err := s.accessService.RequireOwner(caller); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	if err := s.funds.Collect(caller, amount); err != nil {
		if infraErr(err) {
			return err
		}
		logger.Debug("deposit rewards failed", "error", err)
		return errors.WithMessage(reverts.ErrInsufficientFunds, err.Error())
	}
	if err := s.rewardsService.Deposit(amount); err != nil {
		return errors.Wrap(err, "reward pool")
	}
	return s.emit(&RewardsDeposited{From: caller, Amount: amount})
}

// Stake takes token into custody on behalf of caller.
func (s *Staking) Stake(caller koby.Identity, token koby.TokenID, now uint64) error {
	logger.Debug("staking", "caller", caller, "token", token)
	if err := s.accessService.RequireNotPaused(); err != nil {
		return err
	}
	if err := s.checkStakeable(caller, token); err != nil {
		logger.Debug("stake failed", "token", token, "error", err)
		return err
	}
	if err := s.stake(caller, token, now); err != nil {
		logger.Debug("stake failed", "token", token, "error", err)
		return err
	}
	return nil
}

func (s *Staking) checkStakeable(caller koby.Identity, token koby.TokenID) error {
	if caller.IsZero() {
		return reverts.ErrUnauthorized
	}
	if token.IsZero() {
		return errors.WithMessagef(reverts.ErrInvalidToken, "token %v", token)
	}
	rec, err := s.stakes.Get(token)
	if err != nil {
		return err
	}
	if rec != nil {
		return errors.WithMessagef(reverts.ErrAlreadyStaked, "token %v", token)
	}
	return nil
}

// stake applies the effects of staking a checked token.
func (s *Staking) stake(caller koby.Identity, token koby.TokenID, now uint64) error {
	if err := s.custody.TransferIn(token, caller); err != nil {
		if infraErr(err) {
			return err
		}
		return errors.WithMessagef(reverts.ErrInvalidToken, "token %v: %v", token, err)
	}
	rec := &stakes.Record{Staker: caller, StakedAt: now, LastClaimAt: now}
	if err := s.stakes.Add(token, rec); err != nil {
		return err
	}
	if err := s.globalStatsService.AddStaked(1); err != nil {
		return err
	}
	return s.emit(&Staked{Token: token, Staker: caller})
}

// Unstake returns token to its staker once lock and cooldown have passed.
// The pending reward is paid out of the pool, capped by the pool balance.
func (s *Staking) Unstake(caller koby.Identity, token koby.TokenID, now uint64) error {
	logger.Debug("unstaking", "caller", caller, "token", token)
	if err := s.accessService.RequireNotPaused(); err != nil {
		return err
	}
	rec, err := s.stakes.Get(token)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.WithMessagef(reverts.ErrNotStaked, "token %v", token)
	}
	if rec.Staker != caller {
		return reverts.ErrUnauthorized
	}
	elapsed := rec.Elapsed(now)
	if elapsed < MinLockPeriod {
		return reverts.ErrLockPeriodActive
	}
	if elapsed < MinLockPeriod+WithdrawalCooldown {
		return reverts.ErrCooldownActive
	}

	rate, err := s.rewardsService.Rate()
	if err != nil {
		return err
	}
	pool, err := s.rewardsService.Pool()
	if err != nil {
		return err
	}
	reward := min(rewards.Pending(rec, rate, now), pool)
	if err := s.payReward(rec.Staker, reward); err != nil {
		return err
	}

	if err := s.release(token, rec); err != nil {
		return err
	}
	logger.Debug("unstaked", "token", token, "reward", reward)
	return s.emit(&Unstaked{Token: token, Staker: rec.Staker, Reward: reward})
}

// EmergencyWithdraw returns token to its original staker regardless of lock, forfeiting its rewards.
func (s *Staking) EmergencyWithdraw(caller koby.Identity, token koby.TokenID) error {
	logger.Debug("emergency withdrawing", "caller", caller, "token", token)
	if err := s.accessService.RequireOwner(caller); err != nil {
		return err
	}
	rec, err := s.stakes.Get(token)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.WithMessagef(reverts.ErrNotStaked, "token %v", token)
	}
	if err := s.release(token, rec); err != nil {
		return err
	}
	return s.emit(&EmergencyWithdrawn{Token: token, Staker: rec.Staker})
}

func (s *Staking) release(token koby.TokenID, rec *stakes.Record) error {
	if err := s.stakes.Remove(token, rec); err != nil {
		return err
	}
	if err := s.globalStatsService.RemoveStaked(1); err != nil {
		return err
	}
	return s.custody.TransferOut(token, rec.Staker)
}

// ClaimRewards pays the caller everything accrued by its tokens and restarts their accrual.
func (s *Staking) ClaimRewards(caller koby.Identity, now uint64) (uint64, error) {
	logger.Debug("claiming rewards", "caller", caller)
	if err := s.accessService.RequireNotPaused(); err != nil {
		return 0, err
	}
	tokens, err := s.stakes.TokensOf(caller)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, nil
	}
	rate, err := s.rewardsService.Rate()
	if err != nil {
		return 0, err
	}

	records := make([]*stakes.Record, 0, len(tokens))
	amounts := make([]uint64, 0, len(tokens))
	for _, token := range tokens {
		rec, err := s.stakes.Get(token)
		if err != nil {
			return 0, err
		}
		records = append(records, rec)
		amounts = append(amounts, rewards.Pending(rec, rate, now))
	}
	total := rewards.Sum(amounts...)

	if err := s.payReward(caller, total); err != nil {
		logger.Debug("claim rewards failed", "error", err)
		return 0, err
	}
	for i, rec := range records {
		if now > rec.LastClaimAt {
			rec.LastClaimAt = now
		}
		if err := s.stakes.Update(tokens[i], rec); err != nil {
			return 0, err
		}
	}
	logger.Debug("claimed rewards", "caller", caller, "amount", total)
	return total, nil
}

// payReward takes amount out of the pool and pays it to staker.
func (s *Staking) payReward(staker koby.Identity, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := s.rewardsService.Withdraw(amount); err != nil {
		return err
	}
	if err := s.funds.Pay(staker, amount); err != nil {
		return errors.Wrap(err, "pay reward")
	}
	return s.emit(&RewardClaimed{Staker: staker, Amount: amount})
}
