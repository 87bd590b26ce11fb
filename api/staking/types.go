// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/koby-labs/staking/koby"
)

type Constants struct {
	MinLockPeriod      uint64 `json:"minLockPeriod"`
	WithdrawalCooldown uint64 `json:"withdrawalCooldown"`
	MaxRewardRate      uint64 `json:"maxRewardRate"`
	MaxBatchSize       int    `json:"maxBatchSize"`
}

type Status struct {
	Initialized bool          `json:"initialized"`
	Owner       koby.Identity `json:"owner"`
	Paused      bool          `json:"paused"`
	RewardRate  uint64        `json:"rewardRate"`
	RewardPool  uint64        `json:"rewardPool"`
	TotalStaked uint64        `json:"totalStaked"`
	Time        uint64        `json:"time"`
	Constants   Constants     `json:"constants"`
}

type StakeInfo struct {
	Token         *koby.TokenID `json:"token"`
	Staker        koby.Identity `json:"staker"`
	StakedAt      uint64        `json:"stakedAt"`
	LastClaimAt   uint64        `json:"lastClaimAt"`
	UnlockAt      uint64        `json:"unlockAt"`
	Withdrawable  bool          `json:"withdrawable"`
	PendingReward uint64        `json:"pendingReward"`
}

type Staker struct {
	Staker         koby.Identity `json:"staker"`
	Count          uint64        `json:"count"`
	Tokens         []*StakeInfo  `json:"tokens"`
	PendingRewards uint64        `json:"pendingRewards"`
	Time           uint64        `json:"time"`
}
