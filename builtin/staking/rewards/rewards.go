// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/koby-labs/staking/builtin/staking/stakes"
)

// SecondsPerYear is the accrual period of the annual rate.
const SecondsPerYear = 365 * 86400

var secondsPerYear = uint256.NewInt(SecondsPerYear)

// Pending computes the reward accrued by one staked token since its last claim:
// floor(elapsed * rateBps / SecondsPerYear). Every token accrues the same amount
// regardless of value. A clock behind the last claim yields zero.
func Pending(rec *stakes.Record, rateBps uint64, now uint64) uint64 {
	if rec.IsEmpty() || rateBps == 0 || now <= rec.LastClaimAt {
		return 0
	}
	elapsed := uint256.NewInt(now - rec.LastClaimAt)
	reward := new(uint256.Int).Mul(elapsed, uint256.NewInt(rateBps))
	reward.Div(reward, secondsPerYear)
	return clamp(reward)
}

// Sum adds rewards, saturating at the largest uint64.
func Sum(amounts ...uint64) uint64 {
	total := new(uint256.Int)
	for _, a := range amounts {
		total.Add(total, uint256.NewInt(a))
	}
	return clamp(total)
}

func clamp(v *uint256.Int) uint64 {
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}
