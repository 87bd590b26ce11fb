// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math"
	"math/bits"

	"github.com/koby-labs/staking/koby"
)

// Record is the stake of a single token. It exists only while the token is in custody.
type Record struct {
	Staker      koby.Identity
	StakedAt    uint64
	LastClaimAt uint64
}

func (r *Record) IsEmpty() bool {
	return r == nil || r.Staker.IsZero()
}

// Elapsed returns the seconds the token has been staked at now. A clock behind StakedAt yields zero.
func (r *Record) Elapsed(now uint64) uint64 {
	if now < r.StakedAt {
		return 0
	}
	return now - r.StakedAt
}

// UnlockAt returns the time from which the record may be withdrawn, saturating at the largest uint64.
func (r *Record) UnlockAt(lockPeriod, cooldown uint64) uint64 {
	wait, c1 := bits.Add64(lockPeriod, cooldown, 0)
	at, c2 := bits.Add64(r.StakedAt, wait, 0)
	if c1|c2 != 0 {
		return math.MaxUint64
	}
	return at
}
