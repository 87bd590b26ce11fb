// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"

	"github.com/koby-labs/staking/state"
)

// maxClockOffset is the drift tolerated before warning. Lock periods and
// reward accrual are measured against the local clock.
const maxClockOffset = time.Second

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/4 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 4)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

// houseKeeping checks the clock and reports cache usage until ctx is done.
func houseKeeping(ctx context.Context, stater *state.Stater) error {
	logger.Debug("enter house keeping")

	clockSyncTicker := time.NewTicker(10 * time.Minute)
	statsTicker := time.NewTicker(time.Minute)
	defer func() {
		logger.Debug("leave house keeping")
		clockSyncTicker.Stop()
		statsTicker.Stop()
	}()

	checkClockOffset()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-clockSyncTicker.C:
			checkClockOffset()
		case <-statsTicker.C:
			if stats, changed := stater.CacheStats(); changed {
				logger.Debug("storage cache", "hit", stats.Hits, "miss", stats.Misses, "rate", stats.HitRate())
			}
		}
	}
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if offset := resp.ClockOffset.Abs(); offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
}
