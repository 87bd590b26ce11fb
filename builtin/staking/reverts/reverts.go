// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Ledger reverts. Match them with errors.Is, they may be wrapped with context.
var (
	ErrUnauthorized           = New("unauthorized")
	ErrContractPaused         = New("contract paused")
	ErrAlreadyInitialized     = New("already initialized")
	ErrInvalidToken           = New("invalid token")
	ErrAlreadyStaked          = New("already staked")
	ErrNotStaked              = New("not staked")
	ErrLockPeriodActive       = New("lock period active")
	ErrCooldownActive         = New("cooldown active")
	ErrRateTooHigh            = New("reward rate too high")
	ErrBatchTooLarge          = New("batch size out of range")
	ErrInsufficientRewardPool = New("insufficient reward pool")
	ErrInsufficientFunds      = New("insufficient funds")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
