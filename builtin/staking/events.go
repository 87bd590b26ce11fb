// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/state"
)

// Event is a notification emitted by the ledger.
// Logs carry three topics: the event id, the principal identity topic and the token, zero when absent.
type Event interface {
	Name() string
	principal() koby.Identity
	token() koby.TokenID
}

type Staked struct {
	Token  koby.TokenID  `json:"token"`
	Staker koby.Identity `json:"staker"`
}

type Unstaked struct {
	Token  koby.TokenID  `json:"token"`
	Staker koby.Identity `json:"staker"`
	Reward uint64        `json:"reward"`
}

type RewardClaimed struct {
	Staker koby.Identity `json:"staker"`
	Amount uint64        `json:"amount"`
}

type EmergencyWithdrawn struct {
	Token  koby.TokenID  `json:"token"`
	Staker koby.Identity `json:"staker"`
}

type RewardsDeposited struct {
	From   koby.Identity `json:"from"`
	Amount uint64        `json:"amount"`
}

type RewardRateUpdated struct {
	Rate uint64 `json:"rate"`
}

type OwnershipTransferred struct {
	Previous koby.Identity `json:"previous"`
	Owner    koby.Identity `json:"owner"`
}

type PauseChanged struct {
	Paused bool `json:"paused"`
}

func (*Staked) Name() string               { return "Staked" }
func (*Unstaked) Name() string             { return "Unstaked" }
func (*RewardClaimed) Name() string        { return "RewardClaimed" }
func (*EmergencyWithdrawn) Name() string   { return "EmergencyWithdrawn" }
func (*RewardsDeposited) Name() string     { return "RewardsDeposited" }
func (*RewardRateUpdated) Name() string    { return "RewardRateUpdated" }
func (*OwnershipTransferred) Name() string { return "OwnershipTransferred" }
func (*PauseChanged) Name() string         { return "PauseChanged" }

func (e *Staked) principal() koby.Identity               { return e.Staker }
func (e *Unstaked) principal() koby.Identity             { return e.Staker }
func (e *RewardClaimed) principal() koby.Identity        { return e.Staker }
func (e *EmergencyWithdrawn) principal() koby.Identity   { return e.Staker }
func (e *RewardsDeposited) principal() koby.Identity     { return e.From }
func (*RewardRateUpdated) principal() koby.Identity      { return koby.Identity{} }
func (e *OwnershipTransferred) principal() koby.Identity { return e.Owner }
func (*PauseChanged) principal() koby.Identity           { return koby.Identity{} }

func (e *Staked) token() koby.TokenID             { return e.Token }
func (e *Unstaked) token() koby.TokenID           { return e.Token }
func (*RewardClaimed) token() koby.TokenID        { return koby.TokenID{} }
func (e *EmergencyWithdrawn) token() koby.TokenID { return e.Token }
func (*RewardsDeposited) token() koby.TokenID     { return koby.TokenID{} }
func (*RewardRateUpdated) token() koby.TokenID    { return koby.TokenID{} }
func (*OwnershipTransferred) token() koby.TokenID { return koby.TokenID{} }
func (*PauseChanged) token() koby.TokenID         { return koby.TokenID{} }

var eventTypes = make(map[koby.Bytes32]func() Event)

func init() {
	for _, fn := range []func() Event{
		func() Event { return &Staked{} },
		func() Event { return &Unstaked{} },
		func() Event { return &RewardClaimed{} },
		func() Event { return &EmergencyWithdrawn{} },
		func() Event { return &RewardsDeposited{} },
		func() Event { return &RewardRateUpdated{} },
		func() Event { return &OwnershipTransferred{} },
		func() Event { return &PauseChanged{} },
	} {
		eventTypes[EventID(fn().Name())] = fn
	}
}

// EventID returns the first topic of logs of the named event.
func EventID(name string) koby.Bytes32 {
	return koby.Keccak256([]byte(name))
}

// IdentityTopic returns the topic an identity is indexed by.
func IdentityTopic(id koby.Identity) koby.Bytes32 {
	if id.IsZero() {
		return koby.Bytes32{}
	}
	return koby.Blake2b(id.Bytes())
}

// EncodeEvent packs an event into a log of the contract at addr.
func EncodeEvent(addr koby.Bytes32, ev Event) (*state.Log, error) {
	data, err := rlp.EncodeToBytes(ev)
	if err != nil {
		return nil, errors.Wrap(err, "encode event")
	}
	return &state.Log{
		Address: addr,
		Topics: []koby.Bytes32{
			EventID(ev.Name()),
			IdentityTopic(ev.principal()),
			koby.Bytes32(ev.token()),
		},
		Data: data,
	}, nil
}

// DecodeEvent unpacks a log emitted by the ledger.
func DecodeEvent(log *state.Log) (Event, error) {
	if len(log.Topics) == 0 {
		return nil, errors.New("log without topics")
	}
	newFn, ok := eventTypes[log.Topics[0]]
	if !ok {
		return nil, errors.Errorf("unknown event %v", log.Topics[0])
	}
	ev := newFn()
	if err := rlp.DecodeBytes(log.Data, ev); err != nil {
		return nil, errors.Wrapf(err, "decode %v", ev.Name())
	}
	return ev, nil
}
