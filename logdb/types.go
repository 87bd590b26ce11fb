// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/state"
)

// Event is a ledger log that can be stored in db.
type Event struct {
	Seq     uint64
	Time    uint64
	Caller  koby.Identity // who invoked the entry point
	Method  string
	Address koby.Bytes32 // always the ledger account
	Name    string
	Topics  [3]*koby.Bytes32
	Data    []byte
}

// NewEvent converts a state log emitted during a call into an Event.
func NewEvent(time uint64, caller koby.Identity, method, name string, log *state.Log) *Event {
	ev := &Event{
		Time:    time,
		Caller:  caller,
		Method:  method,
		Address: log.Address,
		Name:    name,
		Data:    log.Data,
	}
	for i := 0; i < len(log.Topics) && i < len(ev.Topics); i++ {
		if !log.Topics[i].IsZero() {
			topic := log.Topics[i]
			ev.Topics[i] = &topic
		}
	}
	return ev
}

// Log converts the event back to the log it was built from.
func (e *Event) Log() *state.Log {
	log := &state.Log{
		Address: e.Address,
		Topics:  make([]koby.Bytes32, len(e.Topics)),
		Data:    e.Data,
	}
	for i, topic := range e.Topics {
		if topic != nil {
			log.Topics[i] = *topic
		}
	}
	return log
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive time range. To lower than From leaves the range open ended.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *koby.Bytes32
	Topics  [3]*koby.Bytes32
}

// EventFilter matches events satisfying any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
