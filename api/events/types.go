// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin/staking"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/logdb"
)

// FilteredEvent is a logged ledger notification with its decoded payload.
type FilteredEvent struct {
	Seq    uint64          `json:"seq"`
	Time   uint64          `json:"time"`
	Caller koby.Identity   `json:"caller"`
	Method string          `json:"method"`
	Name   string          `json:"name"`
	Topics []*koby.Bytes32 `json:"topics"`
	Event  json.RawMessage `json:"event"`
}

// ConvertEvent decodes the payload of a stored event.
func ConvertEvent(ev *logdb.Event) (*FilteredEvent, error) {
	decoded, err := staking.DecodeEvent(ev.Log())
	if err != nil {
		return nil, errors.WithMessagef(err, "event %d", ev.Seq)
	}
	payload, err := json.Marshal(decoded)
	if err != nil {
		return nil, err
	}
	return &FilteredEvent{
		Seq:    ev.Seq,
		Time:   ev.Time,
		Caller: ev.Caller,
		Method: ev.Method,
		Name:   ev.Name,
		Topics: ev.Topics[:],
		Event:  payload,
	}, nil
}
