// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/state"
)

var (
	ledger  = koby.BytesToBytes32([]byte("ledger"))
	alice   = koby.BytesToAddressIdentity([]byte("alice"))
	staked  = koby.Keccak256([]byte("Staked"))
	claimed = koby.Keccak256([]byte("RewardClaimed"))
	topicA  = koby.Blake2b(alice.Bytes())
)

func newEvents(n int) []*Event {
	var events []*Event
	for i := range n {
		topic0 := staked
		name := "Staked"
		token := koby.Bytes32(koby.NumberToTokenID(uint64(i + 1)))
		if i%2 == 1 {
			topic0 = claimed
			name = "RewardClaimed"
			token = koby.Bytes32{}
		}
		log := &state.Log{
			Address: ledger,
			Topics:  []koby.Bytes32{topic0, topicA, token},
			Data:    []byte{byte(i)},
		}
		events = append(events, NewEvent(uint64(100+i), alice, "stake", name, log))
	}
	return events
}

func TestInsertAndFilter(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	seq, err := db.MaxSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), seq)

	events := newEvents(10)
	require.NoError(t, db.Insert(events))
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq)
	}

	seq, err = db.MaxSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), seq)

	all, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 10)
	assert.Equal(t, events[3], all[3])
	assert.Nil(t, all[1].Topics[2], "zero topics are stored as null")
	assert.Equal(t, alice, all[0].Caller)

	tests := []struct {
		name   string
		filter *EventFilter
		want   []uint64
	}{
		{
			"by name topic",
			&EventFilter{CriteriaSet: []*EventCriteria{{Topics: [3]*koby.Bytes32{&claimed}}}},
			[]uint64{2, 4, 6, 8, 10},
		},
		{
			"by token",
			&EventFilter{CriteriaSet: []*EventCriteria{{Topics: [3]*koby.Bytes32{nil, nil, ptr(koby.Bytes32(koby.NumberToTokenID(3)))}}}},
			[]uint64{3},
		},
		{
			"criteria are or-ed",
			&EventFilter{CriteriaSet: []*EventCriteria{
				{Topics: [3]*koby.Bytes32{nil, nil, ptr(koby.Bytes32(koby.NumberToTokenID(1)))}},
				{Topics: [3]*koby.Bytes32{nil, nil, ptr(koby.Bytes32(koby.NumberToTokenID(5)))}},
			}},
			[]uint64{1, 5},
		},
		{
			"range and desc",
			&EventFilter{Range: &Range{From: 102, To: 104}, Order: DESC},
			[]uint64{5, 4, 3},
		},
		{
			"open range",
			&EventFilter{Range: &Range{From: 108}},
			[]uint64{9, 10},
		},
		{
			"paging",
			&EventFilter{Options: &Options{Offset: 2, Limit: 3}},
			[]uint64{3, 4, 5},
		},
		{
			"address mismatch",
			&EventFilter{CriteriaSet: []*EventCriteria{{Address: ptr(koby.BytesToBytes32([]byte("other")))}}},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.FilterEvents(context.Background(), tt.filter)
			require.NoError(t, err)
			var seqs []uint64
			for _, ev := range got {
				seqs = append(seqs, ev.Seq)
			}
			assert.Equal(t, tt.want, seqs)
		})
	}
}

func TestEventsAfter(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Insert(newEvents(6)))

	events, err := db.EventsAfter(context.Background(), 2, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, uint64(3), events[0].Seq)
	assert.Equal(t, uint64(5), events[2].Seq)

	events, err = db.EventsAfter(context.Background(), 6, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventLogRoundTrip(t *testing.T) {
	log := &state.Log{
		Address: ledger,
		Topics:  []koby.Bytes32{staked, {}, koby.Bytes32(koby.NumberToTokenID(9))},
		Data:    []byte("data"),
	}
	ev := NewEvent(1, alice, "stake", "Staked", log)
	assert.Nil(t, ev.Topics[1])
	assert.Equal(t, log, ev.Log())
}

func TestFilterCanceled(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Insert(newEvents(3)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.FilterEvents(ctx, nil)
	assert.Error(t, err)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.Insert(newEvents(4)))
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())

	require.NoError(t, db.Insert(newEvents(1)))
	seq, err := db.MaxSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), seq)
}

func ptr[T any](v T) *T { return &v }
