// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin/solidity"
	"github.com/koby-labs/staking/koby"
)

// stakerList keeps the tokens of each staker in stake order.
// The zero token id terminates the list, so it can never be a member.
type stakerList struct {
	head  *solidity.Mapping[koby.Identity, koby.TokenID]
	tail  *solidity.Mapping[koby.Identity, koby.TokenID]
	count *solidity.Mapping[koby.Identity, uint64]
	next  *solidity.Mapping[koby.TokenID, koby.TokenID]
	prev  *solidity.Mapping[koby.TokenID, koby.TokenID]
}

func newStakerList(sctx *solidity.Context, headPos, tailPos, countPos, nextPos, prevPos koby.Bytes32) *stakerList {
	return &stakerList{
		head:  solidity.NewMapping[koby.Identity, koby.TokenID](sctx, headPos),
		tail:  solidity.NewMapping[koby.Identity, koby.TokenID](sctx, tailPos),
		count: solidity.NewMapping[koby.Identity, uint64](sctx, countPos),
		next:  solidity.NewMapping[koby.TokenID, koby.TokenID](sctx, nextPos),
		prev:  solidity.NewMapping[koby.TokenID, koby.TokenID](sctx, prevPos),
	}
}

// Add appends token to the end of the staker's list.
func (l *stakerList) Add(staker koby.Identity, token koby.TokenID) error {
	if token.IsZero() {
		return errors.New("zero token id")
	}
	oldTail, err := l.tail.Get(staker)
	if err != nil {
		return err
	}

	if oldTail.IsZero() {
		// the list is currently empty, set this entry to head & tail
		if err := l.head.Set(staker, token); err != nil {
			return err
		}
	} else {
		if err := l.next.Set(oldTail, token); err != nil {
			return err
		}
		if err := l.prev.Set(token, oldTail); err != nil {
			return err
		}
	}
	if err := l.tail.Set(staker, token); err != nil {
		return err
	}
	return l.adjustCount(staker, 1)
}

// Remove unlinks token from the staker's list, tokens not in the list are ignored.
func (l *stakerList) Remove(staker koby.Identity, token koby.TokenID) error {
	if token.IsZero() {
		return nil
	}

	prev, err := l.prev.Get(token)
	if err != nil {
		return err
	}
	next, err := l.next.Get(token)
	if err != nil {
		return err
	}
	head, err := l.head.Get(staker)
	if err != nil {
		return err
	}

	if prev.IsZero() && head != token {
		return nil // not in list
	}

	if prev.IsZero() {
		if err := l.setOrClear(l.head, staker, next); err != nil {
			return err
		}
	} else if err := l.next.Set(prev, next); err != nil {
		return err
	}

	if next.IsZero() {
		if err := l.setOrClear(l.tail, staker, prev); err != nil {
			return err
		}
	} else if err := l.prev.Set(next, prev); err != nil {
		return err
	}

	// clear the removed node's pointers
	l.next.Delete(token)
	l.prev.Delete(token)

	return l.adjustCount(staker, -1)
}

func (l *stakerList) setOrClear(m *solidity.Mapping[koby.Identity, koby.TokenID], staker koby.Identity, token koby.TokenID) error {
	if token.IsZero() {
		m.Delete(staker)
		return nil
	}
	return m.Set(staker, token)
}

func (l *stakerList) adjustCount(staker koby.Identity, delta int) error {
	n, err := l.count.Get(staker)
	if err != nil {
		return err
	}
	switch {
	case delta > 0:
		n++
	case n == 0:
		return errors.New("count underflow")
	default:
		n--
	}
	if n == 0 {
		l.count.Delete(staker)
		return nil
	}
	return l.count.Set(staker, n)
}

// Len returns the number of tokens of the staker.
func (l *stakerList) Len(staker koby.Identity) (uint64, error) {
	return l.count.Get(staker)
}

// Iter traverses the staker's tokens in stake order, calling callback until completion or error.
func (l *stakerList) Iter(staker koby.Identity, callback func(koby.TokenID) error) error {
	ptr, err := l.head.Get(staker)
	if err != nil {
		return err
	}

	for !ptr.IsZero() {
		// read next first, callback may unlink ptr
		next, err := l.next.Get(ptr)
		if err != nil {
			return err
		}
		if err := callback(ptr); err != nil {
			return err
		}
		ptr = next
	}
	return nil
}
