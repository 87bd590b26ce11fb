// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/koby-labs/staking/koby"
)

// Uint64 is a wrapper for storage and retrieval of an uint64 slot.
type Uint64 struct {
	context *Context
	pos     koby.Bytes32
}

func NewUint64(context *Context, pos koby.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(storage[24:]), nil
}

func (u *Uint64) Set(value uint64) {
	var storage koby.Bytes32
	binary.BigEndian.PutUint64(storage[24:], value)
	u.context.state.SetStorage(u.context.address, u.pos, storage)
}

// Add adds delta to the stored value, failing on overflow.
func (u *Uint64) Add(delta uint64) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	if v+delta < v {
		return ErrOverflow
	}
	u.Set(v + delta)
	return nil
}

// Sub subtracts delta from the stored value, failing on underflow.
func (u *Uint64) Sub(delta uint64) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	if delta > v {
		return ErrUnderflow
	}
	u.Set(v - delta)
	return nil
}
