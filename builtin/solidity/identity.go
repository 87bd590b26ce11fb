// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/koby-labs/staking/koby"
)

// Identity is a wrapper for storage and retrieval of an identity.
// The zero identity clears the slot.
type Identity struct {
	context *Context
	pos     koby.Bytes32
}

func NewIdentity(context *Context, pos koby.Bytes32) *Identity {
	return &Identity{context: context, pos: pos}
}

func (i *Identity) Get() (id koby.Identity, err error) {
	err = i.context.state.DecodeStorage(i.context.address, i.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &id)
	})
	return
}

func (i *Identity) Set(id koby.Identity) error {
	if id.IsZero() {
		i.context.state.SetRawStorage(i.context.address, i.pos, nil)
		return nil
	}
	return i.context.state.EncodeStorage(i.context.address, i.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(&id)
	})
}
