// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/state"
)

// Context binds storage wrappers of a built-in contract to its address and the state of the current call.
type Context struct {
	address koby.Bytes32
	state   *state.State
}

func NewContext(address koby.Bytes32, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() koby.Bytes32 {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
