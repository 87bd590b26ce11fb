// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/state"
)

// CallContext describes one external call into the ledger.
type CallContext struct {
	Method string
	Caller koby.Identity
	Time   uint64
}

type callError struct {
	cause error
}

// Environment an env to execute native method.
type Environment struct {
	state   *state.State
	callCtx *CallContext
}

// New create a new env.
func New(state *state.State, callCtx *CallContext) *Environment {
	return &Environment{
		state:   state,
		callCtx: callCtx,
	}
}

func (env *Environment) State() *state.State       { return env.state }
func (env *Environment) CallContext() *CallContext { return env.callCtx }
func (env *Environment) Method() string            { return env.callCtx.Method }
func (env *Environment) Caller() koby.Identity     { return env.callCtx.Caller }
func (env *Environment) Time() uint64              { return env.callCtx.Time }

// Require stops the call with err unless cond holds.
func (env *Environment) Require(cond bool, err error) {
	if !cond {
		env.Stop(err)
	}
}

// Stop aborts the running call with err.
func (env *Environment) Stop(err error) {
	panic(&callError{err})
}

// Call runs proc inside the env. Errors passed to Stop surface as the returned error,
// any other panic propagates.
func (env *Environment) Call(proc func(env *Environment) (any, error)) (output any, err error) {
	defer func() {
		if e := recover(); e != nil {
			if rec, ok := e.(*callError); ok {
				output, err = nil, rec.cause
			} else {
				panic(e)
			}
		}
	}()
	return proc(env)
}
