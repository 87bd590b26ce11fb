// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/xenv"
)

// Names of the ledger entry points.
const (
	MethodInitialize        = "initialize"
	MethodTransferOwnership = "transfer_ownership"
	MethodEmergencyPause    = "emergency_pause"
	MethodEmergencyUnpause  = "emergency_unpause"
	MethodSetRewardRate     = "set_reward_rate"
	MethodDepositRewards    = "deposit_rewards"
	MethodStake             = "stake_nft"
	MethodUnstake           = "unstake_nft"
	MethodBatchStake        = "batch_stake"
	MethodEmergencyWithdraw = "emergency_withdraw"
	MethodClaimRewards      = "claim_rewards"
)

// ErrUnknownMethod is returned by Invoke for names that are not entry points.
var ErrUnknownMethod = errors.New("unknown method")

// Args carries entry point arguments, each method reads the fields it takes.
type Args struct {
	Owner  koby.Identity  `json:"owner,omitzero"`
	Token  koby.TokenID   `json:"token,omitzero"`
	Tokens []koby.TokenID `json:"tokens,omitempty"`
	Amount uint64         `json:"amount,omitempty"`
	Rate   uint64         `json:"rate,omitempty"`
}

// Call is a request to run a named entry point.
type Call struct {
	Method string        `json:"method"`
	Caller koby.Identity `json:"caller"`
	Time   uint64        `json:"time"`
	Args   Args          `json:"args"`
}

type method struct {
	name string
	run  func(env *xenv.Environment, args *Args) (any, error)
}

var methods = make(map[string]*method)

func init() {
	defines := []method{
		{MethodInitialize, func(env *xenv.Environment, args *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).Initialize(args.Owner)
		}},
		{MethodTransferOwnership, func(env *xenv.Environment, args *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).TransferOwnership(env.Caller(), args.Owner)
		}},
		{MethodEmergencyPause, func(env *xenv.Environment, _ *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).EmergencyPause(env.Caller())
		}},
		{MethodEmergencyUnpause, func(env *xenv.Environment, _ *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).EmergencyUnpause(env.Caller())
		}},
		{MethodSetRewardRate, func(env *xenv.Environment, args *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).SetRewardRate(env.Caller(), args.Rate)
		}},
		{MethodDepositRewards, func(env *xenv.Environment, args *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).DepositRewards(env.Caller(), args.Amount)
		}},
		{MethodStake, func(env *xenv.Environment, args *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).Stake(env.Caller(), args.Token, env.Time())
		}},
		{MethodUnstake, func(env *xenv.Environment, args *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).Unstake(env.Caller(), args.Token, env.Time())
		}},
		{MethodBatchStake, func(env *xenv.Environment, args *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).BatchStake(env.Caller(), args.Tokens, env.Time())
		}},
		{MethodEmergencyWithdraw, func(env *xenv.Environment, args *Args) (any, error) {
			return nil, builtin.Staking.WithState(env.State()).EmergencyWithdraw(env.Caller(), args.Token)
		}},
		{MethodClaimRewards, func(env *xenv.Environment, _ *Args) (any, error) {
			amount, err := builtin.Staking.WithState(env.State()).ClaimRewards(env.Caller(), env.Time())
			if err != nil {
				return nil, err
			}
			return amount, nil
		}},
	}
	for i := range defines {
		methods[defines[i].name] = &defines[i]
	}
}

// Methods returns the names of all entry points.
func Methods() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	return names
}

// Invoke runs the named entry point.
func (rt *Runtime) Invoke(call *Call) (*Receipt, error) {
	m, ok := methods[call.Method]
	if !ok {
		return nil, errors.Wrap(ErrUnknownMethod, call.Method)
	}
	args := call.Args
	return rt.Exec(&xenv.CallContext{
		Method: call.Method,
		Caller: call.Caller,
		Time:   call.Time,
	}, func(env *xenv.Environment) (any, error) {
		return m.run(env, &args)
	})
}

func (rt *Runtime) Initialize(caller, owner koby.Identity, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodInitialize, Caller: caller, Time: now, Args: Args{Owner: owner}})
}

func (rt *Runtime) TransferOwnership(caller, newOwner koby.Identity, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodTransferOwnership, Caller: caller, Time: now, Args: Args{Owner: newOwner}})
}

func (rt *Runtime) EmergencyPause(caller koby.Identity, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodEmergencyPause, Caller: caller, Time: now})
}

func (rt *Runtime) EmergencyUnpause(caller koby.Identity, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodEmergencyUnpause, Caller: caller, Time: now})
}

func (rt *Runtime) SetRewardRate(caller koby.Identity, bps, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodSetRewardRate, Caller: caller, Time: now, Args: Args{Rate: bps}})
}

func (rt *Runtime) DepositRewards(caller koby.Identity, amount, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodDepositRewards, Caller: caller, Time: now, Args: Args{Amount: amount}})
}

func (rt *Runtime) Stake(caller koby.Identity, token koby.TokenID, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodStake, Caller: caller, Time: now, Args: Args{Token: token}})
}

func (rt *Runtime) Unstake(caller koby.Identity, token koby.TokenID, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodUnstake, Caller: caller, Time: now, Args: Args{Token: token}})
}

func (rt *Runtime) BatchStake(caller koby.Identity, tokens []koby.TokenID, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodBatchStake, Caller: caller, Time: now, Args: Args{Tokens: tokens}})
}

func (rt *Runtime) EmergencyWithdraw(caller koby.Identity, token koby.TokenID, now uint64) (*Receipt, error) {
	return rt.Invoke(&Call{Method: MethodEmergencyWithdraw, Caller: caller, Time: now, Args: Args{Token: token}})
}

// ClaimRewards returns the claimed amount along with the receipt.
func (rt *Runtime) ClaimRewards(caller koby.Identity, now uint64) (uint64, *Receipt, error) {
	receipt, err := rt.Invoke(&Call{Method: MethodClaimRewards, Caller: caller, Time: now})
	if err != nil {
		return 0, nil, err
	}
	return receipt.Output.(uint64), receipt, nil
}
