// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/koby-labs/staking/builtin"
	"github.com/koby-labs/staking/builtin/staking"
	"github.com/koby-labs/staking/builtin/staking/reverts"
	"github.com/koby-labs/staking/co"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/log"
	"github.com/koby-labs/staking/logdb"
	"github.com/koby-labs/staking/metrics"
	"github.com/koby-labs/staking/state"
	"github.com/koby-labs/staking/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricCallCount    = metrics.LazyLoadCounterVec("staking_calls_count", []string{"method", "status"})
	metricCallDuration = metrics.LazyLoadHistogramVec("staking_call_duration_ms", []string{"method"}, metrics.Bucket10s)
	metricTotalStaked  = metrics.LazyLoadGauge("staking_total_staked")
	metricRewardPool   = metrics.LazyLoadGauge("staking_reward_pool")
)

// Receipt is the outcome of a committed call.
type Receipt struct {
	Method string
	Caller koby.Identity
	Time   uint64
	Output any
	Events []staking.Event
	Logs   []*logdb.Event
}

// Runtime executes entry points against the committed ledger state, one at a time.
type Runtime struct {
	mu      sync.RWMutex
	stater  *state.Stater
	logDB   *logdb.LogDB
	commits co.Signal
}

// New create a Runtime object.
func New(stater *state.Stater, logDB *logdb.LogDB) *Runtime {
	return &Runtime{
		stater: stater,
		logDB:  logDB,
	}
}

func (rt *Runtime) LogDB() *logdb.LogDB { return rt.logDB }

// Committed returns a channel closed when the next call commits.
func (rt *Runtime) Committed() <-chan struct{} { return rt.commits.C() }

// View runs fn against the ledger over the committed state. Changes fn makes are discarded.
func (rt *Runtime) View(fn func(ledger *staking.Staking) error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	return fn(builtin.Staking.WithState(rt.stater.NewState()))
}

// Exec runs proc as one atomic call. The state changes and logs of proc are
// committed only when it returns without error.
func (rt *Runtime) Exec(callCtx *xenv.CallContext, proc func(env *xenv.Environment) (any, error)) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	receipt, err := rt.exec(callCtx, proc)

	status := "ok"
	if err != nil {
		if reverts.IsRevertErr(err) {
			status = "reverted"
		} else {
			status = "failed"
		}
	}
	metricCallCount().AddWithLabel(1, map[string]string{"method": callCtx.Method, "status": status})
	metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"method": callCtx.Method})
	return receipt, err
}

func (rt *Runtime) exec(callCtx *xenv.CallContext, proc func(env *xenv.Environment) (any, error)) (*Receipt, error) {
	st := rt.stater.NewState()
	output, err := xenv.New(st, callCtx).Call(proc)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Method: callCtx.Method,
		Caller: callCtx.Caller,
		Time:   callCtx.Time,
		Output: output,
	}
	for _, l := range st.Logs() {
		ev, err := staking.DecodeEvent(l)
		if err != nil {
			return nil, errors.WithMessage(err, "decode call log")
		}
		receipt.Events = append(receipt.Events, ev)
		receipt.Logs = append(receipt.Logs, logdb.NewEvent(callCtx.Time, callCtx.Caller, callCtx.Method, ev.Name(), l))
	}

	if err := rt.stater.Commit(st); err != nil {
		logger.Error("failed to commit state", "method", callCtx.Method, "err", err)
		return nil, errors.WithMessage(err, "commit state")
	}
	// seq numbers are assigned here, state is already durable
	if err := rt.logDB.Insert(receipt.Logs); err != nil {
		logger.Error("failed to write logs", "method", callCtx.Method, "err", err)
		return nil, errors.WithMessage(err, "write logs")
	}
	rt.updateGauges(st)
	rt.commits.Broadcast()

	logger.Trace("call committed", "method", callCtx.Method, "caller", callCtx.Caller, "time", callCtx.Time, "events", len(receipt.Events))
	return receipt, nil
}

func (rt *Runtime) updateGauges(st *state.State) {
	if metrics.NoOp() {
		return
	}
	ledger := builtin.Staking.WithState(st)
	if total, err := ledger.GetTotalStaked(); err == nil {
		metricTotalStaked().Set(int64(total))
	}
	if pool, err := ledger.GetRewardPool(); err == nil {
		metricRewardPool().Set(int64(pool))
	}
}
