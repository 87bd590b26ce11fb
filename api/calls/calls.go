// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calls

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/api/events"
	"github.com/koby-labs/staking/api/utils"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/runtime"
)

// Request runs Method as Caller. The call time is the server clock.
type Request struct {
	Method string        `json:"method"`
	Caller koby.Identity `json:"caller"`
	Args   runtime.Args  `json:"args"`
}

type Receipt struct {
	Method string                  `json:"method"`
	Caller koby.Identity           `json:"caller"`
	Time   uint64                  `json:"time"`
	Output json.RawMessage         `json:"output,omitempty"`
	Events []*events.FilteredEvent `json:"events"`
}

// Calls executes entry points on behalf of the identity named in the request.
// Callers are not authenticated, so it is only mounted in dev mode.
type Calls struct {
	rt    *runtime.Runtime
	clock func() uint64
}

func New(rt *runtime.Runtime, clock func() uint64) *Calls {
	return &Calls{rt, clock}
}

func convertReceipt(r *runtime.Receipt) (*Receipt, error) {
	receipt := &Receipt{
		Method: r.Method,
		Caller: r.Caller,
		Time:   r.Time,
		Events: make([]*events.FilteredEvent, 0, len(r.Logs)),
	}
	if r.Output != nil {
		out, err := json.Marshal(r.Output)
		if err != nil {
			return nil, err
		}
		receipt.Output = out
	}
	for _, l := range r.Logs {
		fe, err := events.ConvertEvent(l)
		if err != nil {
			return nil, err
		}
		receipt.Events = append(receipt.Events, fe)
	}
	return receipt, nil
}

func (c *Calls) handleCall(w http.ResponseWriter, req *http.Request) error {
	var body Request
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller.IsZero() {
		return utils.BadRequest(errors.New("caller: required"))
	}

	receipt, err := c.rt.Invoke(&runtime.Call{
		Method: body.Method,
		Caller: body.Caller,
		Time:   c.clock(),
		Args:   body.Args,
	})
	if err != nil {
		if errors.Is(err, runtime.ErrUnknownMethod) {
			return utils.BadRequest(err)
		}
		return utils.CallError(err)
	}

	out, err := convertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Calls) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /calls").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCall))
}
