// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/api/utils"
	"github.com/koby-labs/staking/builtin"
	"github.com/koby-labs/staking/builtin/staking"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

// parseFilter builds the filter from query values name, staker, token, from, to, order, offset and limit.
func (e *Events) parseFilter(req *http.Request) (*logdb.EventFilter, error) {
	query := req.URL.Query()

	addr := builtin.Staking.Address
	criteria := &logdb.EventCriteria{Address: &addr}
	if name := query.Get("name"); name != "" {
		id := staking.EventID(name)
		criteria.Topics[0] = &id
	}
	if s := query.Get("staker"); s != "" {
		staker, err := koby.ParseIdentity(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "staker"))
		}
		topic := staking.IdentityTopic(staker)
		criteria.Topics[1] = &topic
	}
	if s := query.Get("token"); s != "" {
		token, err := koby.ParseTokenID(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "token"))
		}
		topic := koby.Bytes32(token)
		criteria.Topics[2] = &topic
	}
	filter := &logdb.EventFilter{CriteriaSet: []*logdb.EventCriteria{criteria}}

	from, err := utils.ParseUint(query.Get("from"), 0)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "from"))
	}
	to, err := utils.ParseUint(query.Get("to"), math.MaxInt64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "to"))
	}
	if from > to {
		return nil, utils.BadRequest(errors.New("to must be greater than or equal to from"))
	}
	filter.Range = &logdb.Range{From: from, To: to}

	switch order := strings.ToLower(query.Get("order")); order {
	case "", string(logdb.ASC):
		filter.Order = logdb.ASC
	case string(logdb.DESC):
		filter.Order = logdb.DESC
	default:
		return nil, utils.BadRequest(fmt.Errorf("order: invalid value %q", order))
	}

	offset, err := utils.ParseUint(query.Get("offset"), 0)
	if err != nil || offset > math.MaxInt64 {
		return nil, utils.BadRequest(errors.New("offset: invalid value"))
	}
	// one more than the limit to detect overflowing results
	limit := e.limit + 1
	if query.Has("limit") {
		if limit, err = utils.ParseUint(query.Get("limit"), 0); err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "limit"))
		}
		if limit > e.limit {
			return nil, utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
		}
	}
	filter.Options = &logdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) filter(ctx context.Context, filter *logdb.EventFilter) ([]*FilteredEvent, error) {
	events, err := e.db.FilterEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	fes := make([]*FilteredEvent, 0, len(events))
	for _, ev := range events {
		fe, err := ConvertEvent(ev)
		if err != nil {
			return nil, err
		}
		fes = append(fes, fe)
	}
	return fes, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	fes, err := e.filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if uint64(len(fes)) > e.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /logs/events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
