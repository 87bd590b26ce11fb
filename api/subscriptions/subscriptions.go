// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/api/events"
	"github.com/koby-labs/staking/api/utils"
	"github.com/koby-labs/staking/log"
	"github.com/koby-labs/staking/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	readBatch  = 100
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

// Subscriptions streams ledger events over websocket as calls commit.
type Subscriptions struct {
	rt             *runtime.Runtime
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	closeOnce      sync.Once
	wg             sync.WaitGroup
}

func New(rt *runtime.Runtime, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		rt:             rt,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if slices.Contains(allowedOrigins, "*") {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return slices.Contains(allowedOrigins, strings.ToLower(u.Scheme+"://"+u.Host)) ||
					slices.Contains(allowedOrigins, strings.ToLower(u.Host))
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	head, err := s.rt.LogDB().MaxSeq()
	if err != nil {
		return err
	}
	pos, err := utils.ParseUint(req.URL.Query().Get("pos"), head)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if pos+s.backtraceLimit < head {
		return utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has responded already
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	if err := s.pipe(req, conn, pos); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	return nil
}

func (s *Subscriptions) pipe(req *http.Request, conn *websocket.Conn, pos uint64) error {
	// the read loop only notices the peer going away, clients send nothing
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		committed := s.rt.Committed()
		evs, err := s.rt.LogDB().EventsAfter(req.Context(), pos, readBatch)
		if err != nil {
			return err
		}
		for _, ev := range evs {
			fe, err := events.ConvertEvent(ev)
			if err != nil {
				return err
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(fe); err != nil {
				return err
			}
			pos = ev.Seq
		}
		if len(evs) == readBatch {
			continue
		}

		select {
		case <-committed:
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-closed:
			return nil
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return nil
		}
	}
}

// Close ends all subscriptions. Hijacked connections are not tracked by http.Server.Shutdown.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
