// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/koby-labs/staking/api/calls"
	"github.com/koby-labs/staking/api/events"
	"github.com/koby-labs/staking/api/staking"
	"github.com/koby-labs/staking/api/subscriptions"
	"github.com/koby-labs/staking/log"
	"github.com/koby-labs/staking/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	LogsLimit       uint64
	BacktraceLimit  uint64
	EnableReqLogger bool
	EnableMetrics   bool
	// DevMode exposes the unauthenticated /calls endpoint.
	DevMode bool
	// Clock supplies the current unix time in seconds, defaults to the wall clock.
	Clock func() uint64
}

func wallClock() uint64 {
	return uint64(time.Now().Unix())
}

// New return api router
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	clock := opts.Clock
	if clock == nil {
		clock = wallClock
	}

	router := mux.NewRouter()

	staking.New(rt, clock).
		Mount(router, "/staking")
	events.New(rt.LogDB(), opts.LogsLimit).
		Mount(router, "/logs/events")
	subs := subscriptions.New(rt, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.DevMode {
		calls.New(rt, clock).
			Mount(router, "/calls")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
