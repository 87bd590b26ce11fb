// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/api/calls"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/log"
	"github.com/koby-labs/staking/metrics"
	"github.com/koby-labs/staking/runtime"
	"github.com/koby-labs/staking/test/testledger"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func initServer(t *testing.T, opts Options) (*testledger.Ledger, *httptest.Server) {
	ledger, err := testledger.New()
	require.NoError(t, err)

	opts.Clock = func() uint64 { return testledger.GenesisTime }
	handler, closer := New(ledger.Runtime, opts)
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closer()
		ts.Close()
		ledger.Close()
	})
	return ledger, ts
}

func httpDo(t *testing.T, method, url string, body io.Reader) ([]byte, *http.Response) {
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res
}

func stakeBody(t *testing.T, caller koby.Identity) io.Reader {
	data, err := json.Marshal(&calls.Request{
		Method: runtime.MethodStake,
		Caller: caller,
		Args:   runtime.Args{Token: koby.NumberToTokenID(1)},
	})
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestRoutes(t *testing.T) {
	_, ts := initServer(t, Options{AllowedOrigins: "*", LogsLimit: 100})

	_, res := httpDo(t, http.MethodGet, ts.URL+"/staking", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body, res := httpDo(t, http.MethodGet, ts.URL+"/logs/events?name=OwnershipTransferred", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var evs []json.RawMessage
	require.NoError(t, json.Unmarshal(body, &evs))
	assert.Len(t, evs, 1)

	_, res = httpDo(t, http.MethodGet, ts.URL+"/unknown", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCallsOnlyInDevMode(t *testing.T) {
	ledger, ts := initServer(t, Options{AllowedOrigins: "*"})
	_, res := httpDo(t, http.MethodPost, ts.URL+"/calls", stakeBody(t, ledger.Holder(0)))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	ledger, ts = initServer(t, Options{AllowedOrigins: "*", DevMode: true})
	body, res := httpDo(t, http.MethodPost, ts.URL+"/calls", stakeBody(t, ledger.Holder(0)))
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	var receipt calls.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, testledger.GenesisTime, receipt.Time)
	assert.Equal(t, ledger.Holder(0), receipt.Caller)
}

func TestCORS(t *testing.T) {
	_, ts := initServer(t, Options{AllowedOrigins: "http://wallet.local"})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/staking", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://wallet.local")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "http://wallet.local", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://elsewhere.local")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(log.JSONHandler(&buf))

	handler := RequestLoggerHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "test body", string(body), "body still readable downstream")
		w.WriteHeader(http.StatusAccepted)
	}), logger)

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("test body"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	id := rec.Header().Get(requestIDHeader)
	assert.NotEmpty(t, id)
	assert.Contains(t, buf.String(), `"URI":"/test"`)
	assert.Contains(t, buf.String(), `"Body":"test body"`)
	assert.Contains(t, buf.String(), id)

	// a valid incoming id is kept, an invalid one replaced
	idHandler := RequestLoggerHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), logger)

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	idHandler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	idHandler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	newID := rec.Header().Get(requestIDHeader)
	assert.NotEmpty(t, newID)
	assert.NotEqual(t, "not-a-uuid", newID)
}

func TestMetricsMiddleware(t *testing.T) {
	ledger, err := testledger.New()
	require.NoError(t, err)
	defer ledger.Close()

	router := mux.NewRouter()
	handler, closer := New(ledger.Runtime, Options{AllowedOrigins: "*", EnableMetrics: true})
	defer closer()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.PathPrefix("/").Handler(handler)
	ts := httptest.NewServer(router)
	defer ts.Close()

	httpDo(t, http.MethodGet, ts.URL+"/staking", nil)
	httpDo(t, http.MethodGet, ts.URL+"/staking", nil)
	_, res := httpDo(t, http.MethodGet, ts.URL+"/staking/tokens/abc", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	httpDo(t, http.MethodGet, ts.URL+"/nothing-here", nil)

	body, _ := httpDo(t, http.MethodGet, ts.URL+"/metrics", nil)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	family := families["koby_api_request_count"]
	require.NotNil(t, family)
	counts := make(map[string]float64)
	for _, m := range family.GetMetric() {
		labels := make(map[string]string)
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, "GET", labels["method"])
		counts[labels["name"]+" "+labels["code"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"GET /staking 200":             2,
		"GET /staking/tokens/{id} 400": 1,
	}, counts)
	assert.NotNil(t, families["koby_api_duration_ms"])
}
