// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calls

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/builtin/staking"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/runtime"
	"github.com/koby-labs/staking/test/testledger"
)

func initServer(t *testing.T, clock *uint64) (*testledger.Ledger, *httptest.Server) {
	ledger, err := testledger.New()
	require.NoError(t, err)

	router := mux.NewRouter()
	New(ledger.Runtime, func() uint64 { return *clock }).Mount(router, "/calls")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		ledger.Close()
	})
	return ledger, ts
}

func post(t *testing.T, ts *httptest.Server, body any) (*Receipt, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+"/calls", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, res.StatusCode
	}
	var receipt Receipt
	require.NoError(t, json.NewDecoder(res.Body).Decode(&receipt))
	return &receipt, res.StatusCode
}

func TestStakeAndClaim(t *testing.T) {
	clock := testledger.GenesisTime
	ledger, ts := initServer(t, &clock)
	holder := ledger.Holder(0)
	token := koby.NumberToTokenID(2)

	receipt, code := post(t, ts, &Request{
		Method: runtime.MethodStake,
		Caller: holder,
		Args:   runtime.Args{Token: token},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, clock, receipt.Time)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "Staked", receipt.Events[0].Name)
	assert.Equal(t, uint64(4), receipt.Events[0].Seq)

	clock += staking.SecondsPerYear
	receipt, code = post(t, ts, &Request{Method: runtime.MethodClaimRewards, Caller: holder})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "1000", string(receipt.Output))
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "RewardClaimed", receipt.Events[0].Name)
}

func TestCallErrors(t *testing.T) {
	clock := testledger.GenesisTime
	ledger, ts := initServer(t, &clock)
	holder := ledger.Holder(0)

	_, code := post(t, ts, &Request{Method: runtime.MethodEmergencyPause, Caller: holder})
	assert.Equal(t, http.StatusForbidden, code)

	_, code = post(t, ts, &Request{Method: "mint", Caller: holder})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = post(t, ts, &Request{Method: runtime.MethodStake})
	assert.Equal(t, http.StatusBadRequest, code, "caller required")

	_, code = post(t, ts, map[string]any{"method": runtime.MethodStake, "caller": holder, "gas": 1})
	assert.Equal(t, http.StatusBadRequest, code, "unknown field")

	_, code = post(t, ts, &Request{Method: runtime.MethodStake, Caller: holder, Args: runtime.Args{Token: koby.NumberToTokenID(11)}})
	assert.Equal(t, http.StatusBadRequest, code, "token of another holder")

	_, code = post(t, ts, &Request{Method: runtime.MethodSetRewardRate, Caller: ledger.Owner(), Args: runtime.Args{Rate: 1001}})
	assert.Equal(t, http.StatusBadRequest, code)
}
