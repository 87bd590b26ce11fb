// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koby-labs/staking/builtin/staking"
	"github.com/koby-labs/staking/koby"
	"github.com/koby-labs/staking/test/testledger"
)

const logsLimit = 4

func initServer(t *testing.T) (*testledger.Ledger, *httptest.Server) {
	ledger, err := testledger.New()
	require.NoError(t, err)

	// genesis logs seq 1 to 3, then two stakes
	_, err = ledger.Stake(ledger.Holder(0), koby.NumberToTokenID(1), testledger.GenesisTime+10)
	require.NoError(t, err)
	_, err = ledger.Stake(ledger.Holder(1), koby.NumberToTokenID(11), testledger.GenesisTime+20)
	require.NoError(t, err)

	router := mux.NewRouter()
	New(ledger.LogDB(), logsLimit).Mount(router, "/logs/events")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		ledger.Close()
	})
	return ledger, ts
}

func filter(t *testing.T, ts *httptest.Server, query string) ([]*FilteredEvent, int) {
	res, err := http.Get(ts.URL + "/logs/events?" + query) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	var fes []*FilteredEvent
	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&fes))
	}
	return fes, res.StatusCode
}

func seqs(fes []*FilteredEvent) []uint64 {
	out := []uint64{}
	for _, fe := range fes {
		out = append(out, fe.Seq)
	}
	return out
}

func TestFilter(t *testing.T) {
	ledger, ts := initServer(t)

	tests := []struct {
		name  string
		query string
		want  []uint64
	}{
		{"by name", "name=Staked", []uint64{4, 5}},
		{"by staker", "staker=" + ledger.Holder(0).String(), []uint64{4}},
		{"by token", "token=11", []uint64{5}},
		{"by time", fmt.Sprintf("from=%d&to=%d", testledger.GenesisTime+15, testledger.GenesisTime+25), []uint64{5}},
		{"paged desc", "order=desc&offset=1&limit=2", []uint64{4, 3}},
		{"no match", "name=Unstaked", []uint64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fes, code := filter(t, ts, tt.query)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.want, seqs(fes))
		})
	}
}

func TestFilteredEventPayload(t *testing.T) {
	ledger, ts := initServer(t)

	fes, code := filter(t, ts, "token=1")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, fes, 1)

	fe := fes[0]
	assert.Equal(t, "Staked", fe.Name)
	assert.Equal(t, "stake_nft", fe.Method)
	assert.Equal(t, ledger.Holder(0), fe.Caller)
	assert.Equal(t, testledger.GenesisTime+10, fe.Time)
	require.Len(t, fe.Topics, 3)
	assert.Equal(t, staking.EventID("Staked"), *fe.Topics[0])

	var ev staking.Staked
	require.NoError(t, json.Unmarshal(fe.Event, &ev))
	assert.Equal(t, staking.Staked{Token: koby.NumberToTokenID(1), Staker: ledger.Holder(0)}, ev)
}

func TestFilterLimits(t *testing.T) {
	_, ts := initServer(t)

	_, code := filter(t, ts, "")
	assert.Equal(t, http.StatusForbidden, code, "five logs exceed the limit")

	_, code = filter(t, ts, "limit=5")
	assert.Equal(t, http.StatusForbidden, code)

	fes, code := filter(t, ts, "limit=4")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, fes, 4)

	for _, query := range []string{"order=up", "from=9&to=1", "staker=bad", "token=0xzz", "offset=-1"} {
		_, code = filter(t, ts, query)
		assert.Equal(t, http.StatusBadRequest, code, query)
	}
}
