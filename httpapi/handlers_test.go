package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famewire/famestock-server/exchange"
	"github.com/famewire/famestock-server/store"
)

func newTestServer() *httptest.Server {
	st := store.NewMemStore()
	ex := exchange.NewExchange(st, "operator", nil)
	return httptest.NewServer(NewMux(ex, nil))
}

func do(t *testing.T, server *httptest.Server, method, path, account, body string) (*http.Response, map[string]interface{}) {
	req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if account != "" {
		req.Header.Set("X-Account-Id", account)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestAuctionFlowOverHTTP(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, stock := do(t, server, "POST", "/stocks", "alice", `{"ticker":"ALC"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ALC", stock["ticker"])
	assert.Equal(t, float64(1), stock["id"])

	// Only the influencer may start the auction.
	resp, body := do(t, server, "POST", "/stocks/1/auction/start", "mallory", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "unauthorized", body["error"])

	resp, _ = do(t, server, "POST", "/stocks/1/auction/start", "alice", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A bid below the minimum is rejected with its own error class.
	resp, body = do(t, server, "POST", "/stocks/1/bids", "anna",
		`{"price_per_share":0,"shares":100,"payment":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bid_too_low", body["error"])

	resp, body = do(t, server, "POST", "/stocks/1/bids", "anna",
		`{"price_per_share":10,"shares":100,"payment":1000}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(2), body["bid_id"])

	// The operator ends the auction; anna's bid becomes a balance.
	resp, _ = do(t, server, "POST", "/stocks/1/auction/end", "operator", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, server, "GET", "/stocks/1", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest("GET", server.URL+"/accounts/anna/shares", nil)
	require.NoError(t, err)
	sharesResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer sharesResp.Body.Close()

	var shares []map[string]interface{}
	require.NoError(t, json.NewDecoder(sharesResp.Body).Decode(&shares))
	require.Len(t, shares, 1)
	assert.Equal(t, float64(100), shares[0]["no_of_shares"])
}

func TestErrorMapping(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, body := do(t, server, "GET", "/stocks/99", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["error"])

	resp, body = do(t, server, "POST", "/stocks", "alice", `{"ticker":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_input", body["error"])

	resp, body = do(t, server, "POST", "/stocks/notanumber/bids", "anna", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_input", body["error"])

	// Trading before the secondary market opens is a state conflict.
	_, _ = do(t, server, "POST", "/stocks", "alice", `{"ticker":"ALC"}`)
	resp, body = do(t, server, "POST", "/stocks/1/orders/buy", "carol",
		`{"price_per_share":10,"shares":10,"payment":100}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "state_conflict", body["error"])
}
