// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/gasless/api/doc"
	"github.com/vechain/gasless/config"
	"github.com/vechain/gasless/genesis"
	"github.com/vechain/gasless/lvldb"
	"github.com/vechain/gasless/metrics"
	"github.com/vechain/gasless/relay"
	"github.com/vechain/gasless/thor"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

var (
	owner         = thor.BytesToAddress([]byte("owner"))
	userA         = thor.BytesToAddress([]byte("userA"))
	paymasterAddr = thor.BytesToAddress([]byte("paymaster"))
)

func newRelay(t *testing.T) *relay.Relay {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Default()
	cfg.Paymasters = []config.Paymaster{{
		Address:   paymasterAddr,
		Owner:     owner,
		Stake:     &config.Stake{Amount: (*ethmath.HexOrDecimal256)(big.NewInt(2e16)), UnstakeDelaySec: 3600},
		Deposit:   (*ethmath.HexOrDecimal256)(big.NewInt(1e16)),
		Whitelist: []thor.Address{userA},
	}}
	_, err = genesis.Init(relay.StateStore(db), cfg)
	require.NoError(t, err)
	r, err := relay.New(db, relay.Options{})
	require.NoError(t, err)
	return r
}

func initServer(t *testing.T, opts Options) *httptest.Server {
	ts := httptest.NewServer(New(newRelay(t), opts))
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func TestInfo(t *testing.T) {
	ts := initServer(t, Options{AllowedOrigins: "*"})

	res, err := http.Get(ts.URL + "/info")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, doc.Version(), res.Header.Get("x-gasless-ver"))

	var info Info
	require.NoError(t, json.NewDecoder(res.Body).Decode(&info))
	assert.Equal(t, Info{Version: doc.Version(), EntryPoint: thor.EntryPointAddress, BaseFee: "0"}, info)
}

func TestDoc(t *testing.T) {
	ts := initServer(t, Options{})

	body, code := httpGet(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, code, "redirected to the open api spec")
	assert.Contains(t, string(body), "openapi: 3.0.0")
}

func TestCORS(t *testing.T) {
	ts := initServer(t, Options{AllowedOrigins: "http://example.com"})

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/info", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "http://example.com", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://other.com")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}
