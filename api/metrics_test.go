// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/gasless/api/operations"
	"github.com/vechain/gasless/builtin"
	"github.com/vechain/gasless/metrics"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
)

func labelsOf(m *dto.Metric) map[string]string {
	labels := make(map[string]string)
	for _, l := range m.GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	return labels
}

func TestMetricsMiddleware(t *testing.T) {
	ts := initServer(t, Options{EnableMetrics: true})
	promServer := httptest.NewServer(metrics.HTTPHandler())
	t.Cleanup(promServer.Close)

	_, code := httpGet(t, ts.URL+"/paymasters/"+paymasterAddr.String())
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/paymasters/0xinvalid")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/paymasters/"+userA.String())
	assert.Equal(t, http.StatusNotFound, code)

	op := &userop.UserOperation{
		Target:               thor.CounterAddress,
		CallData:             builtin.Counter.MustEncodeInput("increment"),
		CallGasLimit:         100000,
		VerificationGasLimit: 100000,
		MaxFeePerGas:         big.NewInt(1),
		MaxPriorityFeePerGas: big.NewInt(1),
		PaymasterAndData:     paymasterAddr.Bytes(),
	}
	_, code = httpPost(t, ts.URL+"/operations", &operations.Submission{Operation: op, Submitter: &userA})
	assert.Equal(t, http.StatusOK, code)

	body, _ := httpGet(t, promServer.URL)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	requests := families["gasless_api_request_count"].GetMetric()
	require.Len(t, requests, 4)
	counts := make(map[string]float64)
	for _, m := range requests {
		labels := labelsOf(m)
		assert.Len(t, labels, 3)
		counts[labels["name"]+":"+labels["method"]+":"+labels["code"]] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"paymasters_get_paymaster:GET:200": 1,
		"paymasters_get_paymaster:GET:400": 1,
		"paymasters_get_paymaster:GET:404": 1,
		"operations_submit:POST:200":       1,
	}, counts)

	outcomes := families["gasless_relay_operations_count"].GetMetric()
	require.Len(t, outcomes, 1)
	assert.Equal(t, map[string]string{"outcome": "executed"}, labelsOf(outcomes[0]))
	assert.Equal(t, float64(1), outcomes[0].GetCounter().GetValue())

	deposits := families["gasless_relay_paymaster_deposit_gwei"].GetMetric()
	require.Len(t, deposits, 1)
	assert.Equal(t, paymasterAddr.String(), labelsOf(deposits[0])["paymaster"])
}
