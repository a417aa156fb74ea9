// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package relay

import (
	"math"
	"math/big"

	"github.com/vechain/gasless/metrics"
	"github.com/vechain/gasless/thor"
)

var (
	metricOperationCount    = metrics.LazyLoadCounterVec("relay_operations_count", []string{"outcome"})
	metricOperationGas      = metrics.LazyLoadHistogram("relay_operation_gas_used", metrics.BucketGas)
	metricOperationDuration = metrics.LazyLoadHistogram("relay_operation_duration_ms", metrics.BucketHTTPReqs)
	metricPaymasterDeposit  = metrics.LazyLoadGaugeVec("relay_paymaster_deposit_gwei", []string{"paymaster"})
)

var gwei = big.NewInt(1e9)

func recordOutcome(outcome string) {
	metricOperationCount().AddWithLabel(1, map[string]string{"outcome": outcome})
}

func recordDeposit(paymaster thor.Address, bal *big.Int) {
	v := new(big.Int).Quo(bal, gwei)
	if !v.IsInt64() {
		v.SetInt64(math.MaxInt64)
	}
	metricPaymasterDeposit().SetWithLabel(v.Int64(), map[string]string{"paymaster": paymaster.String()})
}
