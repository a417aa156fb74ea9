// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// Gas schedule of builtin contracts.
const (
	SloadGas       uint64 = params.SloadGasEIP2200 // 800
	SstoreSetGas   uint64 = params.SstoreSetGas    // 20000
	SstoreResetGas uint64 = params.SstoreResetGas  // 5000
	CallGas        uint64 = 700
	LogGas         uint64 = params.LogGas      // 375
	LogTopicGas    uint64 = params.LogTopicGas // 375
	LogDataGas     uint64 = params.LogDataGas  // 8
)

// Default relay parameters.
const (
	DefaultMinUnstakeDelaySec uint64 = 60
	// DefaultMinPaymasterStake 1 wei, matching a freshly deployed EntryPoint.
	DefaultMinPaymasterStake uint64 = 1
	DefaultAPIAddr                  = "localhost:8669"
	DefaultMetricsAddr              = "localhost:2112"
)

var (
	// DefaultBaseFee zero means the priority fee alone prices gas.
	DefaultBaseFee = big.NewInt(0)
)

// Addresses of builtin contracts.
var (
	EntryPointAddress = CreateContractAddress("EntryPoint")
	CounterAddress    = CreateContractAddress("Counter")
)
