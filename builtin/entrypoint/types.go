// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entrypoint

import (
	"math/big"

	"github.com/vechain/gasless/thor"
)

// StakeInfo is the stake a paymaster locked in the EntryPoint.
type StakeInfo struct {
	Amount          *big.Int
	UnstakeDelaySec uint64
}

// IsEmpty returns true if nothing is staked.
func (s *StakeInfo) IsEmpty() bool {
	return s == nil || s.Amount == nil || s.Amount.Sign() == 0
}

// ExecutionResult is the outcome of a settled operation.
// A reverted target call is reported with Success false and the revert data in ReturnData.
type ExecutionResult struct {
	Paymaster         thor.Address
	Success           bool
	ReturnData        []byte
	ValidationGasUsed uint64
	ActualGasUsed     uint64
	ActualGasCost     *big.Int
}

// ValidationResult is the outcome of a simulated validation.
type ValidationResult struct {
	Paymaster         thor.Address
	PreFund           *big.Int
	ValidationGasUsed uint64
}
