// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entrypoint

import (
	"fmt"
	"math/big"

	"github.com/vechain/gasless/thor"
)

// Reasons of FailedOp raised by the pipeline itself.
const (
	ReasonInsufficientFunds     = "insufficient stake or deposit"
	ReasonValidationOutOfGas    = "paymaster validation out of gas"
	ReasonValidationReverted    = "paymaster validation reverted"
	ReasonInvalidPaymasterReply = "invalid paymaster reply"
)

// FailedOpError rejects an operation during solvency or eligibility checks.
// No state is mutated by a rejected operation.
type FailedOpError struct {
	Paymaster thor.Address
	Reason    string
}

func (e *FailedOpError) Error() string {
	return fmt.Sprintf("failed op: paymaster %v: %s", e.Paymaster, e.Reason)
}

// AccountingInvariantError is raised when settlement would drive a deposit negative.
// The whole operation is unwound.
type AccountingInvariantError struct {
	Paymaster  thor.Address
	Balance    *big.Int
	ActualCost *big.Int
}

func (e *AccountingInvariantError) Error() string {
	return fmt.Sprintf("accounting invariant violated: paymaster %v balance %v below cost %v", e.Paymaster, e.Balance, e.ActualCost)
}
