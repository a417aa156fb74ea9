// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entrypoint

import (
	"errors"
	"math/big"

	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
	"github.com/vechain/gasless/xenv"
)

// Calls performs the message calls the pipeline makes on behalf of the EntryPoint.
type Calls interface {
	// ValidatePaymasterUserOp asks the paymaster whether it sponsors op, with at most gas.
	ValidatePaymasterUserOp(paymaster thor.Address, op *userop.UserOperation, submitter thor.Address, maxCost *big.Int, gas uint64) *xenv.Output
	// Execute calls the target of op, with at most gas.
	Execute(target thor.Address, data []byte, gas uint64) *xenv.Output
}

// validation is the outcome of phases 1 to 3.
type validation struct {
	paymaster thor.Address
	price     *big.Int
	maxCost   *big.Int
	gasUsed   uint64
}

// validate decodes the paymaster, checks solvency, reserves the estimated cost and
// delegates the eligibility check to the paymaster.
func (e *EntryPoint) validate(calls Calls, op *userop.UserOperation, submitter thor.Address, baseFee *big.Int) (*validation, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	paymaster, _, err := op.Paymaster()
	if err != nil {
		return nil, err
	}

	price := op.GasPrice(baseFee)
	maxCost := op.MaxCost(baseFee)

	solvent, err := e.IsSolvent(paymaster, maxCost)
	if err != nil {
		return nil, err
	}
	if !solvent {
		return nil, &FailedOpError{paymaster, ReasonInsufficientFunds}
	}
	// reserved ahead so that reentrant operations see the debited deposit
	if err := e.Reserve(paymaster, maxCost); err != nil {
		return nil, err
	}

	out := calls.ValidatePaymasterUserOp(paymaster, op, submitter, maxCost, op.VerificationGasLimit)
	if out.Err != nil {
		logger.Debug("paymaster rejected operation", "paymaster", paymaster, "submitter", submitter, "err", out.Err)
		return nil, &FailedOpError{paymaster, rejectReason(out.Err)}
	}
	return &validation{
		paymaster: paymaster,
		price:     price,
		maxCost:   maxCost,
		gasUsed:   out.GasUsed,
	}, nil
}

func rejectReason(err error) string {
	var revertErr *xenv.RevertError
	switch {
	case errors.As(err, &revertErr):
		if reason := revertErr.Reason(); reason != "" {
			return reason
		}
		return ReasonValidationReverted
	case errors.Is(err, xenv.ErrOutOfGas):
		return ReasonValidationOutOfGas
	default:
		return err.Error()
	}
}

// HandleOperation runs the whole pipeline for op submitted by submitter.
// On error the caller must unwind every state change made since the call began.
func (e *EntryPoint) HandleOperation(calls Calls, op *userop.UserOperation, submitter thor.Address, baseFee *big.Int) (*ExecutionResult, error) {
	v, err := e.validate(calls, op, submitter, baseFee)
	if err != nil {
		return nil, err
	}

	out := calls.Execute(op.Target, op.CallData, op.CallGasLimit)

	gasUsed := v.gasUsed + out.GasUsed
	actualCost := new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), v.price)
	if err := e.Settle(v.paymaster, v.maxCost, actualCost); err != nil {
		return nil, err
	}

	result := &ExecutionResult{
		Paymaster:         v.paymaster,
		Success:           out.Err == nil,
		ValidationGasUsed: v.gasUsed,
		ActualGasUsed:     gasUsed,
		ActualGasCost:     actualCost,
	}
	var revertErr *xenv.RevertError
	switch {
	case out.Err == nil:
		result.ReturnData = out.Data
	case errors.As(out.Err, &revertErr):
		result.ReturnData = revertErr.Data
	}
	if out.Err != nil {
		logger.Debug("operation execution failed", "paymaster", v.paymaster, "target", op.Target, "err", out.Err)
	}
	return result, nil
}

// SimulateValidation runs the pipeline up to the eligibility check.
// The caller must unwind the state changes, including on success.
func (e *EntryPoint) SimulateValidation(calls Calls, op *userop.UserOperation, submitter thor.Address, baseFee *big.Int) (*ValidationResult, error) {
	v, err := e.validate(calls, op, submitter, baseFee)
	if err != nil {
		return nil, err
	}
	return &ValidationResult{
		Paymaster:         v.paymaster,
		PreFund:           v.maxCost,
		ValidationGasUsed: v.gasUsed,
	}, nil
}
