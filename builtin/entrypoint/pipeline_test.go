// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entrypoint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/gasless/abi"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
	"github.com/vechain/gasless/xenv"
)

type fakeCalls struct {
	validations int
	executions  int
	validate    func(gas uint64) *xenv.Output
	execute     func(gas uint64) *xenv.Output
}

func (f *fakeCalls) ValidatePaymasterUserOp(_ thor.Address, _ *userop.UserOperation, _ thor.Address, _ *big.Int, gas uint64) *xenv.Output {
	f.validations++
	if f.validate == nil {
		return &xenv.Output{GasUsed: 3000}
	}
	return f.validate(gas)
}

func (f *fakeCalls) Execute(_ thor.Address, _ []byte, gas uint64) *xenv.Output {
	f.executions++
	if f.execute == nil {
		return &xenv.Output{Data: []byte{1}, GasUsed: 20000}
	}
	return f.execute(gas)
}

func newOp(paymaster thor.Address) *userop.UserOperation {
	return &userop.UserOperation{
		Target:               thor.CounterAddress,
		CallData:             []byte{0xd0, 0x9d, 0xe0, 0x8a},
		CallGasLimit:         100000,
		VerificationGasLimit: 100000,
		MaxFeePerGas:         big.NewInt(1),
		MaxPriorityFeePerGas: big.NewInt(1),
		PaymasterAndData:     append(paymaster.Bytes(), 0x12, 0x34),
	}
}

func newFundedEntryPoint(t *testing.T, stake, deposit int64) *EntryPoint {
	ep := newEntryPoint(t)
	ep.SetParams(1, 1)
	if stake > 0 {
		_, err := ep.AddStake(paymasterA, 99999999, big.NewInt(stake))
		require.NoError(t, err)
	}
	if deposit > 0 {
		_, err := ep.DepositTo(paymasterA, big.NewInt(deposit))
		require.NoError(t, err)
	}
	return ep
}

func TestHandleOperationSettles(t *testing.T) {
	ep := newFundedEntryPoint(t, 2, 1_000_000)
	calls := &fakeCalls{}

	res, err := ep.HandleOperation(calls, newOp(paymasterA), thor.Address{1}, big.NewInt(0))
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, []byte{1}, res.ReturnData)
	assert.Equal(t, paymasterA, res.Paymaster)
	assert.Equal(t, uint64(3000), res.ValidationGasUsed)
	assert.Equal(t, uint64(23000), res.ActualGasUsed)
	assert.Equal(t, int64(23000), res.ActualGasCost.Int64())

	bal, err := ep.BalanceOf(paymasterA)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000-23000), bal.Int64())
}

func TestHandleOperationGasBounds(t *testing.T) {
	ep := newFundedEntryPoint(t, 2, 1_000_000)
	op := newOp(paymasterA)
	op.VerificationGasLimit = 1234
	op.CallGasLimit = 5678

	calls := &fakeCalls{
		validate: func(gas uint64) *xenv.Output {
			assert.Equal(t, uint64(1234), gas)
			return &xenv.Output{GasUsed: gas}
		},
		execute: func(gas uint64) *xenv.Output {
			assert.Equal(t, uint64(5678), gas)
			return &xenv.Output{GasUsed: gas, Err: xenv.ErrOutOfGas}
		},
	}
	res, err := ep.HandleOperation(calls, op, thor.Address{1}, big.NewInt(0))
	require.NoError(t, err)
	assert.False(t, res.Success)
	// actual cost never exceeds the estimate
	assert.Equal(t, op.MaxCost(big.NewInt(0)), res.ActualGasCost)
}

func TestHandleOperationExecutionReverted(t *testing.T) {
	ep := newFundedEntryPoint(t, 2, 1_000_000)
	revertData := abi.PackRevert("boom")
	calls := &fakeCalls{
		execute: func(uint64) *xenv.Output {
			return &xenv.Output{GasUsed: 500, Err: &xenv.RevertError{Data: revertData}}
		},
	}

	res, err := ep.HandleOperation(calls, newOp(paymasterA), thor.Address{1}, big.NewInt(0))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, revertData, res.ReturnData)

	// still charged
	bal, err := ep.BalanceOf(paymasterA)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000-3500), bal.Int64())
}

func TestHandleOperationAccountingInvariant(t *testing.T) {
	// the deposit covers exactly the estimate, all of it reserved
	ep := newFundedEntryPoint(t, 2, 200_000)
	op := newOp(paymasterA)
	calls := &fakeCalls{
		execute: func(gas uint64) *xenv.Output {
			assert.Equal(t, op.CallGasLimit, gas)
			return &xenv.Output{GasUsed: 10_000_000}
		},
	}

	res, err := ep.HandleOperation(calls, op, thor.Address{1}, big.NewInt(0))
	assert.Nil(t, res)
	var invErr *AccountingInvariantError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, paymasterA, invErr.Paymaster)
	assert.Equal(t, int64(200_000), invErr.Balance.Int64())
	assert.Equal(t, int64(10_003_000), invErr.ActualCost.Int64())
	assert.Equal(t, 1, calls.executions)
}

func TestHandleOperationRejected(t *testing.T) {
	tests := []struct {
		name     string
		stake    int64
		deposit  int64
		validate func(uint64) *xenv.Output
		reason   string
		checked  bool
	}{
		{"no stake", 0, 1_000_000, nil, ReasonInsufficientFunds, false},
		{"deposit below estimate", 2, 199_999, nil, ReasonInsufficientFunds, false},
		{
			"not whitelisted", 2, 1_000_000,
			func(uint64) *xenv.Output {
				return &xenv.Output{GasUsed: 900, Err: &xenv.RevertError{Data: abi.PackRevert("Verifying user in whitelist.")}}
			},
			"Verifying user in whitelist.", true,
		},
		{
			"bare revert", 2, 1_000_000,
			func(uint64) *xenv.Output { return &xenv.Output{Err: &xenv.RevertError{}} },
			ReasonValidationReverted, true,
		},
		{
			"out of gas", 2, 1_000_000,
			func(gas uint64) *xenv.Output { return &xenv.Output{GasUsed: gas, Err: xenv.ErrOutOfGas} },
			ReasonValidationOutOfGas, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := newFundedEntryPoint(t, tt.stake, tt.deposit)
			calls := &fakeCalls{validate: tt.validate}

			_, err := ep.HandleOperation(calls, newOp(paymasterA), thor.Address{1}, big.NewInt(0))
			var failed *FailedOpError
			require.ErrorAs(t, err, &failed)
			assert.Equal(t, paymasterA, failed.Paymaster)
			assert.Equal(t, tt.reason, failed.Reason)
			assert.Zero(t, calls.executions)
			if tt.checked {
				assert.Equal(t, 1, calls.validations)
			} else {
				assert.Zero(t, calls.validations, "eligibility must not be checked")
			}
		})
	}
}

func TestHandleOperationMalformed(t *testing.T) {
	ep := newFundedEntryPoint(t, 2, 1_000_000)
	op := newOp(paymasterA)
	op.PaymasterAndData = op.PaymasterAndData[:19]

	calls := &fakeCalls{}
	_, err := ep.HandleOperation(calls, op, thor.Address{1}, big.NewInt(0))
	var malformed *userop.MalformedError
	assert.ErrorAs(t, err, &malformed)
	assert.Zero(t, calls.validations)

	_, err = ep.SimulateValidation(calls, op, thor.Address{1}, big.NewInt(0))
	assert.ErrorAs(t, err, &malformed)
}

func TestSimulateValidation(t *testing.T) {
	ep := newFundedEntryPoint(t, 2, 1_000_000)
	calls := &fakeCalls{}

	res, err := ep.SimulateValidation(calls, newOp(paymasterA), thor.Address{1}, big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, paymasterA, res.Paymaster)
	// price is capped by maxFeePerGas
	assert.Equal(t, int64(200000), res.PreFund.Int64())
	assert.Equal(t, uint64(3000), res.ValidationGasUsed)
	assert.Zero(t, calls.executions)
}
