// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package userop

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/gasless/thor"
)

// tuple is the ABI shape of an operation:
// (address callContract, bytes callData, uint256 callGasLimit, uint256 verificationGasLimit,
// uint256 maxFeePerGas, uint256 maxPriorityFeePerGas, bytes paymasterAndData)
type tuple struct {
	CallContract         common.Address
	CallData             []byte
	CallGasLimit         *big.Int
	VerificationGasLimit *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	PaymasterAndData     []byte
}

var tupleArgs = func() abi.Arguments {
	typ, err := abi.NewType("tuple", "struct UserOperation", []abi.ArgumentMarshaling{
		{Name: "callContract", Type: "address"},
		{Name: "callData", Type: "bytes"},
		{Name: "callGasLimit", Type: "uint256"},
		{Name: "verificationGasLimit", Type: "uint256"},
		{Name: "maxFeePerGas", Type: "uint256"},
		{Name: "maxPriorityFeePerGas", Type: "uint256"},
		{Name: "paymasterAndData", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Name: "op", Type: typ}}
}()

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func (op *UserOperation) toTuple() tuple {
	return tuple{
		CallContract:         common.Address(op.Target),
		CallData:             op.CallData,
		CallGasLimit:         new(big.Int).SetUint64(op.CallGasLimit),
		VerificationGasLimit: new(big.Int).SetUint64(op.VerificationGasLimit),
		MaxFeePerGas:         orZero(op.MaxFeePerGas),
		MaxPriorityFeePerGas: orZero(op.MaxPriorityFeePerGas),
		PaymasterAndData:     op.PaymasterAndData,
	}
}

// ABIValue returns the value to pass where an ABI method expects the operation tuple.
func (op *UserOperation) ABIValue() any {
	return op.toTuple()
}

// Pack encodes the operation as a bare ABI tuple, without any method selector.
func (op *UserOperation) Pack() ([]byte, error) {
	return tupleArgs.Pack(op.toTuple())
}

// Unpack decodes a bare ABI tuple.
func Unpack(data []byte) (*UserOperation, error) {
	values, err := tupleArgs.Unpack(data)
	if err != nil {
		return nil, malformed("decode tuple: %v", err)
	}
	return FromABIValue(values[0])
}

// FromABIValue converts a tuple decoded by the abi package into an operation.
func FromABIValue(v any) (op *UserOperation, err error) {
	defer func() {
		// abi.ConvertType panics on mismatched shapes
		if e := recover(); e != nil {
			op, err = nil, malformed("unexpected tuple shape: %v", e)
		}
	}()
	t := abi.ConvertType(v, new(tuple)).(*tuple)
	return t.toOperation()
}

func (t *tuple) toOperation() (*UserOperation, error) {
	if !t.CallGasLimit.IsUint64() {
		return nil, malformed("callGasLimit exceeds uint64")
	}
	if !t.VerificationGasLimit.IsUint64() {
		return nil, malformed("verificationGasLimit exceeds uint64")
	}
	return &UserOperation{
		Target:               thor.Address(t.CallContract),
		CallData:             t.CallData,
		CallGasLimit:         t.CallGasLimit.Uint64(),
		VerificationGasLimit: t.VerificationGasLimit.Uint64(),
		MaxFeePerGas:         t.MaxFeePerGas,
		MaxPriorityFeePerGas: t.MaxPriorityFeePerGas,
		PaymasterAndData:     t.PaymasterAndData,
	}, nil
}
