// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package userop defines the sponsored operation submitted to the EntryPoint.
package userop

import (
	"fmt"
	"math/big"

	"github.com/vechain/gasless/thor"
)

// UserOperation describes a call whose gas is sponsored by a paymaster.
// The first 20 bytes of PaymasterAndData identify the paymaster, the rest is
// opaque context handed to it.
type UserOperation struct {
	Target               thor.Address
	CallData             []byte
	CallGasLimit         uint64
	VerificationGasLimit uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	PaymasterAndData     []byte
}

// MalformedError reports an operation whose shape or encoding is invalid.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "malformed operation: " + e.Reason
}

func malformed(format string, args ...any) error {
	return &MalformedError{fmt.Sprintf(format, args...)}
}

// Paymaster splits PaymasterAndData into the paymaster address and its context.
func (op *UserOperation) Paymaster() (thor.Address, []byte, error) {
	if len(op.PaymasterAndData) < thor.AddressLength {
		return thor.Address{}, nil, malformed("paymasterAndData shorter than %d bytes", thor.AddressLength)
	}
	return thor.BytesToAddress(op.PaymasterAndData[:thor.AddressLength]), op.PaymasterAndData[thor.AddressLength:], nil
}

// Validate checks the invariants an operation must hold before entering the pipeline.
func (op *UserOperation) Validate() error {
	if op.MaxFeePerGas == nil || op.MaxPriorityFeePerGas == nil {
		return malformed("missing fee fields")
	}
	for _, fee := range []*big.Int{op.MaxFeePerGas, op.MaxPriorityFeePerGas} {
		if fee.Sign() < 0 || fee.BitLen() > 256 {
			return malformed("fee out of uint256 range")
		}
	}
	if _, _, err := op.Paymaster(); err != nil {
		return err
	}
	return nil
}

// GasPrice returns min(MaxFeePerGas, baseFee + MaxPriorityFeePerGas).
func (op *UserOperation) GasPrice(baseFee *big.Int) *big.Int {
	price := new(big.Int).Set(op.MaxPriorityFeePerGas)
	if baseFee != nil {
		price.Add(price, baseFee)
	}
	if price.Cmp(op.MaxFeePerGas) > 0 {
		price.Set(op.MaxFeePerGas)
	}
	return price
}

// MaxCost returns the estimated cost that must be covered by the paymaster deposit.
func (op *UserOperation) MaxCost(baseFee *big.Int) *big.Int {
	gas := new(big.Int).SetUint64(op.VerificationGasLimit)
	gas.Add(gas, new(big.Int).SetUint64(op.CallGasLimit))
	return gas.Mul(gas, op.GasPrice(baseFee))
}

// Hash identifies the operation for the given entry point.
func (op *UserOperation) Hash(entryPoint thor.Address) thor.Bytes32 {
	packed, err := op.Pack()
	if err != nil {
		return thor.Bytes32{}
	}
	return thor.Keccak256(packed, entryPoint.Bytes())
}

// Copy returns a deep copy.
func (op *UserOperation) Copy() *UserOperation {
	cpy := *op
	cpy.CallData = append([]byte(nil), op.CallData...)
	cpy.PaymasterAndData = append([]byte(nil), op.PaymasterAndData...)
	if op.MaxFeePerGas != nil {
		cpy.MaxFeePerGas = new(big.Int).Set(op.MaxFeePerGas)
	}
	if op.MaxPriorityFeePerGas != nil {
		cpy.MaxPriorityFeePerGas = new(big.Int).Set(op.MaxPriorityFeePerGas)
	}
	return &cpy
}

func (op *UserOperation) String() string {
	formatBigInt := func(b *big.Int) string {
		if b == nil {
			return "<nil>"
		}
		return b.Text(10)
	}
	return fmt.Sprintf(`UserOperation{
  CallContract:         %s
  CallData:             0x%x
  CallGasLimit:         %d
  VerificationGasLimit: %d
  MaxFeePerGas:         %s
  MaxPriorityFeePerGas: %s
  PaymasterAndData:     0x%x
}`,
		op.Target,
		op.CallData,
		op.CallGasLimit,
		op.VerificationGasLimit,
		formatBigInt(op.MaxFeePerGas),
		formatBigInt(op.MaxPriorityFeePerGas),
		op.PaymasterAndData,
	)
}
