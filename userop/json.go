// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package userop

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/goccy/go-json"

	"github.com/vechain/gasless/thor"
)

// jsonOperation is the JSON wire form. Quantities accept hex or decimal strings.
type jsonOperation struct {
	CallContract         thor.Address          `json:"callContract"`
	CallData             hexutil.Bytes         `json:"callData"`
	CallGasLimit         math.HexOrDecimal64   `json:"callGasLimit"`
	VerificationGasLimit math.HexOrDecimal64   `json:"verificationGasLimit"`
	MaxFeePerGas         *math.HexOrDecimal256 `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *math.HexOrDecimal256 `json:"maxPriorityFeePerGas"`
	PaymasterAndData     hexutil.Bytes         `json:"paymasterAndData"`
}

// MarshalJSON implements json.Marshaler.
func (op *UserOperation) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonOperation{
		CallContract:         op.Target,
		CallData:             op.CallData,
		CallGasLimit:         math.HexOrDecimal64(op.CallGasLimit),
		VerificationGasLimit: math.HexOrDecimal64(op.VerificationGasLimit),
		MaxFeePerGas:         (*math.HexOrDecimal256)(orZero(op.MaxFeePerGas)),
		MaxPriorityFeePerGas: (*math.HexOrDecimal256)(orZero(op.MaxPriorityFeePerGas)),
		PaymasterAndData:     op.PaymasterAndData,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (op *UserOperation) UnmarshalJSON(data []byte) error {
	var aux jsonOperation
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.MaxFeePerGas == nil || aux.MaxPriorityFeePerGas == nil {
		return malformed("missing fee fields")
	}
	*op = UserOperation{
		Target:               aux.CallContract,
		CallData:             aux.CallData,
		CallGasLimit:         uint64(aux.CallGasLimit),
		VerificationGasLimit: uint64(aux.VerificationGasLimit),
		MaxFeePerGas:         (*big.Int)(aux.MaxFeePerGas),
		MaxPriorityFeePerGas: (*big.Int)(aux.MaxPriorityFeePerGas),
		PaymasterAndData:     aux.PaymasterAndData,
	}
	return nil
}
