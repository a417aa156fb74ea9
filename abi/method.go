// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"encoding/hex"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// MethodID method id.
type MethodID [4]byte

// String returns the hex form of the selector.
func (id MethodID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// IsEmpty returns true if the MethodID is all zero.
func (id MethodID) IsEmpty() bool {
	return id == MethodID{}
}

// Method see abi.Method in go-ethereum.
type Method struct {
	id     MethodID
	method *ethabi.Method
}

// ID returns method id.
func (m *Method) ID() MethodID {
	return m.id
}

// Name returns method name.
func (m *Method) Name() string {
	return m.method.Name
}

// Const returns if the method is const.
func (m *Method) Const() bool {
	return m.method.IsConstant()
}

// Payable returns if the method accepts value.
func (m *Method) Payable() bool {
	return m.method.IsPayable()
}

// EncodeInput encode args to data, and the data is prefixed with method id.
func (m *Method) EncodeInput(args ...any) ([]byte, error) {
	data, err := m.method.Inputs.Pack(args...)
	if err != nil {
		return nil, err
	}
	return append(m.id[:], data...), nil
}

// DecodeInput decode input data into v.
// v is a pointer to a struct with one field per input, or a pointer to the
// single input's value.
func (m *Method) DecodeInput(input []byte, v any) error {
	if !bytes.HasPrefix(input, m.id[:]) {
		return errors.New("input has incorrect prefix")
	}
	return decodeArgs(m.method.Inputs, input[4:], v)
}

// DecodeArgs decode input data without method id into v.
func (m *Method) DecodeArgs(data []byte, v any) error {
	return decodeArgs(m.method.Inputs, data, v)
}

// DecodeInputValues decode input data without method id into generic values.
func (m *Method) DecodeInputValues(data []byte) ([]any, error) {
	return m.method.Inputs.Unpack(data)
}

// EncodeOutput encode output args to data.
func (m *Method) EncodeOutput(args ...any) ([]byte, error) {
	return m.method.Outputs.Pack(args...)
}

// DecodeOutput decode output data.
func (m *Method) DecodeOutput(output []byte, v any) error {
	if len(output)%32 != 0 {
		return errors.New("output has incorrect length")
	}
	return decodeArgs(m.method.Outputs, output, v)
}

func decodeArgs(args ethabi.Arguments, data []byte, v any) error {
	values, err := args.Unpack(data)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	return args.Copy(v, values)
}

// ExtractMethodID extract method id from input data.
func ExtractMethodID(input []byte) (id MethodID, err error) {
	if len(input) < len(id) {
		err = errors.New("input data too short")
		return
	}
	copy(id[:], input)
	return
}
