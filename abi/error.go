// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// Error is a custom error declared in the contract ABI, see abi.Error in go-ethereum.
type Error struct {
	id  MethodID
	err *ethabi.Error
}

// ID returns the error selector.
func (e *Error) ID() MethodID {
	return e.id
}

// Name returns error name.
func (e *Error) Name() string {
	return e.err.Name
}

// Encode encodes args into revert data prefixed with the error selector.
func (e *Error) Encode(args ...any) ([]byte, error) {
	data, err := e.err.Inputs.Pack(args...)
	if err != nil {
		return nil, err
	}
	return append(e.id[:], data...), nil
}

// Decode decodes revert data into v.
func (e *Error) Decode(data []byte, v any) error {
	if !bytes.HasPrefix(data, e.id[:]) {
		return errors.New("revert data has incorrect prefix")
	}
	return decodeArgs(e.err.Inputs, data[4:], v)
}

var (
	stringType, _ = ethabi.NewType("string", "", nil)
	// revertSelector is the selector of Error(string).
	revertSelector = MethodID{0x08, 0xc3, 0x79, 0xa0}
)

// PackRevert encodes reason as Error(string) revert data.
func PackRevert(reason string) []byte {
	data, _ := ethabi.Arguments{{Type: stringType}}.Pack(reason)
	return append(revertSelector[:], data...)
}

// UnpackRevert resolves the reason string of Error(string) or Panic(uint256) revert data.
func UnpackRevert(data []byte) (string, error) {
	return ethabi.UnpackRevert(data)
}
