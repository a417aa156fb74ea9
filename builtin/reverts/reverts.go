// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"

	"github.com/vechain/gasless/abi"
)

// ErrRevert is a business rule violation of contract code. Natives turn it into
// Error(string) revert data, any other error is treated as a fault.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Bytes returns the Error(string) revert data.
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	return abi.PackRevert(e.message)
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
