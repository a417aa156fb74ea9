// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"

	"github.com/vechain/gasless/abi"
)

var (
	ErrOutOfGas        = errors.New("out of gas")
	ErrWriteProtection = errors.New("write protection")
	ErrNonPayable      = errors.New("value sent to non-payable method")
)

// RevertError is returned when contract code reverts. Data is the revert payload,
// either Error(string), a custom error or empty.
type RevertError struct {
	Data []byte
}

func (e *RevertError) Error() string {
	if reason := e.Reason(); reason != "" {
		return "execution reverted: " + reason
	}
	return "execution reverted"
}

// Reason returns the Error(string) reason if the payload carries one.
func (e *RevertError) Reason() string {
	reason, err := abi.UnpackRevert(e.Data)
	if err != nil {
		return ""
	}
	return reason
}

// IsRevert reports whether err is a revert.
func IsRevert(err error) bool {
	var re *RevertError
	return errors.As(err, &re)
}
