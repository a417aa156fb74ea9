// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package relay

import (
	"errors"
	"math/big"

	"github.com/vechain/gasless/builtin/entrypoint"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/xenv"
)

var (
	ErrNoGenesis         = errors.New("genesis not built")
	ErrNotOwner          = errors.New("caller is not the paymaster owner")
	ErrPaymasterNotFound = errors.New("paymaster not found")
)

// CallError is a call reverted by a contract rule.
type CallError struct {
	Reason string
}

func (e *CallError) Error() string {
	return "call reverted: " + e.Reason
}

// Receipt records a handled operation. A reverted target call still yields a
// receipt, with Success false.
type Receipt struct {
	OpHash        thor.Bytes32
	Submitter     thor.Address
	Paymaster     thor.Address
	Target        thor.Address
	Success       bool
	ActualGasUsed uint64
	ActualGasCost *big.Int
	ReturnData    []byte
	Events        []*xenv.Event
	Timestamp     uint64
}

// PaymasterInfo is the state of a paymaster and its ledgers.
type PaymasterInfo struct {
	Address    thor.Address
	Owner      thor.Address
	EntryPoint thor.Address
	Deposit    *big.Int
	Stake      *entrypoint.StakeInfo
}
