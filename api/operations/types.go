// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operations

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/gasless/builtin/entrypoint"
	"github.com/vechain/gasless/relay"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
	"github.com/vechain/gasless/xenv"
)

// Submission carries an operation and the account submitting it.
type Submission struct {
	Operation *userop.UserOperation `json:"operation"`
	Submitter *thor.Address         `json:"submitter"`
}

// RawSubmission carries an ABI encoded operation, with or without the handleOp selector.
type RawSubmission struct {
	Data      hexutil.Bytes `json:"data"`
	Submitter *thor.Address `json:"submitter"`
}

type Event struct {
	Address thor.Address   `json:"address"`
	Topics  []thor.Bytes32 `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// Receipt for marshal receipt
type Receipt struct {
	OpHash        thor.Bytes32          `json:"opHash"`
	Submitter     thor.Address          `json:"submitter"`
	Paymaster     thor.Address          `json:"paymaster"`
	Target        thor.Address          `json:"target"`
	Success       bool                  `json:"success"`
	ActualGasUsed uint64                `json:"actualGasUsed"`
	ActualGasCost *math.HexOrDecimal256 `json:"actualGasCost"`
	ReturnData    hexutil.Bytes         `json:"returnData"`
	Events        []*Event              `json:"events"`
	Timestamp     uint64                `json:"timestamp"`
}

// ValidationResult for marshal the outcome of a simulation.
type ValidationResult struct {
	Paymaster         thor.Address          `json:"paymaster"`
	PreFund           *math.HexOrDecimal256 `json:"preFund"`
	ValidationGasUsed uint64                `json:"validationGasUsed"`
}

func convertEvent(e *xenv.Event) *Event {
	topics := e.Topics
	if topics == nil {
		topics = []thor.Bytes32{}
	}
	return &Event{
		Address: e.Address,
		Topics:  topics,
		Data:    e.Data,
	}
}

func convertReceipt(r *relay.Receipt) *Receipt {
	events := make([]*Event, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, convertEvent(e))
	}
	return &Receipt{
		OpHash:        r.OpHash,
		Submitter:     r.Submitter,
		Paymaster:     r.Paymaster,
		Target:        r.Target,
		Success:       r.Success,
		ActualGasUsed: r.ActualGasUsed,
		ActualGasCost: (*math.HexOrDecimal256)(new(big.Int).Set(r.ActualGasCost)),
		ReturnData:    r.ReturnData,
		Events:        events,
		Timestamp:     r.Timestamp,
	}
}

func convertValidationResult(r *entrypoint.ValidationResult) *ValidationResult {
	return &ValidationResult{
		Paymaster:         r.Paymaster,
		PreFund:           (*math.HexOrDecimal256)(r.PreFund),
		ValidationGasUsed: r.ValidationGasUsed,
	}
}
