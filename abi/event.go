// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/vechain/gasless/thor"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id                 EventID
	event              ethabi.Event
	argsWithoutIndexed ethabi.Arguments
}

func newEvent(event ethabi.Event) *Event {
	return &Event{
		thor.Bytes32(event.ID),
		event,
		event.Inputs.NonIndexed(),
	}
}

// ID returns event id.
func (e *Event) ID() EventID {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// Encode encodes non-indexed args to data.
func (e *Event) Encode(args ...any) ([]byte, error) {
	return e.argsWithoutIndexed.Pack(args...)
}

// Decode decodes event data.
func (e *Event) Decode(data []byte, v any) error {
	return decodeArgs(e.argsWithoutIndexed, data, v)
}
