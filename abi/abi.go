// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"

	"github.com/vechain/gasless/thor"
)

// ABI holds information about methods, events and custom errors of contract.
type ABI struct {
	nameToMethod map[string]*Method
	nameToEvent  map[string]*Event
	nameToError  map[string]*Error
	methods      map[MethodID]*Method
	errors       map[MethodID]*Error
}

// New create an ABI instance.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "parse abi")
	}

	abi := &ABI{
		nameToMethod: make(map[string]*Method),
		nameToEvent:  make(map[string]*Event),
		nameToError:  make(map[string]*Error),
		methods:      make(map[MethodID]*Method),
		errors:       make(map[MethodID]*Error),
	}

	for name := range parsed.Methods {
		ethMethod := parsed.Methods[name]
		var id MethodID
		copy(id[:], ethMethod.ID)
		method := &Method{id, &ethMethod}
		abi.methods[id] = method
		abi.nameToMethod[name] = method
	}
	for name := range parsed.Events {
		abi.nameToEvent[name] = newEvent(parsed.Events[name])
	}
	for name := range parsed.Errors {
		ethErr := parsed.Errors[name]
		var id MethodID
		copy(id[:], ethErr.ID[:4])
		e := &Error{id, &ethErr}
		abi.errors[id] = e
		abi.nameToError[name] = e
	}
	return abi, nil
}

// MethodByInput find the method for given input.
// If the input shorter than MethodID, or method not found, an error returned.
func (a *ABI) MethodByInput(input []byte) (*Method, error) {
	id, err := ExtractMethodID(input)
	if err != nil {
		return nil, err
	}
	m, found := a.methods[id]
	if !found {
		return nil, errors.New("method not found")
	}
	return m, nil
}

// MethodByName find method for the given method name.
func (a *ABI) MethodByName(name string) (*Method, bool) {
	m, found := a.nameToMethod[name]
	return m, found
}

// MethodByID returns method for given method id.
func (a *ABI) MethodByID(id MethodID) (*Method, bool) {
	m, found := a.methods[id]
	return m, found
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// ErrorByName find custom error for the given name.
func (a *ABI) ErrorByName(name string) (*Error, bool) {
	e, found := a.nameToError[name]
	return e, found
}

// ErrorByData find the custom error that revert data was encoded with.
func (a *ABI) ErrorByData(data []byte) (*Error, bool) {
	id, err := ExtractMethodID(data)
	if err != nil {
		return nil, false
	}
	e, found := a.errors[id]
	return e, found
}

// EventID is the first topic of a non-anonymous event log.
type EventID = thor.Bytes32
