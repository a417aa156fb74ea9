// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package xenv provides the environment native contract code executes in.
package xenv

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/gasless/abi"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
)

// Context is the execution context shared by every call of a top level message.
type Context struct {
	BaseFee *big.Int
}

// Event is a log emitted by contract code.
type Event struct {
	Address thor.Address
	Topics  []thor.Bytes32
	Data    []byte
}

// Message describes a call into a contract.
type Message struct {
	Caller   thor.Address
	To       thor.Address
	Input    []byte
	Gas      uint64
	Value    *big.Int
	ReadOnly bool
}

// Output is the outcome of a message call.
// Events are only present when Err is nil.
type Output struct {
	Data    []byte
	Events  []*Event
	GasUsed uint64
	Err     error
}

// Runner runs nested message calls.
type Runner interface {
	Call(msg *Message) *Output
}

type vmError struct {
	cause error
}

// Environment an env to execute native method.
type Environment struct {
	method *abi.Method
	args   []byte
	state  *state.State
	ctx    *Context
	msg    *Message
	runner Runner

	gasUsed uint64
	events  []*Event
}

// New create a new env. args is the call data without method selector.
func New(
	method *abi.Method,
	args []byte,
	state *state.State,
	ctx *Context,
	msg *Message,
	runner Runner,
) *Environment {
	return &Environment{
		method: method,
		args:   args,
		state:  state,
		ctx:    ctx,
		msg:    msg,
		runner: runner,
	}
}

func (env *Environment) State() *state.State  { return env.state }
func (env *Environment) Context() *Context    { return env.ctx }
func (env *Environment) Method() *abi.Method  { return env.method }
func (env *Environment) Caller() thor.Address { return env.msg.Caller }
func (env *Environment) To() thor.Address     { return env.msg.To }
func (env *Environment) Args() []byte         { return env.args }
func (env *Environment) GasUsed() uint64      { return env.gasUsed }
func (env *Environment) GasLeft() uint64      { return env.msg.Gas - env.gasUsed }
func (env *Environment) Events() []*Event     { return env.events }

// Value returns the value attached to the message, never nil.
func (env *Environment) Value() *big.Int {
	if env.msg.Value == nil {
		return new(big.Int)
	}
	return env.msg.Value
}

// UseGas consumes gas, stops execution with ErrOutOfGas when exhausted.
func (env *Environment) UseGas(gas uint64) {
	if gas > env.GasLeft() {
		env.gasUsed = env.msg.Gas
		panic(&vmError{ErrOutOfGas})
	}
	env.gasUsed += gas
}

func (env *Environment) ParseArgs(val any) {
	if err := env.method.DecodeArgs(env.args, val); err != nil {
		// as vm error
		panic(&vmError{errors.WithMessage(err, "decode native input")})
	}
}

// Revert stops execution, reverting with the given data.
func (env *Environment) Revert(data []byte) {
	panic(&vmError{&RevertError{Data: data}})
}

// RevertWithReason stops execution, reverting with Error(reason).
func (env *Environment) RevertWithReason(reason string) {
	env.Revert(abi.PackRevert(reason))
}

func (env *Environment) Log(event *abi.Event, topics []thor.Bytes32, args ...any) {
	data, err := event.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	env.UseGas(thor.LogGas + thor.LogTopicGas*uint64(len(topics)+1) + thor.LogDataGas*uint64(len(data)))

	all := make([]thor.Bytes32, 0, len(topics)+1)
	all = append(all, event.ID())
	all = append(all, topics...)
	env.events = append(env.events, &Event{
		Address: env.msg.To,
		Topics:  all,
		Data:    data,
	})
}

// Call calls another contract with at most gas. The caller is the current contract.
func (env *Environment) Call(to thor.Address, input []byte, gas uint64, value *big.Int) *Output {
	return env.call(to, input, gas, value, env.msg.ReadOnly)
}

// StaticCall calls another contract forbidding any state mutation.
func (env *Environment) StaticCall(to thor.Address, input []byte, gas uint64) *Output {
	return env.call(to, input, gas, nil, true)
}

func (env *Environment) call(to thor.Address, input []byte, gas uint64, value *big.Int, readonly bool) *Output {
	env.UseGas(thor.CallGas)
	gas = min(gas, env.GasLeft())

	out := env.runner.Call(&Message{
		Caller:   env.msg.To,
		To:       to,
		Input:    input,
		Gas:      gas,
		Value:    value,
		ReadOnly: readonly,
	})
	env.UseGas(out.GasUsed)
	if out.Err == nil {
		env.events = append(env.events, out.Events...)
	}
	return out
}

func (env *Environment) Stop(vmerr error) {
	panic(&vmError{vmerr})
}

// Run executes proc and encodes its return values with the method outputs.
func (env *Environment) Run(proc func(env *Environment) []any) (data []byte, err error) {
	if env.msg.ReadOnly && !env.method.Const() {
		return nil, ErrWriteProtection
	}
	if env.Value().Sign() != 0 && !env.method.Payable() {
		return nil, ErrNonPayable
	}

	defer func() {
		if e := recover(); e != nil {
			if rec, ok := e.(*vmError); ok {
				data, err = nil, rec.cause
			} else {
				panic(e)
			}
		}
	}()
	output := proc(env)
	data, err = env.method.EncodeOutput(output...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native output"))
	}
	return
}
