// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes messages against the native contracts.
package runtime

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/gasless/builtin"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/xenv"
)

// MaxCallDepth limits nested calls.
const MaxCallDepth = 64

// ErrDepth is returned when a call exceeds MaxCallDepth.
var ErrDepth = errors.New("max call depth exceeded")

// Runtime is to support message execution.
type Runtime struct {
	state *state.State
	ctx   *xenv.Context
	depth int
}

// New create a Runtime object.
func New(state *state.State, ctx *xenv.Context) *Runtime {
	return &Runtime{
		state: state,
		ctx:   ctx,
	}
}

func (rt *Runtime) State() *state.State    { return rt.state }
func (rt *Runtime) Context() *xenv.Context { return rt.ctx }

// Call executes msg in its own checkpoint, which is reverted if the call fails.
// It implements xenv.Runner.
func (rt *Runtime) Call(msg *xenv.Message) *xenv.Output {
	if rt.depth >= MaxCallDepth {
		return &xenv.Output{Err: ErrDepth}
	}
	rt.depth++
	defer func() { rt.depth-- }()

	checkpoint := rt.state.NewCheckpoint()
	out := rt.call(msg)
	if out.Err != nil {
		rt.state.RevertTo(checkpoint)
		out.Events = nil
		if errors.Is(out.Err, xenv.ErrOutOfGas) {
			out.GasUsed = msg.Gas
		}
	}
	return out
}

func (rt *Runtime) call(msg *xenv.Message) *xenv.Output {
	call, err := builtin.FindNativeCall(rt.state, msg.To, msg.Input)
	if err != nil {
		if errors.Is(err, builtin.ErrMethodNotFound) {
			return &xenv.Output{Err: &xenv.RevertError{}}
		}
		panic(err)
	}
	if call == nil {
		// plain account
		return &xenv.Output{}
	}

	env := xenv.New(call.Method, call.Args, rt.state, rt.ctx, msg, rt)
	data, err := env.Run(call.Run)
	return &xenv.Output{
		Data:    data,
		Events:  env.Events(),
		GasUsed: env.GasUsed(),
		Err:     err,
	}
}

// Execute runs a top level message. Faults, such as storage failures, are returned
// as error with every change made by the message reverted.
func (rt *Runtime) Execute(msg *xenv.Message) (out *xenv.Output, err error) {
	checkpoint := rt.state.NewCheckpoint()
	defer func() {
		if e := recover(); e != nil {
			rt.state.RevertTo(checkpoint)
			if cause, ok := e.(error); ok {
				err = pkgerrors.WithMessage(cause, "execute")
			} else {
				err = pkgerrors.Errorf("execute: %v", e)
			}
		}
	}()
	return rt.Call(msg), nil
}
