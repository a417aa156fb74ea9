// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"errors"

	"github.com/vechain/gasless/abi"
	"github.com/vechain/gasless/builtin/gascharger"
	"github.com/vechain/gasless/builtin/reverts"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/xenv"
)

// ErrMethodNotFound is returned when contract code has no method for the input
// and no fallback.
var ErrMethodNotFound = errors.New("native method not found")

// NativeCall is a resolved call of a native method.
type NativeCall struct {
	Method *abi.Method
	// Args is the input without selector, or the whole input for fallback calls.
	Args []byte
	Run  func(env *xenv.Environment) []any
}

type methodKey struct {
	code string
	abi.MethodID
}

var (
	nativeMethods = make(map[methodKey]*NativeCall)
	// fallbacks receive the whole input, the method encodes their output.
	fallbacks = make(map[string]*NativeCall)
)

type nativeDef struct {
	name string
	run  func(env *xenv.Environment, charger *gascharger.Charger) []any
}

func (c *contract) register(defs []nativeDef) {
	for _, def := range defs {
		method := c.mustMethod(def.name)
		nativeMethods[methodKey{c.name, method.ID()}] = &NativeCall{
			Method: method,
			Run:    c.withCharger(def),
		}
	}
}

func (c *contract) registerFallback(def nativeDef) {
	fallbacks[c.name] = &NativeCall{
		Method: c.mustMethod(def.name),
		Run:    c.withCharger(def),
	}
}

func (c *contract) withCharger(def nativeDef) func(env *xenv.Environment) []any {
	return func(env *xenv.Environment) []any {
		charger := gascharger.New(env)
		defer func() {
			logger.Trace("native call gas", "contract", c.name, "method", def.name, "breakdown", charger.Breakdown())
		}()
		return def.run(env, charger)
	}
}

// FindNativeCall resolves the native method the code at to handles input with.
// It returns nil if to is a plain account.
func FindNativeCall(st *state.State, to thor.Address, input []byte) (*NativeCall, error) {
	code, err := CodeOf(st, to)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, nil
	}

	if id, err := abi.ExtractMethodID(input); err == nil {
		if call, found := nativeMethods[methodKey{code, id}]; found {
			return &NativeCall{Method: call.Method, Args: input[4:], Run: call.Run}, nil
		}
	}
	if call, found := fallbacks[code]; found {
		return &NativeCall{Method: call.Method, Args: input, Run: call.Run}, nil
	}
	return nil, ErrMethodNotFound
}

// mustSucceed reverts the call on business rule violations and panics on faults.
func mustSucceed(env *xenv.Environment, err error) {
	if err == nil {
		return
	}
	var revert *reverts.ErrRevert
	if errors.As(err, &revert) {
		env.Revert(revert.Bytes())
	}
	panic(err)
}

// forward stops the current call with the failure of a nested call.
func forward(env *xenv.Environment, out *xenv.Output) {
	if out.Err == nil {
		return
	}
	var revertErr *xenv.RevertError
	if errors.As(out.Err, &revertErr) {
		env.Revert(revertErr.Data)
	}
	env.Stop(out.Err)
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}
