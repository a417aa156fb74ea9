// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/gasless/builtin/entrypoint"
	"github.com/vechain/gasless/xenv"
)

// WrapOpCalls decorates the calls EntryPoint operations make, until the returned func is called.
func WrapOpCalls(wrap func(calls entrypoint.Calls) entrypoint.Calls) (restore func()) {
	prev := newOpCalls
	newOpCalls = func(env *xenv.Environment) entrypoint.Calls { return wrap(prev(env)) }
	return func() { newOpCalls = prev }
}
