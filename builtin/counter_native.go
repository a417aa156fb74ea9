// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/gasless/builtin/gascharger"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/xenv"
)

// ErrCounterFailed is the revert reason of Counter.fail.
const ErrCounterFailed = "counter: failed on purpose"

func init() {
	incrementedEvent := Counter.mustEvent("Incremented")

	Counter.register([]nativeDef{
		{"count", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			count, err := Counter.Native(env.State(), charger).Count()
			mustSucceed(env, err)
			return []any{count}
		}},
		{"increment", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			count, err := Counter.Native(env.State(), charger).Add(big.NewInt(1))
			mustSucceed(env, err)
			env.Log(incrementedEvent, []thor.Bytes32{addressTopic(env.Caller())}, count)
			return nil
		}},
		{"sum", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			var args struct {
				A *big.Int
				B *big.Int
			}
			env.ParseArgs(&args)
			Counter.Native(env.State(), charger).Set(new(big.Int).Add(args.A, args.B))
			return nil
		}},
		{"fail", func(env *xenv.Environment, _ *gascharger.Charger) []any {
			env.RevertWithReason(ErrCounterFailed)
			return nil
		}},
		{"burn", func(env *xenv.Environment, _ *gascharger.Charger) []any {
			var gas *big.Int
			env.ParseArgs(&gas)
			if !gas.IsUint64() {
				env.Stop(xenv.ErrOutOfGas)
			}
			env.UseGas(gas.Uint64())
			return nil
		}},
		{"reenter", func(env *xenv.Environment, _ *gascharger.Charger) []any {
			var args struct {
				To   common.Address
				Data []byte
			}
			env.ParseArgs(&args)
			out := env.Call(thor.Address(args.To), args.Data, env.GasLeft(), nil)
			forward(env, out)
			return []any{out.Data}
		}},
	})
}
