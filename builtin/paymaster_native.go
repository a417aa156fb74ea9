// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/gasless/builtin/gascharger"
	"github.com/vechain/gasless/builtin/reverts"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
	"github.com/vechain/gasless/xenv"
)

// ErrNotEntryPoint is the revert reason of a validation not requested by the paymaster's EntryPoint.
const ErrNotEntryPoint = "Sender not EntryPoint"

func init() {
	whitelistAddedEvent := Paymaster.mustEvent("WhitelistAdded")

	Paymaster.register([]nativeDef{
		{"owner", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			owner, err := Paymaster.Native(env.State(), env.To(), charger).Owner()
			mustSucceed(env, err)
			return []any{owner}
		}},
		{"entryPoint", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			ep, err := Paymaster.Native(env.State(), env.To(), charger).EntryPoint()
			mustSucceed(env, err)
			return []any{ep}
		}},
		{"isWhitelisted", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			var account common.Address
			env.ParseArgs(&account)
			listed, err := Paymaster.Native(env.State(), env.To(), charger).IsWhitelisted(thor.Address(account))
			mustSucceed(env, err)
			return []any{listed}
		}},
		{"addWhitelistAddress", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			var account common.Address
			env.ParseArgs(&account)
			added, err := Paymaster.Native(env.State(), env.To(), charger).AddWhitelistAddress(env.Caller(), thor.Address(account))
			mustSucceed(env, err)
			if added {
				env.Log(whitelistAddedEvent, []thor.Bytes32{addressTopic(thor.Address(account))})
			}
			return nil
		}},
		{"addStake", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			var unstakeDelaySec uint32
			env.ParseArgs(&unstakeDelaySec)

			pm := Paymaster.Native(env.State(), env.To(), charger)
			mustSucceed(env, pm.CheckOwner(env.Caller()))
			ep, err := pm.EntryPoint()
			mustSucceed(env, err)

			input, err := EntryPoint.mustMethod("addStake").EncodeInput(unstakeDelaySec)
			if err != nil {
				panic(err)
			}
			forward(env, env.Call(ep, input, env.GasLeft(), env.Value()))
			return nil
		}},
		{"validatePaymasterUserOp", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			values, err := env.Method().DecodeInputValues(env.Args())
			if err != nil {
				env.Stop(err)
			}
			op, err := userop.FromABIValue(values[0])
			if err != nil {
				env.Stop(err)
			}
			// the max cost in values[2] is not capped by this paymaster
			submitter := thor.Address(values[1].(common.Address))

			pm := Paymaster.Native(env.State(), env.To(), charger)
			ep, err := pm.EntryPoint()
			mustSucceed(env, err)
			if env.Caller() != ep {
				mustSucceed(env, reverts.New(ErrNotEntryPoint))
			}
			_, context, err := op.Paymaster()
			mustSucceed(env, err)
			context, err = pm.ValidateSubmitter(submitter, op, context)
			mustSucceed(env, err)
			return []any{context}
		}},
	})
}
