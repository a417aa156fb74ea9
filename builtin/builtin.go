// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin hosts the natively implemented contracts: the EntryPoint, the
// whitelist Paymaster and the Counter demo target.
package builtin

import (
	"github.com/vechain/gasless/builtin/counter"
	"github.com/vechain/gasless/builtin/entrypoint"
	"github.com/vechain/gasless/builtin/gascharger"
	"github.com/vechain/gasless/builtin/paymaster"
	"github.com/vechain/gasless/builtin/solidity"
	"github.com/vechain/gasless/log"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
)

var logger = log.WithContext("pkg", "builtin")

// Builtin contracts binding.
var (
	EntryPoint = &entryPointContract{mustLoadContract("EntryPoint"), thor.EntryPointAddress}
	Paymaster  = &paymasterContract{mustLoadContract("Paymaster")}
	Counter    = &counterContract{mustLoadContract("Counter"), thor.CounterAddress}
)

type (
	entryPointContract struct {
		*contract
		Address thor.Address
	}
	paymasterContract struct{ *contract }
	counterContract   struct {
		*contract
		Address thor.Address
	}
)

// Native binds the EntryPoint storage, charging gas through charger if not nil.
func (e *entryPointContract) Native(state *state.State, charger *gascharger.Charger) *entrypoint.EntryPoint {
	return entrypoint.New(solidity.NewContext(e.Address, state, charger))
}

// Native binds the storage of the paymaster at addr.
func (p *paymasterContract) Native(state *state.State, addr thor.Address, charger *gascharger.Charger) *paymaster.Paymaster {
	return paymaster.New(solidity.NewContext(addr, state, charger))
}

func (c *counterContract) Native(state *state.State, charger *gascharger.Charger) *counter.Counter {
	return counter.New(solidity.NewContext(c.Address, state, charger))
}
