// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solidity provides typed accessors over contract storage, charging gas the way
// their solidity counterparts would.
package solidity

import (
	"github.com/vechain/gasless/builtin/gascharger"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
)

type Context struct {
	address thor.Address
	state   *state.State
	charger *gascharger.Charger
}

// NewContext creates a storage context of the contract at address. A nil charger charges nothing.
func NewContext(address thor.Address, state *state.State, charger *gascharger.Charger) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) UseGas(gas uint64) {
	if c.charger != nil {
		c.charger.Charge(gas)
	}
}
