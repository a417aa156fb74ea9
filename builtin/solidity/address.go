// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/gasless/thor"
)

type Address struct {
	context *Context
	pos     thor.Bytes32
}

func NewAddress(context *Context, pos thor.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (thor.Address, error) {
	a.context.UseGas(thor.SloadGas)
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return thor.Address{}, err
	}
	return thor.BytesToAddress(storage.Bytes()), nil
}

// Set stores addr, nil clears the slot. newValue tells whether the slot was empty.
func (a *Address) Set(addr *thor.Address, newValue bool) {
	var storage thor.Bytes32
	if addr != nil {
		storage = thor.BytesToBytes32(addr.Bytes())
	}
	if !storage.IsZero() {
		if newValue {
			a.context.UseGas(thor.SstoreSetGas)
		} else {
			a.context.UseGas(thor.SstoreResetGas)
		}
	}
	a.context.state.SetStorage(a.context.address, a.pos, storage)
}
