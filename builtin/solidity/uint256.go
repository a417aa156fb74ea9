// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/gasless/thor"
)

type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	u.context.UseGas(thor.SloadGas)
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) {
	u.context.UseGas(thor.SstoreResetGas)
	u.context.state.SetStorage(u.context.address, u.pos, thor.BytesToBytes32(value.Bytes()))
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(storage.Add(storage, value))
	return nil
}
