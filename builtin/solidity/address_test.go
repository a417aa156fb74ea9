// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/gasless/thor"
)

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	address := NewAddress(ctx, thor.Bytes32{1})

	value := randAddress()

	address.Set(&value, true)
	assert.Equal(t, thor.SstoreSetGas, ctx.charger.TotalGas())

	charger := resetCharger(ctx)
	address.Set(&value, false)
	assert.Equal(t, thor.SstoreResetGas, charger.TotalGas())

	charger = resetCharger(ctx)
	got, err := address.Get()
	assert.NoError(t, err)
	assert.Equal(t, value, got)
	assert.Equal(t, thor.SloadGas, charger.TotalGas())

	address.Set(nil, false)
	got, err = address.Get()
	assert.NoError(t, err)
	assert.True(t, got.IsZero())

	assert.Equal(t, thor.Address{1}, ctx.Address())
}

func TestAddressInvalidStorage(t *testing.T) {
	st := newState(t)
	contract := thor.BytesToAddress([]byte("addr"))
	slot := thor.BytesToBytes32([]byte("slot"))

	st.SetRawStorage(contract, slot, rlp.RawValue{0xFF})

	a := NewAddress(NewContext(contract, st, nil), slot)
	addr, err := a.Get()
	assert.Equal(t, thor.Address{}, addr)
	assert.Error(t, err)
}
