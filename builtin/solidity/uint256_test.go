// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/gasless/thor"
)

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, thor.Bytes32{1})

	u.Set(big.NewInt(1000))
	assert.Equal(t, thor.SstoreResetGas, ctx.charger.TotalGas())

	charger := resetCharger(ctx)
	value, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, int64(1000), value.Int64())
	assert.Equal(t, thor.SloadGas, charger.TotalGas())

	charger = resetCharger(ctx)
	assert.NoError(t, u.Add(big.NewInt(500)))
	assert.Equal(t, thor.SstoreResetGas+thor.SloadGas, charger.TotalGas())

	value, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), value.Int64())
}
