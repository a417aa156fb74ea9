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

func TestConfigVariable(t *testing.T) {
	config := NewConfigVariable("min-unstake-delay", 10)
	assert.Equal(t, "min-unstake-delay", config.Name())
	assert.Equal(t, thor.BytesToBytes32([]byte("min-unstake-delay")), config.Slot())
	assert.Equal(t, uint64(10), config.Default())

	ctx := newContext(t)
	assert.Equal(t, uint64(10), config.Get(ctx))

	config.Override(ctx, 1<<40)
	assert.Equal(t, uint64(1<<40), config.Get(ctx))

	config.Override(ctx, 0)
	assert.Equal(t, uint64(10), config.Get(ctx))

	// reads are free
	assert.Zero(t, ctx.charger.TotalGas())

	ctx.State().SetRawStorage(ctx.Address(), config.Slot(), rlp.RawValue{0xFF})
	assert.Equal(t, uint64(10), config.Get(ctx))
}
