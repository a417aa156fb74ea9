// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/gasless/thor"
)

type gasCounter uint64

func (g *gasCounter) UseGas(gas uint64) { *g += gasCounter(gas) }

func TestCharger(t *testing.T) {
	var used gasCounter
	c := New(&used)

	c.Charge(thor.SloadGas)
	c.Charge(thor.SstoreSetGas * 2)
	c.Charge(thor.SstoreResetGas)
	c.Charge(thor.CallGas)

	total := thor.SloadGas + thor.SstoreSetGas*2 + thor.SstoreResetGas + thor.CallGas
	assert.Equal(t, total, c.TotalGas())
	assert.Equal(t, total, uint64(used))
	assert.Equal(t,
		"SLOAD: 1 ops (800 gas) | SSTORE_SET: 2 ops (40000 gas) | SSTORE_RESET: 1 ops (5000 gas) | CUSTOM: 700 gas | TOTAL: 46500 gas",
		c.Breakdown(),
	)
}

func TestChargerWithoutUser(t *testing.T) {
	c := New(nil)
	c.Charge(thor.SloadGas)
	assert.Equal(t, thor.SloadGas, c.TotalGas())
}
