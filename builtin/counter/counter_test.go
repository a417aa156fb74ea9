// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package counter

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/gasless/builtin/solidity"
	"github.com/vechain/gasless/lvldb"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
)

func TestCounter(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	c := New(solidity.NewContext(thor.CounterAddress, state.New(db), nil))

	count, err := c.Count()
	require.NoError(t, err)
	assert.Zero(t, count.Sign())

	c.Set(big.NewInt(1))
	count, err = c.Add(big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Int64())
}
