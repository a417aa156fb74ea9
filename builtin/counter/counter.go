// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package counter is a demo target contract for sponsored operations.
package counter

import (
	"math/big"

	"github.com/vechain/gasless/builtin/solidity"
	"github.com/vechain/gasless/thor"
)

var slotCount = thor.BytesToBytes32([]byte("count"))

type Counter struct {
	count *solidity.Uint256
}

func New(context *solidity.Context) *Counter {
	return &Counter{count: solidity.NewUint256(context, slotCount)}
}

func (c *Counter) Count() (*big.Int, error) {
	return c.count.Get()
}

// Add increases the count by delta.
func (c *Counter) Add(delta *big.Int) (*big.Int, error) {
	if err := c.count.Add(delta); err != nil {
		return nil, err
	}
	return c.count.Get()
}

// Set overwrites the count.
func (c *Counter) Set(value *big.Int) {
	c.count.Set(value)
}
