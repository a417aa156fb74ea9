// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/gasless/log"
	"github.com/vechain/gasless/thor"
)

// ConfigVariable is a contract parameter with a default value that can be
// overridden by a non-zero storage slot.
type ConfigVariable struct {
	slot         thor.Bytes32
	name         string
	defaultValue uint64
}

func NewConfigVariable(name string, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{
		slot:         thor.BytesToBytes32([]byte(name)),
		name:         name,
		defaultValue: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return c.slot
}

func (c *ConfigVariable) Default() uint64 {
	return c.defaultValue
}

// Get returns the overridden value or the default. Reads are not charged.
func (c *ConfigVariable) Get(ctx *Context) uint64 {
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		log.Warn("failed to read config value", "slot", c.Name(), "error", err)
		return c.defaultValue
	}
	num := new(big.Int).SetBytes(storage.Bytes())
	if num.Sign() == 0 || !num.IsUint64() {
		return c.defaultValue
	}
	return num.Uint64()
}

// Override stores value in the contract storage, zero restores the default.
func (c *ConfigVariable) Override(ctx *Context, value uint64) {
	ctx.state.SetStorage(ctx.address, c.slot, thor.BytesToBytes32(new(big.Int).SetUint64(value).Bytes()))
}
