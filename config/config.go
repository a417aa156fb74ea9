// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the relay configuration file.
package config

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/gasless/thor"
)

// Config describes the EntryPoint parameters and the paymasters bootstrapped at genesis.
type Config struct {
	EntryPoint EntryPoint  `yaml:"entryPoint"`
	Counter    Counter     `yaml:"counter"`
	Paymasters []Paymaster `yaml:"paymasters"`
}

// EntryPoint holds the EntryPoint parameters.
type EntryPoint struct {
	MinPaymasterStake  uint64                `yaml:"minPaymasterStake"`
	MinUnstakeDelaySec uint64                `yaml:"minUnstakeDelaySec"`
	BaseFee            *math.HexOrDecimal256 `yaml:"baseFee"`
}

// Counter holds the initial state of the demo target.
type Counter struct {
	InitialCount *math.HexOrDecimal256 `yaml:"initialCount"`
}

// Paymaster is a paymaster deployed, staked and funded at genesis.
type Paymaster struct {
	Address   thor.Address          `yaml:"address"`
	Owner     thor.Address          `yaml:"owner"`
	Stake     *Stake                `yaml:"stake"`
	Deposit   *math.HexOrDecimal256 `yaml:"deposit"`
	Whitelist []thor.Address        `yaml:"whitelist"`
}

// Stake is the stake a bootstrap paymaster locks.
type Stake struct {
	Amount          *math.HexOrDecimal256 `yaml:"amount"`
	UnstakeDelaySec uint32                `yaml:"unstakeDelaySec"`
}

// Default returns the config used when no file is given.
func Default() *Config {
	return &Config{
		EntryPoint: EntryPoint{
			MinPaymasterStake:  thor.DefaultMinPaymasterStake,
			MinUnstakeDelaySec: thor.DefaultMinUnstakeDelaySec,
			BaseFee:            (*math.HexOrDecimal256)(new(big.Int).Set(thor.DefaultBaseFee)),
		},
		Counter: Counter{
			InitialCount: (*math.HexOrDecimal256)(big.NewInt(1)),
		},
	}
}

// Load reads the config file at path. Absent fields take default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes a YAML config.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BaseFee returns the base fee pricing operations, never nil.
func (c *Config) BaseFee() *big.Int {
	if c.EntryPoint.BaseFee == nil {
		return new(big.Int).Set(thor.DefaultBaseFee)
	}
	return (*big.Int)(c.EntryPoint.BaseFee)
}

// Validate checks the config is consistent.
func (c *Config) Validate() error {
	if c.BaseFee().Sign() < 0 {
		return errors.New("baseFee: negative")
	}
	if c.EntryPoint.MinPaymasterStake == 0 {
		return errors.New("minPaymasterStake: must be positive")
	}
	if v := c.Counter.InitialCount; v != nil && (*big.Int)(v).Sign() < 0 {
		return errors.New("counter.initialCount: negative")
	}

	seen := make(map[thor.Address]bool)
	for i, pm := range c.Paymasters {
		switch {
		case pm.Address.IsZero():
			return errors.Errorf("paymasters[%d]: address required", i)
		case pm.Address == thor.EntryPointAddress || pm.Address == thor.CounterAddress:
			return errors.Errorf("paymasters[%d]: address %v reserved", i, pm.Address)
		case seen[pm.Address]:
			return errors.Errorf("paymasters[%d]: duplicated address %v", i, pm.Address)
		case pm.Owner.IsZero():
			return errors.Errorf("paymasters[%d]: owner required", i)
		}
		seen[pm.Address] = true

		if pm.Stake != nil {
			if pm.Stake.Amount == nil || (*big.Int)(pm.Stake.Amount).Sign() <= 0 {
				return errors.Errorf("paymasters[%d]: stake amount must be positive", i)
			}
			if uint64(pm.Stake.UnstakeDelaySec) < c.EntryPoint.MinUnstakeDelaySec {
				return errors.Errorf("paymasters[%d]: unstake delay below %d", i, c.EntryPoint.MinUnstakeDelaySec)
			}
		}
		if pm.Deposit != nil && (*big.Int)(pm.Deposit).Sign() < 0 {
			return errors.Errorf("paymasters[%d]: negative deposit", i)
		}
	}
	return nil
}
