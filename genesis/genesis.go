// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis deploys the builtin contracts and bootstraps the configured paymasters.
package genesis

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/gasless/builtin"
	"github.com/vechain/gasless/config"
	"github.com/vechain/gasless/kv"
	"github.com/vechain/gasless/log"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
)

var logger = log.WithContext("pkg", "genesis")

// New creates the genesis builder of cfg.
//
// The EntryPoint, the Counter and every paymaster code are installed directly,
// while staking, funding and whitelisting go through contract calls, so they
// emit their events and obey the same rules as later calls.
func New(cfg *config.Config) *Builder {
	b := new(Builder).
		BaseFee(cfg.BaseFee()).
		State(func(st *state.State) error {
			builtin.EntryPoint.Deploy(st, builtin.EntryPoint.Address)
			builtin.EntryPoint.Native(st, nil).SetParams(cfg.EntryPoint.MinPaymasterStake, cfg.EntryPoint.MinUnstakeDelaySec)

			builtin.Counter.Deploy(st, builtin.Counter.Address)
			if v := cfg.Counter.InitialCount; v != nil {
				builtin.Counter.Native(st, nil).Set((*big.Int)(v))
			}

			for _, pm := range cfg.Paymasters {
				builtin.Paymaster.Deploy(st, pm.Address)
				builtin.Paymaster.Native(st, pm.Address, nil).Init(pm.Owner, builtin.EntryPoint.Address)
			}
			return nil
		})

	for _, pm := range cfg.Paymasters {
		if pm.Stake != nil {
			b.Call(pm.Address,
				builtin.Paymaster.MustEncodeInput("addStake", pm.Stake.UnstakeDelaySec),
				(*big.Int)(pm.Stake.Amount),
				pm.Owner)
		}
		for _, account := range pm.Whitelist {
			b.Call(pm.Address,
				builtin.Paymaster.MustEncodeInput("addWhitelistAddress", common.Address(account)),
				nil,
				pm.Owner)
		}
		if pm.Deposit != nil && (*big.Int)(pm.Deposit).Sign() > 0 {
			b.Call(builtin.EntryPoint.Address,
				builtin.EntryPoint.MustEncodeInput("depositTo", common.Address(pm.Address)),
				(*big.Int)(pm.Deposit),
				pm.Owner)
		}
	}
	return b
}

// IsBuilt returns whether the genesis was already committed into store.
func IsBuilt(store kv.Getter) (bool, error) {
	return builtin.EntryPoint.IsDeployedAt(state.New(store), builtin.EntryPoint.Address)
}

// Init builds the genesis of cfg into store unless it was built before.
// It returns true if the genesis was built by this call.
func Init(store kv.Store, cfg *config.Config) (bool, error) {
	built, err := IsBuilt(store)
	if err != nil {
		return false, err
	}
	if built {
		logger.Debug("genesis already built")
		return false, nil
	}

	events, err := New(cfg).Build(store)
	if err != nil {
		return false, err
	}
	logger.Info("genesis built", "entryPoint", thor.EntryPointAddress, "paymasters", len(cfg.Paymasters), "events", len(events))
	return true, nil
}
