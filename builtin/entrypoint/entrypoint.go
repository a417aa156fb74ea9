// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package entrypoint keeps the paymaster deposit and stake ledgers and drives the
// validate, execute, settle pipeline of sponsored operations.
package entrypoint

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/gasless/builtin/reverts"
	"github.com/vechain/gasless/builtin/solidity"
	"github.com/vechain/gasless/log"
	"github.com/vechain/gasless/thor"
)

var logger = log.WithContext("pkg", "entrypoint")

var (
	slotDeposits = thor.BytesToBytes32([]byte("deposits"))
	slotStakes   = thor.BytesToBytes32([]byte("stakes"))

	// MinPaymasterStake is the stake a paymaster needs to sponsor operations.
	MinPaymasterStake = solidity.NewConfigVariable("min-paymaster-stake", thor.DefaultMinPaymasterStake)
	// MinUnstakeDelaySec is the lowest unstake delay accepted by AddStake.
	MinUnstakeDelaySec = solidity.NewConfigVariable("min-unstake-delay-sec", thor.DefaultMinUnstakeDelaySec)
)

// EntryPoint binds the ledgers of an EntryPoint contract.
type EntryPoint struct {
	context  *solidity.Context
	deposits *solidity.Mapping[thor.Address, *big.Int]
	stakes   *solidity.Mapping[thor.Address, *StakeInfo]
}

func New(context *solidity.Context) *EntryPoint {
	return &EntryPoint{
		context:  context,
		deposits: solidity.NewMapping[thor.Address, *big.Int](context, slotDeposits),
		stakes:   solidity.NewMapping[thor.Address, *StakeInfo](context, slotStakes),
	}
}

// Address returns the contract address.
func (e *EntryPoint) Address() thor.Address {
	return e.context.Address()
}

// Params returns the effective minimum stake and unstake delay.
func (e *EntryPoint) Params() (minStake *big.Int, minUnstakeDelaySec uint64) {
	return new(big.Int).SetUint64(MinPaymasterStake.Get(e.context)), MinUnstakeDelaySec.Get(e.context)
}

// SetParams overrides the minimum stake and unstake delay.
func (e *EntryPoint) SetParams(minStake uint64, minUnstakeDelaySec uint64) {
	MinPaymasterStake.Override(e.context, minStake)
	MinUnstakeDelaySec.Override(e.context, minUnstakeDelaySec)
}

// BalanceOf returns the deposit of paymaster.
func (e *EntryPoint) BalanceOf(paymaster thor.Address) (*big.Int, error) {
	bal, err := e.deposits.Get(paymaster)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

func (e *EntryPoint) setBalance(paymaster thor.Address, prev, bal *big.Int) error {
	if prev.Sign() == 0 {
		return e.deposits.Insert(paymaster, bal)
	}
	return e.deposits.Update(paymaster, bal)
}

// DepositTo credits amount to the deposit of paymaster and returns the new balance.
func (e *EntryPoint) DepositTo(paymaster thor.Address, amount *big.Int) (*big.Int, error) {
	if paymaster.IsZero() {
		return nil, reverts.New("deposit to zero address")
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, reverts.New("deposit amount must be positive")
	}
	bal, err := e.BalanceOf(paymaster)
	if err != nil {
		return nil, err
	}
	total := new(big.Int).Add(bal, amount)
	if total.BitLen() > 256 {
		return nil, reverts.New("deposit overflow")
	}
	if err := e.setBalance(paymaster, bal, total); err != nil {
		return nil, err
	}
	return total, nil
}

// GetStakeInfo returns the stake of paymaster, zero valued if none.
func (e *EntryPoint) GetStakeInfo(paymaster thor.Address) (*StakeInfo, error) {
	info, err := e.stakes.Get(paymaster)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return &StakeInfo{Amount: new(big.Int)}, nil
	}
	return info, nil
}

// AddStake adds amount to the stake of paymaster. The unstake delay never decreases.
func (e *EntryPoint) AddStake(paymaster thor.Address, unstakeDelaySec uint64, amount *big.Int) (*StakeInfo, error) {
	if _, minDelay := e.Params(); unstakeDelaySec < minDelay {
		return nil, reverts.New("unstake delay too low")
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, reverts.New("invalid stake amount")
	}
	info, err := e.GetStakeInfo(paymaster)
	if err != nil {
		return nil, err
	}
	isNew := info.IsEmpty()
	updated := &StakeInfo{
		Amount:          new(big.Int).Add(info.Amount, amount),
		UnstakeDelaySec: max(info.UnstakeDelaySec, unstakeDelaySec),
	}
	if updated.Amount.Sign() == 0 {
		return nil, reverts.New("no stake specified")
	}
	if updated.Amount.BitLen() > 256 {
		return nil, reverts.New("stake overflow")
	}
	if isNew {
		err = e.stakes.Insert(paymaster, updated)
	} else {
		err = e.stakes.Update(paymaster, updated)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// IsSolvent reports whether paymaster is staked enough and can cover cost from its deposit.
// It always reads the live ledgers.
func (e *EntryPoint) IsSolvent(paymaster thor.Address, cost *big.Int) (bool, error) {
	info, err := e.GetStakeInfo(paymaster)
	if err != nil {
		return false, err
	}
	minStake, _ := e.Params()
	if info.Amount.Cmp(minStake) < 0 {
		return false, nil
	}
	bal, err := e.BalanceOf(paymaster)
	if err != nil {
		return false, err
	}
	return bal.Cmp(cost) >= 0, nil
}

// Reserve debits amount from the deposit ahead of execution.
func (e *EntryPoint) Reserve(paymaster thor.Address, amount *big.Int) error {
	bal, err := e.BalanceOf(paymaster)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return &AccountingInvariantError{paymaster, bal, amount}
	}
	return e.deposits.Update(paymaster, new(big.Int).Sub(bal, amount))
}

// Settle releases a reservation, charging actualCost and refunding the rest.
func (e *EntryPoint) Settle(paymaster thor.Address, reserved, actualCost *big.Int) error {
	bal, err := e.BalanceOf(paymaster)
	if err != nil {
		return err
	}
	available := new(big.Int).Add(bal, reserved)
	if available.Cmp(actualCost) < 0 {
		return &AccountingInvariantError{paymaster, available, actualCost}
	}
	if err := e.deposits.Update(paymaster, available.Sub(available, actualCost)); err != nil {
		return errors.WithMessage(err, "settle")
	}
	return nil
}
