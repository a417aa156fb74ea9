// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package paymasters

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/gasless/builtin/entrypoint"
	"github.com/vechain/gasless/relay"
	"github.com/vechain/gasless/thor"
)

type Stake struct {
	Amount          *math.HexOrDecimal256 `json:"amount"`
	UnstakeDelaySec uint64                `json:"unstakeDelaySec"`
}

// Paymaster for marshal paymaster
type Paymaster struct {
	Address    thor.Address          `json:"address"`
	Owner      thor.Address          `json:"owner"`
	EntryPoint thor.Address          `json:"entryPoint"`
	Deposit    *math.HexOrDecimal256 `json:"deposit"`
	Stake      *Stake                `json:"stake"`
}

// DepositRequest credits Amount from Sender to the paymaster deposit.
type DepositRequest struct {
	Sender *thor.Address         `json:"sender"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type DepositResult struct {
	Deposit *math.HexOrDecimal256 `json:"deposit"`
}

// StakeRequest locks Amount as stake, on behalf of Caller.
type StakeRequest struct {
	Caller          *thor.Address         `json:"caller"`
	Amount          *math.HexOrDecimal256 `json:"amount"`
	UnstakeDelaySec uint32                `json:"unstakeDelaySec"`
}

// WhitelistRequest adds Account to the whitelist, on behalf of Caller.
type WhitelistRequest struct {
	Caller  *thor.Address `json:"caller"`
	Account *thor.Address `json:"account"`
}

type Whitelisted struct {
	Whitelisted bool `json:"whitelisted"`
}

func convertStake(s *entrypoint.StakeInfo) *Stake {
	return &Stake{
		Amount:          (*math.HexOrDecimal256)(s.Amount),
		UnstakeDelaySec: s.UnstakeDelaySec,
	}
}

func convertPaymaster(info *relay.PaymasterInfo) *Paymaster {
	return &Paymaster{
		Address:    info.Address,
		Owner:      info.Owner,
		EntryPoint: info.EntryPoint,
		Deposit:    (*math.HexOrDecimal256)(info.Deposit),
		Stake:      convertStake(info.Stake),
	}
}
