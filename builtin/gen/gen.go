// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen embeds the ABIs of the builtin contracts. The contracts are implemented
// natively, the solidity sources only declare their interfaces.
package gen

//go:generate rm -rf ./compiled/
//go:generate docker run -v ./:/solidity ethereum/solc:0.8.20 --overwrite --abi -o /solidity/compiled /solidity/EntryPoint.sol /solidity/Paymaster.sol /solidity/Counter.sol
