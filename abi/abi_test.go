// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"depositTo","stateMutability":"payable",
	 "inputs":[{"name":"account","type":"address"}],"outputs":[]},
	{"type":"function","name":"addStake","stateMutability":"payable",
	 "inputs":[{"name":"unstakeDelaySec","type":"uint32"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"error","name":"FailedOp",
	 "inputs":[{"name":"paymaster","type":"address"},{"name":"reason","type":"string"}]},
	{"type":"event","name":"Deposited","anonymous":false,
	 "inputs":[{"name":"account","type":"address","indexed":true},{"name":"totalDeposit","type":"uint256","indexed":false}]}
]`

func TestMethod(t *testing.T) {
	a, err := New([]byte(testABI))
	require.NoError(t, err)

	m, ok := a.MethodByName("balanceOf")
	require.True(t, ok)
	assert.Equal(t, "0x70a08231", m.ID().String())
	assert.True(t, m.Const())
	assert.False(t, m.Payable())

	account := common.HexToAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	input, err := m.EncodeInput(account)
	require.NoError(t, err)

	found, err := a.MethodByInput(input)
	require.NoError(t, err)
	assert.Equal(t, m, found)

	var decoded common.Address
	require.NoError(t, m.DecodeInput(input, &decoded))
	assert.Equal(t, account, decoded)

	out, err := m.EncodeOutput(big.NewInt(42))
	require.NoError(t, err)
	var balance *big.Int
	require.NoError(t, m.DecodeOutput(out, &balance))
	assert.Equal(t, big.NewInt(42), balance)

	assert.Error(t, m.DecodeInput([]byte{1, 2, 3, 4}, &decoded))
	assert.Error(t, m.DecodeOutput([]byte{1}, &balance))

	_, err = a.MethodByInput([]byte{1, 2})
	assert.EqualError(t, err, "input data too short")
	_, err = a.MethodByInput([]byte{1, 2, 3, 4})
	assert.EqualError(t, err, "method not found")
}

func TestMethodMultipleArgs(t *testing.T) {
	a, err := New([]byte(testABI))
	require.NoError(t, err)

	m, ok := a.MethodByName("addStake")
	require.True(t, ok)
	assert.True(t, m.Payable())

	input, err := m.EncodeInput(uint32(99999999), big.NewInt(2))
	require.NoError(t, err)

	var args struct {
		UnstakeDelaySec uint32
		Amount          *big.Int
	}
	require.NoError(t, m.DecodeInput(input, &args))
	assert.Equal(t, uint32(99999999), args.UnstakeDelaySec)
	assert.Equal(t, big.NewInt(2), args.Amount)

	values, err := m.DecodeInputValues(input[4:])
	require.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestCustomError(t *testing.T) {
	a, err := New([]byte(testABI))
	require.NoError(t, err)

	e, ok := a.ErrorByName("FailedOp")
	require.True(t, ok)
	assert.Equal(t, "FailedOp", e.Name())

	pm := common.HexToAddress("0x01")
	data, err := e.Encode(pm, "Verifying user in whitelist.")
	require.NoError(t, err)

	found, ok := a.ErrorByData(data)
	require.True(t, ok)
	assert.Equal(t, e, found)

	var decoded struct {
		Paymaster common.Address
		Reason    string
	}
	require.NoError(t, e.Decode(data, &decoded))
	assert.Equal(t, pm, decoded.Paymaster)
	assert.Equal(t, "Verifying user in whitelist.", decoded.Reason)

	_, ok = a.ErrorByData(PackRevert("x"))
	assert.False(t, ok)
}

func TestEvent(t *testing.T) {
	a, err := New([]byte(testABI))
	require.NoError(t, err)

	ev, ok := a.EventByName("Deposited")
	require.True(t, ok)
	assert.Equal(t, "Deposited", ev.Name())
	assert.False(t, ev.ID().IsZero())

	data, err := ev.Encode(big.NewInt(100))
	require.NoError(t, err)
	assert.Len(t, data, 32)

	var total *big.Int
	require.NoError(t, ev.Decode(data, &total))
	assert.Equal(t, big.NewInt(100), total)
}
