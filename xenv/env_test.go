// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/gasless/abi"
	"github.com/vechain/gasless/thor"
)

const testABI = `[
	{"type":"function","name":"get","stateMutability":"view","inputs":[{"name":"key","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"set","stateMutability":"nonpayable","inputs":[{"name":"key","type":"uint256"},{"name":"value","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"fund","stateMutability":"payable","inputs":[],"outputs":[]},
	{"type":"event","name":"Set","anonymous":false,"inputs":[{"name":"key","type":"uint256","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

type runnerFunc func(msg *Message) *Output

func (f runnerFunc) Call(msg *Message) *Output { return f(msg) }

func mustMethod(t *testing.T, name string) *abi.Method {
	a, err := abi.New([]byte(testABI))
	require.NoError(t, err)
	m, ok := a.MethodByName(name)
	require.True(t, ok)
	return m
}

func newEnv(t *testing.T, name string, msg *Message, runner Runner, args ...any) *Environment {
	m := mustMethod(t, name)
	input, err := m.EncodeInput(args...)
	require.NoError(t, err)
	msg.Input = input
	return New(m, input[4:], nil, &Context{}, msg, runner)
}

func TestRunEncodesOutput(t *testing.T) {
	env := newEnv(t, "get", &Message{Gas: 1000}, nil, big.NewInt(7))
	data, err := env.Run(func(env *Environment) []any {
		var key *big.Int
		env.ParseArgs(&key)
		env.UseGas(100)
		return []any{new(big.Int).Add(key, big.NewInt(1))}
	})
	require.NoError(t, err)

	var out *big.Int
	require.NoError(t, env.Method().DecodeOutput(data, &out))
	assert.Equal(t, int64(8), out.Int64())
	assert.Equal(t, uint64(100), env.GasUsed())
	assert.Equal(t, uint64(900), env.GasLeft())
}

func TestRunOutOfGas(t *testing.T) {
	env := newEnv(t, "get", &Message{Gas: 50}, nil, big.NewInt(7))
	_, err := env.Run(func(env *Environment) []any {
		env.UseGas(51)
		return nil
	})
	assert.Equal(t, ErrOutOfGas, err)
	assert.Equal(t, uint64(50), env.GasUsed())
}

func TestRunGuards(t *testing.T) {
	env := newEnv(t, "set", &Message{Gas: 1000, ReadOnly: true}, nil, big.NewInt(1), big.NewInt(2))
	_, err := env.Run(func(*Environment) []any { return nil })
	assert.Equal(t, ErrWriteProtection, err)

	env = newEnv(t, "set", &Message{Gas: 1000, Value: big.NewInt(1)}, nil, big.NewInt(1), big.NewInt(2))
	_, err = env.Run(func(*Environment) []any { return nil })
	assert.Equal(t, ErrNonPayable, err)

	env = newEnv(t, "fund", &Message{Gas: 1000, Value: big.NewInt(1)}, nil)
	_, err = env.Run(func(env *Environment) []any {
		assert.Equal(t, int64(1), env.Value().Int64())
		return nil
	})
	assert.NoError(t, err)
}

func TestRunReverts(t *testing.T) {
	env := newEnv(t, "fund", &Message{Gas: 1000}, nil)
	_, err := env.Run(func(env *Environment) []any {
		env.RevertWithReason("not allowed")
		return nil
	})
	var revertErr *RevertError
	require.ErrorAs(t, err, &revertErr)
	assert.Equal(t, "not allowed", revertErr.Reason())
	assert.Equal(t, "execution reverted: not allowed", err.Error())

	_, err = env.Run(func(env *Environment) []any {
		env.Revert(nil)
		return nil
	})
	assert.True(t, IsRevert(err))
	assert.Equal(t, "execution reverted", err.Error())

	assert.False(t, IsRevert(ErrOutOfGas))
	assert.False(t, IsRevert(nil))
}

func TestRunPanicsOnForeignPanic(t *testing.T) {
	env := newEnv(t, "fund", &Message{Gas: 1000}, nil)
	assert.Panics(t, func() {
		_, _ = env.Run(func(*Environment) []any {
			panic(errors.New("boom"))
		})
	})
}

func TestLog(t *testing.T) {
	a, err := abi.New([]byte(testABI))
	require.NoError(t, err)
	ev, ok := a.EventByName("Set")
	require.True(t, ok)

	to := thor.BytesToAddress([]byte("contract"))
	env := newEnv(t, "set", &Message{To: to, Gas: 10000}, nil, big.NewInt(1), big.NewInt(2))
	_, err = env.Run(func(env *Environment) []any {
		env.Log(ev, []thor.Bytes32{thor.BytesToBytes32([]byte{1})}, big.NewInt(2))
		return nil
	})
	require.NoError(t, err)

	require.Len(t, env.Events(), 1)
	got := env.Events()[0]
	assert.Equal(t, to, got.Address)
	assert.Equal(t, []thor.Bytes32{ev.ID(), thor.BytesToBytes32([]byte{1})}, got.Topics)
	assert.Equal(t, thor.LogGas+2*thor.LogTopicGas+32*thor.LogDataGas, env.GasUsed())
}

func TestNestedCall(t *testing.T) {
	self := thor.BytesToAddress([]byte("self"))
	other := thor.BytesToAddress([]byte("other"))
	ev := &Event{Address: other}

	var seen *Message
	runner := runnerFunc(func(msg *Message) *Output {
		seen = msg
		if len(msg.Input) == 0 {
			return &Output{GasUsed: msg.Gas, Err: ErrOutOfGas}
		}
		return &Output{Data: []byte{1}, Events: []*Event{ev}, GasUsed: 300}
	})

	env := newEnv(t, "set", &Message{To: self, Gas: 10000}, runner, big.NewInt(1), big.NewInt(2))
	_, err := env.Run(func(env *Environment) []any {
		out := env.Call(other, []byte{1}, 5000, big.NewInt(3))
		assert.NoError(t, out.Err)
		assert.Equal(t, self, seen.Caller)
		assert.Equal(t, other, seen.To)
		assert.Equal(t, uint64(5000), seen.Gas)
		assert.False(t, seen.ReadOnly)

		// capped by the gas left
		out = env.StaticCall(other, nil, 1<<40)
		assert.Equal(t, ErrOutOfGas, out.Err)
		assert.True(t, seen.ReadOnly)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []*Event{ev}, env.Events())
	assert.Equal(t, uint64(10000), env.GasUsed())
}
