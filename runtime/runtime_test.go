// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/gasless/abi"
	"github.com/vechain/gasless/builtin"
	"github.com/vechain/gasless/kv"
	"github.com/vechain/gasless/lvldb"
	"github.com/vechain/gasless/runtime"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/xenv"
)

var caller = thor.BytesToAddress([]byte("caller"))

func newRuntime(t *testing.T) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	builtin.Counter.Deploy(st, builtin.Counter.Address)
	builtin.EntryPoint.Deploy(st, builtin.EntryPoint.Address)
	return runtime.New(st, &xenv.Context{BaseFee: big.NewInt(0)})
}

func execute(t *testing.T, rt *runtime.Runtime, to thor.Address, input []byte, gas uint64) *xenv.Output {
	out, err := rt.Execute(&xenv.Message{
		Caller: caller,
		To:     to,
		Input:  input,
		Gas:    gas,
	})
	require.NoError(t, err)
	return out
}

func count(t *testing.T, rt *runtime.Runtime) int64 {
	v, err := builtin.Counter.Native(rt.State(), nil).Count()
	require.NoError(t, err)
	return v.Int64()
}

func reenter(to thor.Address, data []byte) []byte {
	return builtin.Counter.MustEncodeInput("reenter", common.Address(to), data)
}

func TestCallPlainAccount(t *testing.T) {
	rt := newRuntime(t)

	out := execute(t, rt, thor.BytesToAddress([]byte("account")), []byte{1, 2, 3, 4}, 1000)
	assert.NoError(t, out.Err)
	assert.Empty(t, out.Data)
	assert.Zero(t, out.GasUsed)
}

func TestCallMethodNotFound(t *testing.T) {
	rt := newRuntime(t)

	out := execute(t, rt, builtin.Counter.Address, []byte{0xde, 0xad, 0xbe, 0xef}, 1000)
	var revertErr *xenv.RevertError
	require.ErrorAs(t, out.Err, &revertErr)
	assert.Empty(t, revertErr.Data)
}

func TestCallCheckpoint(t *testing.T) {
	rt := newRuntime(t)

	out := execute(t, rt, builtin.Counter.Address, reenter(builtin.Counter.Address, builtin.Counter.MustEncodeInput("increment")), math.MaxUint64)
	require.NoError(t, out.Err)
	assert.Equal(t, int64(1), count(t, rt))
	require.Len(t, out.Events, 1, "nested events bubble up")
	assert.Equal(t, builtin.Counter.Address, out.Events[0].Address)

	// a nested revert is forwarded and leaves no change
	hash := rt.State().Stage().Hash()
	input := reenter(builtin.Counter.Address,
		reenter(builtin.Counter.Address, builtin.Counter.MustEncodeInput("fail")))
	out = execute(t, rt, builtin.Counter.Address, input, math.MaxUint64)
	var revertErr *xenv.RevertError
	require.ErrorAs(t, out.Err, &revertErr)
	assert.Equal(t, abi.PackRevert(builtin.ErrCounterFailed), revertErr.Data, "revert data forwarded")
	assert.Empty(t, out.Events)
	assert.Equal(t, hash, rt.State().Stage().Hash())
	assert.Equal(t, int64(1), count(t, rt))
}

func TestCallDepth(t *testing.T) {
	nest := func(depth int) []byte {
		input := builtin.Counter.MustEncodeInput("count")
		for range depth - 1 {
			input = reenter(builtin.Counter.Address, input)
		}
		return input
	}

	rt := newRuntime(t)
	out := execute(t, rt, builtin.Counter.Address, nest(runtime.MaxCallDepth), math.MaxUint64)
	assert.NoError(t, out.Err)

	out = execute(t, rt, builtin.Counter.Address, nest(runtime.MaxCallDepth+1), math.MaxUint64)
	assert.ErrorIs(t, out.Err, runtime.ErrDepth)
}

func TestCallOutOfGas(t *testing.T) {
	rt := newRuntime(t)

	out := execute(t, rt, builtin.Counter.Address, builtin.Counter.MustEncodeInput("burn", big.NewInt(5000)), 3000)
	assert.ErrorIs(t, out.Err, xenv.ErrOutOfGas)
	assert.Equal(t, uint64(3000), out.GasUsed, "all gas consumed")

	// exhausting gas in a nested call exhausts the caller too
	out = execute(t, rt, builtin.Counter.Address,
		reenter(builtin.Counter.Address, builtin.Counter.MustEncodeInput("burn", big.NewInt(math.MaxInt64))), 100000)
	assert.ErrorIs(t, out.Err, xenv.ErrOutOfGas)
	assert.Equal(t, uint64(100000), out.GasUsed)
}

func TestExecuteFault(t *testing.T) {
	failure := errors.New("disk failure")
	store := struct {
		kv.GetFunc
		kv.HasFunc
		kv.IsNotFoundFunc
	}{
		func([]byte) ([]byte, error) { return nil, failure },
		func([]byte) (bool, error) { return false, failure },
		func(error) bool { return false },
	}

	rt := runtime.New(state.New(store), &xenv.Context{})
	_, err := rt.Execute(&xenv.Message{
		Caller: caller,
		To:     builtin.Counter.Address,
		Input:  builtin.Counter.MustEncodeInput("count"),
		Gas:    1000,
	})
	assert.ErrorIs(t, err, failure)
}
