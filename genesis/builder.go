// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/gasless/kv"
	"github.com/vechain/gasless/runtime"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/xenv"
)

// Builder helper to build the genesis state.
type Builder struct {
	baseFee *big.Int

	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	to     thor.Address
	input  []byte
	value  *big.Int
	caller thor.Address
}

// BaseFee set the base fee seen by genesis calls.
func (b *Builder) BaseFee(fee *big.Int) *Builder {
	b.baseFee = fee
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call.
func (b *Builder) Call(to thor.Address, input []byte, value *big.Int, caller thor.Address) *Builder {
	b.calls = append(b.calls, call{to, input, value, caller})
	return b
}

// Build runs state processes then calls, and commits the result into store.
func (b *Builder) Build(store kv.Store) (events []*xenv.Event, err error) {
	st := state.New(store)

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	baseFee := b.baseFee
	if baseFee == nil {
		baseFee = thor.DefaultBaseFee
	}
	rt := runtime.New(st, &xenv.Context{BaseFee: baseFee})

	for i, call := range b.calls {
		out, err := rt.Execute(&xenv.Message{
			Caller: call.caller,
			To:     call.to,
			Input:  call.input,
			Gas:    math.MaxUint64,
			Value:  call.value,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "call #%d", i)
		}
		if out.Err != nil {
			return nil, errors.Wrapf(out.Err, "call #%d", i)
		}
		events = append(events, out.Events...)
	}

	if err := st.Stage().Commit(store); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	return events, nil
}
