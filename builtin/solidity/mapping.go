// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/gasless/thor"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded, a zero value clears the slot.
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value of key, or the zero value if absent.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			m.context.UseGas(thor.SloadGas)
			return nil
		}
		m.context.UseGas(wordsOf(len(raw)) * thor.SloadGas)
		return rlp.DecodeBytes(raw, &value)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return
}

// Insert stores a value into a slot assumed to be empty.
func (m *Mapping[K, V]) Insert(key K, value V) error {
	return m.set(key, value, thor.SstoreSetGas)
}

// Update overwrites the value of an existing slot.
func (m *Mapping[K, V]) Update(key K, value V) error {
	return m.set(key, value, thor.SstoreResetGas)
}

func (m *Mapping[K, V]) set(key K, value V, gasPerWord uint64) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		if isZero(value) {
			return nil, nil
		}
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		m.context.UseGas(wordsOf(len(val)) * gasPerWord)
		return val, nil
	})
}

func isZero(v any) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || rv.IsZero()
}

// wordsOf charges a value of up to 32 bytes as one word, anything longer as two.
// Mapping values are short rlp records, so the rule stays flat.
func wordsOf(length int) uint64 {
	if length > 32 {
		return 2
	}
	return 1
}
