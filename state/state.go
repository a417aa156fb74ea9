// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/gasless/kv"
	"github.com/vechain/gasless/stackedmap"
	"github.com/vechain/gasless/thor"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

// bytes returns the kv key of the storage slot.
func (k storageKey) bytes() []byte {
	return append(k.addr.Bytes(), k.key.Bytes()...)
}

// State manages contract storage.
type State struct {
	store kv.Getter
	cache map[storageKey]rlp.RawValue // cache of committed storage
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object reading committed storage from the given store.
func New(store kv.Getter) *State {
	s := &State{
		store: store,
		cache: make(map[storageKey]rlp.RawValue),
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key storageKey) (rlp.RawValue, bool, error) {
	if v, ok := s.cache[key]; ok {
		return v, true, nil
	}
	data, err := s.store.Get(key.bytes())
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, false, err
		}
		data = nil
	}
	metricStorageAccess().AddWithLabel(1, map[string]string{"type": "read", "target": "store"})
	s.cache[key] = data
	return data, true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object that commits all changes since the state was created.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes}
}
