// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/gasless/kv"
	"github.com/vechain/gasless/thor"
)

// Stage abstracts changes of storage to be written atomically.
type Stage struct {
	changes map[storageKey]rlp.RawValue
}

// Len returns the count of changed storage slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes the hash of the changes, in key order.
func (s *Stage) Hash() thor.Bytes32 {
	keys := make([][]byte, 0, len(s.changes))
	values := make(map[string]rlp.RawValue, len(s.changes))
	for k, v := range s.changes {
		key := k.bytes()
		keys = append(keys, key)
		values[string(key)] = v
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

	parts := make([][]byte, 0, len(keys)*3)
	for _, k := range keys {
		v := values[string(k)]
		parts = append(parts, k, []byte{byte(len(v) >> 8), byte(len(v))}, v)
	}
	return thor.Blake2b(parts...)
}

// Commit writes all changes into the store in a single batch.
func (s *Stage) Commit(store kv.Store) error {
	if len(s.changes) == 0 {
		return nil
	}
	batch := store.NewBatch()
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = batch.Delete(k.bytes())
		} else {
			err = batch.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	metricStorageAccess().AddWithLabel(int64(len(s.changes)), map[string]string{"type": "write", "target": "store"})
	return nil
}
