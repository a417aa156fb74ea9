// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) withKey(key []byte, fn func(k []byte)) {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], b...), key...)
	fn(buf.k)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) (val []byte, err error) {
			b.withKey(key, func(k []byte) { val, err = src.Get(k) })
			return
		},
		func(key []byte) (has bool, err error) {
			b.withKey(key, func(k []byte) { has, err = src.Has(k) })
			return
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) (err error) {
			b.withKey(key, func(k []byte) { err = src.Put(k, val) })
			return
		},
		func(key []byte) (err error) {
			b.withKey(key, func(k []byte) { err = src.Delete(k) })
			return
		},
	}
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		NewBatchFunc
		IterateFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		func() Batch {
			batch := src.NewBatch()
			return &struct {
				Putter
				LenFunc
				WriteFunc
			}{
				b.NewPutter(batch),
				batch.Len,
				batch.Write,
			}
		},
		func(r Range) Iterator {
			rng := Range{
				Start: append([]byte(b), r.Start...),
			}
			if len(r.Limit) == 0 {
				rng.Limit = util.BytesPrefix([]byte(b)).Limit
			} else {
				rng.Limit = append([]byte(b), r.Limit...)
			}
			return &bucketIterator{src.Iterate(rng), len(b)}
		},
	}
}

// bucketIterator strips the bucket prefix from keys.
type bucketIterator struct {
	Iterator
	prefixLen int
}

func (i *bucketIterator) Key() []byte {
	return i.Iterator.Key()[i.prefixLen:]
}

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() any {
		return &buf{}
	},
}
