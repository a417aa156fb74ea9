// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/blake2b"
	"github.com/stretchr/testify/assert"
)

func TestKeccak256(t *testing.T) {
	data := [][]byte{[]byte("handleOp"), []byte("(address,bytes)")}

	assert.Equal(t, Bytes32(crypto.Keccak256Hash(data...)), Keccak256(data...))
	// pooled state must be reset between calls
	assert.Equal(t, Keccak256(data...), Keccak256(data...))
}

func TestBlake2b(t *testing.T) {
	single := Blake2b([]byte("deposit"))
	assert.Equal(t, Bytes32(blake2b.Sum256([]byte("deposit"))), single)

	multi := Blake2b([]byte("dep"), []byte("osit"))
	assert.Equal(t, single, multi)
	assert.Equal(t, multi, Blake2b([]byte("dep"), []byte("osit")))
}

func TestBytes32Text(t *testing.T) {
	b := BytesToBytes32([]byte{0xab})
	text, err := b.MarshalText()
	assert.NoError(t, err)

	var decoded Bytes32
	assert.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, b, decoded)
	assert.False(t, decoded.IsZero())

	_, err = ParseBytes32("0xzz")
	assert.Error(t, err)
}
