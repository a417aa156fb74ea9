// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package paymaster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/gasless/builtin/reverts"
	"github.com/vechain/gasless/builtin/solidity"
	"github.com/vechain/gasless/lvldb"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
)

var (
	owner = thor.BytesToAddress([]byte("owner"))
	userA = thor.BytesToAddress([]byte("userA"))
	userB = thor.BytesToAddress([]byte("userB"))
)

func newPaymaster(t *testing.T) *Paymaster {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pm := New(solidity.NewContext(thor.BytesToAddress([]byte("paymaster")), state.New(db), nil))
	pm.Init(owner, thor.EntryPointAddress)
	return pm
}

func TestInit(t *testing.T) {
	pm := newPaymaster(t)

	got, err := pm.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	ep, err := pm.EntryPoint()
	require.NoError(t, err)
	assert.Equal(t, thor.EntryPointAddress, ep)

	assert.NoError(t, pm.CheckOwner(owner))
	assert.EqualError(t, pm.CheckOwner(userA), ReasonNotOwner)
}

func TestWhitelist(t *testing.T) {
	pm := newPaymaster(t)

	op := &userop.UserOperation{PaymasterAndData: append(thor.Address{}.Bytes(), 0xca, 0xfe)}
	context := []byte{0xca, 0xfe}

	_, err := pm.ValidateSubmitter(userA, op, context)
	assert.True(t, reverts.IsRevertErr(err))
	assert.EqualError(t, err, "Verifying user in whitelist.")

	added, err := pm.AddWhitelistAddress(owner, userA)
	require.NoError(t, err)
	assert.True(t, added)

	// idempotent
	added, err = pm.AddWhitelistAddress(owner, userA)
	require.NoError(t, err)
	assert.False(t, added)

	got, err := pm.ValidateSubmitter(userA, op, context)
	require.NoError(t, err)
	assert.Equal(t, context, got)
	_, err = pm.ValidateSubmitter(userB, op, context)
	assert.Error(t, err)

	_, err = pm.AddWhitelistAddress(userA, userB)
	assert.EqualError(t, err, ReasonNotOwner)

	listed, err := pm.IsWhitelisted(userB)
	require.NoError(t, err)
	assert.False(t, listed)
}
