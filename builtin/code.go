// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"bytes"

	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
)

// codeKey is the storage slot holding the name of the contract deployed at an address.
var codeKey = thor.Blake2b([]byte("code"))

var contracts = make(map[string]*contract)

// Deploy installs the contract code at addr.
func (c *contract) Deploy(st *state.State, addr thor.Address) {
	st.SetStorage(addr, codeKey, thor.BytesToBytes32([]byte(c.name)))
}

// IsDeployedAt returns whether addr runs the contract code.
func (c *contract) IsDeployedAt(st *state.State, addr thor.Address) (bool, error) {
	code, err := CodeOf(st, addr)
	if err != nil {
		return false, err
	}
	return code == c.name, nil
}

// CodeOf returns the name of the contract deployed at addr, empty for a plain account.
func CodeOf(st *state.State, addr thor.Address) (string, error) {
	v, err := st.GetStorage(addr, codeKey)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimLeft(v[:], "\x00")), nil
}
