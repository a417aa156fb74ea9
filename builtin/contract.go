// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/vechain/gasless/abi"
	"github.com/vechain/gasless/builtin/gen"
)

type contract struct {
	name string
	ABI  *abi.ABI
}

func mustLoadContract(name string) *contract {
	asset := "compiled/" + name + ".abi"
	data := gen.MustABI(asset)
	abi, err := abi.New(data)
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}

	c := &contract{name, abi}
	contracts[name] = c
	return c
}

// Name returns the contract name, which is also its code.
func (c *contract) Name() string {
	return c.name
}

func (c *contract) mustMethod(name string) *abi.Method {
	if m, found := c.ABI.MethodByName(name); found {
		return m
	}
	panic(fmt.Errorf("method '%s' not found in '%s'", name, c.name))
}

func (c *contract) mustEvent(name string) *abi.Event {
	if e, found := c.ABI.EventByName(name); found {
		return e
	}
	panic(fmt.Errorf("event '%s' not found in '%s'", name, c.name))
}

func (c *contract) mustError(name string) *abi.Error {
	if e, found := c.ABI.ErrorByName(name); found {
		return e
	}
	panic(fmt.Errorf("error '%s' not found in '%s'", name, c.name))
}

// EncodeInput packs a call of the named method.
func (c *contract) EncodeInput(name string, args ...any) ([]byte, error) {
	m, found := c.ABI.MethodByName(name)
	if !found {
		return nil, fmt.Errorf("method '%s' not found in '%s'", name, c.name)
	}
	return m.EncodeInput(args...)
}

// MustEncodeInput is like EncodeInput but panics on error.
func (c *contract) MustEncodeInput(name string, args ...any) []byte {
	data, err := c.EncodeInput(name, args...)
	if err != nil {
		panic(err)
	}
	return data
}
