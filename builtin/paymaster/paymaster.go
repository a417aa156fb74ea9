// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package paymaster implements a whitelist paymaster: it sponsors operations submitted
// by whitelisted accounts only.
package paymaster

import (
	"github.com/vechain/gasless/builtin/reverts"
	"github.com/vechain/gasless/builtin/solidity"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
)

const (
	// ReasonNotWhitelisted is the revert reason of a rejected submitter.
	ReasonNotWhitelisted = "Verifying user in whitelist."
	// ReasonNotOwner is the revert reason of an owner-only method called by someone else.
	ReasonNotOwner = "Ownable: caller is not the owner"
)

var (
	slotOwner      = thor.BytesToBytes32([]byte("owner"))
	slotEntryPoint = thor.BytesToBytes32([]byte("entry-point"))
	slotWhitelist  = thor.BytesToBytes32([]byte("whitelist"))
)

// Paymaster binds the storage of a paymaster contract.
type Paymaster struct {
	owner      *solidity.Address
	entryPoint *solidity.Address
	whitelist  *solidity.Mapping[thor.Address, bool]
}

func New(context *solidity.Context) *Paymaster {
	return &Paymaster{
		owner:      solidity.NewAddress(context, slotOwner),
		entryPoint: solidity.NewAddress(context, slotEntryPoint),
		whitelist:  solidity.NewMapping[thor.Address, bool](context, slotWhitelist),
	}
}

// Init sets up a freshly deployed paymaster.
func (p *Paymaster) Init(owner, entryPoint thor.Address) {
	p.owner.Set(&owner, true)
	p.entryPoint.Set(&entryPoint, true)
}

func (p *Paymaster) Owner() (thor.Address, error) {
	return p.owner.Get()
}

// EntryPoint returns the EntryPoint the paymaster stakes in.
func (p *Paymaster) EntryPoint() (thor.Address, error) {
	return p.entryPoint.Get()
}

// CheckOwner fails with a revert if caller is not the owner.
func (p *Paymaster) CheckOwner(caller thor.Address) error {
	owner, err := p.Owner()
	if err != nil {
		return err
	}
	if owner != caller {
		return reverts.New(ReasonNotOwner)
	}
	return nil
}

func (p *Paymaster) IsWhitelisted(addr thor.Address) (bool, error) {
	return p.whitelist.Get(addr)
}

// AddWhitelistAddress whitelists addr. Adding an address twice has no effect,
// the returned bool tells whether it was newly added.
func (p *Paymaster) AddWhitelistAddress(caller, addr thor.Address) (bool, error) {
	if err := p.CheckOwner(caller); err != nil {
		return false, err
	}
	listed, err := p.IsWhitelisted(addr)
	if err != nil {
		return false, err
	}
	if listed {
		return false, nil
	}
	if err := p.whitelist.Insert(addr, true); err != nil {
		return false, err
	}
	return true, nil
}

// ValidateSubmitter sponsors op iff submitter is whitelisted, whatever the operation
// and its context are. The context is handed back to the EntryPoint as is.
func (p *Paymaster) ValidateSubmitter(submitter thor.Address, _ *userop.UserOperation, context []byte) ([]byte, error) {
	listed, err := p.IsWhitelisted(submitter)
	if err != nil {
		return nil, err
	}
	if !listed {
		return nil, reverts.New(ReasonNotWhitelisted)
	}
	return context, nil
}
