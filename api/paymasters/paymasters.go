// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package paymasters

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/gasless/api/utils"
	"github.com/vechain/gasless/relay"
	"github.com/vechain/gasless/thor"
)

type Paymasters struct {
	relay *relay.Relay
}

func New(relay *relay.Relay) *Paymasters {
	return &Paymasters{relay}
}

func parseAddress(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

func amountOf(v *math.HexOrDecimal256) (*big.Int, error) {
	if v == nil {
		return nil, errors.New("amount required")
	}
	amount := (*big.Int)(v)
	if amount.Sign() < 0 {
		return nil, errors.New("negative amount")
	}
	return amount, nil
}

func (p *Paymasters) handleGetPaymaster(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	info, err := p.relay.Paymaster(addr)
	if err != nil {
		return utils.RelayError(err)
	}
	return utils.WriteJSON(w, convertPaymaster(info))
}

func (p *Paymasters) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var body DepositRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Sender == nil {
		return utils.BadRequest(errors.New("body: sender required"))
	}
	amount, err := amountOf(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	deposit, err := p.relay.Deposit(*body.Sender, addr, amount)
	if err != nil {
		return utils.RelayError(err)
	}
	return utils.WriteJSON(w, &DepositResult{(*math.HexOrDecimal256)(deposit)})
}

func (p *Paymasters) handleAddStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller == nil {
		return utils.BadRequest(errors.New("body: caller required"))
	}
	amount, err := amountOf(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	stake, err := p.relay.AddStake(*body.Caller, addr, body.UnstakeDelaySec, amount)
	if err != nil {
		return utils.RelayError(err)
	}
	return utils.WriteJSON(w, convertStake(stake))
}

func (p *Paymasters) handleAddWhitelistAddress(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var body WhitelistRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller == nil || body.Account == nil {
		return utils.BadRequest(errors.New("body: caller and account required"))
	}
	if err := p.relay.AddWhitelistAddress(*body.Caller, addr, *body.Account); err != nil {
		return utils.RelayError(err)
	}
	return utils.WriteJSON(w, &Whitelisted{true})
}

func (p *Paymasters) handleIsWhitelisted(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	account, err := parseAddress(req, "account")
	if err != nil {
		return err
	}
	listed, err := p.relay.IsWhitelisted(addr, account)
	if err != nil {
		return utils.RelayError(err)
	}
	return utils.WriteJSON(w, &Whitelisted{listed})
}

func (p *Paymasters) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("paymasters_get_paymaster").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPaymaster))
	sub.Path("/{address}/deposit").
		Methods(http.MethodPost).
		Name("paymasters_deposit").
		HandlerFunc(utils.WrapHandlerFunc(p.handleDeposit))
	sub.Path("/{address}/stake").
		Methods(http.MethodPost).
		Name("paymasters_add_stake").
		HandlerFunc(utils.WrapHandlerFunc(p.handleAddStake))
	sub.Path("/{address}/whitelist").
		Methods(http.MethodPost).
		Name("paymasters_add_whitelist_address").
		HandlerFunc(utils.WrapHandlerFunc(p.handleAddWhitelistAddress))
	sub.Path("/{address}/whitelist/{account}").
		Methods(http.MethodGet).
		Name("paymasters_is_whitelisted").
		HandlerFunc(utils.WrapHandlerFunc(p.handleIsWhitelisted))
}
