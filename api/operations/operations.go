// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operations

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/gasless/api/utils"
	"github.com/vechain/gasless/relay"
	"github.com/vechain/gasless/thor"
)

type Operations struct {
	relay *relay.Relay
}

func New(relay *relay.Relay) *Operations {
	return &Operations{relay}
}

func (o *Operations) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	var body Submission
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Operation == nil {
		return utils.BadRequest(errors.New("body: operation required"))
	}
	if body.Submitter == nil {
		return utils.BadRequest(errors.New("body: submitter required"))
	}
	receipt, err := o.relay.HandleOperation(body.Operation, *body.Submitter)
	if err != nil {
		return utils.RelayError(err)
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (o *Operations) handleSubmitRaw(w http.ResponseWriter, req *http.Request) error {
	var body RawSubmission
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Submitter == nil {
		return utils.BadRequest(errors.New("body: submitter required"))
	}
	receipt, err := o.relay.SubmitRaw(body.Data, *body.Submitter)
	if err != nil {
		return utils.RelayError(err)
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (o *Operations) handleSimulate(w http.ResponseWriter, req *http.Request) error {
	var body Submission
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Operation == nil {
		return utils.BadRequest(errors.New("body: operation required"))
	}
	if body.Submitter == nil {
		return utils.BadRequest(errors.New("body: submitter required"))
	}
	res, err := o.relay.Simulate(body.Operation, *body.Submitter)
	if err != nil {
		return utils.RelayError(err)
	}
	return utils.WriteJSON(w, convertValidationResult(res))
}

func (o *Operations) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	hash, err := thor.ParseBytes32(mux.Vars(req)["hash"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "hash"))
	}
	receipt, err := o.relay.Receipt(hash)
	if err != nil {
		return err
	}
	if receipt == nil {
		return utils.NotFound(errors.New("receipt not found"))
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (o *Operations) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("operations_submit").
		HandlerFunc(utils.WrapHandlerFunc(o.handleSubmit))
	sub.Path("/raw").
		Methods(http.MethodPost).
		Name("operations_submit_raw").
		HandlerFunc(utils.WrapHandlerFunc(o.handleSubmitRaw))
	sub.Path("/simulate").
		Methods(http.MethodPost).
		Name("operations_simulate").
		HandlerFunc(utils.WrapHandlerFunc(o.handleSimulate))
	sub.Path("/{hash}").
		Methods(http.MethodGet).
		Name("operations_get_receipt").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetReceipt))
}
