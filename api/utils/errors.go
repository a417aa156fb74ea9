// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"

	"github.com/vechain/gasless/builtin/entrypoint"
	"github.com/vechain/gasless/relay"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
)

// FailedOp is the response body of a rejected operation.
type FailedOp struct {
	Paymaster thor.Address `json:"paymaster"`
	Reason    string       `json:"reason"`
}

// RelayError maps an error returned by the relay to its http status.
func RelayError(err error) error {
	var (
		failedOp  *entrypoint.FailedOpError
		malformed *userop.MalformedError
		invariant *entrypoint.AccountingInvariantError
		callErr   *relay.CallError
	)
	switch {
	case errors.As(err, &failedOp):
		return HTTPErrorWithBody(err, http.StatusBadRequest, &FailedOp{failedOp.Paymaster, failedOp.Reason})
	case errors.As(err, &malformed), errors.As(err, &callErr):
		return BadRequest(err)
	case errors.Is(err, relay.ErrNotOwner):
		return Forbidden(err)
	case errors.Is(err, relay.ErrPaymasterNotFound):
		return NotFound(err)
	case errors.As(err, &invariant):
		return HTTPError(err, http.StatusInternalServerError)
	default:
		return err
	}
}
