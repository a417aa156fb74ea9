// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/gasless/builtin/entrypoint"
	"github.com/vechain/gasless/builtin/gascharger"
	"github.com/vechain/gasless/builtin/reverts"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
	"github.com/vechain/gasless/xenv"
)

// ErrPaymasterNotRegistered is the revert reason of a deposit to an address without paymaster code.
const ErrPaymasterNotRegistered = "paymaster not registered"

var (
	failedOpError       = EntryPoint.mustError("FailedOp")
	malformedError      = EntryPoint.mustError("MalformedOperation")
	invariantError      = EntryPoint.mustError("AccountingInvariantViolated")
	validationResultErr = EntryPoint.mustError("ValidationResult")
)

// newOpCalls builds the calls an EntryPoint operation makes through env.
var newOpCalls = func(env *xenv.Environment) entrypoint.Calls { return &opCalls{env} }

// opCalls reaches the paymaster and the target from within an EntryPoint call.
type opCalls struct {
	env *xenv.Environment
}

func (c *opCalls) ValidatePaymasterUserOp(paymaster thor.Address, op *userop.UserOperation, submitter thor.Address, maxCost *big.Int, gas uint64) *xenv.Output {
	method := Paymaster.mustMethod("validatePaymasterUserOp")
	input, err := method.EncodeInput(op.ABIValue(), common.Address(submitter), maxCost)
	if err != nil {
		panic(pkgerrors.WithMessage(err, "encode paymaster validation"))
	}
	// eligibility is a pure policy check
	out := c.env.StaticCall(paymaster, input, gas)
	if out.Err == nil {
		var context []byte
		if err := method.DecodeOutput(out.Data, &context); err != nil {
			out.Err = errors.New(entrypoint.ReasonInvalidPaymasterReply)
		}
	}
	return out
}

func (c *opCalls) Execute(target thor.Address, data []byte, gas uint64) *xenv.Output {
	return c.env.Call(target, data, gas, nil)
}

// decodeOperation decodes the bare tuple of a structured or fallback submission.
func decodeOperation(env *xenv.Environment) *userop.UserOperation {
	op, err := userop.Unpack(env.Args())
	if err != nil {
		revertOperation(env, err)
	}
	return op
}

// revertOperation reverts with the custom error matching a pipeline failure.
func revertOperation(env *xenv.Environment, err error) {
	var (
		failedOp  *entrypoint.FailedOpError
		malformed *userop.MalformedError
		invariant *entrypoint.AccountingInvariantError
		data      []byte
		encErr    error
	)
	switch {
	case errors.As(err, &failedOp):
		data, encErr = failedOpError.Encode(common.Address(failedOp.Paymaster), failedOp.Reason)
	case errors.As(err, &malformed):
		data, encErr = malformedError.Encode(malformed.Reason)
	case errors.As(err, &invariant):
		logger.Error("accounting invariant violated", "paymaster", invariant.Paymaster, "balance", invariant.Balance, "cost", invariant.ActualCost)
		data, encErr = invariantError.Encode(common.Address(invariant.Paymaster), invariant.Balance, invariant.ActualCost)
	default:
		mustSucceed(env, err)
	}
	if encErr != nil {
		panic(pkgerrors.WithMessage(encErr, "encode operation failure"))
	}
	env.Revert(data)
}

// DecodeOperationError resolves the pipeline failure carried by the revert data
// of handleOp or simulateValidation. It returns nil for any other revert data.
func DecodeOperationError(data []byte) error {
	e, found := EntryPoint.ABI.ErrorByData(data)
	if !found {
		return nil
	}
	switch e.Name() {
	case failedOpError.Name():
		var v struct {
			Paymaster common.Address
			Reason    string
		}
		if err := e.Decode(data, &v); err == nil {
			return &entrypoint.FailedOpError{Paymaster: thor.Address(v.Paymaster), Reason: v.Reason}
		}
	case malformedError.Name():
		var reason string
		if err := e.Decode(data, &reason); err == nil {
			return &userop.MalformedError{Reason: reason}
		}
	case invariantError.Name():
		var v struct {
			Paymaster  common.Address
			Balance    *big.Int
			ActualCost *big.Int
		}
		if err := e.Decode(data, &v); err == nil {
			return &entrypoint.AccountingInvariantError{Paymaster: thor.Address(v.Paymaster), Balance: v.Balance, ActualCost: v.ActualCost}
		}
	}
	return nil
}

// DecodeValidationResult decodes the ValidationResult simulateValidation reverts with.
func DecodeValidationResult(data []byte) (*entrypoint.ValidationResult, bool) {
	var v struct {
		Paymaster         common.Address
		PreFund           *big.Int
		ValidationGasUsed *big.Int
	}
	if err := validationResultErr.Decode(data, &v); err != nil || !v.ValidationGasUsed.IsUint64() {
		return nil, false
	}
	return &entrypoint.ValidationResult{
		Paymaster:         thor.Address(v.Paymaster),
		PreFund:           v.PreFund,
		ValidationGasUsed: v.ValidationGasUsed.Uint64(),
	}, true
}

// DecodeExecutionResult decodes the output of handleOp.
func DecodeExecutionResult(data []byte) (*entrypoint.ExecutionResult, error) {
	var v struct {
		Success       bool
		ActualGasUsed *big.Int
		ActualGasCost *big.Int
		Result        []byte
	}
	if err := EntryPoint.mustMethod("handleOp").DecodeOutput(data, &v); err != nil {
		return nil, err
	}
	if !v.ActualGasUsed.IsUint64() {
		return nil, errors.New("actualGasUsed exceeds uint64")
	}
	return &entrypoint.ExecutionResult{
		Success:       v.Success,
		ReturnData:    v.Result,
		ActualGasUsed: v.ActualGasUsed.Uint64(),
		ActualGasCost: v.ActualGasCost,
	}, nil
}

func init() {
	var (
		depositedEvent   = EntryPoint.mustEvent("Deposited")
		stakeLockedEvent = EntryPoint.mustEvent("StakeLocked")
		userOpEvent      = EntryPoint.mustEvent("UserOperationEvent")
	)

	handleOp := func(env *xenv.Environment, charger *gascharger.Charger) []any {
		op := decodeOperation(env)
		res, err := EntryPoint.Native(env.State(), charger).
			HandleOperation(newOpCalls(env), op, env.Caller(), env.Context().BaseFee)
		if err != nil {
			revertOperation(env, err)
		}

		gasUsed := new(big.Int).SetUint64(res.ActualGasUsed)
		env.Log(userOpEvent, []thor.Bytes32{
			op.Hash(env.To()),
			addressTopic(res.Paymaster),
			addressTopic(op.Target),
		}, res.Success, res.ActualGasCost, gasUsed)
		return []any{res.Success, gasUsed, res.ActualGasCost, res.ReturnData}
	}

	EntryPoint.register([]nativeDef{
		{"handleOp", handleOp},
		{"simulateValidation", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			op := decodeOperation(env)
			res, err := EntryPoint.Native(env.State(), charger).
				SimulateValidation(newOpCalls(env), op, env.Caller(), env.Context().BaseFee)
			if err != nil {
				revertOperation(env, err)
			}
			data, err := validationResultErr.Encode(common.Address(res.Paymaster), res.PreFund, new(big.Int).SetUint64(res.ValidationGasUsed))
			if err != nil {
				panic(pkgerrors.WithMessage(err, "encode validation result"))
			}
			// always reverts, so simulation never mutates state
			env.Revert(data)
			return nil
		}},
		{"depositTo", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			var paymaster common.Address
			env.ParseArgs(&paymaster)

			if addr := thor.Address(paymaster); !addr.IsZero() {
				charger.Charge(thor.SloadGas)
				registered, err := Paymaster.IsDeployedAt(env.State(), addr)
				mustSucceed(env, err)
				if !registered {
					mustSucceed(env, reverts.New(ErrPaymasterNotRegistered))
				}
			}
			total, err := EntryPoint.Native(env.State(), charger).DepositTo(thor.Address(paymaster), env.Value())
			mustSucceed(env, err)

			env.Log(depositedEvent, []thor.Bytes32{addressTopic(thor.Address(paymaster))}, total)
			return nil
		}},
		{"balanceOf", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			var paymaster common.Address
			env.ParseArgs(&paymaster)
			bal, err := EntryPoint.Native(env.State(), charger).BalanceOf(thor.Address(paymaster))
			mustSucceed(env, err)
			return []any{bal}
		}},
		{"addStake", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			var unstakeDelaySec uint32
			env.ParseArgs(&unstakeDelaySec)

			// stake is always credited to the caller
			info, err := EntryPoint.Native(env.State(), charger).AddStake(env.Caller(), uint64(unstakeDelaySec), env.Value())
			mustSucceed(env, err)

			env.Log(stakeLockedEvent, []thor.Bytes32{addressTopic(env.Caller())},
				info.Amount, new(big.Int).SetUint64(info.UnstakeDelaySec))
			return nil
		}},
		{"getStakeInfo", func(env *xenv.Environment, charger *gascharger.Charger) []any {
			var paymaster common.Address
			env.ParseArgs(&paymaster)
			info, err := EntryPoint.Native(env.State(), charger).GetStakeInfo(thor.Address(paymaster))
			mustSucceed(env, err)
			return []any{info.Amount, new(big.Int).SetUint64(info.UnstakeDelaySec)}
		}},
	})
	EntryPoint.registerFallback(nativeDef{"handleOp", handleOp})
}
