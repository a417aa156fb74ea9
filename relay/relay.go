// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package relay hosts the EntryPoint: it serialises submissions, executes them
// over the persisted state and keeps receipts of handled operations.
package relay

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/gasless/abi"
	"github.com/vechain/gasless/builtin"
	"github.com/vechain/gasless/builtin/entrypoint"
	"github.com/vechain/gasless/builtin/paymaster"
	"github.com/vechain/gasless/cache"
	"github.com/vechain/gasless/genesis"
	"github.com/vechain/gasless/kv"
	"github.com/vechain/gasless/log"
	"github.com/vechain/gasless/runtime"
	"github.com/vechain/gasless/state"
	"github.com/vechain/gasless/thor"
	"github.com/vechain/gasless/userop"
	"github.com/vechain/gasless/xenv"
)

var logger = log.WithContext("pkg", "relay")

const (
	// DefaultGasLimit is the gas of every message the relay submits.
	DefaultGasLimit uint64 = 10_000_000
	// DefaultReceiptCacheSize is the number of receipts kept in memory.
	DefaultReceiptCacheSize = 1024

	stateBucket   kv.Bucket = "s"
	receiptBucket kv.Bucket = "r"
)

// StateStore returns the store of contract storage within db.
func StateStore(db kv.Store) kv.Store {
	return stateBucket.NewStore(db)
}

// Options of the relay.
type Options struct {
	BaseFee          *big.Int
	GasLimit         uint64
	ReceiptCacheSize int
}

// Relay executes submissions one at a time.
type Relay struct {
	lock     sync.Mutex
	states   kv.Store
	receipts kv.Store
	cache    *cache.LRU[thor.Bytes32, *Receipt]
	baseFee  *big.Int
	gasLimit uint64
}

// New creates a relay over db, whose genesis must be built.
func New(db kv.Store, opts Options) (*Relay, error) {
	if opts.BaseFee == nil {
		opts.BaseFee = thor.DefaultBaseFee
	}
	if opts.GasLimit == 0 {
		opts.GasLimit = DefaultGasLimit
	}
	if opts.ReceiptCacheSize <= 0 {
		opts.ReceiptCacheSize = DefaultReceiptCacheSize
	}

	lru, err := cache.NewLRU[thor.Bytes32, *Receipt](opts.ReceiptCacheSize)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "receipt cache")
	}

	r := &Relay{
		states:   StateStore(db),
		receipts: receiptBucket.NewStore(db),
		cache:    lru,
		baseFee:  new(big.Int).Set(opts.BaseFee),
		gasLimit: opts.GasLimit,
	}

	built, err := genesis.IsBuilt(r.states)
	if err != nil {
		return nil, err
	}
	if !built {
		return nil, ErrNoGenesis
	}
	return r, nil
}

// BaseFee returns the base fee pricing operations.
func (r *Relay) BaseFee() *big.Int {
	return new(big.Int).Set(r.baseFee)
}

// execute runs msg over the latest state. Changes are committed only if commit
// is set and the call succeeded.
func (r *Relay) execute(msg *xenv.Message, commit bool) (*xenv.Output, error) {
	st := state.New(r.states)
	rt := runtime.New(st, &xenv.Context{BaseFee: r.baseFee})

	msg.Gas = r.gasLimit
	out, err := rt.Execute(msg)
	if err != nil {
		return nil, err
	}
	if commit && out.Err == nil {
		if err := st.Stage().Commit(r.states); err != nil {
			return nil, pkgerrors.Wrap(err, "commit state")
		}
	}
	return out, nil
}

// call runs a mutation and commits it. read, if set, observes the committed
// state before the lock is released.
func (r *Relay) call(caller, to thor.Address, input []byte, value *big.Int, read func(st *state.State) error) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	out, err := r.execute(&xenv.Message{
		Caller: caller,
		To:     to,
		Input:  input,
		Value:  value,
	}, true)
	if err != nil {
		return err
	}
	if out.Err != nil {
		return callError(out.Err)
	}
	if read != nil {
		return read(state.New(r.states))
	}
	return nil
}

// callError maps the failure of a call into the error taxonomy.
func callError(err error) error {
	var revertErr *xenv.RevertError
	if !errors.As(err, &revertErr) {
		return err
	}
	if opErr := builtin.DecodeOperationError(revertErr.Data); opErr != nil {
		return opErr
	}
	switch reason := revertErr.Reason(); reason {
	case "":
		return err
	case paymaster.ReasonNotOwner:
		return ErrNotOwner
	case builtin.ErrPaymasterNotRegistered:
		return ErrPaymasterNotFound
	default:
		return &CallError{reason}
	}
}

func outcomeOf(err error) string {
	var (
		failedOp  *entrypoint.FailedOpError
		malformed *userop.MalformedError
		invariant *entrypoint.AccountingInvariantError
	)
	switch {
	case errors.As(err, &failedOp):
		return "failed_op"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.As(err, &invariant):
		return "invariant"
	default:
		return "error"
	}
}

// HandleOperation executes op submitted by submitter through the structured handleOp call.
func (r *Relay) HandleOperation(op *userop.UserOperation, submitter thor.Address) (*Receipt, error) {
	input, err := builtin.EntryPoint.EncodeInput("handleOp", op.ABIValue())
	if err != nil {
		return nil, &userop.MalformedError{Reason: err.Error()}
	}
	return r.submit(op, input, submitter)
}

// SubmitRaw executes an ABI encoded operation, either a handleOp call or the bare
// tuple which reaches the EntryPoint fallback.
func (r *Relay) SubmitRaw(data []byte, submitter thor.Address) (*Receipt, error) {
	args := data
	if id, err := abi.ExtractMethodID(data); err == nil {
		if m, found := builtin.EntryPoint.ABI.MethodByID(id); found && m.Name() == "handleOp" {
			args = data[4:]
		}
	}
	op, err := userop.Unpack(args)
	if err != nil {
		recordOutcome(outcomeOf(err))
		return nil, err
	}
	return r.submit(op, data, submitter)
}

func (r *Relay) submit(op *userop.UserOperation, input []byte, submitter thor.Address) (*Receipt, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	start := time.Now()
	out, err := r.execute(&xenv.Message{
		Caller: submitter,
		To:     builtin.EntryPoint.Address,
		Input:  input,
	}, true)
	if err != nil {
		recordOutcome("fault")
		logger.Error("failed to execute operation", "submitter", submitter, "err", err)
		return nil, err
	}
	if out.Err != nil {
		err := callError(out.Err)
		recordOutcome(outcomeOf(err))
		logger.Debug("operation rejected", "submitter", submitter, "target", op.Target, "err", err)
		return nil, err
	}

	res, err := builtin.DecodeExecutionResult(out.Data)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "decode execution result")
	}
	pm, _, _ := op.Paymaster()

	receipt := &Receipt{
		OpHash:        op.Hash(builtin.EntryPoint.Address),
		Submitter:     submitter,
		Paymaster:     pm,
		Target:        op.Target,
		Success:       res.Success,
		ActualGasUsed: res.ActualGasUsed,
		ActualGasCost: res.ActualGasCost,
		ReturnData:    res.ReturnData,
		Events:        out.Events,
		Timestamp:     uint64(start.Unix()),
	}
	// the state is committed already, a lost receipt is not worth failing for
	if err := r.saveReceipt(receipt); err != nil {
		logger.Warn("failed to save receipt", "hash", receipt.OpHash, "err", err)
	}

	if res.Success {
		recordOutcome("executed")
	} else {
		recordOutcome("reverted")
	}
	metricOperationGas().Observe(int64(res.ActualGasUsed))
	metricOperationDuration().Observe(time.Since(start).Milliseconds())
	r.recordDeposit(pm)

	logger.Debug("operation handled",
		"hash", receipt.OpHash,
		"paymaster", pm,
		"success", res.Success,
		"gasUsed", res.ActualGasUsed,
		"cost", res.ActualGasCost,
		"elapsed", time.Since(start),
	)
	return receipt, nil
}

// Simulate runs the validation of op without mutating any state.
func (r *Relay) Simulate(op *userop.UserOperation, submitter thor.Address) (*entrypoint.ValidationResult, error) {
	input, err := builtin.EntryPoint.EncodeInput("simulateValidation", op.ABIValue())
	if err != nil {
		return nil, &userop.MalformedError{Reason: err.Error()}
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	out, err := r.execute(&xenv.Message{
		Caller: submitter,
		To:     builtin.EntryPoint.Address,
		Input:  input,
	}, false)
	if err != nil {
		return nil, err
	}
	var revertErr *xenv.RevertError
	if !errors.As(out.Err, &revertErr) {
		if out.Err == nil {
			return nil, errors.New("simulation did not revert")
		}
		return nil, out.Err
	}
	if res, ok := builtin.DecodeValidationResult(revertErr.Data); ok {
		return res, nil
	}
	return nil, callError(out.Err)
}

// Deposit credits amount from sender to the deposit of the paymaster and
// returns the new deposit.
func (r *Relay) Deposit(sender, pm thor.Address, amount *big.Int) (*big.Int, error) {
	input := builtin.EntryPoint.MustEncodeInput("depositTo", common.Address(pm))
	var bal *big.Int
	if err := r.call(sender, builtin.EntryPoint.Address, input, amount, func(st *state.State) (err error) {
		bal, err = builtin.EntryPoint.Native(st, nil).BalanceOf(pm)
		return
	}); err != nil {
		return nil, err
	}
	recordDeposit(pm, bal)
	return bal, nil
}

// AddStake locks amount as stake of the paymaster, on behalf of its owner.
func (r *Relay) AddStake(caller, pm thor.Address, unstakeDelaySec uint32, amount *big.Int) (*entrypoint.StakeInfo, error) {
	if err := r.checkPaymaster(pm); err != nil {
		return nil, err
	}
	input := builtin.Paymaster.MustEncodeInput("addStake", unstakeDelaySec)
	var stake *entrypoint.StakeInfo
	if err := r.call(caller, pm, input, amount, func(st *state.State) (err error) {
		stake, err = builtin.EntryPoint.Native(st, nil).GetStakeInfo(pm)
		return
	}); err != nil {
		return nil, err
	}
	return stake, nil
}

// AddWhitelistAddress lets the paymaster sponsor operations submitted by account.
func (r *Relay) AddWhitelistAddress(caller, pm, account thor.Address) error {
	if err := r.checkPaymaster(pm); err != nil {
		return err
	}
	input := builtin.Paymaster.MustEncodeInput("addWhitelistAddress", common.Address(account))
	return r.call(caller, pm, input, nil, nil)
}

func (r *Relay) checkPaymaster(addr thor.Address) error {
	deployed, err := builtin.Paymaster.IsDeployedAt(state.New(r.states), addr)
	if err != nil {
		return err
	}
	if !deployed {
		return ErrPaymasterNotFound
	}
	return nil
}

// Paymaster returns the state of the paymaster at addr.
func (r *Relay) Paymaster(addr thor.Address) (*PaymasterInfo, error) {
	st := state.New(r.states)
	deployed, err := builtin.Paymaster.IsDeployedAt(st, addr)
	if err != nil {
		return nil, err
	}
	if !deployed {
		return nil, ErrPaymasterNotFound
	}

	pm := builtin.Paymaster.Native(st, addr, nil)
	owner, err := pm.Owner()
	if err != nil {
		return nil, err
	}
	ep, err := pm.EntryPoint()
	if err != nil {
		return nil, err
	}
	ledgers := builtin.EntryPoint.Native(st, nil)
	deposit, err := ledgers.BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	stake, err := ledgers.GetStakeInfo(addr)
	if err != nil {
		return nil, err
	}
	return &PaymasterInfo{
		Address:    addr,
		Owner:      owner,
		EntryPoint: ep,
		Deposit:    deposit,
		Stake:      stake,
	}, nil
}

// IsWhitelisted returns whether the paymaster sponsors account.
func (r *Relay) IsWhitelisted(pm, account thor.Address) (bool, error) {
	if err := r.checkPaymaster(pm); err != nil {
		return false, err
	}
	return builtin.Paymaster.Native(state.New(r.states), pm, nil).IsWhitelisted(account)
}

func (r *Relay) recordDeposit(pm thor.Address) {
	bal, err := builtin.EntryPoint.Native(state.New(r.states), nil).BalanceOf(pm)
	if err != nil {
		logger.Warn("failed to read deposit", "paymaster", pm, "err", err)
		return
	}
	recordDeposit(pm, bal)
}

func (r *Relay) saveReceipt(receipt *Receipt) error {
	data, err := rlp.EncodeToBytes(receipt)
	if err != nil {
		return err
	}
	if err := r.receipts.Put(receipt.OpHash.Bytes(), data); err != nil {
		return err
	}
	r.cache.Add(receipt.OpHash, receipt)
	return nil
}

// Receipt returns the receipt of the latest operation with the given hash, nil if none.
func (r *Relay) Receipt(hash thor.Bytes32) (*Receipt, error) {
	receipt, _, err := r.cache.GetOrLoad(hash, func(hash thor.Bytes32) (*Receipt, bool, error) {
		data, err := r.receipts.Get(hash.Bytes())
		if err != nil {
			if r.receipts.IsNotFound(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		var receipt Receipt
		if err := rlp.DecodeBytes(data, &receipt); err != nil {
			return nil, false, pkgerrors.Wrap(err, "decode receipt")
		}
		return &receipt, true, nil
	})
	if changed, hit, miss := r.cache.Stats().Stats(); changed {
		logger.Debug("receipt cache stats", "hit", hit, "miss", miss, "rate", r.cache.Stats().HitRate())
	}
	return receipt, err
}
