package builder

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"

	"github.com/init4tech/signet-node/bundle"
	"github.com/init4tech/signet-node/constants"
	"github.com/init4tech/signet-node/evm"
	"github.com/init4tech/signet-node/sim"
)

// ErrNotOurWorker is returned by EVMEnv.Accept when handed a Worker it
// did not itself produce via NewWorker.
var ErrNotOurWorker = errors.New("builder: worker was not produced by this env")

// EVMEnv is the concrete, node-facing Env: a committed rollup StateDB,
// header, and chain config that every simulation round copies from, and
// the accepted round-winner is folded back into.
//
// Grounded on miner/worker.go's environment struct and copy method, and
// on original_source/crates/sim/src/env/shared.rs's SharedSimEnv.
type EVMEnv struct {
	constants   constants.SystemConstants
	chainID     uint64
	chainConfig *params.ChainConfig
	chain       core.ChainContext

	state  *state.StateDB
	header *gethtypes.Header
	block  *sim.BuiltBlock
	result *evm.BlockResult
}

// NewEVMEnv returns an EVMEnv ready to simulate candidates against
// header atop the committed state st. chainID identifies the rollup
// chain, used to attribute Filled events recorded during simulation.
func NewEVMEnv(c constants.SystemConstants, chainID uint64, chainConfig *params.ChainConfig, chain core.ChainContext, st *state.StateDB, header *gethtypes.Header) *EVMEnv {
	return &EVMEnv{
		constants:   c,
		chainID:     chainID,
		chainConfig: chainConfig,
		chain:       chain,
		state:       st,
		header:      gethtypes.CopyHeader(header),
		block:       sim.NewBuiltBlock(header.Number.Uint64()),
		result:      evm.NewBlockResult(),
	}
}

// BlockNumber returns the rollup block number under construction.
func (e *EVMEnv) BlockNumber() uint64 { return e.header.Number.Uint64() }

// Basefee returns the rollup block's base fee, or zero before EIP-1559.
func (e *EVMEnv) Basefee() uint64 {
	if e.header.BaseFee == nil {
		return 0
	}
	return e.header.BaseFee.Uint64()
}

// Block returns the block accumulated so far. Safe to call at any
// point, including mid-build; it reflects only accepted round winners.
func (e *EVMEnv) Block() *sim.BuiltBlock { return e.block }

// Result returns the running BlockResult (transactions, receipts,
// fills, and orders) accumulated from accepted round winners so far.
func (e *EVMEnv) Result() *evm.BlockResult { return e.result }

// NewWorker returns a fresh EVMWorker copied from e's committed state,
// the same deep-copy idiom as environment.copy() in miner/worker.go:
// a fresh StateDB, a fresh header, and a vm.EVM rebuilt against both.
func (e *EVMEnv) NewWorker() (Worker, error) {
	cpy := e.state.Copy()
	header := gethtypes.CopyHeader(e.header)

	remaining := e.result.GasUsed
	var gasLimit uint64
	if header.GasLimit > remaining {
		gasLimit = header.GasLimit - remaining
	}
	gasPool := new(core.GasPool).AddGas(gasLimit)

	driver := evm.NewDriver(e.constants)
	blockCtx := core.NewEVMBlockContext(header, e.chain, nil, e.chainConfig, cpy)
	// vm.Config's tracer (wiring driver.Detector() to interpreter
	// call-frame/log hooks) is assembled by the node that owns the
	// concrete tracing.Hooks type; this package only needs the
	// resulting Order/Filled events the driver exposes after the fact.
	evmInst := vm.NewEVM(blockCtx, cpy, e.chainConfig, vm.Config{})

	return &EVMWorker{
		state:   cpy,
		header:  header,
		gasPool: gasPool,
		evm:     evmInst,
		driver:  driver,
		result:  evm.NewBlockResult(),
		chainID: e.chainID,
		basefee: e.Basefee(),
	}, nil
}

// Accept folds w's outcome — its executed transactions, receipts, and
// market events — into e's committed state, promoting w's state and
// header to become the next round's starting point.
func (e *EVMEnv) Accept(w Worker, outcome *sim.SimulatedItem) error {
	ew, ok := w.(*EVMWorker)
	if !ok || ew == nil {
		return ErrNotOurWorker
	}

	if err := e.result.Fills.CheckedRemoveRuTxEvents(ew.result.Fills, ew.result.Orders); err != nil {
		return err
	}

	e.state = ew.state
	e.header = ew.header
	e.result.Transactions = append(e.result.Transactions, ew.result.Transactions...)
	e.result.Receipts = append(e.result.Receipts, ew.result.Receipts...)
	e.result.Rejected += ew.result.Rejected
	e.result.GasUsed += outcome.GasUsed
	e.header.GasUsed = e.result.GasUsed

	e.block.Ingest(*outcome)
	return nil
}

// EVMWorker is one round's speculative simulation attempt: a private
// StateDB/header/vm.EVM triple copied from an EVMEnv, against which
// exactly one candidate Item is executed.
type EVMWorker struct {
	state   *state.StateDB
	header  *gethtypes.Header
	gasPool *core.GasPool
	evm     *vm.EVM
	driver  *evm.Driver
	result  *evm.BlockResult
	chainID uint64
	basefee uint64
}

// Execute simulates item against w's private state, returning the
// outcome's score and gas usage. A bundle's internal transactions are
// run atomically: any violation discards the bundle's state changes
// entirely (SendBundleDriver.RunBundle's own snapshot/revert), and this
// method returns the resulting error rather than a partial outcome.
func (w *EVMWorker) Execute(item sim.Item, deadline time.Time) (*sim.SimulatedItem, error) {
	limiter := evm.NewTimeLimit(deadline)
	if err := limiter.Check(); err != nil {
		return nil, err
	}

	switch item.Kind() {
	case sim.KindBundle:
		return w.executeBundle(item)
	default:
		return w.executeTx(item)
	}
}

func (w *EVMWorker) executeTx(item sim.Item) (*sim.SimulatedItem, error) {
	tx := item.AsTx()
	receipt, err := w.driver.ExecuteTx(w.evm, w.gasPool, w.header, tx)
	if err != nil {
		w.result.RejectOutcome()
		return nil, err
	}
	if err := w.driver.CheckAndAccept(w.result, w.chainID); err != nil {
		w.result.RejectOutcome()
		return nil, err
	}
	w.result.PushSystemOutcome(txOutput{tx}, receipt)

	return &sim.SimulatedItem{
		Score:        *item.CalculateTotalFee(w.basefee),
		GasUsed:      receipt.GasUsed,
		Item:         item,
		Transactions: []*gethtypes.Transaction{tx},
	}, nil
}

func (w *EVMWorker) executeBundle(item sim.Item) (*sim.SimulatedItem, error) {
	b := item.AsBundle()
	beforeGas := w.result.GasUsed
	beforeTxCount := len(w.result.Transactions)

	bd := bundle.NewSendBundleDriver(b)
	if err := bd.RunBundle(w.evm, w.gasPool, w.header, w.driver, w.result, w.chainID); err != nil {
		return nil, err
	}

	var hostTxs []*gethtypes.Transaction
	if b.HostFills != nil {
		// No host-chain settlement transaction is built here: the
		// outcome carries no host transactions and HostGasUsed stays
		// zero even when the bundle has host fills.
		hostTxs = nil
	}

	return &sim.SimulatedItem{
		Score:            *item.CalculateTotalFee(w.basefee),
		GasUsed:          w.result.GasUsed - beforeGas,
		Item:             item,
		Transactions:     append([]*gethtypes.Transaction(nil), w.result.Transactions[beforeTxCount:]...),
		HostTransactions: hostTxs,
	}, nil
}

// txOutput adapts a plain *gethtypes.Transaction to evm.TxOutput.
type txOutput struct{ tx *gethtypes.Transaction }

func (t txOutput) Transaction() *gethtypes.Transaction { return t.tx }
