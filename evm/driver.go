package evm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/init4tech/signet-node/constants"
	"github.com/init4tech/signet-node/market"
)

// TxOutput is anything the driver can append to a block as a
// transaction: a sys system action or a wrapped plain transaction. It
// exposes only the transaction itself.
type TxOutput interface {
	Transaction() *gethtypes.Transaction
}

// BlockResult accumulates everything produced while executing one
// rollup block: the transactions actually included, their receipts, and
// running totals needed for the journal and for market validation.
//
// Grounded on original_source/crates/evm/src/result.rs and the
// four-step pipeline in the EVM driver's host-block execution.
type BlockResult struct {
	Transactions []*gethtypes.Transaction
	Receipts     []*gethtypes.Receipt
	Rejected     int
	GasUsed      uint64

	Fills  *market.AggregateFills
	Orders *market.AggregateOrders
}

// NewBlockResult returns an empty BlockResult ready to accumulate one
// block's worth of execution.
func NewBlockResult() *BlockResult {
	return &BlockResult{
		Fills:  market.NewAggregateFills(),
		Orders: market.NewAggregateOrders(),
	}
}

// PushSystemOutcome appends a system transaction (mint-native,
// mint-token, or transact) and its receipt, updating GasUsed from the
// receipt's new cumulative total.
func (r *BlockResult) PushSystemOutcome(out TxOutput, receipt *gethtypes.Receipt) {
	r.Transactions = append(r.Transactions, out.Transaction())
	r.Receipts = append(r.Receipts, receipt)
	r.GasUsed = receipt.CumulativeGasUsed
}

// RejectOutcome records a transaction as rejected: it is not appended to
// Transactions/Receipts, but is tallied so callers can report it.
func (r *BlockResult) RejectOutcome() {
	r.Rejected++
}

// Driver executes a rollup block's worth of transactions against a
// gas-metered EVM + gas pool, maintaining the OrderDetector across call
// frames and folding every in-EVM Order/Filled event into the block's
// running market aggregates.
//
// Grounded on original_source/crates/evm/src/{lib.rs,driver.rs} and the
// teacher's miner/worker.go commitTransaction/ApplyTransaction idiom.
type Driver struct {
	constants constants.SystemConstants
	detector  *OrderDetector
}

// NewDriver returns a Driver configured for constants.
func NewDriver(c constants.SystemConstants) *Driver {
	return &Driver{constants: c, detector: NewOrderDetector()}
}

// Detector exposes the driver's OrderDetector so the interpreter layer
// (wired via vm.Config.Tracer in a full node) can report call-frame
// boundaries and decoded order/fill logs as they occur.
func (d *Driver) Detector() *OrderDetector { return d.detector }

// ExecuteTx runs tx through the EVM exactly the way a user transaction
// is committed, using the same gas-pool/state/header triple the block is
// being built against. On return, the driver's OrderDetector holds
// whatever Order/Filled events tx's execution produced; the caller is
// responsible for checking them against result.Fills/result.Orders
// before accepting the outcome.
func (d *Driver) ExecuteTx(evmInst *vm.EVM, gasPool *core.GasPool, header *gethtypes.Header, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	if !d.detector.IsComplete() {
		return nil, fmt.Errorf("evm: previous transaction left %d frame(s) open", len(d.detector.orders.frameBoundaries))
	}
	receipt, err := core.ApplyTransaction(evmInst, gasPool, evmInst.StateDB, header, tx, &header.GasUsed)
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// CheckAndAccept validates the events this driver's detector collected
// while executing one transaction against the block's accumulated
// market state, committing them on success. On failure the block's
// aggregates are left untouched and the caller should reject the
// transaction outcome instead of appending it.
func (d *Driver) CheckAndAccept(result *BlockResult, chainID uint64) error {
	produced := d.detector.AggregateFills(chainID)
	orders := d.detector.AggregateOrders()

	if err := result.Fills.CheckedRemoveRuTxEvents(produced, orders); err != nil {
		return err
	}
	for _, o := range d.detector.orders.Events() {
		order := o
		result.Orders.Ingest(&order)
	}
	d.detector.Reset()
	return nil
}
