package bundle

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/init4tech/signet-node/evm"
)

// snapshotState is the subset of state.StateDB's snapshot API the
// send-bundle driver needs to discard a partially-applied bundle. Kept
// as a narrow interface, checked with a type assertion, so this package
// does not depend on state.StateDB's full surface.
type snapshotState interface {
	Snapshot() int
	RevertToSnapshot(int)
}

// SendBundleDriver runs a SignetEthBundle's transactions against a
// block under construction, enforcing the strict all-or-nothing rules
// a block builder requires: any violation discards every state change
// the bundle made and the bundle is dropped, never retried.
//
// Grounded on original_source/crates/bundle/src/send/driver.rs's
// SignetEthBundleDriver::run_bundle.
type SendBundleDriver struct {
	bundle   *SignetEthBundle
	response SignetEthBundleResponse
}

// NewSendBundleDriver returns a driver for bundle.
func NewSendBundleDriver(b *SignetEthBundle) *SendBundleDriver {
	return &SendBundleDriver{bundle: b}
}

// Response returns the bundle_hash response produced on success.
func (d *SendBundleDriver) Response() SignetEthBundleResponse { return d.response }

func (d *SendBundleDriver) revertAllowed(hash common.Hash) bool {
	for _, h := range d.bundle.Bundle.RevertingTxHashes {
		if h == hash {
			return true
		}
	}
	return false
}

// RunBundle executes the bundle's transactions in order against evmInst,
// honoring reverting_tx_hashes and then checking the block-building
// driver's accumulated order/fill market state. On any failure the
// bundle's state changes are fully discarded (via evmInst.StateDB's
// snapshot, when it implements one) and a *Error describing the abort
// reason is returned; the caller must not append any part of this
// bundle's outcome to the block.
func (d *SendBundleDriver) RunBundle(evmInst *vm.EVM, gasPool *core.GasPool, header *gethtypes.Header, orderDriver *evm.Driver, result *evm.BlockResult, chainID uint64) error {
	eb := d.bundle.Bundle

	if len(eb.Txs) == 0 {
		return newError(BundleEmpty)
	}
	if header.Number.Uint64() != eb.BlockNumber {
		return newError(BlockNumberMismatch)
	}
	if !d.bundle.IsValidAtTimestamp(header.Time) {
		return newError(TimestampOutOfRange)
	}

	txs, err := d.bundle.DecodeAndValidateTxs()
	if err != nil {
		return err
	}

	ss, hasSnap := evmInst.StateDB.(snapshotState)
	var bundleSnap int
	if hasSnap {
		bundleSnap = ss.Snapshot()
	}

	type outcome struct {
		tx      *gethtypes.Transaction
		receipt *gethtypes.Receipt
	}
	executed := make([]outcome, 0, len(txs))

	abort := func(kind Kind) error {
		if hasSnap {
			ss.RevertToSnapshot(bundleSnap)
		}
		return newError(kind)
	}

	for _, tx := range txs {
		receipt, err := orderDriver.ExecuteTx(evmInst, gasPool, header, tx)
		if err != nil {
			return abort(BundleReverted)
		}
		if receipt.Status == gethtypes.ReceiptStatusFailed && !d.revertAllowed(tx.Hash()) {
			return abort(BundleReverted)
		}
		executed = append(executed, outcome{tx: tx, receipt: receipt})
	}

	if err := orderDriver.CheckAndAccept(result, chainID); err != nil {
		if hasSnap {
			ss.RevertToSnapshot(bundleSnap)
		}
		return err
	}

	var cumulative uint64
	if n := len(result.Receipts); n > 0 {
		cumulative = result.Receipts[n-1].CumulativeGasUsed
	}
	hashes := make([]byte, 0, len(executed)*32)
	for _, o := range executed {
		result.Transactions = append(result.Transactions, o.tx)
		cumulative += o.receipt.GasUsed
		o.receipt.CumulativeGasUsed = cumulative
		result.Receipts = append(result.Receipts, o.receipt)
		h := o.tx.Hash()
		hashes = append(hashes, h[:]...)
	}
	result.GasUsed = cumulative

	d.response = SignetEthBundleResponse{BundleHash: common.BytesToHash(crypto.Keccak256(hashes))}
	return nil
}
