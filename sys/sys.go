// Package sys synthesizes pseudo-transactions from host-side bridge and
// call-forwarding events: native mints, token mints, and host-initiated
// Transact calls. Each one is turned into a transaction the block
// builder can append, plus a receipt carrying a single synthesized log.
//
// Grounded on original_source/crates/evm/src/sys/{mod.rs,native.rs,
// token.rs,transact.rs}.
package sys

import (
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/init4tech/signet-node/evm"
)

// MinTransactionGas is the floor gas limit given to every synthesized
// system transaction, matching ordinary intrinsic gas for a simple
// value transfer.
const MinTransactionGas = 21_000

// Output is produced by every system action: the transaction it
// corresponds to (for block inclusion), the single log it emits, and
// the sender the receipt should record for it.
type Output interface {
	Transaction() *gethtypes.Transaction
	Log() *gethtypes.Log
	Sender() common.Address
}

// Action is a system action applied directly against a StateView
// without going through interpreter execution (currently only native
// minting).
type Action interface {
	Output
	Apply(state evm.StateView)
}

func buildReceipt(logs []*gethtypes.Log, cumulativeGasUsed uint64) *gethtypes.Receipt {
	r := &gethtypes.Receipt{
		Status:            gethtypes.ReceiptStatusSuccessful,
		CumulativeGasUsed: cumulativeGasUsed,
		Logs:              logs,
	}
	return r
}
