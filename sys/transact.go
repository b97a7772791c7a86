package sys

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/init4tech/signet-node/evm"
	"github.com/init4tech/signet-node/extract"
)

// ErrInsufficientGasRefund is returned when a Transact outcome's unused
// gas cannot be debited back from the sender because their rollup
// balance is too small. The caller must reject the transaction outcome
// (reverting any state change) but still records it as rejected rather
// than dropping it silently.
var ErrInsufficientGasRefund = errors.New("sys: insufficient balance to debit unused transact gas")

// Transact represents a host-initiated rollup call synthesized from a
// Transactor.Transact event, executed through the interpreter with the
// recorded sender, gas limit, and fee.
//
// Grounded on original_source/crates/evm/src/sys/transact.rs.
type Transact struct {
	Sender        common.Address
	To            common.Address
	Data          []byte
	GasLimit      uint64
	MaxFeePerGas  *big.Int
	Value         *uint256.Int
	Nonce         uint64
	RollupChainID uint64
}

// NewTransact builds a Transact from an extracted Transactor.Transact
// event and the sender's current rollup nonce.
func NewTransact(nonce uint64, rollupChainID uint64, e *extract.ExtractedEvent, value *uint256.Int, maxFeePerGas *big.Int) *Transact {
	ev := e.Event.Transact
	return &Transact{
		Sender:        ev.Sender,
		To:            ev.To,
		Data:          ev.Data,
		GasLimit:      ev.GasLimit,
		MaxFeePerGas:  maxFeePerGas,
		Value:         value,
		Nonce:         nonce,
		RollupChainID: rollupChainID,
	}
}

// Transaction returns the DynamicFeeTx the interpreter executes for
// this Transact event. Unlike mint transactions, this carries the real
// sender's nonce and is unsigned because it is fed to the EVM directly
// as a filled TxEnv rather than recovered from a signature.
func (t *Transact) Transaction() *gethtypes.Transaction {
	return gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   new(big.Int).SetUint64(t.RollupChainID),
		Nonce:     t.Nonce,
		GasTipCap: new(big.Int),
		GasFeeCap: t.MaxFeePerGas,
		Gas:       t.GasLimit,
		To:        &t.To,
		Value:     t.Value.ToBig(),
		Data:      t.Data,
	})
}

// DebitUnusedGas computes (base_fee * unused_gas) for a transaction that
// used gasUsed out of GasLimit, and attempts to debit it from the
// sender's balance. Returns ErrInsufficientGasRefund if the sender's
// balance cannot cover it; the caller must then reverse the EVM state
// change and record the outcome as rejected rather than accepted.
func (t *Transact) DebitUnusedGas(balance evm.StateView, baseFee *big.Int, gasUsed uint64) error {
	unused := t.GasLimit
	if gasUsed < unused {
		unused -= gasUsed
	} else {
		unused = 0
	}
	toDebit, overflow := uint256.FromBig(new(big.Int).Mul(baseFee, new(big.Int).SetUint64(unused)))
	if overflow {
		return ErrInsufficientGasRefund
	}
	if !balance.SubBalance(t.Sender, toDebit) {
		return ErrInsufficientGasRefund
	}
	return nil
}

// Log builds the synthesized Transact event recorded on this call's
// receipt.
func (t *Transact) Log(txHash common.Hash, logIndex uint64) *gethtypes.Log {
	var maxFee uint64
	if t.MaxFeePerGas.IsUint64() {
		maxFee = t.MaxFeePerGas.Uint64()
	} else {
		maxFee = ^uint64(0)
	}
	return transactLog(txHash, logIndex, t.Sender, t.Value, t.GasLimit, maxFee)
}
