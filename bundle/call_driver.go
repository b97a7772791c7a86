package bundle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/init4tech/signet-node/evm"
	"github.com/init4tech/signet-node/market"
)

// CallBundleDriver runs a CallBundle to completion for the
// signet_callBundle RPC: it simulates every transaction against the
// chosen block environment and reports what happened, including which
// fills would be required to make the bundle's orders clear. Unlike
// SendBundleDriver, it never aborts on a missing fill; it only reports
// it.
//
// Grounded on original_source/crates/bundle/src/call/{trevm.rs,alloy.rs}
// and lib.rs's description of SignetBundleDriver.
type CallBundleDriver struct {
	bundle *CallBundle
}

// NewCallBundleDriver returns a driver for bundle.
func NewCallBundleDriver(b *CallBundle) *CallBundleDriver {
	return &CallBundleDriver{bundle: b}
}

// RunBundle executes the bundle's transactions against evmInst/header in
// order, building a CallBundleResponse. fillsAlreadyPresent is the
// host-side fills already known to be available (e.g. from a prior
// block); it is read but never mutated.
func (d *CallBundleDriver) RunBundle(evmInst *vm.EVM, gasPool *core.GasPool, header *gethtypes.Header, orderDriver *evm.Driver, fillsAlreadyPresent *market.AggregateFills, chainID uint64) (*CallBundleResponse, error) {
	resp := &CallBundleResponse{
		CoinbaseDiff:      new(big.Int),
		GasFees:           new(big.Int),
		EthSentToCoinbase: new(big.Int),
		StateBlockNumber:  header.Number.Uint64(),
	}

	coinbaseBefore := evmInst.StateDB.GetBalance(evmInst.Context.Coinbase)

	for _, raw := range d.bundle.Txs {
		tx := new(gethtypes.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			resp.Results = append(resp.Results, TxResult{Error: err.Error()})
			continue
		}

		receipt, err := orderDriver.ExecuteTx(evmInst, gasPool, header, tx)
		if err != nil {
			resp.Results = append(resp.Results, TxResult{TxHash: tx.Hash(), Error: err.Error()})
			continue
		}

		from, _ := gethtypes.Sender(gethtypes.LatestSignerForChainID(tx.ChainId()), tx)
		result := TxResult{
			TxHash:      tx.Hash(),
			GasUsed:     receipt.GasUsed,
			GasFees:     new(big.Int).Mul(header.BaseFee, new(big.Int).SetUint64(receipt.GasUsed)),
			FromAddress: from,
			ToAddress:   tx.To(),
			Value:       tx.Value(),
		}
		if receipt.Status == gethtypes.ReceiptStatusFailed {
			result.Error = "execution reverted"
		}
		resp.Results = append(resp.Results, result)
		resp.TotalGasUsed += receipt.GasUsed
		resp.GasFees.Add(resp.GasFees, result.GasFees)
	}

	coinbaseAfter := evmInst.StateDB.GetBalance(evmInst.Context.Coinbase)
	resp.CoinbaseDiff.Sub(coinbaseAfter.ToBig(), coinbaseBefore.ToBig())

	produced := orderDriver.Detector().AggregateFills(chainID)
	orders := orderDriver.Detector().AggregateOrders()
	for _, def := range fillsAlreadyPresent.ReportDeficits(produced, orders) {
		resp.RequiredFills = append(resp.RequiredFills, RequiredFill{
			ChainID:   def.ChainID,
			Asset:     def.Asset,
			Recipient: def.Recipient,
			Amount:    def.Missing.ToBig(),
		})
	}
	orderDriver.Detector().Reset()

	return resp, nil
}
