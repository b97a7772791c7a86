package bundle

import (
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// DecodeAndValidateTxs decodes each of the bundle's raw transaction
// bytes as a typed transaction envelope and rejects EIP-4844 blob
// transactions, which this driver never executes.
//
// Grounded on original_source/crates/bundle/src/send/bundle.rs's
// decode_and_validate_txs.
func (b *SignetEthBundle) DecodeAndValidateTxs() ([]*gethtypes.Transaction, error) {
	txs := make([]*gethtypes.Transaction, 0, len(b.Bundle.Txs))
	for _, raw := range b.Bundle.Txs {
		tx := new(gethtypes.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			return nil, newDecodingError(err)
		}
		txs = append(txs, tx)
	}
	for _, tx := range txs {
		if tx.Type() == gethtypes.BlobTxType {
			return nil, newError(UnsupportedTransactionType)
		}
	}
	return txs, nil
}
