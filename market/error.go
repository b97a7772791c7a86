package market

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// MarketError is the error taxonomy for market processing, grounded on
// original_source/crates/types/src/agg/error.rs's InsufficientFill /
// MissingAsset variants.
type MarketError struct {
	Kind      MarketErrorKind
	ChainID   uint64
	Asset     common.Address
	Recipient common.Address
	Amount    *uint256.Int
}

// MarketErrorKind distinguishes the two MarketError variants.
type MarketErrorKind int

const (
	// InsufficientFill reports that a recipient's credited fill amount
	// for an asset on a chain was smaller than the order required.
	InsufficientFill MarketErrorKind = iota
	// MissingAsset reports that no fill entry at all existed for the
	// (chain, recipient, asset) the order required.
	MissingAsset
)

func (e *MarketError) Error() string {
	switch e.Kind {
	case InsufficientFill:
		return fmt.Sprintf(
			"insufficient fill when taking from context: expected %s of %s from %s on chain %d",
			e.Amount, e.Asset, e.Recipient, e.ChainID,
		)
	case MissingAsset:
		return fmt.Sprintf(
			"no fills of asset when taking from context: expected %s on chain %d",
			e.Asset, e.ChainID,
		)
	default:
		return "unknown market error"
	}
}

func newInsufficientFill(chainID uint64, asset, recipient common.Address, amount *uint256.Int) *MarketError {
	return &MarketError{Kind: InsufficientFill, ChainID: chainID, Asset: asset, Recipient: recipient, Amount: cloneAmount(amount)}
}

func newMissingAsset(chainID uint64, asset common.Address) *MarketError {
	return &MarketError{Kind: MissingAsset, ChainID: chainID, Asset: asset}
}
