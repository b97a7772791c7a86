// Package market implements the cross-chain order/fill accounting layer
//: running per-chain token obligations and the
// checked-subtraction primitive that enforces rollup inputs are only
// unlocked once a matching host-side fill has been observed.
package market

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Input is one leg of an Order's required rollup-side spend.
type Input struct {
	Token  common.Address
	Amount *uint256.Int
}

// Output is one leg of an Order's required destination-chain delivery,
// or of a Filled event's actual delivery.
type Output struct {
	Token     common.Address
	Amount    *uint256.Int
	Recipient common.Address
	ChainID   uint64
}

// Order is the user authorization: spend Inputs
// on the rollup iff every Output is produced on its destination chain
// before Deadline.
type Order struct {
	Deadline *big.Int
	Inputs   []Input
	Outputs  []Output
}

// Filled is the host-side (or in-EVM) event recording that a set of
// Outputs was actually delivered.
type Filled struct {
	Outputs []Output
}

func cloneAmount(a *uint256.Int) *uint256.Int {
	if a == nil {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Set(a)
}

// AmountFromBig converts a big.Int amount to a uint256.Int, reporting
// overflow rather than silently truncating.
func AmountFromBig(b *big.Int) (*uint256.Int, bool) {
	return uint256.FromBig(b)
}
