// Package signing builds and verifies the permit2-style typed-data
// signatures that authorize order fills and rollup-side order intents on
// the host chain, grounded on
// original_source/crates/zenith/src/orders/signing/{order.rs,fill.rs}.
package signing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Permit2Address is the canonical Uniswap Permit2 contract address, the
// fixed verifying contract for every order/fill typed-data digest.
var Permit2Address = common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3")

// TokenPermissions is one (token, amount) leg of a permit2 batch
// transfer authorization.
type TokenPermissions struct {
	Token  common.Address
	Amount *uint256.Int
}

// PermitBatchTransferFrom is the permit2 PermitBatchTransferFrom struct:
// a set of token permissions plus the replay-protection nonce and
// expiry that the owner's signature covers.
type PermitBatchTransferFrom struct {
	Permitted []TokenPermissions
	Nonce     *big.Int
	Deadline  *big.Int
}

// SignedFill is a permit2 batch transfer, signed by the owner, together
// with the destination-chain outputs it authorizes. One SignedFill
// always targets a single destination chain; an aggregate spanning
// multiple chains is represented as multiple SignedFills.
type SignedFill struct {
	Permit    PermitBatchTransferFrom
	Owner     common.Address
	Signature []byte
	Outputs   []FillOutput
}

// FillOutput mirrors market.Output but is the wire/signed shape used in
// a SignedFill, keeping the signing package independent of market's
// accounting types.
type FillOutput struct {
	Token     common.Address
	Amount    *uint256.Int
	Recipient common.Address
	ChainID   uint64
}

// Validate checks the syntactic well-formedness of a SignedFill as of
// timestamp: that its permit has not expired, and that its permitted
// token legs pointwise match its outputs in count, token, and amount.
// It does not check the signature itself or on-chain token balances;
// those require a verifying context (an ecrecover and a provider,
// respectively).
//
// Grounded on
// original_source/crates/zenith/src/orders/signing/fill.rs's
// SignedFill::validate.
func (f *SignedFill) Validate(timestamp uint64) error {
	if f.Permit.Deadline != nil && f.Permit.Deadline.IsUint64() && f.Permit.Deadline.Uint64() < timestamp {
		return ErrPermitExpired
	}
	if len(f.Outputs) != len(f.Permit.Permitted) {
		return ErrPermitMismatch
	}
	for i, out := range f.Outputs {
		p := f.Permit.Permitted[i]
		if out.Token != p.Token {
			return ErrPermitMismatch
		}
		if out.Amount == nil || p.Amount == nil || out.Amount.Cmp(p.Amount) != 0 {
			return ErrPermitMismatch
		}
	}
	return nil
}
