package signing

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/init4tech/signet-node/market"
)

// SignedOrder is an Order after it has been permit2-encoded and signed:
// the final format a user shares with fillers (directly, or via
// signet_sendOrder) to request that an order be filled. It authorizes
// the Orders contract to transfer the order's Inputs, but the rollup
// node only allows that transfer once the order's Outputs have been
// observed filled elsewhere — see market.AggregateFills.
//
// Grounded on
// original_source/crates/zenith/src/orders/signing/order.rs's
// SignedOrder.
type SignedOrder struct {
	Permit    PermitBatchTransferFrom
	Owner     common.Address
	Signature []byte
	Outputs   []FillOutput
}

// Validate checks that a SignedOrder can still be syntactically used to
// initiate an order as of timestamp: that its permit has not expired.
// Unlike SignedFill, an order's permitted legs are its inputs, not its
// outputs, so no pointwise outputs/permitted length check applies here.
func (o *SignedOrder) Validate(timestamp uint64) error {
	if o.Permit.Deadline != nil && o.Permit.Deadline.IsUint64() && o.Permit.Deadline.Uint64() < timestamp {
		return ErrPermitExpired
	}
	return nil
}

// UnsignedOrder is a builder that turns a market.Order into a
// SignedOrder with correct permit2 semantics:
//
//	signed, err := NewUnsignedOrder(order).WithChain(ruChainID, ordersAddr).Sign(signer)
//
// Grounded on
// original_source/crates/zenith/src/orders/signing/order.rs's
// UnsignedOrder.
type UnsignedOrder struct {
	order           *market.Order
	nonce           *uint64
	chainID         *uint64
	orderContract   common.Address
	hasOrderContract bool
}

// NewUnsignedOrder returns an UnsignedOrder wrapping order.
func NewUnsignedOrder(order *market.Order) *UnsignedOrder {
	return &UnsignedOrder{order: order}
}

// WithNonce sets the permit2 nonce this order will be signed with.
// Optional: if never called, Sign populates it from the current
// microsecond timestamp, the same scheme the original uses.
func (u *UnsignedOrder) WithNonce(nonce uint64) *UnsignedOrder {
	u.nonce = &nonce
	return u
}

// WithChain sets the target rollup chain id and the Orders contract
// address the permit's spender and EIP-712 domain resolve to. Required
// before Sign.
func (u *UnsignedOrder) WithChain(chainID uint64, orderContract common.Address) *UnsignedOrder {
	u.chainID = &chainID
	u.orderContract = orderContract
	u.hasOrderContract = true
	return u
}

// Sign produces a SignedOrder: the permit2 typed-data digest is
// computed over the order's inputs (as the permitted legs), its
// outputs (as the witness), and the chosen nonce/deadline, then signed
// by signer. If no nonce was set via WithNonce, one is derived from the
// current microsecond timestamp, the same scheme the original uses.
func (u *UnsignedOrder) Sign(signer Signer) (*SignedOrder, error) {
	if u.chainID == nil {
		return nil, ErrMissingChainID
	}
	if !u.hasOrderContract {
		return nil, &MissingOrderContractError{ChainID: *u.chainID}
	}

	nonce := uint64(time.Now().UnixMicro())
	if u.nonce != nil {
		nonce = *u.nonce
	}

	permitted := make([]TokenPermissions, len(u.order.Inputs))
	for i, in := range u.order.Inputs {
		permitted[i] = TokenPermissions{Token: in.Token, Amount: in.Amount}
	}
	outputs := make([]FillOutput, len(u.order.Outputs))
	for i, out := range u.order.Outputs {
		outputs[i] = FillOutput{Token: out.Token, Amount: out.Amount, Recipient: out.Recipient, ChainID: out.ChainID}
	}

	deadline := uint64(0)
	if u.order.Deadline != nil && u.order.Deadline.IsUint64() {
		deadline = u.order.Deadline.Uint64()
	}

	digest := permitWitnessSigningHash(*u.chainID, u.orderContract, permitted, nonce, deadline, outputs, deadline)
	sig, err := signer.SignHash(digest)
	if err != nil {
		return nil, err
	}

	return &SignedOrder{
		Permit: PermitBatchTransferFrom{
			Permitted: permitted,
			Nonce:     new(big.Int).SetUint64(nonce),
			Deadline:  new(big.Int).SetUint64(deadline),
		},
		Owner:     signer.Address(),
		Signature: sig,
		Outputs:   outputs,
	}, nil
}
