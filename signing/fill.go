package signing

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/init4tech/signet-node/market"
)

// UnsignedFill is a builder that turns a market.AggregateOrders into one
// SignedFill per destination chain with correct permit2 semantics.
//
// Grounded on
// original_source/crates/zenith/src/orders/signing/fill.rs's
// UnsignedFill.
type UnsignedFill struct {
	orders   *market.AggregateOrders
	nonce    *uint64
	deadline *uint64
	chains   map[uint64]common.Address
}

// NewUnsignedFill returns an UnsignedFill wrapping orders.
func NewUnsignedFill(orders *market.AggregateOrders) *UnsignedFill {
	return &UnsignedFill{orders: orders, chains: make(map[uint64]common.Address)}
}

// WithNonce sets the permit2 nonce every signed fill will share.
// Optional: if never called, Sign/SignFor default it to the current
// microsecond timestamp.
func (u *UnsignedFill) WithNonce(nonce uint64) *UnsignedFill {
	u.nonce = &nonce
	return u
}

// WithDeadline sets the permit2 deadline every signed fill will share.
// Optional: if never called, Sign/SignFor default it to now + 12
// seconds, matching one host/rollup block's worth of slack.
func (u *UnsignedFill) WithDeadline(deadline uint64) *UnsignedFill {
	u.deadline = &deadline
	return u
}

// WithChain registers the Orders (destination) contract address for
// chainID, required before that chain's fill can be signed.
func (u *UnsignedFill) WithChain(chainID uint64, orderContract common.Address) *UnsignedFill {
	if u.chains == nil {
		u.chains = make(map[uint64]common.Address)
	}
	u.chains[chainID] = orderContract
	return u
}

// Sign produces a SignedFill for every destination chain id present in
// the wrapped aggregate, using signer to sign every chain's fill. Use
// when filling orders with the same signing key on every destination
// chain.
func (u *UnsignedFill) Sign(signer Signer) (map[uint64]*SignedFill, error) {
	fills := make(map[uint64]*SignedFill, len(u.orders.OutputChainIDs()))
	for _, chainID := range u.orders.OutputChainIDs() {
		f, err := u.SignFor(chainID, signer)
		if err != nil {
			return nil, err
		}
		fills[chainID] = f
	}
	return fills, nil
}

// SignFor signs only chainID's fill.
//
// Warning: all outputs must be filled on all destination chains, or the
// order's inputs will never be unlocked — take care when using this
// instead of Sign to split signing across multiple keys.
func (u *UnsignedFill) SignFor(chainID uint64, signer Signer) (*SignedFill, error) {
	orderContract, ok := u.chains[chainID]
	if !ok {
		return nil, &MissingOrderContractError{ChainID: chainID}
	}

	now := time.Now()
	nonce := uint64(now.UnixMicro())
	if u.nonce != nil {
		nonce = *u.nonce
	}
	deadline := uint64(now.Unix()) + 12
	if u.deadline != nil {
		deadline = *u.deadline
	}

	outputs := u.orders.OutputsForChain(chainID)
	permitted := make([]TokenPermissions, len(outputs))
	fillOutputs := make([]FillOutput, len(outputs))
	for i, out := range outputs {
		permitted[i] = TokenPermissions{Token: out.Token, Amount: out.Amount}
		fillOutputs[i] = FillOutput{Token: out.Token, Amount: out.Amount, Recipient: out.Recipient, ChainID: out.ChainID}
	}

	digest := permitWitnessSigningHash(chainID, orderContract, permitted, nonce, deadline, fillOutputs, deadline)
	sig, err := signer.SignHash(digest)
	if err != nil {
		return nil, err
	}

	return &SignedFill{
		Permit: PermitBatchTransferFrom{
			Permitted: permitted,
			Nonce:     new(big.Int).SetUint64(nonce),
			Deadline:  new(big.Int).SetUint64(deadline),
		},
		Owner:     signer.Address(),
		Signature: sig,
		Outputs:   fillOutputs,
	}, nil
}
