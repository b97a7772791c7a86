package signing

import "github.com/ethereum/go-ethereum/common"

// Signer is the narrow capability UnsignedOrder.Sign and
// UnsignedFill.Sign need from a key holder: produce an owner address
// and a signature over an already-computed EIP-712 digest. A production
// node satisfies this with a thin adapter around its configured signer
// key material (see spec.md §6's "signer key material" env var).
type Signer interface {
	// Address returns the address whose key this signer holds; it
	// becomes the permit's Owner.
	Address() common.Address
	// SignHash signs a 32-byte digest and returns the raw signature
	// bytes (r || s || v).
	SignHash(hash common.Hash) ([]byte, error)
}
