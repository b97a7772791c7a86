package signing

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/init4tech/signet-node/market"
)

// testSigner adapts a raw ECDSA private key into a Signer.
type testSigner struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return &testSigner{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

func (s *testSigner) Address() common.Address { return s.addr }

func (s *testSigner) SignHash(hash common.Hash) ([]byte, error) {
	return crypto.Sign(hash.Bytes(), s.key)
}

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func TestUnsignedOrderRequiresChain(t *testing.T) {
	order := &market.Order{
		Deadline: big.NewInt(1000),
		Inputs:   []market.Input{{Token: addr(1), Amount: uint256.NewInt(100)}},
		Outputs:  []market.Output{{Token: addr(2), Amount: uint256.NewInt(100), Recipient: addr(3), ChainID: 1}},
	}
	signer := newTestSigner(t)
	if _, err := NewUnsignedOrder(order).Sign(signer); err != ErrMissingChainID {
		t.Fatalf("expected ErrMissingChainID, got %v", err)
	}
}

func TestUnsignedOrderSignsOwnerInputsAndDeadline(t *testing.T) {
	order := &market.Order{
		Deadline: big.NewInt(1000),
		Inputs:   []market.Input{{Token: addr(1), Amount: uint256.NewInt(100)}},
		Outputs:  []market.Output{{Token: addr(2), Amount: uint256.NewInt(100), Recipient: addr(3), ChainID: 1}},
	}
	signer := newTestSigner(t)
	signed, err := NewUnsignedOrder(order).WithChain(15, addr(9)).WithNonce(42).Sign(signer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if signed.Owner != signer.Address() {
		t.Fatalf("owner mismatch")
	}
	if len(signed.Permit.Permitted) != 1 || signed.Permit.Permitted[0].Token != addr(1) {
		t.Fatalf("permitted legs should mirror order inputs, got %+v", signed.Permit.Permitted)
	}
	if err := signed.Validate(500); err != nil {
		t.Fatalf("expected signed order to validate before its deadline: %v", err)
	}
	if err := signed.Validate(5000); err != ErrPermitExpired {
		t.Fatalf("expected ErrPermitExpired past the deadline, got %v", err)
	}
}

func TestUnsignedFillSignsOnePerDestinationChain(t *testing.T) {
	agg := market.NewAggregateOrders()
	agg.Ingest(&market.Order{
		Deadline: big.NewInt(1000),
		Inputs:   []market.Input{{Token: addr(1), Amount: uint256.NewInt(100)}},
		Outputs: []market.Output{
			{Token: addr(2), Amount: uint256.NewInt(100), Recipient: addr(3), ChainID: 1},
			{Token: addr(2), Amount: uint256.NewInt(50), Recipient: addr(4), ChainID: 2},
		},
	})

	signer := newTestSigner(t)
	fills, err := NewUnsignedFill(agg).
		WithChain(1, addr(10)).
		WithChain(2, addr(11)).
		WithDeadline(9999).
		Sign(signer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fills) != 2 {
		t.Fatalf("expected one fill per destination chain, got %d", len(fills))
	}
	for chainID, f := range fills {
		if err := f.Validate(1); err != nil {
			t.Fatalf("chain %d fill should validate: %v", chainID, err)
		}
	}
}

func TestSignedFillValidatePermitMismatch(t *testing.T) {
	f := &SignedFill{
		Permit: PermitBatchTransferFrom{
			Permitted: []TokenPermissions{{Token: addr(1), Amount: uint256.NewInt(10)}},
			Deadline:  big.NewInt(1000),
		},
		Outputs: []FillOutput{
			{Token: addr(1), Amount: uint256.NewInt(10), Recipient: addr(2), ChainID: 1},
			{Token: addr(1), Amount: uint256.NewInt(5), Recipient: addr(3), ChainID: 1},
		},
	}
	if err := f.Validate(1); err != ErrPermitMismatch {
		t.Fatalf("expected ErrPermitMismatch, got %v", err)
	}
}
