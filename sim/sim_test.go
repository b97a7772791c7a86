package sim

import (
	"math/big"
	"testing"

	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/init4tech/signet-node/bundle"
)

func dynamicFeeTx(nonce uint64, gasLimit uint64, feeCap, tipCap int64) *gethtypes.Transaction {
	return gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   big.NewInt(1),
		Nonce:     nonce,
		GasTipCap: big.NewInt(tipCap),
		GasFeeCap: big.NewInt(feeCap),
		Gas:       gasLimit,
		Value:     new(big.Int),
	})
}

func TestAddItemAndReadBestOrdersByScore(t *testing.T) {
	c := New()

	low := NewTxItem(dynamicFeeTx(0, 100_000, 10, 1))
	high := NewTxItem(dynamicFeeTx(1, 100_000, 100, 10))

	c.AddItem(low, 5)
	c.AddItem(high, 5)

	best := c.ReadBest(2)
	if len(best) != 2 {
		t.Fatalf("expected 2 items, got %d", len(best))
	}
	if best[0].Item.Identifier() != high.Identifier() {
		t.Fatalf("expected highest-fee item first")
	}
}

func TestAddItemDiscardsBelowMinimumGas(t *testing.T) {
	c := New()
	tiny := NewTxItem(dynamicFeeTx(0, 1, 1, 0))
	c.AddItem(tiny, 0)
	if c.Len() != 0 {
		t.Fatalf("expected item scoring below minimum gas to be discarded, got len %d", c.Len())
	}
}

func TestCacheEvictsLowestOverCapacity(t *testing.T) {
	c := NewWithCapacity(1)
	low := NewTxItem(dynamicFeeTx(0, 100_000, 10, 1))
	high := NewTxItem(dynamicFeeTx(1, 100_000, 1000, 100))

	c.AddItem(low, 5)
	c.AddItem(high, 5)

	if c.Len() != 1 {
		t.Fatalf("expected capacity-bounded cache to hold 1 item, got %d", c.Len())
	}
	best := c.ReadBest(1)
	if best[0].Item.Identifier() != high.Identifier() {
		t.Fatalf("expected the higher-fee item to survive eviction")
	}
}

func TestNewBundleItemRequiresReplacementUUID(t *testing.T) {
	b := &bundle.SignetEthBundle{}
	if _, err := NewBundleItem(b); err != ErrBundleWithoutReplacementUUID {
		t.Fatalf("expected ErrBundleWithoutReplacementUUID, got %v", err)
	}

	b.Bundle.ReplacementUUID = "11111111-1111-1111-1111-111111111111"
	item, err := NewBundleItem(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Kind() != KindBundle {
		t.Fatalf("expected a bundle item")
	}
}
