// Package sim holds the candidate pool the block builder draws from: a
// capacity-bounded, fee-ordered cache of pending transactions and
// bundles, read and mutated the way a builder's round loop needs —
// cheap inserts, cheap best-N reads, and periodic eviction of stale
// bundles.
//
// Grounded on original_source/crates/sim/src/{cache.rs,item.rs}.
package sim

import (
	"errors"
	"math/big"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/init4tech/signet-node/bundle"
)

// ErrBundleWithoutReplacementUUID is returned when a bundle without a
// replacement_uuid is offered to the cache: a bundle item can only be
// tracked and later superseded through its uuid.
var ErrBundleWithoutReplacementUUID = errors.New("sim: bundle has no replacement_uuid")

// ErrMalformedReplacementUUID is returned when a bundle's
// replacement_uuid is present but not a well-formed UUID.
var ErrMalformedReplacementUUID = errors.New("sim: bundle replacement_uuid is malformed")

// ItemKind distinguishes the two SimItem variants.
type ItemKind int

const (
	KindTx ItemKind = iota
	KindBundle
)

// Item is a candidate for inclusion in the block under construction:
// either a single transaction or a bundle, simulated and scored the
// same way.
//
// Grounded on original_source/crates/sim/src/item.rs's SimItem enum.
type Item struct {
	kind   ItemKind
	tx     *gethtypes.Transaction
	bundle *bundle.SignetEthBundle
}

// NewTxItem wraps a single transaction as a candidate item.
func NewTxItem(tx *gethtypes.Transaction) Item {
	return Item{kind: KindTx, tx: tx}
}

// NewBundleItem wraps b as a candidate item. Returns
// ErrBundleWithoutReplacementUUID if b carries no replacement_uuid,
// since a bundle without one cannot be identified or replaced later,
// and ErrMalformedReplacementUUID if it is not a well-formed UUID.
func NewBundleItem(b *bundle.SignetEthBundle) (Item, error) {
	if b.ReplacementUUID() == "" {
		return Item{}, ErrBundleWithoutReplacementUUID
	}
	if _, err := uuid.Parse(b.ReplacementUUID()); err != nil {
		return Item{}, ErrMalformedReplacementUUID
	}
	return Item{kind: KindBundle, bundle: b}, nil
}

// Kind reports which variant this item is.
func (it Item) Kind() ItemKind { return it.kind }

// AsTx returns the wrapped transaction, or nil if this item is a bundle.
func (it Item) AsTx() *gethtypes.Transaction {
	if it.kind != KindTx {
		return nil
	}
	return it.tx
}

// AsBundle returns the wrapped bundle, or nil if this item is a
// transaction.
func (it Item) AsBundle() *bundle.SignetEthBundle {
	if it.kind != KindBundle {
		return nil
	}
	return it.bundle
}

// Identifier returns a stable string identifying this item: the
// transaction hash for a Tx item, or the replacement_uuid for a Bundle
// item. Used to track the cache's contents for tests and for
// deduplicating replacements.
func (it Item) Identifier() string {
	switch it.kind {
	case KindBundle:
		return it.bundle.ReplacementUUID()
	default:
		return it.tx.Hash().Hex()
	}
}

// effectiveGasPrice returns min(feeCap, basefee+tipCap), the price a
// transaction actually pays per unit of gas at the given base fee.
func effectiveGasPrice(tx *gethtypes.Transaction, basefee uint64) *big.Int {
	feeCap := tx.GasFeeCap()
	tipCap := tx.GasTipCap()
	effTip := new(big.Int).Add(new(big.Int).SetUint64(basefee), tipCap)
	if effTip.Cmp(feeCap) > 0 {
		return new(big.Int).Set(feeCap)
	}
	return effTip
}

// txFee returns tx's effective gas price times its gas limit: the
// maximum fee it could pay at the given base fee.
func txFee(tx *gethtypes.Transaction, basefee uint64) *big.Int {
	price := effectiveGasPrice(tx, basefee)
	return new(big.Int).Mul(price, new(big.Int).SetUint64(tx.Gas()))
}

// CalculateTotalFee returns the maximum gas fee this item could pay at
// basefee: the single transaction's fee for a Tx item, or the sum of
// every decodable transaction's fee for a Bundle item. Used purely as a
// heuristic to order simulation, not as a guarantee of what will
// actually be paid.
func (it Item) CalculateTotalFee(basefee uint64) *uint256.Int {
	total := new(big.Int)
	switch it.kind {
	case KindBundle:
		for _, raw := range it.bundle.Bundle.Txs {
			tx := new(gethtypes.Transaction)
			if err := tx.UnmarshalBinary(raw); err != nil {
				continue
			}
			total.Add(total, txFee(tx, basefee))
		}
	default:
		total.Add(total, txFee(it.tx, basefee))
	}
	v, _ := uint256.FromBig(total)
	return v
}
