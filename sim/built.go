package sim

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// ScoredItem (cache.go) is the pre-simulation pairing; SimulatedItem is
// the post-simulation counterpart: the score and gas an already-simulated item actually
// produced, ready to be folded into a BuiltBlock.
//
// Grounded on original_source/crates/sim/src/outcome.rs's
// SimulatedItem.
type SimulatedItem struct {
	Score       uint256.Int
	GasUsed     uint64
	HostGasUsed uint64
	Item        Item
	// Transactions are the rollup transactions the simulation produced
	// for this item (one for a Tx item, possibly several for a Bundle).
	Transactions []*gethtypes.Transaction
	// HostTransactions are any host-side transactions the item's
	// settlement implies should accompany the block's publication (a
	// bundle's host_fills, for instance).
	HostTransactions []*gethtypes.Transaction
}

// BuiltBlock accumulates the rollup block under construction: the
// transactions (and any host-side companion transactions) accepted so
// far, plus running gas totals. Its content encoding and hash are
// memoized and cleared whenever new transactions are ingested.
//
// Grounded on original_source/crates/sim/src/built.rs's BuiltBlock.
type BuiltBlock struct {
	BlockNumber uint64

	mu           sync.Mutex
	transactions []*gethtypes.Transaction
	hostTxns     []*gethtypes.Transaction
	gasUsed      uint64
	hostGasUsed  uint64

	sealOnce   sync.Once
	rawEncoded []byte
	hash       common.Hash
}

// NewBuiltBlock returns an empty BuiltBlock targeting blockNumber.
func NewBuiltBlock(blockNumber uint64) *BuiltBlock {
	return &BuiltBlock{BlockNumber: blockNumber}
}

// GasUsed returns the rollup gas consumed by the block so far.
func (b *BuiltBlock) GasUsed() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gasUsed
}

// HostGasUsed returns the host-chain gas consumed by the block's
// companion transactions so far.
func (b *BuiltBlock) HostGasUsed() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hostGasUsed
}

// TxCount returns the number of rollup transactions accepted so far.
func (b *BuiltBlock) TxCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.transactions)
}

// IsEmpty reports whether the block has accepted no transactions yet.
func (b *BuiltBlock) IsEmpty() bool { return b.TxCount() == 0 }

// Transactions returns the rollup transactions accepted so far, in
// acceptance order.
func (b *BuiltBlock) Transactions() []*gethtypes.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*gethtypes.Transaction, len(b.transactions))
	copy(out, b.transactions)
	return out
}

// HostTransactions returns the host-side companion transactions
// accepted so far, in acceptance order.
func (b *BuiltBlock) HostTransactions() []*gethtypes.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*gethtypes.Transaction, len(b.hostTxns))
	copy(out, b.hostTxns)
	return out
}

// unsealLocked clears the memoized encoding/hash; called whenever new
// transactions are ingested. Must be called with mu held.
func (b *BuiltBlock) unsealLocked() {
	b.sealOnce = sync.Once{}
	b.rawEncoded = nil
	b.hash = common.Hash{}
}

// Ingest extends the block with a simulated item's outcome: its
// transactions, host companion transactions, and gas totals. Clears any
// memoized seal.
func (b *BuiltBlock) Ingest(item SimulatedItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsealLocked()
	b.gasUsed += item.GasUsed
	b.hostGasUsed += item.HostGasUsed
	b.transactions = append(b.transactions, item.Transactions...)
	b.hostTxns = append(b.hostTxns, item.HostTransactions...)
}

// seal computes and memoizes the block's raw encoding and contents
// hash, encoding every rollup transaction as a concatenated sequence of
// EIP-2718 typed-transaction envelopes (no length separators between
// them; each envelope is self-describing).
func (b *BuiltBlock) seal() {
	b.sealOnce.Do(func() {
		defer MetricsBlockSealCost(time.Now())
		var raw []byte
		for _, tx := range b.transactions {
			enc, err := tx.MarshalBinary()
			if err != nil {
				// A transaction that can no longer re-encode itself
				// indicates the block holds a malformed entry; this
				// should never happen for a transaction this package
				// itself appended.
				panic("sim: transaction failed to re-encode: " + err.Error())
			}
			raw = append(raw, enc...)
		}
		b.rawEncoded = raw
		b.hash = common.BytesToHash(crypto.Keccak256(raw))
	})
}

// EncodeRaw returns the block's sealed raw encoding: its rollup
// transactions concatenated as EIP-2718 envelopes.
func (b *BuiltBlock) EncodeRaw() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seal()
	return b.rawEncoded
}

// ContentsHash returns keccak256(EncodeRaw()), computing and memoizing
// it on first access.
func (b *BuiltBlock) ContentsHash() common.Hash {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seal()
	return b.hash
}
