package journal

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// InfoOutcomeKind tags an AcctDiff's account-level outcome.
type InfoOutcomeKind int

const (
	Created InfoOutcomeKind = iota
	Diff
	Destroyed
)

// AccountInfo is the subset of account state tracked by a diff: balance,
// nonce, and code hash.
type AccountInfo struct {
	Balance  *big.Int
	Nonce    uint64
	CodeHash common.Hash
}

func (a AccountInfo) equal(b AccountInfo) bool {
	return a.Nonce == b.Nonce && a.CodeHash == b.CodeHash &&
		((a.Balance == nil && b.Balance == nil) || (a.Balance != nil && b.Balance != nil && a.Balance.Cmp(b.Balance) == 0))
}

// InfoOutcome is the tagged {Created(info) | Diff(old,new) | Destroyed(info)}
// variant describing what happened to an account during a block.
type InfoOutcome struct {
	Kind InfoOutcomeKind
	Old  AccountInfo
	New  AccountInfo
}

// StorageSlot records a storage slot's previous and new value.
type StorageSlot struct {
	Prev, New *big.Int
}

// AcctDiff is one account's outcome plus its storage diff, keyed by
// U256 slot in the journal's BundleStateIndex.
type AcctDiff struct {
	Outcome     InfoOutcome
	StorageDiff map[string]StorageSlot // key = big.Int.Text(16) of the slot, ordered at serialization time
}

// BundleStateIndex is the ordered {address -> AcctDiff} plus
// {code_hash -> bytecode} map a journal serializes.
type BundleStateIndex struct {
	State        map[common.Address]AcctDiff
	NewContracts map[common.Hash][]byte
}

// NewBundleStateIndex returns an empty index.
func NewBundleStateIndex() *BundleStateIndex {
	return &BundleStateIndex{
		State:        make(map[common.Address]AcctDiff),
		NewContracts: make(map[common.Hash][]byte),
	}
}

// Revert restores an AcctDiff's old state (or marks the account deleted
// for Created) and rewrites each storage slot to its previous value.
// The caller supplies apply/destroy callbacks since BundleStateIndex
// itself holds no reference to a live state database.
func (d AcctDiff) Revert(setInfo func(AccountInfo), destroy func(), setStorage func(slot *big.Int, prev *big.Int)) {
	switch d.Outcome.Kind {
	case Created:
		destroy()
	case Diff:
		setInfo(d.Outcome.Old)
	case Destroyed:
		setInfo(d.Outcome.Old)
	}
	for k, slot := range d.StorageDiff {
		key, _ := new(big.Int).SetString(k, 16)
		setStorage(key, slot.Prev)
	}
}
